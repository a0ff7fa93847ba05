package domain

import "time"

// HistoryEntry is an append-only audit record for a work order. Entries are
// never mutated or deleted; PreviousState may equal NewState for pure
// comments.
type HistoryEntry struct {
	ID            int64      `json:"id"`
	OrderID       int64      `json:"order_id"`
	PreviousState OrderState `json:"previous_state"`
	NewState      OrderState `json:"new_state"`
	Comment       string     `json:"comment,omitempty"`
	ActorUserID   int64      `json:"actor_user_id"`
	CreatedAt     time.Time  `json:"created_at"`
}
