package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"tallermotos/internal/domain"
)

type HistoryRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

type historyModel struct {
	ID            int64     `gorm:"column:id;primaryKey"`
	OrderID       int64     `gorm:"column:order_id;index"`
	PreviousState string    `gorm:"column:previous_state"`
	NewState      string    `gorm:"column:new_state"`
	Comment       *string   `gorm:"column:comment;type:text"`
	ActorUserID   int64     `gorm:"column:actor_user_id"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

func (historyModel) TableName() string { return "order_history" }

func toDomainHistory(m historyModel) domain.HistoryEntry {
	var comment string
	if m.Comment != nil {
		comment = *m.Comment
	}
	return domain.HistoryEntry{
		ID:            m.ID,
		OrderID:       m.OrderID,
		PreviousState: domain.OrderState(m.PreviousState),
		NewState:      domain.OrderState(m.NewState),
		Comment:       comment,
		ActorUserID:   m.ActorUserID,
		CreatedAt:     m.CreatedAt,
	}
}

// Append inserts a history entry. Entries are never updated or deleted.
func (r *HistoryRepository) Append(ctx context.Context, e *domain.HistoryEntry) error {
	var comment *string
	if e.Comment != "" {
		v := e.Comment
		comment = &v
	}
	m := historyModel{
		OrderID:       e.OrderID,
		PreviousState: string(e.PreviousState),
		NewState:      string(e.NewState),
		Comment:       comment,
		ActorUserID:   e.ActorUserID,
	}
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*e = toDomainHistory(m)
	return nil
}

// ListByOrder returns entries newest-first, the display order.
func (r *HistoryRepository) ListByOrder(ctx context.Context, orderID int64) ([]domain.HistoryEntry, error) {
	var models []historyModel
	tx := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("created_at DESC, id DESC").Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.HistoryEntry, 0, len(models))
	for _, m := range models {
		out = append(out, toDomainHistory(m))
	}
	return out, nil
}
