package worksession

import "tallermotos/internal/domain"

type RegisterOrderRequest struct {
	BikeID             int64           `json:"bike_id" binding:"required"`
	MechanicID         int64           `json:"mechanic_id"`
	Priority           domain.Priority `json:"priority"`
	ProblemDescription string          `json:"problem_description" binding:"required"`
}

type DiagnoseRequest struct {
	Diagnosis string `json:"diagnosis" binding:"required"`
}

type ServiceLineInput struct {
	ServiceID    int64   `json:"service_id" binding:"required"`
	AppliedPrice float64 `json:"applied_price"`
	Notes        string  `json:"notes"`
}

type PartUsageInput struct {
	PartID    int64   `json:"part_id" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required"`
	UnitPrice float64 `json:"unit_price"`
}

type StartWorkRequest struct {
	ServiceLines []ServiceLineInput `json:"service_lines"`
	PartUsages   []PartUsageInput   `json:"part_usages"`
}

type CancelRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ItemOutcome records the fate of one batch item. Batches are applied
// best-effort: one item failing does not roll back the others.
type ItemOutcome struct {
	Kind   string `json:"kind"` // "service_line" or "part_usage"
	Index  int    `json:"index"`
	ID     int64  `json:"id,omitempty"`
	Reason string `json:"reason,omitempty"`
}

type BatchReport struct {
	Created []ItemOutcome `json:"created"`
	Failed  []ItemOutcome `json:"failed"`
}

// Partial reports whether some items succeeded and some failed.
func (b BatchReport) Partial() bool {
	return len(b.Created) > 0 && len(b.Failed) > 0
}

// Result is the outcome of a single-write transition. HistoryErr carries a
// failed audit append; the state mutation itself still succeeded.
type Result struct {
	Order      *domain.WorkOrder
	HistoryErr error
}

// StartWorkResult couples the state transition with the per-item batch
// outcomes.
type StartWorkResult struct {
	Order      *domain.WorkOrder
	Batch      BatchReport
	HistoryErr error
}
