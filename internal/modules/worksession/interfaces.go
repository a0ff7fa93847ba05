package worksession

import (
	"context"

	"tallermotos/internal/domain"
)

// OrderRepository is the order store surface the coordinator writes through.
type OrderRepository interface {
	Create(ctx context.Context, o *domain.WorkOrder) error
	GetByID(ctx context.Context, id int64) (*domain.WorkOrder, error)
	UpdateDiagnosis(ctx context.Context, id int64, diagnosis string, state domain.OrderState) error
	UpdateState(ctx context.Context, id int64, state domain.OrderState) error
	UpdateTotals(ctx context.Context, id int64, serviceTotal, partTotal, orderTotal float64, state domain.OrderState) error
}

type LineItemRepository interface {
	CreateServiceLine(ctx context.Context, l *domain.ServiceLine) error
	CreatePartUsage(ctx context.Context, p *domain.PartUsage) error
	ListServiceLines(ctx context.Context, orderID int64) ([]domain.ServiceLine, error)
	ListPartUsages(ctx context.Context, orderID int64) ([]domain.PartUsage, error)
}

// StockChecker performs the optimistic stock pre-check. The store remains
// authoritative: a passing pre-check can still lose to a concurrent consumer.
type StockChecker interface {
	CheckStock(ctx context.Context, partID int64, qty int) (bool, error)
}

type HistoryRepository interface {
	Append(ctx context.Context, e *domain.HistoryEntry) error
	ListByOrder(ctx context.Context, orderID int64) ([]domain.HistoryEntry, error)
}
