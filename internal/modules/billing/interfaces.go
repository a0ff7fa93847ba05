package billing

import (
	"context"

	"tallermotos/internal/domain"
)

type orderReader interface {
	GetByID(ctx context.Context, id int64) (*domain.WorkOrder, error)
	UpdatePaymentState(ctx context.Context, id int64, state domain.PaymentState) error
}

type lineItemReader interface {
	ListServiceLines(ctx context.Context, orderID int64) ([]domain.ServiceLine, error)
	ListPartUsages(ctx context.Context, orderID int64) ([]domain.PartUsage, error)
}

type paymentRepo interface {
	Create(ctx context.Context, p *domain.Payment) error
	ListByOrder(ctx context.Context, orderID int64) ([]domain.Payment, error)
}

type historyAppender interface {
	Append(ctx context.Context, e *domain.HistoryEntry) error
}
