package remote

import (
	"context"
	"fmt"

	"tallermotos/internal/domain"
)

type PaymentRepository struct {
	c *Client
}

func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	var out domain.Payment
	resp, err := r.c.write.R().
		SetContext(ctx).
		SetBody(p).
		SetResult(&out).
		Post(fmt.Sprintf("/api/orders/%d/payments", p.OrderID))
	if err := mapStatus(resp, err); err != nil {
		return err
	}
	*p = out
	return nil
}

func (r *PaymentRepository) ListByOrder(ctx context.Context, orderID int64) ([]domain.Payment, error) {
	var out []domain.Payment
	resp, err := r.c.read.R().
		SetContext(ctx).
		SetResult(&out).
		Get(fmt.Sprintf("/api/orders/%d/payments", orderID))
	if err := mapStatus(resp, err); err != nil {
		return nil, err
	}
	return out, nil
}
