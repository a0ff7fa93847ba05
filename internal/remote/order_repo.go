package remote

import (
	"context"
	"fmt"

	"tallermotos/internal/domain"
)

type OrderRepository struct {
	c *Client
}

func (r *OrderRepository) Create(ctx context.Context, o *domain.WorkOrder) error {
	var out domain.WorkOrder
	resp, err := r.c.write.R().
		SetContext(ctx).
		SetBody(o).
		SetResult(&out).
		Post("/api/orders")
	if err := mapStatus(resp, err); err != nil {
		return err
	}
	*o = out
	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*domain.WorkOrder, error) {
	var out domain.WorkOrder
	resp, err := r.c.read.R().
		SetContext(ctx).
		SetResult(&out).
		Get(fmt.Sprintf("/api/orders/%d", id))
	if err := mapStatus(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *OrderRepository) UpdateDiagnosis(ctx context.Context, id int64, diagnosis string, state domain.OrderState) error {
	return r.patch(ctx, id, map[string]any{
		"diagnosis": diagnosis,
		"state":     state,
	})
}

func (r *OrderRepository) UpdateState(ctx context.Context, id int64, state domain.OrderState) error {
	return r.patch(ctx, id, map[string]any{"state": state})
}

func (r *OrderRepository) UpdateTotals(ctx context.Context, id int64, serviceTotal, partTotal, orderTotal float64, state domain.OrderState) error {
	return r.patch(ctx, id, map[string]any{
		"service_total": serviceTotal,
		"part_total":    partTotal,
		"order_total":   orderTotal,
		"state":         state,
	})
}

func (r *OrderRepository) UpdatePaymentState(ctx context.Context, id int64, state domain.PaymentState) error {
	return r.patch(ctx, id, map[string]any{"payment_state": state})
}

func (r *OrderRepository) patch(ctx context.Context, id int64, body map[string]any) error {
	resp, err := r.c.write.R().
		SetContext(ctx).
		SetBody(body).
		Patch(fmt.Sprintf("/api/orders/%d", id))
	return mapStatus(resp, err)
}
