package remote

import (
	"context"
	"fmt"

	"tallermotos/internal/domain"
)

type HistoryRepository struct {
	c *Client
}

func (r *HistoryRepository) Append(ctx context.Context, e *domain.HistoryEntry) error {
	var out domain.HistoryEntry
	resp, err := r.c.write.R().
		SetContext(ctx).
		SetBody(e).
		SetResult(&out).
		Post(fmt.Sprintf("/api/orders/%d/history", e.OrderID))
	if err := mapStatus(resp, err); err != nil {
		return err
	}
	*e = out
	return nil
}

func (r *HistoryRepository) ListByOrder(ctx context.Context, orderID int64) ([]domain.HistoryEntry, error) {
	var out []domain.HistoryEntry
	resp, err := r.c.read.R().
		SetContext(ctx).
		SetResult(&out).
		Get(fmt.Sprintf("/api/orders/%d/history", orderID))
	if err := mapStatus(resp, err); err != nil {
		return nil, err
	}
	return out, nil
}
