package remote

import (
	"context"
	"fmt"
	"net/http"

	"tallermotos/internal/domain"
	"tallermotos/internal/repository"
)

type LineItemRepository struct {
	c *Client
}

func (r *LineItemRepository) CreateServiceLine(ctx context.Context, l *domain.ServiceLine) error {
	var out domain.ServiceLine
	resp, err := r.c.write.R().
		SetContext(ctx).
		SetBody(l).
		SetResult(&out).
		Post(fmt.Sprintf("/api/orders/%d/service-lines", l.OrderID))
	if err := mapStatus(resp, err); err != nil {
		return err
	}
	*l = out
	return nil
}

func (r *LineItemRepository) CreatePartUsage(ctx context.Context, p *domain.PartUsage) error {
	var out domain.PartUsage
	resp, err := r.c.write.R().
		SetContext(ctx).
		SetBody(p).
		SetResult(&out).
		Post(fmt.Sprintf("/api/orders/%d/part-usages", p.OrderID))
	if err != nil {
		return fmt.Errorf("%w: %v", repository.ErrUnavailable, err)
	}
	// The backend owns stock; it answers 409 when a concurrent consumer won
	// the race the optimistic pre-check could not see.
	if resp.StatusCode() == http.StatusConflict {
		return repository.ErrStockInsufficient
	}
	if err := mapStatus(resp, nil); err != nil {
		return err
	}
	*p = out
	return nil
}

func (r *LineItemRepository) ListServiceLines(ctx context.Context, orderID int64) ([]domain.ServiceLine, error) {
	var out []domain.ServiceLine
	resp, err := r.c.read.R().
		SetContext(ctx).
		SetResult(&out).
		Get(fmt.Sprintf("/api/orders/%d/service-lines", orderID))
	if err := mapStatus(resp, err); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *LineItemRepository) ListPartUsages(ctx context.Context, orderID int64) ([]domain.PartUsage, error) {
	var out []domain.PartUsage
	resp, err := r.c.read.R().
		SetContext(ctx).
		SetResult(&out).
		Get(fmt.Sprintf("/api/orders/%d/part-usages", orderID))
	if err := mapStatus(resp, err); err != nil {
		return nil, err
	}
	return out, nil
}
