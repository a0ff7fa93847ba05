package remote

import (
	"context"
	"fmt"
	"strconv"

	"tallermotos/internal/domain"
)

type PartRepository struct {
	c *Client
}

func (r *PartRepository) GetByID(ctx context.Context, id int64) (*domain.Part, error) {
	var out domain.Part
	resp, err := r.c.read.R().
		SetContext(ctx).
		SetResult(&out).
		Get(fmt.Sprintf("/api/parts/%d", id))
	if err := mapStatus(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

type stockCheckAnswer struct {
	Sufficient bool `json:"sufficient"`
}

// CheckStock asks the backend whether qty units are currently available.
// Advisory: stock may be consumed between this check and the usage write.
func (r *PartRepository) CheckStock(ctx context.Context, partID int64, qty int) (bool, error) {
	var out stockCheckAnswer
	resp, err := r.c.read.R().
		SetContext(ctx).
		SetQueryParam("quantity", strconv.Itoa(qty)).
		SetResult(&out).
		Get(fmt.Sprintf("/api/parts/%d/stock-check", partID))
	if err := mapStatus(resp, err); err != nil {
		return false, err
	}
	return out.Sufficient, nil
}
