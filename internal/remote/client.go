// Package remote implements the order-store repositories over the shop's
// authoritative REST backend. Reads are retried with backoff; writes are
// issued exactly once, a timed-out write is reported as failed rather than
// retried.
package remote

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"tallermotos/internal/repository"
)

const (
	requestTimeout = 10 * time.Second
	readRetries    = 2
	retryWait      = 300 * time.Millisecond
)

type Client struct {
	baseURL string
	read    *resty.Client
	write   *resty.Client
}

func NewClient(baseURL string) *Client {
	read := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(requestTimeout).
		SetRetryCount(readRetries).
		SetRetryWaitTime(retryWait).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		})

	write := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(requestTimeout)

	return &Client{baseURL: baseURL, read: read, write: write}
}

func (c *Client) Orders() *OrderRepository       { return &OrderRepository{c: c} }
func (c *Client) LineItems() *LineItemRepository { return &LineItemRepository{c: c} }
func (c *Client) Payments() *PaymentRepository   { return &PaymentRepository{c: c} }
func (c *Client) History() *HistoryRepository    { return &HistoryRepository{c: c} }
func (c *Client) Parts() *PartRepository         { return &PartRepository{c: c} }

// mapStatus translates backend responses into the shared repository error
// vocabulary.
func mapStatus(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %v", repository.ErrUnavailable, err)
	}
	switch {
	case resp.StatusCode() < http.StatusMultipleChoices:
		return nil
	case resp.StatusCode() == http.StatusNotFound:
		return repository.ErrNotFound
	case resp.StatusCode() == http.StatusConflict:
		return repository.ErrConflict
	case resp.StatusCode() >= http.StatusInternalServerError:
		return fmt.Errorf("%w: backend returned %d", repository.ErrUnavailable, resp.StatusCode())
	default:
		return fmt.Errorf("backend returned %d: %s", resp.StatusCode(), resp.Body())
	}
}
