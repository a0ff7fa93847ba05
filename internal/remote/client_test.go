package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"tallermotos/internal/domain"
	"tallermotos/internal/repository"
)

func TestOrderRepository_GetByID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/orders/7", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(domain.WorkOrder{
			ID:          7,
			OrderNumber: "OT-2026-ABCD1234",
			State:       domain.OrderDiagnosed,
		})
	}))
	defer srv.Close()

	order, err := NewClient(srv.URL).Orders().GetByID(context.Background(), 7)

	assert.NoError(t, err)
	assert.Equal(t, "OT-2026-ABCD1234", order.OrderNumber)
	assert.Equal(t, domain.OrderDiagnosed, order.State)
}

func TestOrderRepository_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Orders().GetByID(context.Background(), 99)

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

// Reads retry on 5xx; the second attempt succeeds.
func TestReads_RetryOnServerError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(domain.WorkOrder{ID: 7, State: domain.OrderReceived})
	}))
	defer srv.Close()

	order, err := NewClient(srv.URL).Orders().GetByID(context.Background(), 7)

	assert.NoError(t, err)
	assert.Equal(t, int64(7), order.ID)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

// Writes never retry: a failed create must reach the backend at most once.
func TestWrites_NoRetry(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := NewClient(srv.URL).Orders().Create(context.Background(), &domain.WorkOrder{BikeID: 5})

	assert.ErrorIs(t, err, repository.ErrUnavailable)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestCreatePartUsage_ConflictMeansNoStock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/orders/7/part-usages", r.URL.Path)
		w.WriteHeader(http.StatusConflict)
	}))
	defer srv.Close()

	err := NewClient(srv.URL).LineItems().CreatePartUsage(context.Background(), &domain.PartUsage{
		OrderID:  7,
		PartID:   12,
		Quantity: 2,
	})

	assert.ErrorIs(t, err, repository.ErrStockInsufficient)
}

func TestCheckStock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/parts/12/stock-check", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("quantity"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]bool{"sufficient": false})
	}))
	defer srv.Close()

	ok, err := NewClient(srv.URL).Parts().CheckStock(context.Background(), 12, 3)

	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestBackendDown_MapsToUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	_, err := NewClient(srv.URL).Orders().GetByID(context.Background(), 7)

	assert.ErrorIs(t, err, repository.ErrUnavailable)
}
