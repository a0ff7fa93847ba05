package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"tallermotos/internal/database"
	"tallermotos/internal/domain"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	return db
}

func TestOrderRepository_DuplicateNumber(t *testing.T) {
	db := setupDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	first := &domain.WorkOrder{
		OrderNumber:        "OT-2026-AAAA1111",
		State:              domain.OrderReceived,
		Priority:           domain.PriorityNormal,
		PaymentState:       domain.PaymentPending,
		ProblemDescription: "No enciende",
		BikeID:             5,
	}
	require.NoError(t, repo.Create(ctx, first))
	assert.NotZero(t, first.ID)

	dup := &domain.WorkOrder{
		OrderNumber:        "OT-2026-AAAA1111",
		State:              domain.OrderReceived,
		Priority:           domain.PriorityNormal,
		PaymentState:       domain.PaymentPending,
		ProblemDescription: "Otro problema",
		BikeID:             6,
	}
	assert.ErrorIs(t, repo.Create(ctx, dup), ErrDuplicateNumber)
}

func TestOrderRepository_UpdateUnknownOrder(t *testing.T) {
	db := setupDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	assert.ErrorIs(t, repo.UpdateState(ctx, 999, domain.OrderDiagnosed), ErrNotFound)
	assert.ErrorIs(t, repo.UpdateDiagnosis(ctx, 999, "Carburador sucio", domain.OrderDiagnosed), ErrNotFound)

	_, err := repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLineItemRepository_StockDecrementIsAuthoritative(t *testing.T) {
	db := setupDB(t)
	parts := NewPartRepository(db)
	items := NewLineItemRepository(db)
	ctx := context.Background()

	part := &domain.Part{Name: "Pastilla de freno", UnitPrice: 15.50, Stock: 3}
	require.NoError(t, parts.Create(ctx, part))

	usage := &domain.PartUsage{OrderID: 1, PartID: part.ID, Quantity: 2, UnitPrice: 15.50}
	require.NoError(t, items.CreatePartUsage(ctx, usage))
	assert.NotZero(t, usage.ID)

	ok, err := parts.CheckStock(ctx, part.ID, 2)
	require.NoError(t, err)
	assert.False(t, ok, "only one unit remains")

	// Insufficient stock leaves no usage row and the remaining stock intact.
	over := &domain.PartUsage{OrderID: 1, PartID: part.ID, Quantity: 2, UnitPrice: 15.50}
	assert.ErrorIs(t, items.CreatePartUsage(ctx, over), ErrStockInsufficient)

	usages, err := items.ListPartUsages(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, usages, 1)

	ok, err = parts.CheckStock(ctx, part.ID, 1)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLineItemRepository_UnknownPart(t *testing.T) {
	db := setupDB(t)
	items := NewLineItemRepository(db)

	usage := &domain.PartUsage{OrderID: 1, PartID: 999, Quantity: 1, UnitPrice: 5.00}
	assert.ErrorIs(t, items.CreatePartUsage(context.Background(), usage), ErrNotFound)
}

func TestServiceRepository_Catalog(t *testing.T) {
	db := setupDB(t)
	repo := NewServiceRepository(db)
	ctx := context.Background()

	svc := &domain.Service{Name: "Cambio de aceite y filtro", BasePrice: 28.00}
	require.NoError(t, repo.Create(ctx, svc))
	require.NotZero(t, svc.ID)

	got, err := repo.GetByID(ctx, svc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cambio de aceite y filtro", got.Name)
	assert.Equal(t, 28.00, got.BasePrice)

	_, err = repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestHistoryRepository_NewestFirst(t *testing.T) {
	db := setupDB(t)
	history := NewHistoryRepository(db)
	ctx := context.Background()

	for _, comment := range []string{"Orden registrada", "Diagnóstico registrado", "Trabajo iniciado"} {
		require.NoError(t, history.Append(ctx, &domain.HistoryEntry{
			OrderID:     7,
			NewState:    domain.OrderReceived,
			Comment:     comment,
			ActorUserID: 2,
		}))
	}

	entries, err := history.ListByOrder(ctx, 7)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "Trabajo iniciado", entries[0].Comment)
	assert.Equal(t, "Orden registrada", entries[2].Comment)
}
