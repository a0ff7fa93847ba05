package worksession

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"tallermotos/internal/domain"
	"tallermotos/internal/modules/lifecycle"
	"tallermotos/internal/repository"
)

// Mock repositories

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, o *domain.WorkOrder) error {
	args := m.Called(ctx, o)
	if o != nil {
		o.ID = 101 // simulate insert
	}
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id int64) (*domain.WorkOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkOrder), args.Error(1)
}

func (m *MockOrderRepository) UpdateDiagnosis(ctx context.Context, id int64, diagnosis string, state domain.OrderState) error {
	args := m.Called(ctx, id, diagnosis, state)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateState(ctx context.Context, id int64, state domain.OrderState) error {
	args := m.Called(ctx, id, state)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateTotals(ctx context.Context, id int64, serviceTotal, partTotal, orderTotal float64, state domain.OrderState) error {
	args := m.Called(ctx, id, serviceTotal, partTotal, orderTotal, state)
	return args.Error(0)
}

type MockLineItemRepository struct {
	mock.Mock
}

func (m *MockLineItemRepository) CreateServiceLine(ctx context.Context, l *domain.ServiceLine) error {
	args := m.Called(ctx, l)
	if l != nil {
		l.ID = 201
	}
	return args.Error(0)
}

func (m *MockLineItemRepository) CreatePartUsage(ctx context.Context, p *domain.PartUsage) error {
	args := m.Called(ctx, p)
	if p != nil {
		p.ID = 301
	}
	return args.Error(0)
}

func (m *MockLineItemRepository) ListServiceLines(ctx context.Context, orderID int64) ([]domain.ServiceLine, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ServiceLine), args.Error(1)
}

func (m *MockLineItemRepository) ListPartUsages(ctx context.Context, orderID int64) ([]domain.PartUsage, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PartUsage), args.Error(1)
}

type MockStockChecker struct {
	mock.Mock
}

func (m *MockStockChecker) CheckStock(ctx context.Context, partID int64, qty int) (bool, error) {
	args := m.Called(ctx, partID, qty)
	return args.Bool(0), args.Error(1)
}

type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) Append(ctx context.Context, e *domain.HistoryEntry) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockHistoryRepository) ListByOrder(ctx context.Context, orderID int64) ([]domain.HistoryEntry, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.HistoryEntry), args.Error(1)
}

func newTestService() (*Service, *MockOrderRepository, *MockLineItemRepository, *MockStockChecker, *MockHistoryRepository) {
	orders := new(MockOrderRepository)
	items := new(MockLineItemRepository)
	stock := new(MockStockChecker)
	history := new(MockHistoryRepository)
	return NewService(orders, items, stock, history, nil), orders, items, stock, history
}

func TestRegister_Success(t *testing.T) {
	svc, orders, _, _, history := newTestService()

	orders.On("Create", mock.Anything, mock.Anything).Return(nil)
	history.On("Append", mock.Anything, mock.Anything).Return(nil)

	res, err := svc.Register(context.Background(), RegisterOrderRequest{
		BikeID:             5,
		ProblemDescription: "La moto no arranca en frío",
	}, 9)

	assert.NoError(t, err)
	assert.Equal(t, domain.OrderReceived, res.Order.State)
	assert.Equal(t, domain.PriorityNormal, res.Order.Priority)
	assert.Equal(t, domain.PaymentPending, res.Order.PaymentState)
	assert.True(t, strings.HasPrefix(res.Order.OrderNumber, "OT-"))
	assert.NoError(t, res.HistoryErr)
}

func TestRegister_Validation(t *testing.T) {
	svc, orders, _, _, _ := newTestService()

	_, err := svc.Register(context.Background(), RegisterOrderRequest{BikeID: 5}, 9)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Register(context.Background(), RegisterOrderRequest{
		BikeID:             5,
		ProblemDescription: strings.Repeat("x", domain.ProblemMaxLen+1),
	}, 9)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Register(context.Background(), RegisterOrderRequest{
		ProblemDescription: "sin moto asignada",
	}, 9)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Register(context.Background(), RegisterOrderRequest{
		BikeID:             5,
		Priority:           domain.Priority("EXTREMA"),
		ProblemDescription: "prioridad desconocida",
	}, 9)
	assert.ErrorIs(t, err, ErrValidation)

	orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestDiagnose_ShortDiagnosisRejectedBeforeAnyWrite(t *testing.T) {
	svc, orders, _, _, history := newTestService()

	orders.On("GetByID", mock.Anything, int64(7)).Return(&domain.WorkOrder{
		ID:    7,
		State: domain.OrderReceived,
	}, nil)

	_, err := svc.Diagnose(context.Background(), 7, "fuga", 3)

	assert.ErrorIs(t, err, lifecycle.ErrPreconditionFailed)
	orders.AssertNotCalled(t, "UpdateDiagnosis", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	history.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestDiagnose_Success(t *testing.T) {
	svc, orders, _, _, history := newTestService()

	orders.On("GetByID", mock.Anything, int64(7)).Return(&domain.WorkOrder{
		ID:    7,
		State: domain.OrderReceived,
	}, nil)
	orders.On("UpdateDiagnosis", mock.Anything, int64(7), "Carburador sucio, requiere limpieza", domain.OrderDiagnosed).Return(nil)
	history.On("Append", mock.Anything, mock.Anything).Return(nil)

	res, err := svc.Diagnose(context.Background(), 7, "Carburador sucio, requiere limpieza", 3)

	assert.NoError(t, err)
	assert.Equal(t, domain.OrderDiagnosed, res.Order.State)
	assert.NoError(t, res.HistoryErr)
	orders.AssertExpectations(t)
}

// The order update is authoritative; a failed history append must not fail
// the diagnosis, only be reported.
func TestDiagnose_HistoryFailureIsBestEffort(t *testing.T) {
	svc, orders, _, _, history := newTestService()

	orders.On("GetByID", mock.Anything, int64(7)).Return(&domain.WorkOrder{
		ID:    7,
		State: domain.OrderReceived,
	}, nil)
	orders.On("UpdateDiagnosis", mock.Anything, int64(7), mock.Anything, domain.OrderDiagnosed).Return(nil)
	history.On("Append", mock.Anything, mock.Anything).Return(repository.ErrUnavailable)

	res, err := svc.Diagnose(context.Background(), 7, "Carburador sucio, requiere limpieza", 3)

	assert.NoError(t, err)
	assert.Equal(t, domain.OrderDiagnosed, res.Order.State)
	assert.ErrorIs(t, res.HistoryErr, repository.ErrUnavailable)
}

func TestStartWork_AppliesAllItems(t *testing.T) {
	svc, orders, items, stock, history := newTestService()

	orders.On("GetByID", mock.Anything, int64(7)).Return(&domain.WorkOrder{
		ID:    7,
		State: domain.OrderDiagnosed,
	}, nil)
	orders.On("UpdateState", mock.Anything, int64(7), domain.OrderInProgress).Return(nil)
	items.On("CreateServiceLine", mock.Anything, mock.Anything).Return(nil)
	stock.On("CheckStock", mock.Anything, int64(12), 2).Return(true, nil)
	items.On("CreatePartUsage", mock.Anything, mock.Anything).Return(nil)
	history.On("Append", mock.Anything, mock.Anything).Return(nil)

	res, err := svc.StartWork(context.Background(), 7, StartWorkRequest{
		ServiceLines: []ServiceLineInput{{ServiceID: 4, AppliedPrice: 50.00}},
		PartUsages:   []PartUsageInput{{PartID: 12, Quantity: 2, UnitPrice: 10.00}},
	}, 3)

	assert.NoError(t, err)
	assert.Equal(t, domain.OrderInProgress, res.Order.State)
	assert.Len(t, res.Batch.Created, 2)
	assert.Empty(t, res.Batch.Failed)
	assert.False(t, res.Batch.Partial())
	orders.AssertExpectations(t)
}

// One failing part must not roll back the items already created; the report
// carries both sides.
func TestStartWork_PartialFailureOnStock(t *testing.T) {
	svc, orders, items, stock, history := newTestService()

	orders.On("GetByID", mock.Anything, int64(7)).Return(&domain.WorkOrder{
		ID:    7,
		State: domain.OrderDiagnosed,
	}, nil)
	orders.On("UpdateState", mock.Anything, int64(7), domain.OrderInProgress).Return(nil)
	stock.On("CheckStock", mock.Anything, int64(12), 1).Return(true, nil)
	stock.On("CheckStock", mock.Anything, int64(13), 5).Return(false, nil)
	items.On("CreatePartUsage", mock.Anything, mock.MatchedBy(func(p *domain.PartUsage) bool {
		return p.PartID == 12
	})).Return(nil)
	history.On("Append", mock.Anything, mock.Anything).Return(nil)

	res, err := svc.StartWork(context.Background(), 7, StartWorkRequest{
		PartUsages: []PartUsageInput{
			{PartID: 12, Quantity: 1, UnitPrice: 8.50},
			{PartID: 13, Quantity: 5, UnitPrice: 98.00},
		},
	}, 3)

	assert.NoError(t, err)
	assert.Len(t, res.Batch.Created, 1)
	assert.Len(t, res.Batch.Failed, 1)
	assert.True(t, res.Batch.Partial())
	assert.Equal(t, "insufficient stock", res.Batch.Failed[0].Reason)
	assert.Equal(t, 1, res.Batch.Failed[0].Index)
	items.AssertNumberOfCalls(t, "CreatePartUsage", 1)
}

// The pre-check is optimistic; losing the race at write time is an ordinary
// per-item failure.
func TestStartWork_StockRaceAtWriteTime(t *testing.T) {
	svc, orders, items, stock, history := newTestService()

	orders.On("GetByID", mock.Anything, int64(7)).Return(&domain.WorkOrder{
		ID:    7,
		State: domain.OrderDiagnosed,
	}, nil)
	orders.On("UpdateState", mock.Anything, int64(7), domain.OrderInProgress).Return(nil)
	stock.On("CheckStock", mock.Anything, int64(12), 1).Return(true, nil)
	items.On("CreatePartUsage", mock.Anything, mock.Anything).Return(repository.ErrStockInsufficient)
	history.On("Append", mock.Anything, mock.Anything).Return(nil)

	res, err := svc.StartWork(context.Background(), 7, StartWorkRequest{
		PartUsages: []PartUsageInput{{PartID: 12, Quantity: 1, UnitPrice: 8.50}},
	}, 3)

	assert.NoError(t, err)
	assert.Empty(t, res.Batch.Created)
	assert.Len(t, res.Batch.Failed, 1)
}

func TestStartWork_RejectedBeforeDiagnosis(t *testing.T) {
	svc, orders, items, _, _ := newTestService()

	orders.On("GetByID", mock.Anything, int64(7)).Return(&domain.WorkOrder{
		ID:    7,
		State: domain.OrderReceived,
	}, nil)

	_, err := svc.StartWork(context.Background(), 7, StartWorkRequest{
		ServiceLines: []ServiceLineInput{{ServiceID: 4, AppliedPrice: 50.00}},
	}, 3)

	assert.ErrorIs(t, err, lifecycle.ErrIllegalTransition)
	orders.AssertNotCalled(t, "UpdateState", mock.Anything, mock.Anything, mock.Anything)
	items.AssertNotCalled(t, "CreateServiceLine", mock.Anything, mock.Anything)
}

func TestStartWork_InputValidation(t *testing.T) {
	svc, orders, _, _, _ := newTestService()

	_, err := svc.StartWork(context.Background(), 7, StartWorkRequest{
		PartUsages: []PartUsageInput{{PartID: 12, Quantity: 0, UnitPrice: 8.50}},
	}, 3)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.StartWork(context.Background(), 7, StartWorkRequest{
		ServiceLines: []ServiceLineInput{{ServiceID: 0, AppliedPrice: 50.00}},
	}, 3)
	assert.ErrorIs(t, err, ErrValidation)

	orders.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestComplete_RecomputesTotalsFromLiveItems(t *testing.T) {
	svc, orders, items, _, history := newTestService()

	// Stored totals are stale on purpose; they must be ignored.
	orders.On("GetByID", mock.Anything, int64(7)).Return(&domain.WorkOrder{
		ID:         7,
		State:      domain.OrderInProgress,
		OrderTotal: 9999.99,
	}, nil)
	items.On("ListServiceLines", mock.Anything, int64(7)).Return([]domain.ServiceLine{
		{ID: 1, OrderID: 7, ServiceID: 4, AppliedPrice: 50.00},
	}, nil)
	items.On("ListPartUsages", mock.Anything, int64(7)).Return([]domain.PartUsage{
		{ID: 2, OrderID: 7, PartID: 12, Quantity: 2, UnitPrice: 10.00},
	}, nil)
	orders.On("UpdateTotals", mock.Anything, int64(7), 50.00, 20.00, 70.00, domain.OrderCompleted).Return(nil)
	history.On("Append", mock.Anything, mock.Anything).Return(nil)

	res, err := svc.Complete(context.Background(), 7, 3)

	assert.NoError(t, err)
	assert.Equal(t, domain.OrderCompleted, res.Order.State)
	assert.Equal(t, 70.00, res.Order.OrderTotal)
	orders.AssertExpectations(t)
}

func TestComplete_NoLineItemsFails(t *testing.T) {
	svc, orders, items, _, _ := newTestService()

	orders.On("GetByID", mock.Anything, int64(7)).Return(&domain.WorkOrder{
		ID:    7,
		State: domain.OrderInProgress,
	}, nil)
	items.On("ListServiceLines", mock.Anything, int64(7)).Return([]domain.ServiceLine{}, nil)
	items.On("ListPartUsages", mock.Anything, int64(7)).Return([]domain.PartUsage{}, nil)

	_, err := svc.Complete(context.Background(), 7, 3)

	assert.ErrorIs(t, err, lifecycle.ErrPreconditionFailed)
	orders.AssertNotCalled(t, "UpdateTotals",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// Two concurrent completions of the same order: exactly one proceeds, the
// other is rejected while the first is outstanding.
func TestComplete_ConcurrentInvocationRejected(t *testing.T) {
	svc, orders, items, _, history := newTestService()

	started := make(chan struct{})
	release := make(chan struct{})

	orders.On("GetByID", mock.Anything, int64(7)).Run(func(mock.Arguments) {
		close(started)
		<-release
	}).Return(&domain.WorkOrder{ID: 7, State: domain.OrderInProgress}, nil).Once()
	items.On("ListServiceLines", mock.Anything, int64(7)).Return([]domain.ServiceLine{
		{ID: 1, OrderID: 7, ServiceID: 4, AppliedPrice: 50.00},
	}, nil)
	items.On("ListPartUsages", mock.Anything, int64(7)).Return([]domain.PartUsage{}, nil)
	orders.On("UpdateTotals", mock.Anything, int64(7), 50.00, 0.00, 50.00, domain.OrderCompleted).Return(nil)
	history.On("Append", mock.Anything, mock.Anything).Return(nil)

	var wg sync.WaitGroup
	wg.Add(1)
	var firstErr error
	go func() {
		defer wg.Done()
		_, firstErr = svc.Complete(context.Background(), 7, 3)
	}()

	<-started
	_, secondErr := svc.Complete(context.Background(), 7, 3)
	assert.ErrorIs(t, secondErr, ErrOperationInProgress)

	close(release)
	wg.Wait()
	assert.NoError(t, firstErr)
}

func TestDeliver_FromCompleted(t *testing.T) {
	svc, orders, _, _, history := newTestService()

	orders.On("GetByID", mock.Anything, int64(7)).Return(&domain.WorkOrder{
		ID:    7,
		State: domain.OrderCompleted,
	}, nil)
	orders.On("UpdateState", mock.Anything, int64(7), domain.OrderDelivered).Return(nil)
	history.On("Append", mock.Anything, mock.Anything).Return(nil)

	res, err := svc.Deliver(context.Background(), 7, 2)

	assert.NoError(t, err)
	assert.Equal(t, domain.OrderDelivered, res.Order.State)
}

func TestCancel_RequiresReason(t *testing.T) {
	svc, orders, _, _, _ := newTestService()

	_, err := svc.Cancel(context.Background(), 7, "   ", 2)
	assert.ErrorIs(t, err, ErrValidation)
	orders.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestCancel_TerminalOrderRejected(t *testing.T) {
	svc, orders, _, _, _ := newTestService()

	orders.On("GetByID", mock.Anything, int64(7)).Return(&domain.WorkOrder{
		ID:    7,
		State: domain.OrderDelivered,
	}, nil)

	_, err := svc.Cancel(context.Background(), 7, "cliente desistió", 2)
	assert.ErrorIs(t, err, lifecycle.ErrIllegalTransition)
}

func TestGetOrder_NotFound(t *testing.T) {
	svc, orders, _, _, _ := newTestService()

	orders.On("GetByID", mock.Anything, int64(99)).Return(nil, repository.ErrNotFound)

	_, err := svc.GetOrder(context.Background(), 99)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
