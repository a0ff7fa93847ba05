package worksession

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tallermotos/internal/domain"
	"tallermotos/internal/modules/lifecycle"
	"tallermotos/internal/pkg/inflight"
)

// Service coordinates multi-write order transitions. Within one invocation
// writes are issued strictly sequentially: later steps depend on earlier ones
// having committed. Invocations for the same order are mutually exclusive via
// the in-flight registry.
type Service struct {
	orders   OrderRepository
	items    LineItemRepository
	stock    StockChecker
	history  HistoryRepository
	inflight *inflight.Registry
	log      *zap.Logger
}

func NewService(orders OrderRepository, items LineItemRepository, stock StockChecker, history HistoryRepository, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		orders:   orders,
		items:    items,
		stock:    stock,
		history:  history,
		inflight: inflight.New(),
		log:      log,
	}
}

// Register creates a work order at intake. The order starts in RECIBIDA with
// an opening history entry.
func (s *Service) Register(ctx context.Context, req RegisterOrderRequest, actorID int64) (*Result, error) {
	problem := strings.TrimSpace(req.ProblemDescription)
	if problem == "" {
		return nil, fmt.Errorf("%w: problem description is required", ErrValidation)
	}
	if len(problem) > domain.ProblemMaxLen {
		return nil, fmt.Errorf("%w: problem description exceeds %d characters", ErrValidation, domain.ProblemMaxLen)
	}
	if req.BikeID <= 0 {
		return nil, fmt.Errorf("%w: bike is required", ErrValidation)
	}
	priority := req.Priority
	if priority == "" {
		priority = domain.PriorityNormal
	}
	switch priority {
	case domain.PriorityLow, domain.PriorityNormal, domain.PriorityHigh, domain.PriorityUrgent:
	default:
		return nil, fmt.Errorf("%w: unknown priority %q", ErrValidation, priority)
	}

	order := &domain.WorkOrder{
		OrderNumber:        newOrderNumber(),
		State:              domain.OrderReceived,
		Priority:           priority,
		ProblemDescription: problem,
		BikeID:             req.BikeID,
		MechanicID:         req.MechanicID,
		PaymentState:       domain.PaymentPending,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	histErr := s.appendHistory(ctx, order.ID, order.State, order.State, "Orden registrada", actorID)
	return &Result{Order: order, HistoryErr: histErr}, nil
}

// Diagnose records the mechanic's diagnosis and moves the order to
// DIAGNOSTICADA. The order update is authoritative; the history append is
// best-effort and its failure is surfaced separately.
func (s *Service) Diagnose(ctx context.Context, orderID int64, diagnosis string, actorID int64) (*Result, error) {
	if !s.inflight.Acquire(orderID) {
		return nil, ErrOperationInProgress
	}
	defer s.inflight.Release(orderID)

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	next, err := lifecycle.NextState(order.State, lifecycle.ActionDiagnose, lifecycle.Context{Diagnosis: diagnosis})
	if err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(diagnosis)
	if err := s.orders.UpdateDiagnosis(ctx, orderID, trimmed, next); err != nil {
		return nil, err
	}

	histErr := s.appendHistory(ctx, orderID, order.State, next, "Diagnóstico registrado", actorID)

	order.State = next
	order.Diagnosis = trimmed
	return &Result{Order: order, HistoryErr: histErr}, nil
}

// StartWork moves a diagnosed order to EN_PROCESO and applies the requested
// service lines and part usages one by one. There is no transaction across
// these writes: items that fail are reported per-item, items already created
// stay created.
func (s *Service) StartWork(ctx context.Context, orderID int64, req StartWorkRequest, actorID int64) (*StartWorkResult, error) {
	if err := validateStartWork(req); err != nil {
		return nil, err
	}

	if !s.inflight.Acquire(orderID) {
		return nil, ErrOperationInProgress
	}
	defer s.inflight.Release(orderID)

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	next, err := lifecycle.NextState(order.State, lifecycle.ActionStartWork, lifecycle.Context{})
	if err != nil {
		return nil, err
	}

	// The state must be committed before line items reference the order as
	// in-progress.
	if err := s.orders.UpdateState(ctx, orderID, next); err != nil {
		return nil, err
	}
	order.State = next

	var batch BatchReport
	for i, in := range req.ServiceLines {
		line := &domain.ServiceLine{
			OrderID:      orderID,
			ServiceID:    in.ServiceID,
			AppliedPrice: domain.Round2(in.AppliedPrice),
			Notes:        in.Notes,
		}
		if err := s.items.CreateServiceLine(ctx, line); err != nil {
			batch.Failed = append(batch.Failed, ItemOutcome{Kind: "service_line", Index: i, Reason: err.Error()})
			continue
		}
		batch.Created = append(batch.Created, ItemOutcome{Kind: "service_line", Index: i, ID: line.ID})
	}
	for i, in := range req.PartUsages {
		outcome := ItemOutcome{Kind: "part_usage", Index: i}
		ok, err := s.stock.CheckStock(ctx, in.PartID, in.Quantity)
		if err != nil {
			outcome.Reason = err.Error()
			batch.Failed = append(batch.Failed, outcome)
			continue
		}
		if !ok {
			outcome.Reason = "insufficient stock"
			batch.Failed = append(batch.Failed, outcome)
			continue
		}
		usage := &domain.PartUsage{
			OrderID:   orderID,
			PartID:    in.PartID,
			Quantity:  in.Quantity,
			UnitPrice: domain.Round2(in.UnitPrice),
		}
		if err := s.items.CreatePartUsage(ctx, usage); err != nil {
			// The pre-check is optimistic; a concurrent consumer may have
			// taken the stock between check and write.
			outcome.Reason = err.Error()
			batch.Failed = append(batch.Failed, outcome)
			continue
		}
		outcome.ID = usage.ID
		batch.Created = append(batch.Created, outcome)
	}

	comment := fmt.Sprintf("Trabajo iniciado: %d ítems aplicados, %d fallidos", len(batch.Created), len(batch.Failed))
	histErr := s.appendHistory(ctx, orderID, domain.OrderDiagnosed, next, comment, actorID)

	return &StartWorkResult{Order: order, Batch: batch, HistoryErr: histErr}, nil
}

// Complete closes the work phase. Line items and totals are read fresh from
// the store, never from a cached order record.
func (s *Service) Complete(ctx context.Context, orderID int64, actorID int64) (*Result, error) {
	if !s.inflight.Acquire(orderID) {
		return nil, ErrOperationInProgress
	}
	defer s.inflight.Release(orderID)

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	lines, err := s.items.ListServiceLines(ctx, orderID)
	if err != nil {
		return nil, err
	}
	parts, err := s.items.ListPartUsages(ctx, orderID)
	if err != nil {
		return nil, err
	}

	next, err := lifecycle.NextState(order.State, lifecycle.ActionComplete, lifecycle.Context{LineItems: len(lines) + len(parts)})
	if err != nil {
		return nil, err
	}

	var serviceTotal, partTotal float64
	for _, l := range lines {
		serviceTotal += l.AppliedPrice
	}
	for _, p := range parts {
		partTotal += p.Subtotal()
	}
	serviceTotal = domain.Round2(serviceTotal)
	partTotal = domain.Round2(partTotal)
	orderTotal := domain.Round2(serviceTotal + partTotal)
	if orderTotal <= 0 {
		return nil, fmt.Errorf("%w: recomputed order total is zero", lifecycle.ErrPreconditionFailed)
	}

	if err := s.orders.UpdateTotals(ctx, orderID, serviceTotal, partTotal, orderTotal, next); err != nil {
		return nil, err
	}

	histErr := s.appendHistory(ctx, orderID, order.State, next,
		fmt.Sprintf("Trabajo completado, total %.2f", orderTotal), actorID)

	order.State = next
	order.ServiceTotal = serviceTotal
	order.PartTotal = partTotal
	order.OrderTotal = orderTotal
	return &Result{Order: order, HistoryErr: histErr}, nil
}

// Deliver hands a completed order back to the client.
func (s *Service) Deliver(ctx context.Context, orderID int64, actorID int64) (*Result, error) {
	return s.simpleTransition(ctx, orderID, lifecycle.ActionDeliver, "Orden entregada", actorID)
}

// Cancel aborts a non-terminal order. The reason is mandatory and recorded in
// the history comment.
func (s *Service) Cancel(ctx context.Context, orderID int64, reason string, actorID int64) (*Result, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: cancellation reason is required", ErrValidation)
	}
	return s.simpleTransition(ctx, orderID, lifecycle.ActionCancel, "Orden cancelada: "+reason, actorID)
}

func (s *Service) simpleTransition(ctx context.Context, orderID int64, action lifecycle.Action, comment string, actorID int64) (*Result, error) {
	if !s.inflight.Acquire(orderID) {
		return nil, ErrOperationInProgress
	}
	defer s.inflight.Release(orderID)

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	next, err := lifecycle.NextState(order.State, action, lifecycle.Context{})
	if err != nil {
		return nil, err
	}

	if err := s.orders.UpdateState(ctx, orderID, next); err != nil {
		return nil, err
	}

	histErr := s.appendHistory(ctx, orderID, order.State, next, comment, actorID)

	order.State = next
	return &Result{Order: order, HistoryErr: histErr}, nil
}

func (s *Service) GetOrder(ctx context.Context, orderID int64) (*domain.WorkOrder, error) {
	return s.orders.GetByID(ctx, orderID)
}

func (s *Service) History(ctx context.Context, orderID int64) ([]domain.HistoryEntry, error) {
	if _, err := s.orders.GetByID(ctx, orderID); err != nil {
		return nil, err
	}
	return s.history.ListByOrder(ctx, orderID)
}

func (s *Service) appendHistory(ctx context.Context, orderID int64, prev, next domain.OrderState, comment string, actorID int64) error {
	err := s.history.Append(ctx, &domain.HistoryEntry{
		OrderID:       orderID,
		PreviousState: prev,
		NewState:      next,
		Comment:       comment,
		ActorUserID:   actorID,
	})
	if err != nil {
		s.log.Warn("history append failed",
			zap.Int64("order_id", orderID),
			zap.String("new_state", string(next)),
			zap.Error(err),
		)
	}
	return err
}

func validateStartWork(req StartWorkRequest) error {
	for i, l := range req.ServiceLines {
		if l.ServiceID <= 0 {
			return fmt.Errorf("%w: service line %d has no service", ErrValidation, i)
		}
		if l.AppliedPrice < 0 {
			return fmt.Errorf("%w: service line %d has a negative price", ErrValidation, i)
		}
	}
	for i, p := range req.PartUsages {
		if p.PartID <= 0 {
			return fmt.Errorf("%w: part usage %d has no part", ErrValidation, i)
		}
		if p.Quantity <= 0 {
			return fmt.Errorf("%w: part usage %d quantity must be positive", ErrValidation, i)
		}
		if p.UnitPrice < 0 {
			return fmt.Errorf("%w: part usage %d has a negative unit price", ErrValidation, i)
		}
	}
	return nil
}

func newOrderNumber() string {
	return fmt.Sprintf("OT-%d-%s", time.Now().Year(), strings.ToUpper(uuid.NewString()[:8]))
}
