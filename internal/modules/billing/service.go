package billing

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"tallermotos/internal/domain"
	"tallermotos/internal/pkg/inflight"
)

// Statement is the reconciled billing view of a work order. Totals are always
// recomputed from live line items; the stored order total is reported
// alongside and flagged when the two disagree.
type Statement struct {
	OrderID         int64               `json:"order_id"`
	State           domain.OrderState   `json:"state"`
	ServiceTotal    float64             `json:"service_total"`
	PartTotal       float64             `json:"part_total"`
	RecomputedTotal float64             `json:"recomputed_total"`
	StoredTotal     float64             `json:"stored_total"`
	ChargedTotal    float64             `json:"charged_total"`
	TotalPaid       float64             `json:"total_paid"`
	Outstanding     float64             `json:"outstanding"`
	Discrepancy     bool                `json:"discrepancy"`
	PaymentState    domain.PaymentState `json:"payment_state"`
}

type Service struct {
	orders   orderReader
	items    lineItemReader
	payments paymentRepo
	history  historyAppender
	inflight *inflight.Registry
	log      *zap.Logger
}

func NewService(orders orderReader, items lineItemReader, payments paymentRepo, history historyAppender, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		orders:   orders,
		items:    items,
		payments: payments,
		history:  history,
		inflight: inflight.New(),
		log:      log,
	}
}

// Statement recomputes the outstanding balance for an order from live line
// items and payments. Read-only: two calls with no intervening writes yield
// identical results.
func (s *Service) Statement(ctx context.Context, orderID int64) (*Statement, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return s.statementFor(ctx, order)
}

func (s *Service) statementFor(ctx context.Context, order *domain.WorkOrder) (*Statement, error) {
	lines, err := s.items.ListServiceLines(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	parts, err := s.items.ListPartUsages(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	payments, err := s.payments.ListByOrder(ctx, order.ID)
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
	recomputed := domain.Round2(serviceTotal + partTotal)

	var totalPaid float64
	for _, p := range payments {
		totalPaid += p.Amount
	}
	totalPaid = domain.Round2(totalPaid)

	// When the stored total disagrees with the recomputed one, charge the
	// larger of the two. Undercharging on inconsistent data is worse than
	// asking the operator to resolve the discrepancy.
	charged := recomputed
	if order.OrderTotal > charged {
		charged = order.OrderTotal
	}
	discrepancy := !domain.SameAmount(order.OrderTotal, recomputed) && order.OrderTotal != 0

	st := &Statement{
		OrderID:         order.ID,
		State:           order.State,
		ServiceTotal:    serviceTotal,
		PartTotal:       partTotal,
		RecomputedTotal: recomputed,
		StoredTotal:     order.OrderTotal,
		ChargedTotal:    charged,
		TotalPaid:       totalPaid,
		Outstanding:     domain.Round2(charged - totalPaid),
		Discrepancy:     discrepancy,
		PaymentState:    order.PaymentState,
	}
	if discrepancy {
		s.log.Warn("stored order total disagrees with recomputed total",
			zap.Int64("order_id", order.ID),
			zap.Float64("stored", order.OrderTotal),
			zap.Float64("recomputed", recomputed),
		)
	}
	return st, nil
}

// RegisterFullPayment settles an order in a single payment. The amount must
// match the outstanding balance within MoneyEpsilon; partial payments are not
// accepted. Nothing is written when the checks fail. Registrations for the
// same order are mutually exclusive: the outstanding check is only valid if
// no other payment lands between the read and the write.
func (s *Service) RegisterFullPayment(ctx context.Context, orderID int64, amount float64, method domain.PaymentMethod, reference string, actorID int64) (*Statement, *domain.Payment, error) {
	if amount <= 0 {
		return nil, nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	if !domain.ValidPaymentMethod(method) {
		return nil, nil, fmt.Errorf("%w: unknown payment method %q", ErrValidation, method)
	}

	if !s.inflight.Acquire(orderID) {
		return nil, nil, ErrOperationInProgress
	}
	defer s.inflight.Release(orderID)

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	if order.State != domain.OrderCompleted && order.State != domain.OrderDelivered {
		return nil, nil, fmt.Errorf("%w: order is %s", ErrNotBillable, order.State)
	}

	st, err := s.statementFor(ctx, order)
	if err != nil {
		return nil, nil, err
	}
	if st.Outstanding <= domain.MoneyEpsilon {
		return nil, nil, ErrNothingPending
	}
	if !domain.SameAmount(amount, st.Outstanding) {
		return nil, nil, fmt.Errorf("%w: outstanding is %.2f, got %.2f", ErrAmountMismatch, st.Outstanding, amount)
	}

	payment := &domain.Payment{
		OrderID:   orderID,
		Amount:    domain.Round2(amount),
		Method:    method,
		Reference: reference,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, nil, err
	}

	st.TotalPaid = domain.Round2(st.TotalPaid + payment.Amount)
	st.Outstanding = domain.Round2(st.ChargedTotal - st.TotalPaid)
	st.PaymentState = domain.PaymentPaid

	if err := s.orders.UpdatePaymentState(ctx, orderID, domain.PaymentPaid); err != nil {
		// The payment is recorded; surface the state update failure so the
		// operator can refresh rather than pay twice.
		return st, payment, err
	}

	if err := s.history.Append(ctx, &domain.HistoryEntry{
		OrderID:       orderID,
		PreviousState: order.State,
		NewState:      order.State,
		Comment:       fmt.Sprintf("Pago registrado: %.2f (%s)", payment.Amount, method),
		ActorUserID:   actorID,
	}); err != nil {
		s.log.Warn("history append failed", zap.Int64("order_id", orderID), zap.Error(err))
	}

	return st, payment, nil
}
