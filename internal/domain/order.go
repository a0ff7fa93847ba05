package domain

import (
	"math"
	"time"
)

type OrderState string

const (
	OrderReceived   OrderState = "RECIBIDA"
	OrderDiagnosed  OrderState = "DIAGNOSTICADA"
	OrderInProgress OrderState = "EN_PROCESO"
	OrderCompleted  OrderState = "COMPLETADA"
	OrderDelivered  OrderState = "ENTREGADA"
	OrderCancelled  OrderState = "CANCELADA"
)

// Terminal reports whether the order can no longer change state.
func (s OrderState) Terminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

type Priority string

const (
	PriorityLow    Priority = "BAJA"
	PriorityNormal Priority = "NORMAL"
	PriorityHigh   Priority = "ALTA"
	PriorityUrgent Priority = "URGENTE"
)

type PaymentState string

const (
	PaymentPending PaymentState = "PENDIENTE"
	PaymentPartial PaymentState = "PARCIAL"
	PaymentPaid    PaymentState = "PAGADA"
)

const (
	ProblemMaxLen   = 1000
	DiagnosisMinLen = 10
	DiagnosisMaxLen = 500
)

type WorkOrder struct {
	ID          int64      `json:"id"`
	OrderNumber string     `json:"order_number"`
	State       OrderState `json:"state"`
	Priority    Priority   `json:"priority"`

	ProblemDescription string `json:"problem_description" validate:"required,max=1000"`
	Diagnosis          string `json:"diagnosis,omitempty"`

	BikeID     int64 `json:"bike_id"`
	MechanicID int64 `json:"mechanic_id,omitempty"`

	// Derived totals, recomputed from line items. Never authoritative input.
	ServiceTotal float64 `json:"service_total"`
	PartTotal    float64 `json:"part_total"`
	OrderTotal   float64 `json:"order_total"`

	PaymentState PaymentState `json:"payment_state"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MoneyEpsilon is the tolerance for comparing monetary amounts.
const MoneyEpsilon = 0.01

// Round2 rounds a monetary amount to 2 fractional digits.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// SameAmount compares two monetary amounts within MoneyEpsilon.
func SameAmount(a, b float64) bool {
	return math.Abs(a-b) <= MoneyEpsilon
}
