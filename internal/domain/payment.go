package domain

import "time"

type PaymentMethod string

const (
	MethodCash     PaymentMethod = "EFECTIVO"
	MethodCard     PaymentMethod = "TARJETA"
	MethodTransfer PaymentMethod = "TRANSFERENCIA"
)

func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case MethodCash, MethodCard, MethodTransfer:
		return true
	}
	return false
}

type Payment struct {
	ID        int64         `json:"id"`
	OrderID   int64         `json:"order_id"`
	Amount    float64       `json:"amount" validate:"gt=0"`
	Method    PaymentMethod `json:"method" validate:"required"`
	Reference string        `json:"reference,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}
