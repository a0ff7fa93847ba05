package billing

import "tallermotos/internal/domain"

type RegisterPaymentRequest struct {
	Amount    float64              `json:"amount" binding:"required"`
	Method    domain.PaymentMethod `json:"method" binding:"required"`
	Reference string               `json:"reference"`
}
