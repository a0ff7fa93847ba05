package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"tallermotos/internal/domain"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

type paymentModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	OrderID   int64     `gorm:"column:order_id;index"`
	Amount    float64   `gorm:"column:amount"`
	Method    string    `gorm:"column:method"`
	Reference *string   `gorm:"column:reference"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (paymentModel) TableName() string { return "payments" }

func toDomainPayment(m paymentModel) domain.Payment {
	var ref string
	if m.Reference != nil {
		ref = *m.Reference
	}
	return domain.Payment{
		ID:        m.ID,
		OrderID:   m.OrderID,
		Amount:    m.Amount,
		Method:    domain.PaymentMethod(m.Method),
		Reference: ref,
		CreatedAt: m.CreatedAt,
	}
}

func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	var ref *string
	if p.Reference != "" {
		v := p.Reference
		ref = &v
	}
	m := paymentModel{
		OrderID:   p.OrderID,
		Amount:    p.Amount,
		Method:    string(p.Method),
		Reference: ref,
	}
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*p = toDomainPayment(m)
	return nil
}

func (r *PaymentRepository) ListByOrder(ctx context.Context, orderID int64) ([]domain.Payment, error) {
	var models []paymentModel
	tx := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("id").Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.Payment, 0, len(models))
	for _, m := range models {
		out = append(out, toDomainPayment(m))
	}
	return out, nil
}
