package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"tallermotos/internal/domain"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

type orderModel struct {
	ID                 int64     `gorm:"column:id;primaryKey"`
	OrderNumber        string    `gorm:"column:order_number;uniqueIndex"`
	State              string    `gorm:"column:state"`
	Priority           string    `gorm:"column:priority"`
	ProblemDescription string    `gorm:"column:problem_description;type:text"`
	Diagnosis          *string   `gorm:"column:diagnosis"`
	BikeID             int64     `gorm:"column:bike_id"`
	MechanicID         *int64    `gorm:"column:mechanic_id"`
	ServiceTotal       float64   `gorm:"column:service_total"`
	PartTotal          float64   `gorm:"column:part_total"`
	OrderTotal         float64   `gorm:"column:order_total"`
	PaymentState       string    `gorm:"column:payment_state"`
	CreatedAt          time.Time `gorm:"column:created_at"`
	UpdatedAt          time.Time `gorm:"column:updated_at"`
}

func (orderModel) TableName() string { return "work_orders" }

func toDomainOrder(m orderModel) *domain.WorkOrder {
	var diagnosis string
	if m.Diagnosis != nil {
		diagnosis = *m.Diagnosis
	}
	var mechanicID int64
	if m.MechanicID != nil {
		mechanicID = *m.MechanicID
	}

	return &domain.WorkOrder{
		ID:                 m.ID,
		OrderNumber:        m.OrderNumber,
		State:              domain.OrderState(m.State),
		Priority:           domain.Priority(m.Priority),
		ProblemDescription: m.ProblemDescription,
		Diagnosis:          diagnosis,
		BikeID:             m.BikeID,
		MechanicID:         mechanicID,
		ServiceTotal:       m.ServiceTotal,
		PartTotal:          m.PartTotal,
		OrderTotal:         m.OrderTotal,
		PaymentState:       domain.PaymentState(m.PaymentState),
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

func toOrderModel(o *domain.WorkOrder) orderModel {
	var diagnosis *string
	if o.Diagnosis != "" {
		v := o.Diagnosis
		diagnosis = &v
	}
	var mechanicID *int64
	if o.MechanicID != 0 {
		v := o.MechanicID
		mechanicID = &v
	}

	return orderModel{
		ID:                 o.ID,
		OrderNumber:        o.OrderNumber,
		State:              string(o.State),
		Priority:           string(o.Priority),
		ProblemDescription: o.ProblemDescription,
		Diagnosis:          diagnosis,
		BikeID:             o.BikeID,
		MechanicID:         mechanicID,
		ServiceTotal:       o.ServiceTotal,
		PartTotal:          o.PartTotal,
		OrderTotal:         o.OrderTotal,
		PaymentState:       string(o.PaymentState),
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
	}
}

func (r *OrderRepository) Create(ctx context.Context, o *domain.WorkOrder) error {
	m := toOrderModel(o)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		if isDuplicateErr(tx.Error) {
			return ErrDuplicateNumber
		}
		return tx.Error
	}
	*o = *toDomainOrder(m)
	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*domain.WorkOrder, error) {
	var m orderModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, tx.Error
	}
	return toDomainOrder(m), nil
}

func (r *OrderRepository) UpdateDiagnosis(ctx context.Context, id int64, diagnosis string, state domain.OrderState) error {
	return r.updateColumns(ctx, id, map[string]any{
		"diagnosis": diagnosis,
		"state":     string(state),
	})
}

func (r *OrderRepository) UpdateState(ctx context.Context, id int64, state domain.OrderState) error {
	return r.updateColumns(ctx, id, map[string]any{"state": string(state)})
}

func (r *OrderRepository) UpdateTotals(ctx context.Context, id int64, serviceTotal, partTotal, orderTotal float64, state domain.OrderState) error {
	return r.updateColumns(ctx, id, map[string]any{
		"service_total": serviceTotal,
		"part_total":    partTotal,
		"order_total":   orderTotal,
		"state":         string(state),
	})
}

func (r *OrderRepository) UpdatePaymentState(ctx context.Context, id int64, state domain.PaymentState) error {
	return r.updateColumns(ctx, id, map[string]any{"payment_state": string(state)})
}

func (r *OrderRepository) updateColumns(ctx context.Context, id int64, cols map[string]any) error {
	tx := r.db.WithContext(ctx).Model(&orderModel{}).Where("id = ?", id).Updates(cols)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func isDuplicateErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
