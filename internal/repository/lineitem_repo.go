package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"tallermotos/internal/domain"
)

type LineItemRepository struct {
	db *gorm.DB
}

func NewLineItemRepository(db *gorm.DB) *LineItemRepository {
	return &LineItemRepository{db: db}
}

type serviceLineModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	OrderID      int64     `gorm:"column:order_id;index"`
	ServiceID    int64     `gorm:"column:service_id"`
	AppliedPrice float64   `gorm:"column:applied_price"`
	Notes        *string   `gorm:"column:notes"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (serviceLineModel) TableName() string { return "service_lines" }

type partUsageModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	OrderID   int64     `gorm:"column:order_id;index"`
	PartID    int64     `gorm:"column:part_id"`
	Quantity  int       `gorm:"column:quantity"`
	UnitPrice float64   `gorm:"column:unit_price"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (partUsageModel) TableName() string { return "part_usages" }

func toDomainServiceLine(m serviceLineModel) domain.ServiceLine {
	var notes string
	if m.Notes != nil {
		notes = *m.Notes
	}
	return domain.ServiceLine{
		ID:           m.ID,
		OrderID:      m.OrderID,
		ServiceID:    m.ServiceID,
		AppliedPrice: m.AppliedPrice,
		Notes:        notes,
		CreatedAt:    m.CreatedAt,
	}
}

func toDomainPartUsage(m partUsageModel) domain.PartUsage {
	return domain.PartUsage{
		ID:        m.ID,
		OrderID:   m.OrderID,
		PartID:    m.PartID,
		Quantity:  m.Quantity,
		UnitPrice: m.UnitPrice,
		CreatedAt: m.CreatedAt,
	}
}

func (r *LineItemRepository) CreateServiceLine(ctx context.Context, l *domain.ServiceLine) error {
	var notes *string
	if l.Notes != "" {
		v := l.Notes
		notes = &v
	}
	m := serviceLineModel{
		OrderID:      l.OrderID,
		ServiceID:    l.ServiceID,
		AppliedPrice: l.AppliedPrice,
		Notes:        notes,
	}
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*l = toDomainServiceLine(m)
	return nil
}

// CreatePartUsage records a part consumption and decrements catalog stock in
// the same transaction. Stock is re-checked under the transaction: the
// optimistic pre-check callers perform can lose a race.
func (r *LineItemRepository) CreatePartUsage(ctx context.Context, p *domain.PartUsage) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&partModel{}).
			Where("id = ? AND stock >= ?", p.PartID, p.Quantity).
			Update("stock", gorm.Expr("stock - ?", p.Quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var cnt int64
			if err := tx.Model(&partModel{}).Where("id = ?", p.PartID).Count(&cnt).Error; err != nil {
				return err
			}
			if cnt == 0 {
				return ErrNotFound
			}
			return ErrStockInsufficient
		}

		m := partUsageModel{
			OrderID:   p.OrderID,
			PartID:    p.PartID,
			Quantity:  p.Quantity,
			UnitPrice: p.UnitPrice,
		}
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		*p = toDomainPartUsage(m)
		return nil
	})
}

func (r *LineItemRepository) ListServiceLines(ctx context.Context, orderID int64) ([]domain.ServiceLine, error) {
	var models []serviceLineModel
	tx := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("id").Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.ServiceLine, 0, len(models))
	for _, m := range models {
		out = append(out, toDomainServiceLine(m))
	}
	return out, nil
}

func (r *LineItemRepository) ListPartUsages(ctx context.Context, orderID int64) ([]domain.PartUsage, error) {
	var models []partUsageModel
	tx := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("id").Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.PartUsage, 0, len(models))
	for _, m := range models {
		out = append(out, toDomainPartUsage(m))
	}
	return out, nil
}
