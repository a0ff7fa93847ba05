package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"tallermotos/internal/domain"
)

type PartRepository struct {
	db *gorm.DB
}

func NewPartRepository(db *gorm.DB) *PartRepository {
	return &PartRepository{db: db}
}

type partModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	Name      string    `gorm:"column:name"`
	Stock     int       `gorm:"column:stock"`
	UnitPrice float64   `gorm:"column:unit_price"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (partModel) TableName() string { return "parts" }

func toDomainPart(m partModel) *domain.Part {
	return &domain.Part{
		ID:        m.ID,
		Name:      m.Name,
		Stock:     m.Stock,
		UnitPrice: m.UnitPrice,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func (r *PartRepository) Create(ctx context.Context, p *domain.Part) error {
	m := partModel{
		Name:      p.Name,
		Stock:     p.Stock,
		UnitPrice: p.UnitPrice,
	}
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*p = *toDomainPart(m)
	return nil
}

func (r *PartRepository) GetByID(ctx context.Context, id int64) (*domain.Part, error) {
	var m partModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, tx.Error
	}
	return toDomainPart(m), nil
}

// CheckStock reports whether the part currently holds at least qty units.
// Advisory only: the authoritative check happens when the usage is written.
func (r *PartRepository) CheckStock(ctx context.Context, partID int64, qty int) (bool, error) {
	var stock int
	tx := r.db.WithContext(ctx).Model(&partModel{}).Where("id = ?", partID).Select("stock").Scan(&stock)
	if tx.Error != nil {
		return false, tx.Error
	}
	if tx.RowsAffected == 0 {
		return false, ErrNotFound
	}
	return stock >= qty, nil
}
