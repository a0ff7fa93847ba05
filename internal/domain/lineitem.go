package domain

import "time"

// ServiceLine is a billable labor item applied to a work order.
type ServiceLine struct {
	ID           int64     `json:"id"`
	OrderID      int64     `json:"order_id"`
	ServiceID    int64     `json:"service_id" validate:"required"`
	AppliedPrice float64   `json:"applied_price" validate:"gte=0"`
	Notes        string    `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// PartUsage is a billable inventory item consumed by a work order.
type PartUsage struct {
	ID        int64     `json:"id"`
	OrderID   int64     `json:"order_id"`
	PartID    int64     `json:"part_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"gt=0"`
	UnitPrice float64   `json:"unit_price" validate:"gte=0"`
	CreatedAt time.Time `json:"created_at"`
}

// Subtotal is always quantity * unit price, never a stored field.
func (p PartUsage) Subtotal() float64 {
	return Round2(float64(p.Quantity) * p.UnitPrice)
}

// Part is a catalog inventory item. Stock is owned by the backing store;
// clients only perform optimistic pre-checks against it.
type Part struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Stock     int       `json:"stock"`
	UnitPrice float64   `json:"unit_price"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Service is a catalog labor item with a base price. Lines may apply a
// different price than the catalog one.
type Service struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	BasePrice float64 `json:"base_price"`
}
