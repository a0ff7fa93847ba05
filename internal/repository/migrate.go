package repository

import "gorm.io/gorm"

// AutoMigrate creates or updates the local-mode schema.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&orderModel{},
		&serviceLineModel{},
		&partUsageModel{},
		&paymentModel{},
		&historyModel{},
		&partModel{},
		&serviceModel{},
	)
}
