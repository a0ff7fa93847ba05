package main

import (
	"context"
	"log"
	"os"

	"tallermotos/internal/database"
	"tallermotos/internal/modules/billing"
	"tallermotos/internal/repository"
)

// Offline billing audit for a local database: recomputes every order's
// totals from its line items and reports orders whose stored total disagrees.
func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "taller.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	orders := repository.NewOrderRepository(db)
	items := repository.NewLineItemRepository(db)
	payments := repository.NewPaymentRepository(db)
	history := repository.NewHistoryRepository(db)

	reconciler := billing.NewService(orders, items, payments, history, nil)

	var ids []int64
	if err := db.Raw("SELECT id FROM work_orders ORDER BY id").Scan(&ids).Error; err != nil {
		log.Fatalf("listing orders failed: %v", err)
	}

	ctx := context.Background()
	flagged := 0
	for _, id := range ids {
		st, err := reconciler.Statement(ctx, id)
		if err != nil {
			log.Printf("order %d: statement failed: %v", id, err)
			continue
		}
		if st.Discrepancy {
			flagged++
			log.Printf("order %d: stored total %.2f != recomputed %.2f (charged %.2f, paid %.2f)",
				id, st.StoredTotal, st.RecomputedTotal, st.ChargedTotal, st.TotalPaid)
		}
	}

	log.Printf("audit completed: %d orders checked, %d discrepancies", len(ids), flagged)
}
