package main

import (
	"context"
	"log"
	"os"

	"tallermotos/internal/database"
	"tallermotos/internal/domain"
	"tallermotos/internal/modules/worksession"
	"tallermotos/internal/repository"
)

// Seeds a local development database with a parts catalog and demo orders in
// several lifecycle stages.
func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "taller.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM order_history")
	db.Exec("DELETE FROM payments")
	db.Exec("DELETE FROM part_usages")
	db.Exec("DELETE FROM service_lines")
	db.Exec("DELETE FROM work_orders")
	db.Exec("DELETE FROM parts")
	db.Exec("DELETE FROM services")

	ctx := context.Background()

	orders := repository.NewOrderRepository(db)
	items := repository.NewLineItemRepository(db)
	parts := repository.NewPartRepository(db)
	history := repository.NewHistoryRepository(db)

	log.Println("Creating parts catalog...")
	catalog := []domain.Part{
		{Name: "Bujía NGK CR8E", Stock: 40, UnitPrice: 8.50},
		{Name: "Filtro de aceite", Stock: 25, UnitPrice: 12.00},
		{Name: "Kit de arrastre", Stock: 10, UnitPrice: 85.00},
		{Name: "Pastillas de freno delanteras", Stock: 18, UnitPrice: 24.90},
		{Name: "Aceite 10W40 (litro)", Stock: 60, UnitPrice: 11.30},
		{Name: "Neumático 120/70-17", Stock: 6, UnitPrice: 98.00},
	}
	for i := range catalog {
		if err := parts.Create(ctx, &catalog[i]); err != nil {
			log.Fatal("part create failed:", err)
		}
	}

	log.Println("Creating services catalog...")
	services := repository.NewServiceRepository(db)
	labor := []domain.Service{
		{Name: "Cambio de pastillas de freno", BasePrice: 35.00},
		{Name: "Cambio de aceite y filtro", BasePrice: 28.00},
		{Name: "Ajuste de cadena", BasePrice: 15.00},
		{Name: "Revisión general", BasePrice: 55.00},
	}
	for i := range labor {
		if err := services.Create(ctx, &labor[i]); err != nil {
			log.Fatal("service create failed:", err)
		}
	}

	coordinator := worksession.NewService(orders, items, parts, history, nil)
	const seedActor = 1

	log.Println("Creating demo orders...")

	// Freshly received order.
	if _, err := coordinator.Register(ctx, worksession.RegisterOrderRequest{
		BikeID:             1,
		Priority:           domain.PriorityNormal,
		ProblemDescription: "Ruido en el motor al acelerar",
	}, seedActor); err != nil {
		log.Fatal("register failed:", err)
	}

	// Order already in progress with work applied.
	res, err := coordinator.Register(ctx, worksession.RegisterOrderRequest{
		BikeID:             2,
		MechanicID:         3,
		Priority:           domain.PriorityHigh,
		ProblemDescription: "No frena bien, revisar pastillas y discos",
	}, seedActor)
	if err != nil {
		log.Fatal("register failed:", err)
	}
	inProgress := res.Order.ID

	if _, err := coordinator.Diagnose(ctx, inProgress, "Pastillas delanteras gastadas, disco rayado", seedActor); err != nil {
		log.Fatal("diagnose failed:", err)
	}
	start, err := coordinator.StartWork(ctx, inProgress, worksession.StartWorkRequest{
		ServiceLines: []worksession.ServiceLineInput{
			{ServiceID: labor[0].ID, AppliedPrice: labor[0].BasePrice, Notes: "Cambio de pastillas"},
		},
		PartUsages: []worksession.PartUsageInput{
			{PartID: catalog[3].ID, Quantity: 1, UnitPrice: catalog[3].UnitPrice},
		},
	}, seedActor)
	if err != nil {
		log.Fatal("start work failed:", err)
	}
	if len(start.Batch.Failed) > 0 {
		log.Fatalf("seed batch had failures: %+v", start.Batch.Failed)
	}

	// Completed order waiting for payment.
	if _, err := coordinator.Complete(ctx, inProgress, seedActor); err != nil {
		log.Fatal("complete failed:", err)
	}

	log.Println("Seed completed.")
}
