package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tallermotos/internal/config"
	"tallermotos/internal/database"
	"tallermotos/internal/domain"
	"tallermotos/internal/logger"
	"tallermotos/internal/middleware"
	"tallermotos/internal/modules/access"
	"tallermotos/internal/modules/billing"
	"tallermotos/internal/modules/worksession"
	jwtsvc "tallermotos/internal/pkg/jwt"
	"tallermotos/internal/remote"
	"tallermotos/internal/repository"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	zaplog, err := logger.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = zaplog.Sync() }()

	var (
		wsService      *worksession.Service
		billingService *billing.Service
	)

	if cfg.BackendURL != "" {
		client := remote.NewClient(cfg.BackendURL)
		wsService = worksession.NewService(client.Orders(), client.LineItems(), client.Parts(), client.History(), zaplog)
		billingService = billing.NewService(client.Orders(), client.LineItems(), client.Payments(), client.History(), zaplog)
	} else {
		db, err := database.Connect(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		if err := repository.AutoMigrate(db); err != nil {
			return err
		}

		orders := repository.NewOrderRepository(db)
		items := repository.NewLineItemRepository(db)
		parts := repository.NewPartRepository(db)
		payments := repository.NewPaymentRepository(db)
		history := repository.NewHistoryRepository(db)

		wsService = worksession.NewService(orders, items, parts, history, zaplog)
		billingService = billing.NewService(orders, items, payments, history, zaplog)
	}

	wsHandler := worksession.NewHandler(wsService)
	billingHandler := billing.NewHandler(billingService)
	accessHandler := access.NewHandler()

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	gate := func(action string) gin.HandlerFunc {
		if action == "create" {
			return middleware.RequireModuleAction(domain.ModuleOrders, domain.ActionCreate)
		}
		return middleware.RequireWorkflowAction(domain.Action(action))
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(zaplog))

	v1 := r.Group("/api/v1")
	protected := v1.Group("/")
	protected.Use(middleware.JWTAuth(j))
	{
		accessHandler.RegisterRoutes(protected)

		orders := protected.Group("/")
		orders.Use(middleware.RequireModule(domain.ModuleOrders))
		{
			wsHandler.RegisterRoutes(orders, gate)
			billingHandler.RegisterRoutes(orders, gate)
		}
	}

	zaplog.Info("listening", zap.String("addr", cfg.Addr))
	return r.Run(cfg.Addr)
}
