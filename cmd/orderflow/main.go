package main

import (
	"context"
	"encoding/hex"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/dinehub/orderflow/config"
	"github.com/dinehub/orderflow/internal/assist"
	"github.com/dinehub/orderflow/internal/auth"
	"github.com/dinehub/orderflow/internal/catalog"
	"github.com/dinehub/orderflow/internal/governor"
	handler "github.com/dinehub/orderflow/internal/handler/http"
	"github.com/dinehub/orderflow/internal/logger"
	"github.com/dinehub/orderflow/internal/middleware"
	"github.com/dinehub/orderflow/internal/notify"
	"github.com/dinehub/orderflow/internal/pricing"
	"github.com/dinehub/orderflow/internal/repository"
	"github.com/dinehub/orderflow/internal/repository/postgres"
	"github.com/dinehub/orderflow/internal/service"
)

func main() {

	// create new config
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// initialize logger
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer logger.Log.Sync()

	// create context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// initialize database
	db, err := postgres.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Log.Fatal("Error initializing database", zap.Error(err))
	}
	defer db.Close()

	// migrate database
	if err := db.Migrate(); err != nil {
		logger.Log.Fatal("Error migrating database", zap.Error(err))
	}

	tokenKey, err := hex.DecodeString(cfg.TokenKey)
	if err != nil {
		logger.Log.Fatal("Error extracting token key", zap.Error(err))
	}
	token := auth.NewAuthToken(tokenKey)

	// dependency injection
	// order lifecycle
	orderRepo := repository.NewOrderRepository(db)
	tenantRepo := repository.NewTenantRepository(db)
	validator := pricing.NewValidator(catalog.NewClient(cfg.CatalogAddr))
	dispatcher := service.NewDispatchService(orderRepo, notify.NewClient(cfg.NotifyAddr),
		cfg.RetryAttemptLimit, cfg.RetryCooldown)
	orderService := service.NewOrderService(orderRepo, tenantRepo, validator, dispatcher)
	orderHandler := handler.NewOrderHandler(orderService)
	paymentHandler := handler.NewPaymentHandler(orderService)

	// governed assistant
	gov := governor.New(governor.NewMemoryStore(),
		governor.WithLimit(cfg.RateLimit),
		governor.WithWindow(cfg.RateWindow),
		governor.WithThreshold(cfg.BreakerThreshold),
		governor.WithCooldown(cfg.BreakerCooldown))
	assistService := assist.NewService(assist.NewClient(cfg.AssistAddr), gov)
	assistHandler := handler.NewAssistHandler(assistService)

	router := chi.NewRouter()

	router.Use(middleware.Logging(logger.Log))

	// public storefront
	router.Post("/api/tenants/{tenant}/orders", orderHandler.SubmitOrder())

	// payment collaborator
	router.Group(func(group chi.Router) {
		group.Use(handler.GatewayMiddleware(cfg.GatewaySecretHash))
		group.Post("/api/payments/confirm", paymentHandler.ConfirmPayment())
	})

	// routes that require staff authentication
	router.Group(func(group chi.Router) {
		group.Use(handler.AuthMiddleware(token))
		group.Get("/api/tenants/{tenant}/orders", orderHandler.ListOrders())
		group.Post("/api/tenants/{tenant}/orders/{orderID}/status", orderHandler.SetOrderStatus())
		group.Post("/api/tenants/{tenant}/orders/{orderID}/notification/retry", orderHandler.RetryNotification())
		group.Post("/api/tenants/{tenant}/assist", assistHandler.Generate())
	})

	logger.Log.Info("Running server", zap.String("addr", cfg.ServerAddr))

	if err := http.ListenAndServe(cfg.ServerAddr, router); err != nil {
		logger.Log.Fatal("Error starting server", zap.Error(err))
	}
}
