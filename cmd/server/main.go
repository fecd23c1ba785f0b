package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	_ "github.com/lib/pq"

	httpapi "church-inventory-backend/internal/api/http"
	"church-inventory-backend/internal/config"
	"church-inventory-backend/internal/logger"
	"church-inventory-backend/internal/repository/postgres"
	"church-inventory-backend/internal/security"
	"church-inventory-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Church Inventory Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	logger.Debug("Connecting to database...", "connection_string", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database))
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret)

	// Initialize Services
	opTimeout := time.Duration(cfg.Database.OpTimeoutSeconds) * time.Second
	locks := service.NewItemLocks()

	inventorySvc := service.NewInventoryService(
		store,
		store.ItemRepository,
		store.TransactionRepository,
		store.CheckoutRepository,
		store.MinistryRepository,
		locks,
		opTimeout,
	)
	transferSvc := service.NewTransferService(
		store,
		store.ItemRepository,
		store.MinistryRepository,
		inventorySvc,
		locks,
		opTimeout,
	)
	checkoutSvc := service.NewCheckoutService(
		store,
		store.ItemRepository,
		store.CheckoutRepository,
		locks,
		opTimeout,
	)
	lowStockSvc := service.NewLowStockService(store.ItemRepository)
	ministrySvc := service.NewMinistryService(store.MinistryRepository)
	categorySvc := service.NewCategoryService(store.CategoryRepository)
	noteSvc := service.NewNotificationService(store.NotificationRepository)

	// Initialize HTTP handlers
	handlers := httpapi.Handlers{
		Items:         httpapi.NewItemHandler(inventorySvc, transferSvc, lowStockSvc),
		Checkouts:     httpapi.NewCheckoutHandler(checkoutSvc),
		Ministries:    httpapi.NewMinistryHandler(ministrySvc),
		Categories:    httpapi.NewCategoryHandler(categorySvc),
		Notifications: httpapi.NewNotificationHandler(noteSvc),
	}
	router := httpapi.NewRouter(handlers, tokenManager)

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), router); err != nil {
		logger.Error("HTTP server error", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}
