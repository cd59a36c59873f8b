package main

import (
	"database/sql"
	"flag"
	"log"
	"net/http"

	httpapi "bingohall-backend/internal/api/http"
	"bingohall-backend/internal/config"
	"bingohall-backend/internal/logger"
	"bingohall-backend/internal/repository/postgres"
	"bingohall-backend/internal/security"
	"bingohall-backend/internal/service"

	_ "github.com/lib/pq"
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
	logger.Info("Starting Bingohall Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
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
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	// Initialize Email Service
	emailSvc := service.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	if emailSvc == nil {
		logger.Warn("SendGrid API key not configured, email notifications disabled")
	}

	// Initialize Services
	authSvc := service.NewAuthService(store.AccountRepository, tokenManager)
	accountSvc := service.NewAccountService(store.AccountRepository, store.PackageTransactionRepository)
	transferSvc := service.NewTransferService(
		store,
		store.AccountRepository,
		store.PackageTransactionRepository,
		store.CreditRequestRepository,
		emailSvc,
	)
	gameSvc := service.NewGameService(
		store,
		store.AccountRepository,
		store.GameSessionRepository,
		store.GameTransactionRepository,
	)
	ledgerSvc := service.NewLedgerService(
		store.AccountRepository,
		store.PackageTransactionRepository,
		store.GameTransactionRepository,
		store.CreditRequestRepository,
	)

	// Initialize HTTP handlers and router
	handler := httpapi.NewHandler(authSvc, accountSvc, transferSvc, gameSvc, ledgerSvc)
	router := httpapi.NewRouter(handler, tokenManager)

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), router); err != nil {
		logger.Error("HTTP server error", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}
