package main

import (
	"os"
	"os/signal"
	"syscall"

	"goldloan-ledger/internal/adapters/http/middleware"
	"goldloan-ledger/internal/adapters/http/routes"
	"goldloan-ledger/internal/adapters/persistence/models"
	"goldloan-ledger/internal/config"
	"goldloan-ledger/internal/core/services"
	"goldloan-ledger/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	_ "goldloan-ledger/docs" // Swagger docs
)

// @title Gold Loan Ledger API
// @version 1.0
// @description Repledge listing with branch scoping, filters and pagination

// @contact.name API Support

// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("failed to load configuration", zap.Error(err))
	}

	zl := logger.New(logger.Options{Level: cfg.LogLevel, JSON: cfg.IsProd()})
	defer func() { _ = zl.Sync() }()

	if !cfg.EnvFileLoaded {
		zl.Warn("no .env file found, using environment variables")
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg, zl)
	if err != nil {
		zl.Fatal("failed to connect to database", zap.Error(err))
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		zl.Fatal("failed to auto migrate", zap.Error(err))
	}
	zl.Info("database migration completed")

	if err := config.NewSeeder(db, zl.Named("seeder")).Run(); err != nil {
		zl.Warn("failed to seed data", zap.Error(err))
	}

	svc, err := routes.NewServices(db, cfg, zl)
	if err != nil {
		zl.Fatal("failed to build services", zap.Error(err))
	}

	// Daily digest and token purge
	if cfg.Digest.Enabled {
		cronService := services.NewCronService(
			svc.Digest,
			svc.Auth,
			cfg.Digest.Schedule,
			cfg.Search.Location,
			zl.Named("cron"),
		)
		if err := cronService.Start(); err != nil {
			zl.Fatal("failed to start cron", zap.Error(err))
		}
		defer cronService.Stop()
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Gold Loan Ledger API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg, zl.Named("http"))

	// Setup routes
	routes.Setup(app, cfg, svc, zl)

	// Graceful shutdown
	go gracefulShutdown(app, zl)

	zl.Info("server starting",
		zap.String("port", cfg.Port),
		zap.String("mode", cfg.AppMode),
		zap.String("strategy", cfg.Search.Strategy),
	)
	if err := app.Listen(":" + cfg.Port); err != nil {
		zl.Fatal("failed to start server", zap.Error(err))
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App, zl *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zl.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		zl.Error("error during shutdown", zap.Error(err))
	}
	zl.Info("server stopped gracefully")
}
