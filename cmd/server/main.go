package main

import (
	"os"
	"os/signal"
	"syscall"

	"caoguia-api/internal/adapters/http/middleware"
	"caoguia-api/internal/adapters/http/routes"
	"caoguia-api/internal/adapters/persistence/models"
	"caoguia-api/internal/config"
	"caoguia-api/internal/pkg/logger"
	"caoguia-api/internal/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	_ "caoguia-api/docs" // Swagger docs
)

// @title Cão-Guia API
// @version 1.0
// @description Registro de cães-guia: identidade, autenticação e autorização de usuários PCD, instituições e administradores.

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
		logrus.Fatalf("❌ Failed to load configuration: %v", err)
	}

	log := logger.New(cfg.AppMode, cfg.LogLevel)

	// Connect to database
	db, err := config.ConnectDatabase(cfg, log)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer func() {
		if err := config.CloseDatabase(db); err != nil {
			log.WithError(err).Warn("close database")
		}
	}()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Info("✅ Database migration completed")

	// Seed the bootstrap admin account
	if err := config.NewSeeder(db, log).Run(); err != nil {
		log.Warnf("⚠️ Warning: Failed to seed data: %v", err)
	}

	authMetrics := metrics.NewAuth(prometheus.DefaultRegisterer)
	httpMetrics := metrics.NewHTTP(prometheus.DefaultRegisterer)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Cão-Guia API v1.0",
		ErrorHandler: middleware.ErrorHandler(log),
	})

	// Setup middlewares
	middleware.Setup(app, cfg)
	app.Use(middleware.Metrics(httpMetrics))

	// Setup routes
	routes.Setup(app, routes.Deps{
		DB:          db,
		Config:      cfg,
		Log:         log,
		AuthMetrics: authMetrics,
	})

	// Graceful shutdown
	go gracefulShutdown(app, log)

	// Start server
	log.Infof("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App, log *logrus.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Errorf("❌ Error during shutdown: %v", err)
	}
	log.Info("✅ Server stopped gracefully")
}
