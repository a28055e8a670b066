package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/joho/godotenv"

	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/advisor"
	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/provider"
	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/routes"
	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/storage/kv"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to read .env", "error", err)
	}
	cfg := config.Load()

	// Sentry first so backend fallbacks during selection are reported
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	ctx := context.Background()

	// Device store, also holds the guest flag read by the selector
	device, err := kv.OpenSQLite(ctx, cfg.LocalStorePath)
	if err != nil {
		slog.Error("failed to open device store", "path", cfg.LocalStorePath, "error", err)
		os.Exit(1)
	}

	services := provider.NewSelector(cfg, device).Resolve(ctx)

	// Database log handler (ERROR+ async batch) when Postgres is bound
	var dbLogHandler *logging.DBHandler
	cleanupDone := make(chan struct{})
	if db := services.DB(); db != nil {
		dbLogHandler = logging.NewDBHandler(db)
		logging.Attach(dbLogHandler)
		logging.StartCleanup(db, cfg.LogRetention, cleanupDone)
	}

	adv := advisor.NewService(cfg)

	authHandler := handlers.NewAuthHandler(services)
	healthHandler := handlers.NewHealthHandler(services, adv)
	features := []handlers.Feature{
		handlers.NewFitnessHandler(services),
		handlers.NewNutritionHandler(services),
		handlers.NewHolisticHandler(services),
		handlers.NewDataHandler(services, adv),
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	routes.Setup(app, cfg, services, authHandler, healthHandler, features)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "backend", services.Kind)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	close(cleanupDone)
	if dbLogHandler != nil {
		dbLogHandler.Stop()
	}
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}
	if err := services.Close(); err != nil {
		slog.Error("backend close error", "backend", services.Kind, "error", err)
	}
	if err := device.Close(); err != nil {
		slog.Error("device store close error", "error", err)
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
