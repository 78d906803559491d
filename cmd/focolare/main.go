package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"focolare/internal/amqp"
	"focolare/internal/auth"
	"focolare/internal/config"
	apphttp "focolare/internal/http"
	applog "focolare/internal/log"
	"focolare/internal/services"
	"focolare/internal/storage"
	"focolare/internal/storage/memory"
	"focolare/internal/storage/sqlite"
)

func main() {
	// .env is for local development; absent in production.
	_ = godotenv.Load()

	cfg := config.Load()
	logger := applog.Setup(cfg.LogLevel, cfg.LogFormat)
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	var store storage.Store
	switch cfg.DataBackend {
	case "memory":
		store = memory.New()
		logger.Info("Initialized memory backend")
	default:
		sqliteStore, err := sqlite.New(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize SQLite store", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		store = sqliteStore
		logger.Info("Initialized SQLite backend", "path", cfg.SQLiteDBPath)
	}
	defer store.Close()

	// Activity publishing is optional; without a broker writes still succeed,
	// the group feed just stays empty.
	var events services.Publisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		events = amqpClient
		logger.Info("AMQP publisher initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTDuration)
	gate := services.NewGate(store)

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Services{
		Auth:         services.NewAuthService(store, jwtManager),
		Groups:       services.NewGroupService(store, gate),
		Schedules:    services.NewScheduleService(store, gate, events),
		Transactions: services.NewTransactionService(store, gate, events),
		Categories:   services.NewCategoryService(store, gate),
		AssetSources: services.NewAssetSourceService(store, gate),
		Stats:        services.NewStatsService(store, gate),
	}, jwtManager, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	}()

	if err := srv.Start(); err != nil {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
