package main

import (
	"context"
	"furniture-inventory/config"
	"furniture-inventory/config/setup"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	config.Load()
	cfg := config.AppConfig

	logger := setupLogger(cfg)
	slog.SetDefault(logger)

	// Connect once up front; a store we cannot reach is fatal
	store, repo, err := setup.InitStore(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("failed to connect to data store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}

	application := setup.InitApp(store, repo, cfg, logger)
	worker := setup.StartMonitor(store, cfg, logger)

	app := setup.NewFiberApp(cfg, logger)
	setup.ApplyMiddleware(app, cfg, logger)
	setup.RegisterRoutes(app, application)

	logger.Info("starting server", "port", cfg.Port, "env", cfg.Env)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	setup.Shutdown(store, worker, logger)

	logger.Info("server stopped")
}

func setupLogger(cfg *config.Config) *slog.Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level:     getLogLevel(),
		AddSource: cfg.Env == "development",
	}

	if cfg.Env == "production" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}

func getLogLevel() slog.Level {
	level := config.GetEnv("LOG_LEVEL", "info")
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
