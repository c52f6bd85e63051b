package setup

import (
	"context"
	"fmt"
	"furniture-inventory/app"
	"furniture-inventory/config"
	"furniture-inventory/database"
	"furniture-inventory/database/sqlite"
	"furniture-inventory/monitor"
	"furniture-inventory/services"
	"log/slog"
	"time"
)

// InitStore connects to the configured backend and returns its connection
// side and the item repository bound to the configured collection.
func InitStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (services.Store, services.ItemRepository, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		client := database.NewClient(cfg.DatabaseURL, cfg.DatabaseName, logger)

		connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()

		if err := client.Connect(connectCtx); err != nil {
			return nil, nil, err
		}
		return client, database.NewRepository(client, cfg.Collection), nil

	case config.DriverSQLite:
		db, err := sqlite.New(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}

		if err := db.Migrate(); err != nil {
			db.Close(ctx)
			return nil, nil, err
		}

		logger.Info("sqlite store initialized", "path", db.Path(), "database", cfg.DatabaseName)
		return db, sqlite.NewRepository(db, cfg.DatabaseName, cfg.Collection), nil
	}

	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

// InitApp initializes the application with all dependencies
func InitApp(store services.Store, repo services.ItemRepository, cfg *config.Config, logger *slog.Logger) *app.App {
	application := app.New(store, repo, cfg.StoreTimeout, logger)
	logger.Info("application initialized",
		"driver", cfg.StoreDriver,
		"collection", cfg.Collection,
		"store_timeout", cfg.StoreTimeout,
	)
	return application
}

// StartMonitor starts the background store liveness worker
func StartMonitor(store services.Store, cfg *config.Config, logger *slog.Logger) *monitor.Worker {
	worker := monitor.NewWorker(store, cfg.LivenessEvery, logger)
	worker.Start()
	return worker
}

// Shutdown performs graceful shutdown of all services
func Shutdown(store services.Store, worker *monitor.Worker, logger *slog.Logger) {
	logger.Info("shutting down services...")

	if worker != nil {
		worker.Stop()
	}

	if store == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := store.Close(ctx); err != nil {
		logger.Error("failed to close store", "error", err)
		return
	}
	logger.Info("store closed")
}
