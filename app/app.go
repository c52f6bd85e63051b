package app

import (
	"furniture-inventory/services"
	"furniture-inventory/validator"
	"log/slog"
	"time"
)

// App holds all application dependencies
// This struct is the central point for dependency injection
type App struct {
	Store       services.Store
	ItemService *services.ItemService
	Validator   *validator.Validator
	Logger      *slog.Logger
}

// New creates a new App instance with all dependencies
func New(store services.Store, repo services.ItemRepository, timeout time.Duration, logger *slog.Logger) *App {
	return &App{
		Store:       store,
		ItemService: services.NewItemService(repo, timeout, logger),
		Validator:   validator.New(),
		Logger:      logger,
	}
}
