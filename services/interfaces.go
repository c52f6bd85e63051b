package services

import (
	"context"
	"furniture-inventory/models"
)

// ItemRepository defines the interface for item data access.
// Single-record methods return (nil, nil) when no record matches.
type ItemRepository interface {
	FindAll(ctx context.Context) ([]models.Item, error)
	FindByCategory(ctx context.Context, category string) ([]models.Item, error)
	FindByPriceAtLeast(ctx context.Context, value float64) ([]models.Item, error)
	FindByPriceAtMost(ctx context.Context, value float64) ([]models.Item, error)
	FindByCode(ctx context.Context, code int64) (*models.Item, error)
	Insert(ctx context.Context, item *models.Item) (*models.Item, error)
	UpdateByCode(ctx context.Context, code int64, patch *models.UpdateItemRequest) (*models.Item, error)
	DeleteByCode(ctx context.Context, code int64) (*models.Item, error)
}

// Store is the connection side of a backend: liveness for health checks and
// shutdown.
type Store interface {
	IsLive() bool
	Close(ctx context.Context) error
}
