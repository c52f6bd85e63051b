package services

import (
	"context"
	"errors"
	"furniture-inventory/metrics"
	"furniture-inventory/models"
	"log/slog"
	"time"
)

// DefaultOperationTimeout bounds a single store call when none is configured.
const DefaultOperationTimeout = 5 * time.Second

// ItemService handles business logic for items
type ItemService struct {
	repo    ItemRepository
	timeout time.Duration
	logger  *slog.Logger
}

// NewItemService creates a new item service. Every repository call runs
// under its own timeout.
func NewItemService(repo ItemRepository, timeout time.Duration, logger *slog.Logger) *ItemService {
	if timeout <= 0 {
		timeout = DefaultOperationTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ItemService{
		repo:    repo,
		timeout: timeout,
		logger:  logger,
	}
}

// List retrieves every item in store order
func (s *ItemService) List(ctx context.Context) ([]models.Item, error) {
	return s.many(ctx, "find_all", func(ctx context.Context) ([]models.Item, error) {
		return s.repo.FindAll(ctx)
	})
}

// ListByCategory retrieves the items of one category
func (s *ItemService) ListByCategory(ctx context.Context, category string) ([]models.Item, error) {
	return s.many(ctx, "find_by_category", func(ctx context.Context) ([]models.Item, error) {
		return s.repo.FindByCategory(ctx, category)
	})
}

// ListByMinPrice retrieves items priced at or above value, ascending by price
func (s *ItemService) ListByMinPrice(ctx context.Context, value float64) ([]models.Item, error) {
	return s.many(ctx, "find_by_price_min", func(ctx context.Context) ([]models.Item, error) {
		return s.repo.FindByPriceAtLeast(ctx, value)
	})
}

// ListByMaxPrice retrieves items priced at or below value, descending by price
func (s *ItemService) ListByMaxPrice(ctx context.Context, value float64) ([]models.Item, error) {
	return s.many(ctx, "find_by_price_max", func(ctx context.Context) ([]models.Item, error) {
		return s.repo.FindByPriceAtMost(ctx, value)
	})
}

// Get retrieves the item with the given code
func (s *ItemService) Get(ctx context.Context, code int64) (*models.Item, error) {
	return s.one(ctx, "find_by_code", func(ctx context.Context) (*models.Item, error) {
		return s.repo.FindByCode(ctx, code)
	})
}

// Create stores a new item. Duplicate codes are accepted.
func (s *ItemService) Create(ctx context.Context, req *models.CreateItemRequest) (*models.Item, error) {
	item, err := s.one(ctx, "insert", func(ctx context.Context) (*models.Item, error) {
		return s.repo.Insert(ctx, req.Item())
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("item created", "code", item.Code, "id", item.ID)
	return item, nil
}

// Update merges the supplied fields into the item with the given code
func (s *ItemService) Update(ctx context.Context, code int64, req *models.UpdateItemRequest) (*models.Item, error) {
	item, err := s.one(ctx, "update_by_code", func(ctx context.Context) (*models.Item, error) {
		return s.repo.UpdateByCode(ctx, code, req)
	})
	if errors.Is(err, ErrItemNotFound) {
		s.logger.Info("item not found for update", "code", code)
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("item updated", "code", code, "id", item.ID)
	return item, nil
}

// Delete removes the item with the given code and returns it
func (s *ItemService) Delete(ctx context.Context, code int64) (*models.Item, error) {
	item, err := s.one(ctx, "delete_by_code", func(ctx context.Context) (*models.Item, error) {
		return s.repo.DeleteByCode(ctx, code)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("item deleted", "code", code, "id", item.ID)
	return item, nil
}

func (s *ItemService) many(ctx context.Context, op string, fn func(context.Context) ([]models.Item, error)) ([]models.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	items, err := fn(ctx)
	if err != nil {
		metrics.ObserveStoreOperation(op, metrics.OutcomeError, time.Since(start))
		return nil, err
	}

	metrics.ObserveStoreOperation(op, metrics.OutcomeOK, time.Since(start))
	if items == nil {
		items = make([]models.Item, 0)
	}
	return items, nil
}

// one runs a single-record operation and turns a nil result into
// ErrItemNotFound.
func (s *ItemService) one(ctx context.Context, op string, fn func(context.Context) (*models.Item, error)) (*models.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	item, err := fn(ctx)
	switch {
	case err != nil:
		metrics.ObserveStoreOperation(op, metrics.OutcomeError, time.Since(start))
		return nil, err
	case item == nil:
		metrics.ObserveStoreOperation(op, metrics.OutcomeNotFound, time.Since(start))
		return nil, ErrItemNotFound
	}

	metrics.ObserveStoreOperation(op, metrics.OutcomeOK, time.Since(start))
	return item, nil
}
