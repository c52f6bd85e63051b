package services

import (
	"context"
	"errors"
	"furniture-inventory/database"
	"furniture-inventory/models"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ==================== MOCKS ====================

// MockItemRepository is a mock implementation of ItemRepository interface
type MockItemRepository struct {
	mock.Mock
}

// Ensure MockItemRepository implements ItemRepository interface
var _ ItemRepository = (*MockItemRepository)(nil)

func (m *MockItemRepository) items(args mock.Arguments) ([]models.Item, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Item), args.Error(1)
}

func (m *MockItemRepository) item(args mock.Arguments) (*models.Item, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *MockItemRepository) FindAll(ctx context.Context) ([]models.Item, error) {
	return m.items(m.Called(ctx))
}

func (m *MockItemRepository) FindByCategory(ctx context.Context, category string) ([]models.Item, error) {
	return m.items(m.Called(ctx, category))
}

func (m *MockItemRepository) FindByPriceAtLeast(ctx context.Context, value float64) ([]models.Item, error) {
	return m.items(m.Called(ctx, value))
}

func (m *MockItemRepository) FindByPriceAtMost(ctx context.Context, value float64) ([]models.Item, error) {
	return m.items(m.Called(ctx, value))
}

func (m *MockItemRepository) FindByCode(ctx context.Context, code int64) (*models.Item, error) {
	return m.item(m.Called(ctx, code))
}

func (m *MockItemRepository) Insert(ctx context.Context, item *models.Item) (*models.Item, error) {
	return m.item(m.Called(ctx, item))
}

func (m *MockItemRepository) UpdateByCode(ctx context.Context, code int64, patch *models.UpdateItemRequest) (*models.Item, error) {
	return m.item(m.Called(ctx, code, patch))
}

func (m *MockItemRepository) DeleteByCode(ctx context.Context, code int64) (*models.Item, error) {
	return m.item(m.Called(ctx, code))
}

func newTestService(repo ItemRepository) *ItemService {
	return NewItemService(repo, time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// ==================== TESTS ====================

func TestItemService_List(t *testing.T) {
	t.Run("Nil result becomes empty slice", func(t *testing.T) {
		repo := new(MockItemRepository)
		repo.On("FindAll", mock.Anything).Return(nil, nil)

		items, err := newTestService(repo).List(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
		repo.AssertExpectations(t)
	})

	t.Run("Repository error is passed through", func(t *testing.T) {
		repoErr := database.NewRepositoryError("find all items", errors.New("boom"))
		repo := new(MockItemRepository)
		repo.On("FindAll", mock.Anything).Return(nil, repoErr)

		_, err := newTestService(repo).List(context.Background())
		assert.ErrorIs(t, err, database.ErrRepository)
	})

	t.Run("Not connected is passed through", func(t *testing.T) {
		repo := new(MockItemRepository)
		repo.On("FindByCategory", mock.Anything, "sofa").Return(nil, database.ErrNotConnected)

		_, err := newTestService(repo).ListByCategory(context.Background(), "sofa")
		assert.ErrorIs(t, err, database.ErrNotConnected)
	})
}

func TestItemService_PriceFilters(t *testing.T) {
	repo := new(MockItemRepository)
	asc := []models.Item{{Code: 2, Price: 200}, {Code: 1, Price: 500}}
	desc := []models.Item{{Code: 2, Price: 200}, {Code: 3, Price: 80}}
	repo.On("FindByPriceAtLeast", mock.Anything, 200.0).Return(asc, nil)
	repo.On("FindByPriceAtMost", mock.Anything, 200.0).Return(desc, nil)

	svc := newTestService(repo)

	got, err := svc.ListByMinPrice(context.Background(), 200)
	require.NoError(t, err)
	assert.Equal(t, asc, got)

	got, err = svc.ListByMaxPrice(context.Background(), 200)
	require.NoError(t, err)
	assert.Equal(t, desc, got)

	repo.AssertExpectations(t)
}

func TestItemService_Get(t *testing.T) {
	tests := []struct {
		name      string
		code      int64
		setupMock func(*MockItemRepository)
		wantErr   error
	}{
		{
			name: "Found",
			code: 1,
			setupMock: func(m *MockItemRepository) {
				m.On("FindByCode", mock.Anything, int64(1)).Return(&models.Item{ID: "x", Code: 1}, nil)
			},
		},
		{
			name: "Not found",
			code: 2,
			setupMock: func(m *MockItemRepository) {
				m.On("FindByCode", mock.Anything, int64(2)).Return(nil, nil)
			},
			wantErr: ErrItemNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockItemRepository)
			tt.setupMock(repo)

			item, err := newTestService(repo).Get(context.Background(), tt.code)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, item)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.code, item.Code)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestItemService_Create(t *testing.T) {
	code, price := int64(1), 500.0
	req := &models.CreateItemRequest{Code: &code, Category: "sofa", Price: &price}

	repo := new(MockItemRepository)
	repo.On("Insert", mock.Anything, mock.MatchedBy(func(item *models.Item) bool {
		return item.Code == 1 && item.Category == "sofa" && item.Price == 500
	})).Return(&models.Item{ID: "abc", Code: 1, Category: "sofa", Price: 500}, nil)

	item, err := newTestService(repo).Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "abc", item.ID)
	repo.AssertExpectations(t)
}

func TestItemService_Update(t *testing.T) {
	price := 650.0
	patch := &models.UpdateItemRequest{Price: &price}

	t.Run("Updated", func(t *testing.T) {
		repo := new(MockItemRepository)
		repo.On("UpdateByCode", mock.Anything, int64(1), patch).
			Return(&models.Item{ID: "abc", Code: 1, Category: "sofa", Price: 650}, nil)

		item, err := newTestService(repo).Update(context.Background(), 1, patch)
		require.NoError(t, err)
		assert.Equal(t, 650.0, item.Price)
		assert.Equal(t, "sofa", item.Category)
	})

	t.Run("Missing code", func(t *testing.T) {
		repo := new(MockItemRepository)
		repo.On("UpdateByCode", mock.Anything, int64(9), patch).Return(nil, nil)

		_, err := newTestService(repo).Update(context.Background(), 9, patch)
		assert.ErrorIs(t, err, ErrItemNotFound)
	})
}

func TestItemService_Delete(t *testing.T) {
	repo := new(MockItemRepository)
	repo.On("DeleteByCode", mock.Anything, int64(1)).Return(&models.Item{ID: "abc", Code: 1}, nil).Once()
	repo.On("DeleteByCode", mock.Anything, int64(1)).Return(nil, nil).Once()

	svc := newTestService(repo)

	item, err := svc.Delete(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), item.Code)

	_, err = svc.Delete(context.Background(), 1)
	assert.ErrorIs(t, err, ErrItemNotFound)
	repo.AssertExpectations(t)
}

func TestItemService_AppliesTimeout(t *testing.T) {
	repo := new(MockItemRepository)
	repo.On("FindAll", mock.MatchedBy(func(ctx context.Context) bool {
		deadline, ok := ctx.Deadline()
		return ok && time.Until(deadline) <= 50*time.Millisecond
	})).Return([]models.Item{}, nil)

	svc := NewItemService(repo, 50*time.Millisecond, nil)
	_, err := svc.List(context.Background())
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestItemService_DefaultTimeout(t *testing.T) {
	svc := NewItemService(new(MockItemRepository), 0, nil)
	assert.Equal(t, DefaultOperationTimeout, svc.timeout)
}
