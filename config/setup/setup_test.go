package setup

import (
	"bytes"
	"context"
	"furniture-inventory/config"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Port:           "0",
		Env:            "test",
		StoreDriver:    config.DriverSQLite,
		DatabaseURL:    filepath.Join(t.TempDir(), "inventory.db"),
		DatabaseName:   "shop",
		Collection:     "items",
		StoreTimeout:   time.Second,
		ConnectTimeout: time.Second,
		LivenessEvery:  time.Hour,
		RateLimit:      1000,
	}
}

func setupServer(t *testing.T) *fiber.App {
	t.Helper()

	cfg := testConfig(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, repo, err := InitStore(context.Background(), cfg, logger)
	require.NoError(t, err)
	assert.True(t, store.IsLive())

	application := InitApp(store, repo, cfg, logger)
	worker := StartMonitor(store, cfg, logger)
	t.Cleanup(func() { Shutdown(store, worker, logger) })

	fiberApp := NewFiberApp(cfg, logger)
	ApplyMiddleware(fiberApp, cfg, logger)
	RegisterRoutes(fiberApp, application)
	return fiberApp
}

func TestServer_EndToEnd(t *testing.T) {
	fiberApp := setupServer(t)

	req := httptest.NewRequest(http.MethodPost, "/items", bytes.NewBufferString(`{"code":7,"category":"shelf","price":45.5}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(fiber.HeaderXRequestID, "req-123")

	resp, err := fiberApp.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "req-123", resp.Header.Get(fiber.HeaderXRequestID))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))

	resp, err = fiberApp.Test(httptest.NewRequest(http.MethodGet, "/items/7", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))

	resp, err = fiberApp.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = fiberApp.Test(httptest.NewRequest(http.MethodGet, "/nowhere", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = fiberApp.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `furniture_inventory_http_requests_total{method="GET",route="/items/:code",status="200"}`)
	assert.Contains(t, string(body), `furniture_inventory_store_operations_total{operation="insert",outcome="ok"}`)
}

func TestInitStore_UnknownDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.StoreDriver = "postgres"

	store, repo, err := InitStore(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Error(t, err)
	assert.Nil(t, store)
	assert.Nil(t, repo)
}
