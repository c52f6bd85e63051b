package database

import (
	"context"
	"log/slog"
	"net/url"
	"sync"
	"sync/atomic"

	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/description"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Client owns the single MongoDB connection shared by every repository call.
// Connect establishes it once; Database hands out a fresh, cheap handle per
// call and never reconnects on its own.
type Client struct {
	uri    string
	name   string
	logger *slog.Logger

	mu     sync.RWMutex
	client *mongo.Client

	// established is set once Connect succeeds; live follows the topology.
	// Monitor callbacks run on driver goroutines and must not take mu.
	established atomic.Bool
	live        atomic.Bool
}

func NewClient(uri, name string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{uri: uri, name: name, logger: logger}
}

// Connect opens the connection unless a live one already exists. Failures
// are returned as *ConnectionError and are not retried.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil && c.live.Load() {
		return nil
	}

	if c.client != nil {
		// stale handle from a lost connection
		c.established.Store(false)
		_ = c.client.Disconnect(ctx)
		c.client = nil
	}

	opts := options.Client().
		ApplyURI(c.uri).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true}).
		SetServerMonitor(c.serverMonitor())

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return &ConnectionError{Endpoint: redact(c.uri), Err: err}
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return &ConnectionError{Endpoint: redact(c.uri), Err: err}
	}

	c.client = client
	c.live.Store(true)
	c.established.Store(true)
	c.logger.Info("connected to mongodb", "endpoint", redact(c.uri), "database", c.name)

	return nil
}

// Database returns a handle to the configured database.
func (c *Client) Database() (*mongo.Database, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.client == nil || !c.live.Load() {
		return nil, ErrNotConnected
	}
	return c.client.Database(c.name), nil
}

// IsLive reports whether the connection is established and at least one
// server in the topology is reachable.
func (c *Client) IsLive() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.client != nil && c.live.Load()
}

// Close disconnects from the server. Later Database calls fail with
// ErrNotConnected until Connect is called again.
func (c *Client) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == nil {
		return nil
	}

	c.established.Store(false)
	c.live.Store(false)
	err := c.client.Disconnect(ctx)
	c.client = nil
	if err != nil {
		return &ConnectionError{Endpoint: redact(c.uri), Err: err}
	}

	c.logger.Info("disconnected from mongodb")
	return nil
}

// serverMonitor keeps the liveness flag in step with the driver's view of
// the topology. The client is live while any server is reachable.
func (c *Client) serverMonitor() *event.ServerMonitor {
	return &event.ServerMonitor{
		TopologyDescriptionChanged: func(e *event.TopologyDescriptionChangedEvent) {
			live := reachable(e.NewDescription)
			if c.live.Swap(live) == live || !c.established.Load() {
				return
			}
			if live {
				c.logger.Info("mongodb connection restored")
			} else {
				c.logger.Warn("mongodb connection lost", "servers", len(e.NewDescription.Servers))
			}
		},
	}
}

func reachable(topology description.Topology) bool {
	for _, server := range topology.Servers {
		if server.Kind != description.Unknown {
			return true
		}
	}
	return false
}

// redact strips credentials from a connection string before it is logged or
// returned in an error.
func redact(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return "[invalid uri]"
	}
	u.User = nil
	u.RawQuery = ""
	return u.String()
}
