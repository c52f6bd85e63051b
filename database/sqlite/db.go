// Package sqlite stores item records as JSON documents in an embedded SQLite
// file. It mirrors the MongoDB backend for local development and tests.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"furniture-inventory/database"
	"os"
	"path/filepath"
	"sync/atomic"

	_ "github.com/mattn/go-sqlite3"
)

type DB struct {
	*sql.DB
	path   string
	closed atomic.Bool
}

func New(dbPath string) (*DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, &database.ConnectionError{Endpoint: dbPath, Err: fmt.Errorf("failed to create database directory: %w", err)}
	}

	// Pragmas go in the DSN so every pooled connection gets them
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000&_txlock=immediate"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, &database.ConnectionError{Endpoint: dbPath, Err: err}
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &database.ConnectionError{Endpoint: dbPath, Err: err}
	}

	return &DB{DB: db, path: dbPath}, nil
}

func (db *DB) Migrate() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS items (
			id TEXT PRIMARY KEY,
			database_name TEXT NOT NULL,
			collection TEXT NOT NULL,
			code INTEGER NOT NULL,
			category TEXT NOT NULL DEFAULT '',
			price REAL NOT NULL DEFAULT 0,
			body TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Indexes for the lookup and filter paths
		`CREATE INDEX IF NOT EXISTS idx_items_code ON items(database_name, collection, code)`,
		`CREATE INDEX IF NOT EXISTS idx_items_category ON items(database_name, collection, category)`,
		`CREATE INDEX IF NOT EXISTS idx_items_price ON items(database_name, collection, price)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

// Database returns a scope over the named database. It fails with
// database.ErrNotConnected once the file has been closed.
func (db *DB) Database(name string) (*Database, error) {
	if db.closed.Load() {
		return nil, database.ErrNotConnected
	}
	return &Database{db: db, name: name}, nil
}

func (db *DB) Path() string {
	return db.path
}

func (db *DB) IsLive() bool {
	return !db.closed.Load()
}

func (db *DB) Close(context.Context) error {
	if db.closed.Swap(true) {
		return nil
	}
	return db.DB.Close()
}

// Database is a per-call view of one named database inside the file.
type Database struct {
	db   *DB
	name string
}

func (d *Database) Collection(name string) *Collection {
	return &Collection{db: d.db, database: d.name, name: name}
}
