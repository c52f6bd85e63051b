package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"furniture-inventory/database"
	"furniture-inventory/models"
	"time"

	"github.com/google/uuid"
)

// Collection holds the item rows of one (database, collection) pair.
type Collection struct {
	db       *DB
	database string
	name     string
}

// Repository implements the item operations on top of a SQLite file.
type Repository struct {
	db         *DB
	database   string
	collection string
}

func NewRepository(db *DB, databaseName, collection string) *Repository {
	return &Repository{db: db, database: databaseName, collection: collection}
}

func (r *Repository) items() (*Collection, error) {
	d, err := r.db.Database(r.database)
	if err != nil {
		return nil, err
	}
	return d.Collection(r.collection), nil
}

func (r *Repository) FindAll(ctx context.Context) ([]models.Item, error) {
	col, err := r.items()
	if err != nil {
		return nil, err
	}
	return col.query(ctx, "find all items", "ORDER BY rowid")
}

func (r *Repository) FindByCategory(ctx context.Context, category string) ([]models.Item, error) {
	col, err := r.items()
	if err != nil {
		return nil, err
	}
	return col.query(ctx, "find items by category", "AND category = ? ORDER BY rowid", category)
}

func (r *Repository) FindByPriceAtLeast(ctx context.Context, value float64) ([]models.Item, error) {
	col, err := r.items()
	if err != nil {
		return nil, err
	}
	return col.query(ctx, "find items by minimum price", "AND price >= ? ORDER BY price ASC, rowid", value)
}

func (r *Repository) FindByPriceAtMost(ctx context.Context, value float64) ([]models.Item, error) {
	col, err := r.items()
	if err != nil {
		return nil, err
	}
	return col.query(ctx, "find items by maximum price", "AND price <= ? ORDER BY price DESC, rowid", value)
}

func (r *Repository) FindByCode(ctx context.Context, code int64) (*models.Item, error) {
	col, err := r.items()
	if err != nil {
		return nil, err
	}

	item, err := col.first(ctx, col.db.DB, code)
	if err != nil {
		return nil, database.NewRepositoryError("find item by code", err)
	}
	return item, nil
}

func (r *Repository) Insert(ctx context.Context, item *models.Item) (*models.Item, error) {
	col, err := r.items()
	if err != nil {
		return nil, err
	}

	stored := *item
	stored.ID = uuid.New().String()

	body, err := json.Marshal(stored)
	if err != nil {
		return nil, database.NewRepositoryError("insert item", err)
	}

	_, err = col.db.ExecContext(ctx, `
		INSERT INTO items (id, database_name, collection, code, category, price, body, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		stored.ID, col.database, col.name, stored.Code, stored.Category, stored.Price,
		string(body), time.Now(), time.Now(),
	)
	if err != nil {
		return nil, database.NewRepositoryError("insert item", err)
	}
	return &stored, nil
}

// UpdateByCode merges patch into the first matching row inside a transaction.
// An empty patch is a plain lookup.
func (r *Repository) UpdateByCode(ctx context.Context, code int64, patch *models.UpdateItemRequest) (*models.Item, error) {
	if patch.Empty() {
		return r.FindByCode(ctx, code)
	}

	col, err := r.items()
	if err != nil {
		return nil, err
	}

	var updated *models.Item
	err = col.inTx(ctx, func(tx *sql.Tx) error {
		item, err := col.first(ctx, tx, code)
		if err != nil || item == nil {
			return err
		}

		patch.ApplyTo(item)
		delete(item.Attributes, "_id")

		body, err := json.Marshal(item)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE items SET
				code = ?,
				category = ?,
				price = ?,
				body = ?,
				updated_at = ?
			WHERE id = ?
		`, item.Code, item.Category, item.Price, string(body), time.Now(), item.ID)
		if err != nil {
			return err
		}

		updated = item
		return nil
	})
	if err != nil {
		return nil, database.NewRepositoryError("update item", err)
	}
	return updated, nil
}

func (r *Repository) DeleteByCode(ctx context.Context, code int64) (*models.Item, error) {
	col, err := r.items()
	if err != nil {
		return nil, err
	}

	var deleted *models.Item
	err = col.inTx(ctx, func(tx *sql.Tx) error {
		item, err := col.first(ctx, tx, code)
		if err != nil || item == nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM items WHERE id = ?", item.ID); err != nil {
			return err
		}

		deleted = item
		return nil
	})
	if err != nil {
		return nil, database.NewRepositoryError("delete item", err)
	}
	return deleted, nil
}

// ==================== COLLECTION HELPERS ====================

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (c *Collection) query(ctx context.Context, op, clause string, args ...any) ([]models.Item, error) {
	rows, err := c.db.QueryContext(ctx,
		"SELECT id, body FROM items WHERE database_name = ? AND collection = ? "+clause,
		append([]any{c.database, c.name}, args...)...,
	)
	if err != nil {
		return nil, database.NewRepositoryError(op, err)
	}
	defer rows.Close()

	// Initialize with empty slice to avoid returning nil
	items := make([]models.Item, 0)
	for rows.Next() {
		var id, body string
		if err := rows.Scan(&id, &body); err != nil {
			return nil, database.NewRepositoryError(op, err)
		}
		item, err := decode(id, body)
		if err != nil {
			return nil, database.NewRepositoryError(op, err)
		}
		items = append(items, *item)
	}

	if err := rows.Err(); err != nil {
		return nil, database.NewRepositoryError(op, err)
	}
	return items, nil
}

// first returns the earliest stored row with the given code, or nil.
func (c *Collection) first(ctx context.Context, q querier, code int64) (*models.Item, error) {
	var id, body string
	err := q.QueryRowContext(ctx, `
		SELECT id, body FROM items
		WHERE database_name = ? AND collection = ? AND code = ?
		ORDER BY rowid
		LIMIT 1
	`, c.database, c.name, code).Scan(&id, &body)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decode(id, body)
}

func (c *Collection) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return errors.Join(err, rbErr)
		}
		return err
	}
	return tx.Commit()
}

func decode(id, body string) (*models.Item, error) {
	var item models.Item
	if err := json.Unmarshal([]byte(body), &item); err != nil {
		return nil, err
	}
	item.ID = id
	return &item, nil
}
