package database

import (
	"context"
	"errors"
	"furniture-inventory/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Repository runs item queries against one MongoDB collection. It holds no
// state of its own beyond the names; the handle comes from Client per call.
type Repository struct {
	client     *Client
	collection string
}

func NewRepository(client *Client, collection string) *Repository {
	return &Repository{client: client, collection: collection}
}

func (r *Repository) items() (*mongo.Collection, error) {
	db, err := r.client.Database()
	if err != nil {
		return nil, err
	}
	return db.Collection(r.collection), nil
}

// ==================== QUERIES ====================

func (r *Repository) FindAll(ctx context.Context) ([]models.Item, error) {
	return r.find(ctx, "find all items", bson.D{})
}

func (r *Repository) FindByCategory(ctx context.Context, category string) ([]models.Item, error) {
	return r.find(ctx, "find items by category", bson.D{{Key: "category", Value: category}})
}

// FindByPriceAtLeast returns items with price >= value, cheapest first.
func (r *Repository) FindByPriceAtLeast(ctx context.Context, value float64) ([]models.Item, error) {
	filter := bson.D{{Key: "price", Value: bson.D{{Key: "$gte", Value: value}}}}
	sort := options.Find().SetSort(bson.D{{Key: "price", Value: 1}})
	return r.find(ctx, "find items by minimum price", filter, sort)
}

// FindByPriceAtMost returns items with price <= value, most expensive first.
func (r *Repository) FindByPriceAtMost(ctx context.Context, value float64) ([]models.Item, error) {
	filter := bson.D{{Key: "price", Value: bson.D{{Key: "$lte", Value: value}}}}
	sort := options.Find().SetSort(bson.D{{Key: "price", Value: -1}})
	return r.find(ctx, "find items by maximum price", filter, sort)
}

func (r *Repository) find(ctx context.Context, op string, filter bson.D, opts ...*options.FindOptions) ([]models.Item, error) {
	col, err := r.items()
	if err != nil {
		return nil, err
	}

	cursor, err := col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, NewRepositoryError(op, err)
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	// Initialize with empty slice to avoid returning nil
	items := make([]models.Item, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, NewRepositoryError(op, err)
	}
	return items, nil
}

// FindByCode returns the first item with the given code, or nil if there is
// none.
func (r *Repository) FindByCode(ctx context.Context, code int64) (*models.Item, error) {
	col, err := r.items()
	if err != nil {
		return nil, err
	}

	var item models.Item
	err = col.FindOne(ctx, byCode(code)).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, NewRepositoryError("find item by code", err)
	}
	return &item, nil
}

// ==================== MUTATIONS ====================

// Insert stores item as given. Codes are not checked for uniqueness.
func (r *Repository) Insert(ctx context.Context, item *models.Item) (*models.Item, error) {
	col, err := r.items()
	if err != nil {
		return nil, err
	}

	stored := *item
	stored.ID = ""

	res, err := col.InsertOne(ctx, stored)
	if err != nil {
		return nil, NewRepositoryError("insert item", err)
	}

	switch id := res.InsertedID.(type) {
	case primitive.ObjectID:
		stored.ID = id.Hex()
	case string:
		stored.ID = id
	}
	return &stored, nil
}

// UpdateByCode shallow-merges the supplied fields into the first item with
// the given code and returns the result. It never inserts.
func (r *Repository) UpdateByCode(ctx context.Context, code int64, patch *models.UpdateItemRequest) (*models.Item, error) {
	fields := patch.Fields()
	delete(fields, "_id")
	if len(fields) == 0 {
		return r.FindByCode(ctx, code)
	}

	col, err := r.items()
	if err != nil {
		return nil, err
	}

	update := bson.D{{Key: "$set", Value: fields}}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetUpsert(false)

	var item models.Item
	err = col.FindOneAndUpdate(ctx, byCode(code), update, opts).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, NewRepositoryError("update item", err)
	}
	return &item, nil
}

// DeleteByCode removes the first item with the given code and returns it.
func (r *Repository) DeleteByCode(ctx context.Context, code int64) (*models.Item, error) {
	col, err := r.items()
	if err != nil {
		return nil, err
	}

	var item models.Item
	err = col.FindOneAndDelete(ctx, byCode(code)).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, NewRepositoryError("delete item", err)
	}
	return &item, nil
}

func byCode(code int64) bson.D {
	return bson.D{{Key: "code", Value: code}}
}
