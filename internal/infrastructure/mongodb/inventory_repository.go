package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tashivar/backoffice/internal/domain"
)

// InventoryRepository implements domain.InventoryRepository using MongoDB
type InventoryRepository struct {
	collection *mongo.Collection
}

// NewInventoryRepository creates a new InventoryRepository
func NewInventoryRepository(db *mongo.Database) *InventoryRepository {
	collection := db.Collection("inventory")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "productId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "sku", Value: 1}},
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)

	return &InventoryRepository{collection: collection}
}

// Save upserts a projection item under optimistic concurrency
func (r *InventoryRepository) Save(ctx context.Context, item *domain.InventoryItem) error {
	item.UpdatedAt = time.Now().UTC()
	currentVersion := item.Version
	item.Version++

	if currentVersion == 0 {
		if _, err := r.collection.InsertOne(ctx, item); err != nil {
			item.Version = currentVersion
			if mongo.IsDuplicateKeyError(err) {
				return domain.ErrVersionConflict
			}
			return fmt.Errorf("failed to insert inventory item: %w", err)
		}
		return nil
	}

	filter := bson.M{"productId": item.ProductID, "version": currentVersion}
	result, err := r.collection.ReplaceOne(ctx, filter, item)
	if err != nil {
		item.Version = currentVersion
		return fmt.Errorf("failed to save inventory item: %w", err)
	}
	if result.MatchedCount == 0 {
		item.Version = currentVersion
		return domain.ErrVersionConflict
	}

	return nil
}

// FindByProductID retrieves a projection item
func (r *InventoryRepository) FindByProductID(ctx context.Context, productID string) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
	err := r.collection.FindOne(ctx, bson.M{"productId": productID}).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// FindAll retrieves projection items matching the filter, by product name
func (r *InventoryRepository) FindAll(ctx context.Context, filter domain.InventoryFilter, page domain.Pagination) ([]*domain.InventoryItem, int64, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Type != "" {
		query["type"] = filter.Type
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count inventory: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetSkip(page.Skip).
		SetLimit(page.Limit)

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find inventory: %w", err)
	}
	defer cursor.Close(ctx)

	var items []*domain.InventoryItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, 0, fmt.Errorf("failed to decode inventory: %w", err)
	}

	return items, total, nil
}

// Delete removes one projection item
func (r *InventoryRepository) Delete(ctx context.Context, productID string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"productId": productID})
	if err != nil {
		return fmt.Errorf("failed to delete inventory item: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("inventory item %s not found", productID)
	}
	return nil
}

// DeleteAll removes every projection item
func (r *InventoryRepository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to purge inventory: %w", err)
	}
	return result.DeletedCount, nil
}
