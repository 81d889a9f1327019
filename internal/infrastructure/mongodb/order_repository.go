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

// OrderRepository implements domain.OrderRepository using MongoDB
type OrderRepository struct {
	collection *mongo.Collection
	db         *mongo.Database
}

// NewOrderRepository creates a new OrderRepository
func NewOrderRepository(db *mongo.Database) *OrderRepository {
	collection := db.Collection("orders")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "orderId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "createdAt", Value: -1},
			},
		},
		{
			Keys: bson.D{{Key: "buyer.id", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "vendor.id", Value: 1}},
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)

	return &OrderRepository{collection: collection, db: db}
}

// Save persists an order under optimistic concurrency. A version mismatch
// against the stored document reports ErrVersionConflict.
func (r *OrderRepository) Save(ctx context.Context, order *domain.Order) error {
	order.UpdatedAt = time.Now().UTC()
	currentVersion := order.Version
	order.Version++
	order.ClearDomainEvents()

	if currentVersion == 0 {
		if _, err := r.collection.InsertOne(ctx, order); err != nil {
			order.Version = currentVersion
			if mongo.IsDuplicateKeyError(err) {
				return domain.ErrVersionConflict
			}
			return fmt.Errorf("failed to insert order: %w", err)
		}
		return nil
	}

	filter := bson.M{"orderId": order.OrderID, "version": currentVersion}
	result, err := r.collection.ReplaceOne(ctx, filter, order)
	if err != nil {
		order.Version = currentVersion
		return fmt.Errorf("failed to save order: %w", err)
	}
	if result.MatchedCount == 0 {
		order.Version = currentVersion
		return domain.ErrVersionConflict
	}

	return nil
}

// FindByOrderID retrieves an order by its business ID
func (r *OrderRepository) FindByOrderID(ctx context.Context, orderID string) (*domain.Order, error) {
	var order domain.Order
	filter := bson.M{"orderId": orderID}

	err := r.collection.FindOne(ctx, filter).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}

	return &order, nil
}

// FindAll retrieves orders matching the filter, newest first
func (r *OrderRepository) FindAll(ctx context.Context, filter domain.OrderFilter, page domain.Pagination) ([]*domain.Order, int64, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.BuyerID != "" {
		query["buyer.id"] = filter.BuyerID
	}
	if filter.VendorID != "" {
		query["vendor.id"] = filter.VendorID
	}
	if filter.Since != nil || filter.Until != nil {
		createdAt := bson.M{}
		if filter.Since != nil {
			createdAt["$gte"] = *filter.Since
		}
		if filter.Until != nil {
			createdAt["$lte"] = *filter.Until
		}
		query["createdAt"] = createdAt
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(page.Skip).
		SetLimit(page.Limit)

	orders, err := r.findMany(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// Delete removes an order by its business ID
func (r *OrderRepository) Delete(ctx context.Context, orderID string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"orderId": orderID})
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("order %s not found", orderID)
	}
	return nil
}

// NextSequence returns the next order number for the year
func (r *OrderRepository) NextSequence(ctx context.Context, year int) (int64, error) {
	return nextSequence(ctx, r.db, "orders", year)
}

func (r *OrderRepository) findMany(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Order, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []*domain.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}

	return orders, nil
}
