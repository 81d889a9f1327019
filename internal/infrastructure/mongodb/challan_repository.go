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

// ChallanRepository implements domain.ChallanRepository using MongoDB
type ChallanRepository struct {
	collection *mongo.Collection
	db         *mongo.Database
}

// NewChallanRepository creates a new ChallanRepository
func NewChallanRepository(db *mongo.Database) *ChallanRepository {
	collection := db.Collection("challans")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "challanNumber", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "createdAt", Value: -1},
			},
		},
		{
			Keys: bson.D{{Key: "orderId", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "customer.id", Value: 1}},
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)

	return &ChallanRepository{collection: collection, db: db}
}

// Save persists a challan under optimistic concurrency
func (r *ChallanRepository) Save(ctx context.Context, challan *domain.Challan) error {
	challan.UpdatedAt = time.Now().UTC()
	currentVersion := challan.Version
	challan.Version++

	if currentVersion == 0 {
		if _, err := r.collection.InsertOne(ctx, challan); err != nil {
			challan.Version = currentVersion
			if mongo.IsDuplicateKeyError(err) {
				return domain.ErrVersionConflict
			}
			return fmt.Errorf("failed to insert challan: %w", err)
		}
		return nil
	}

	filter := bson.M{"challanNumber": challan.ChallanNumber, "version": currentVersion}
	result, err := r.collection.ReplaceOne(ctx, filter, challan)
	if err != nil {
		challan.Version = currentVersion
		return fmt.Errorf("failed to save challan: %w", err)
	}
	if result.MatchedCount == 0 {
		challan.Version = currentVersion
		return domain.ErrVersionConflict
	}

	return nil
}

// FindByNumber retrieves a challan by its business ID
func (r *ChallanRepository) FindByNumber(ctx context.Context, challanNumber string) (*domain.Challan, error) {
	var challan domain.Challan
	err := r.collection.FindOne(ctx, bson.M{"challanNumber": challanNumber}).Decode(&challan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &challan, nil
}

// FindAll retrieves challans matching the filter, newest first
func (r *ChallanRepository) FindAll(ctx context.Context, filter domain.ChallanFilter, page domain.Pagination) ([]*domain.Challan, int64, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.CustomerID != "" {
		query["customer.id"] = filter.CustomerID
	}
	if filter.OrderID != "" {
		query["orderId"] = filter.OrderID
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count challans: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(page.Skip).
		SetLimit(page.Limit)

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find challans: %w", err)
	}
	defer cursor.Close(ctx)

	var challans []*domain.Challan
	if err := cursor.All(ctx, &challans); err != nil {
		return nil, 0, fmt.Errorf("failed to decode challans: %w", err)
	}

	return challans, total, nil
}

// NextSequence returns the next challan number for the year
func (r *ChallanRepository) NextSequence(ctx context.Context, year int) (int64, error) {
	return nextSequence(ctx, r.db, "challans", year)
}
