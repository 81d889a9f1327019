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

// LedgerRepository implements domain.LedgerRepository using MongoDB. The
// collection is append-only; the only removal path is the administrative
// full purge.
type LedgerRepository struct {
	collection *mongo.Collection
	db         *mongo.Database
}

// NewLedgerRepository creates a new LedgerRepository
func NewLedgerRepository(db *mongo.Database) *LedgerRepository {
	collection := db.Collection("stock_transactions")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "txnId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "productId", Value: 1},
				{Key: "createdAt", Value: -1},
			},
		},
		{
			Keys: bson.D{{Key: "orderId", Value: 1}},
		},
		{
			Keys: bson.D{
				{Key: "type", Value: 1},
				{Key: "createdAt", Value: -1},
			},
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)

	return &LedgerRepository{collection: collection, db: db}
}

// Insert appends a ledger entry
func (r *LedgerRepository) Insert(ctx context.Context, txn *domain.StockTransaction) error {
	if _, err := r.collection.InsertOne(ctx, txn); err != nil {
		return fmt.Errorf("failed to insert stock transaction: %w", err)
	}
	return nil
}

// FindByTxnID retrieves a ledger entry by its business ID
func (r *LedgerRepository) FindByTxnID(ctx context.Context, txnID string) (*domain.StockTransaction, error) {
	var txn domain.StockTransaction
	err := r.collection.FindOne(ctx, bson.M{"txnId": txnID}).Decode(&txn)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &txn, nil
}

// FindAll retrieves ledger entries matching the filter, newest first
func (r *LedgerRepository) FindAll(ctx context.Context, filter domain.TxnFilter, page domain.Pagination) ([]*domain.StockTransaction, int64, error) {
	query := bson.M{}
	if filter.ProductID != "" {
		query["productId"] = filter.ProductID
	}
	if filter.OrderID != "" {
		query["orderId"] = filter.OrderID
	}
	if filter.Type != "" {
		query["type"] = filter.Type
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
		return nil, 0, fmt.Errorf("failed to count stock transactions: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(page.Skip).
		SetLimit(page.Limit)

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find stock transactions: %w", err)
	}
	defer cursor.Close(ctx)

	var txns []*domain.StockTransaction
	if err := cursor.All(ctx, &txns); err != nil {
		return nil, 0, fmt.Errorf("failed to decode stock transactions: %w", err)
	}

	return txns, total, nil
}

// FindByProduct retrieves a product's full ledger history, oldest first
func (r *LedgerRepository) FindByProduct(ctx context.Context, productID string) ([]*domain.StockTransaction, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"productId": productID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find stock transactions: %w", err)
	}
	defer cursor.Close(ctx)

	var txns []*domain.StockTransaction
	if err := cursor.All(ctx, &txns); err != nil {
		return nil, fmt.Errorf("failed to decode stock transactions: %w", err)
	}

	return txns, nil
}

// DeleteAll wipes the ledger and returns the number of entries removed
func (r *LedgerRepository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to purge stock transactions: %w", err)
	}
	return result.DeletedCount, nil
}

// NextSequence returns the next transaction number for the year
func (r *LedgerRepository) NextSequence(ctx context.Context, year int) (int64, error) {
	return nextSequence(ctx, r.db, "stock_transactions", year)
}
