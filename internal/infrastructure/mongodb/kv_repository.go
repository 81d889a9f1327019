package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tashivar/backoffice/internal/domain"
)

// kvDocument stores one opaque blob keyed by the client-chosen key
type kvDocument struct {
	Key       string             `bson:"_id"`
	Value     primitive.Binary   `bson:"value"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

// KVRepository implements domain.KVRepository using MongoDB
type KVRepository struct {
	collection *mongo.Collection
}

// NewKVRepository creates a new KVRepository
func NewKVRepository(db *mongo.Database) *KVRepository {
	return &KVRepository{collection: db.Collection("kv_store")}
}

// Get returns the blob stored under a key, or nil when absent
func (r *KVRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var doc kvDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read key: %w", err)
	}
	return doc.Value.Data, nil
}

// Set stores a blob under a key, replacing any previous value
func (r *KVRepository) Set(ctx context.Context, key string, value []byte) error {
	doc := kvDocument{
		Key:       key,
		Value:     primitive.Binary{Data: value},
		UpdatedAt: time.Now().UTC(),
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection.ReplaceOne(ctx, bson.M{"_id": key}, doc, opts); err != nil {
		return fmt.Errorf("failed to write key: %w", err)
	}
	return nil
}

// Delete removes a key. Deleting an absent key is not an error.
func (r *KVRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("failed to delete key: %w", err)
	}
	return nil
}

// Keys lists stored keys, optionally narrowed to a prefix
func (r *KVRepository) Keys(ctx context.Context, prefix string) ([]string, error) {
	query := bson.M{}
	if prefix != "" {
		query["_id"] = bson.M{"$regex": "^" + regexp.QuoteMeta(prefix)}
	}

	opts := options.Find().
		SetProjection(bson.M{"_id": 1}).
		SetSort(bson.D{{Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	defer cursor.Close(ctx)

	keys := make([]string, 0)
	for cursor.Next(ctx) {
		var doc struct {
			Key string `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode key: %w", err)
		}
		keys = append(keys, doc.Key)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}

	return keys, nil
}

// compile-time interface check
var _ domain.KVRepository = (*KVRepository)(nil)
