package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// nextSequence atomically increments and returns the named per-year
// counter. The counter document is created on first use, so the first
// number handed out is 1.
func nextSequence(ctx context.Context, db *mongo.Database, name string, year int) (int64, error) {
	counters := db.Collection("counters")

	filter := bson.M{"_id": fmt.Sprintf("%s-%d", name, year)}
	update := bson.M{"$inc": bson.M{"seq": int64(1)}}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter struct {
		Seq int64 `bson:"seq"`
	}
	if err := counters.FindOneAndUpdate(ctx, filter, update, opts).Decode(&counter); err != nil {
		return 0, fmt.Errorf("failed to advance %s counter: %w", name, err)
	}

	return counter.Seq, nil
}
