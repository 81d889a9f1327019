package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tashivar/backoffice/internal/domain"
)

// NotificationRepository implements domain.NotificationRepository using
// MongoDB.
type NotificationRepository struct {
	collection *mongo.Collection
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	collection := db.Collection("notifications")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "notifId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "read", Value: 1},
				{Key: "createdAt", Value: -1},
			},
		},
		{
			Keys: bson.D{{Key: "type", Value: 1}},
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)

	return &NotificationRepository{collection: collection}
}

// Insert stores a notification
func (r *NotificationRepository) Insert(ctx context.Context, notification *domain.Notification) error {
	if _, err := r.collection.InsertOne(ctx, notification); err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

// FindAll retrieves notifications matching the filter, newest first
func (r *NotificationRepository) FindAll(ctx context.Context, filter domain.NotificationFilter, page domain.Pagination) ([]*domain.Notification, int64, error) {
	query := bson.M{}
	if filter.Type != "" {
		query["type"] = filter.Type
	}
	if filter.UnreadOnly {
		query["read"] = false
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(page.Skip).
		SetLimit(page.Limit)

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find notifications: %w", err)
	}
	defer cursor.Close(ctx)

	var notifications []*domain.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, 0, fmt.Errorf("failed to decode notifications: %w", err)
	}

	return notifications, total, nil
}

// MarkRead acknowledges one notification
func (r *NotificationRepository) MarkRead(ctx context.Context, notifID string) error {
	now := time.Now().UTC()
	update := bson.M{"$set": bson.M{"read": true, "readAt": now}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"notifId": notifID, "read": false}, update)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if result.MatchedCount == 0 {
		// Already read or unknown; check which.
		count, err := r.collection.CountDocuments(ctx, bson.M{"notifId": notifID})
		if err != nil {
			return fmt.Errorf("failed to mark notification read: %w", err)
		}
		if count == 0 {
			return fmt.Errorf("notification %s not found", notifID)
		}
	}
	return nil
}

// MarkAllRead acknowledges every unread notification
func (r *NotificationRepository) MarkAllRead(ctx context.Context) (int64, error) {
	now := time.Now().UTC()
	update := bson.M{"$set": bson.M{"read": true, "readAt": now}}

	result, err := r.collection.UpdateMany(ctx, bson.M{"read": false}, update)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return result.ModifiedCount, nil
}
