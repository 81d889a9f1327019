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

// CommissionRuleRepository implements domain.CommissionRuleRepository
// using MongoDB. One document per product type.
type CommissionRuleRepository struct {
	collection *mongo.Collection
}

// NewCommissionRuleRepository creates a new CommissionRuleRepository
func NewCommissionRuleRepository(db *mongo.Database) *CommissionRuleRepository {
	collection := db.Collection("commission_rules")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, _ = collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "productType", Value: 1}},
		Options: options.Index().SetUnique(true),
	})

	return &CommissionRuleRepository{collection: collection}
}

// Upsert replaces the rule for the product type
func (r *CommissionRuleRepository) Upsert(ctx context.Context, rule *domain.CommissionRule) error {
	filter := bson.M{"productType": rule.ProductType}
	update := bson.M{"$set": bson.M{
		"productType":  rule.ProductType,
		"rate":         rule.Rate,
		"distribution": rule.Distribution,
		"updatedAt":    time.Now().UTC(),
	}, "$setOnInsert": bson.M{
		"createdAt": rule.CreatedAt,
	}}

	opts := options.Update().SetUpsert(true)
	if _, err := r.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to upsert commission rule: %w", err)
	}
	return nil
}

// FindByProductType retrieves the rule for one product type
func (r *CommissionRuleRepository) FindByProductType(ctx context.Context, productType domain.ProductType) (*domain.CommissionRule, error) {
	var rule domain.CommissionRule
	err := r.collection.FindOne(ctx, bson.M{"productType": productType}).Decode(&rule)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &rule, nil
}

// FindAll retrieves every stored rule
func (r *CommissionRuleRepository) FindAll(ctx context.Context) ([]*domain.CommissionRule, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to find commission rules: %w", err)
	}
	defer cursor.Close(ctx)

	var rules []*domain.CommissionRule
	if err := cursor.All(ctx, &rules); err != nil {
		return nil, fmt.Errorf("failed to decode commission rules: %w", err)
	}

	return rules, nil
}
