package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tashivar/backoffice/internal/domain"
	apperrors "github.com/tashivar/backoffice/pkg/errors"
)

func TestUpsertRule(t *testing.T) {
	rules := newFakeRulesRepo()
	svc := NewCommissionService(rules, testLogger())
	ctx := context.Background()

	t.Run("stores a valid rule", func(t *testing.T) {
		rule, err := svc.UpsertRule(ctx, UpsertCommissionRuleCommand{
			ProductType: "fabric",
			Rate:        15,
			Distribution: []DistributionShareInput{
				{Recipient: "agent", Percent: 30},
				{Recipient: "house", Percent: 70},
			},
		})

		require.NoError(t, err)
		assert.Equal(t, 15.0, rule.Rate)

		stored, err := rules.FindByProductType(ctx, domain.ProductFabric)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Len(t, stored.Distribution, 2)
	})

	t.Run("rejects a distribution not summing to 100", func(t *testing.T) {
		_, err := svc.UpsertRule(ctx, UpsertCommissionRuleCommand{
			ProductType:  "fabric",
			Rate:         15,
			Distribution: []DistributionShareInput{{Recipient: "agent", Percent: 90}},
		})

		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, 400, appErr.HTTPStatus)
	})
}

func TestListRules(t *testing.T) {
	rules := newFakeRulesRepo()
	svc := NewCommissionService(rules, testLogger())
	ctx := context.Background()

	t.Run("falls back to defaults when nothing is stored", func(t *testing.T) {
		listed, err := svc.ListRules(ctx)

		require.NoError(t, err)
		require.Len(t, listed, 2)
		assert.Equal(t, domain.DefaultFabricRate, listed[0].Rate)
		assert.Equal(t, domain.DefaultReadymadeRate, listed[1].Rate)
	})

	t.Run("stored rules override defaults", func(t *testing.T) {
		_, err := svc.UpsertRule(ctx, UpsertCommissionRuleCommand{
			ProductType:  "fabric",
			Rate:         20,
			Distribution: []DistributionShareInput{{Recipient: "house", Percent: 100}},
		})
		require.NoError(t, err)

		listed, err := svc.ListRules(ctx)
		require.NoError(t, err)
		assert.Equal(t, 20.0, listed[0].Rate)
		assert.Equal(t, domain.DefaultReadymadeRate, listed[1].Rate)
	})
}

func TestPreview(t *testing.T) {
	svc := NewCommissionService(newFakeRulesRepo(), testLogger())

	total, shares, err := svc.Preview(context.Background(), []domain.LineItem{
		{ProductID: "p1", Type: domain.ProductReadymade, Quantity: 50, CostPrice: 1100, SellingPrice: 1500},
	})

	require.NoError(t, err)
	// 50 * 1100 * 18%, commission is charged on procurement value
	assert.Equal(t, 9900.0, total)
	require.Len(t, shares, 1)
	assert.Equal(t, 9900.0, shares[0].Amount)
}

func TestNotifierPersistsWithoutProducer(t *testing.T) {
	repo := newFakeNotificationRepo()
	notifier := NewNotifier(repo, nil, nil, testLogger(), testMetrics())

	notifier.Emit(domain.NotifyLowStock, "Low stock", "prod-1 is low", "prod-1", "inventory")
	notifier.Close()

	stored, total, err := repo.FindAll(context.Background(), domain.NotificationFilter{}, domain.Pagination{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, stored, 1)
	assert.Equal(t, domain.NotifyLowStock, stored[0].Type)
	assert.False(t, stored[0].Read)
}
