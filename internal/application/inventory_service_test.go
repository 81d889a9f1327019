package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tashivar/backoffice/internal/domain"
	apperrors "github.com/tashivar/backoffice/pkg/errors"
)

func syncProduct(t *testing.T, env *testEnv, productID string) {
	t.Helper()
	_, err := env.invSvc.SyncProduct(context.Background(), SyncProductCommand{
		ProductID: productID, Name: "Cotton Shirt", Type: "readymade",
	})
	require.NoError(t, err)
}

func TestRecordTransaction(t *testing.T) {
	t.Run("appends to the ledger and updates the projection", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := context.Background()
		syncProduct(t, env, "prod-1")

		txn, err := env.invSvc.RecordTransaction(ctx, RecordTransactionCommand{
			ProductID: "prod-1", Type: "purchase", Quantity: 100, UnitPrice: 400,
		})
		require.NoError(t, err)
		assert.Regexp(t, `^TXN-\d{4}-\d{5}$`, txn.TxnID)

		item, err := env.invSvc.GetInventoryItem(ctx, "prod-1")
		require.NoError(t, err)
		assert.Equal(t, 100, item.Quantity)
		assert.Equal(t, domain.StockInStock, item.Status)
		assert.Equal(t, txn.TxnID, item.LastTxnID)
	})

	t.Run("stamps the stock snapshot on each entry", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := context.Background()
		syncProduct(t, env, "prod-1")

		purchase, err := env.invSvc.RecordTransaction(ctx, RecordTransactionCommand{
			ProductID: "prod-1", Type: "purchase", Quantity: 100,
		})
		require.NoError(t, err)
		assert.Equal(t, 0, purchase.PreviousStock)
		assert.Equal(t, 100, purchase.NewStock)

		sale, err := env.invSvc.RecordTransaction(ctx, RecordTransactionCommand{
			ProductID: "prod-1", Type: "sale", Quantity: 30,
		})
		require.NoError(t, err)
		assert.Equal(t, 100, sale.PreviousStock)
		assert.Equal(t, 70, sale.NewStock)
		assert.Equal(t, sale.PreviousStock+sale.SignedQuantity(), sale.NewStock)
	})

	t.Run("creates the projection for an unseen product", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := context.Background()

		_, err := env.invSvc.RecordTransaction(ctx, RecordTransactionCommand{
			ProductID: "prod-new", Type: "purchase", Quantity: 5,
		})
		require.NoError(t, err)

		item, err := env.invSvc.GetInventoryItem(ctx, "prod-new")
		require.NoError(t, err)
		assert.Equal(t, 5, item.Quantity)
		assert.Equal(t, domain.DefaultReorderPoint, item.ReorderPoint)
	})

	t.Run("reject policy blocks negative stock and writes no ledger entry", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := context.Background()
		strict := NewInventoryService(env.ledger, env.inv, env.notifier, testLogger(), testMetrics(), domain.NegativeStockReject)

		_, err := strict.RecordTransaction(ctx, RecordTransactionCommand{
			ProductID: "prod-1", Type: "sale", Quantity: 3,
		})

		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.CodeGuardViolation, appErr.Code)

		txns, total, err := env.ledger.FindAll(ctx, domain.TxnFilter{ProductID: "prod-1"}, domain.Pagination{})
		require.NoError(t, err)
		assert.Empty(t, txns)
		assert.Zero(t, total)
	})

	t.Run("crossing the reorder point emits a low stock alert", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := context.Background()
		syncProduct(t, env, "prod-1")

		_, err := env.invSvc.RecordTransaction(ctx, RecordTransactionCommand{
			ProductID: "prod-1", Type: "purchase", Quantity: 30,
		})
		require.NoError(t, err)
		_, err = env.invSvc.RecordTransaction(ctx, RecordTransactionCommand{
			ProductID: "prod-1", Type: "sale", Quantity: 15,
		})
		require.NoError(t, err)

		env.notifier.Close()
		assert.Equal(t, 1, env.notifs.countByType(domain.NotifyLowStock))
	})
}

func TestSummarizeLedger(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.invSvc.RecordTransaction(ctx, RecordTransactionCommand{ProductID: "prod-1", Type: "purchase", Quantity: 50})
	require.NoError(t, err)
	_, err = env.invSvc.RecordTransaction(ctx, RecordTransactionCommand{ProductID: "prod-1", Type: "sale", Quantity: 20})
	require.NoError(t, err)
	_, err = env.invSvc.RecordTransaction(ctx, RecordTransactionCommand{ProductID: "prod-2", Type: "purchase", Quantity: 10})
	require.NoError(t, err)

	t.Run("single product", func(t *testing.T) {
		summaries, err := env.invSvc.Summarize(ctx, "prod-1")
		require.NoError(t, err)
		require.Len(t, summaries, 1)
		assert.Equal(t, 30, summaries[0].NetQuantity)
		assert.Equal(t, 50, summaries[0].TotalIn)
		assert.Equal(t, 20, summaries[0].TotalOut)
	})

	t.Run("whole ledger", func(t *testing.T) {
		summaries, err := env.invSvc.Summarize(ctx, "")
		require.NoError(t, err)
		assert.Len(t, summaries, 2)
	})
}

func TestSyncCatalog(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	synced, err := env.invSvc.SyncCatalog(ctx, SyncCatalogCommand{
		Products: []SyncProductCommand{
			{ProductID: "prod-1", Name: "Cotton Shirt", Type: "readymade"},
			{ProductID: "prod-2", Name: "Silk Fabric", Type: "fabric", MinStock: 5, MaxStock: 300, ReorderPoint: 12},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, 2, synced)

	item, err := env.invSvc.GetInventoryItem(ctx, "prod-2")
	require.NoError(t, err)
	assert.Equal(t, 12, item.ReorderPoint)

	t.Run("first sync seeds opening stock through the ledger", func(t *testing.T) {
		item, err := env.invSvc.SyncProduct(ctx, SyncProductCommand{
			ProductID: "prod-3", Name: "Linen Scarf", Type: "fabric", Quantity: 25,
		})
		require.NoError(t, err)
		assert.Equal(t, 25, item.Quantity)

		txns, _, err := env.invSvc.ListTransactions(ctx, domain.TxnFilter{ProductID: "prod-3"}, domain.Pagination{})
		require.NoError(t, err)
		require.Len(t, txns, 1)
		assert.Equal(t, domain.TxnAdjustment, txns[0].Type)
		assert.Equal(t, domain.AdjustmentIn, txns[0].Direction)
		assert.Equal(t, "catalog-sync", txns[0].Reference)

		// A resync never reseeds; the ledger stays authoritative.
		item, err = env.invSvc.SyncProduct(ctx, SyncProductCommand{
			ProductID: "prod-3", Name: "Linen Scarf", Type: "fabric", Quantity: 90,
		})
		require.NoError(t, err)
		assert.Equal(t, 25, item.Quantity)

		txns, _, err = env.invSvc.ListTransactions(ctx, domain.TxnFilter{ProductID: "prod-3"}, domain.Pagination{})
		require.NoError(t, err)
		assert.Len(t, txns, 1)
	})

	t.Run("resync preserves the projected quantity", func(t *testing.T) {
		_, err := env.invSvc.RecordTransaction(ctx, RecordTransactionCommand{ProductID: "prod-1", Type: "purchase", Quantity: 40})
		require.NoError(t, err)

		_, err = env.invSvc.SyncProduct(ctx, SyncProductCommand{ProductID: "prod-1", Name: "Cotton Shirt v2", Type: "readymade"})
		require.NoError(t, err)

		item, err := env.invSvc.GetInventoryItem(ctx, "prod-1")
		require.NoError(t, err)
		assert.Equal(t, 40, item.Quantity)
		assert.Equal(t, "Cotton Shirt v2", item.Name)
	})
}

func TestRebuildProjection(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	syncProduct(t, env, "prod-1")

	_, err := env.invSvc.RecordTransaction(ctx, RecordTransactionCommand{ProductID: "prod-1", Type: "purchase", Quantity: 60})
	require.NoError(t, err)
	_, err = env.invSvc.RecordTransaction(ctx, RecordTransactionCommand{ProductID: "prod-1", Type: "sale", Quantity: 10})
	require.NoError(t, err)

	// Corrupt the projection, then rebuild it from the ledger.
	item, err := env.inv.FindByProductID(ctx, "prod-1")
	require.NoError(t, err)
	item.Quantity = 999
	require.NoError(t, env.inv.Save(ctx, item))

	rebuilt, err := env.invSvc.RebuildProjection(ctx, "prod-1")
	require.NoError(t, err)
	assert.Equal(t, 50, rebuilt.Quantity)
	assert.Equal(t, domain.StockInStock, rebuilt.Status)
}

func TestCheckAvailabilityService(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	syncProduct(t, env, "prod-1")
	_, err := env.invSvc.RecordTransaction(ctx, RecordTransactionCommand{ProductID: "prod-1", Type: "purchase", Quantity: 12})
	require.NoError(t, err)

	result, err := env.invSvc.CheckAvailability(ctx, CheckAvailabilityCommand{ProductID: "prod-1", Quantity: 10})

	require.NoError(t, err)
	assert.True(t, result.Sufficient)
	assert.True(t, result.LowStockWarning)
}

func TestPurgeInventory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	syncProduct(t, env, "prod-1")
	syncProduct(t, env, "prod-2")

	deleted, err := env.invSvc.PurgeInventory(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	_, err = env.invSvc.GetInventoryItem(ctx, "prod-1")
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.HTTPStatus)
}

func TestPurgeLedger(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	syncProduct(t, env, "prod-1")

	_, err := env.invSvc.RecordTransaction(ctx, RecordTransactionCommand{
		ProductID: "prod-1", Type: "purchase", Quantity: 50, UnitPrice: 400,
	})
	require.NoError(t, err)
	_, err = env.invSvc.RecordTransaction(ctx, RecordTransactionCommand{
		ProductID: "prod-1", Type: "sale", Quantity: 20, UnitPrice: 600,
	})
	require.NoError(t, err)

	deleted, err := env.invSvc.PurgeLedger(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	txns, total, err := env.invSvc.ListTransactions(ctx, domain.TxnFilter{}, domain.Pagination{Limit: 20})
	require.NoError(t, err)
	assert.Empty(t, txns)
	assert.Zero(t, total)

	// The projection still shows 30 on hand until it is rebuilt against
	// the now empty ledger.
	item, err := env.invSvc.GetInventoryItem(ctx, "prod-1")
	require.NoError(t, err)
	assert.Equal(t, 30, item.Quantity)

	rebuilt, err := env.invSvc.RebuildProjection(ctx, "prod-1")
	require.NoError(t, err)
	assert.Equal(t, 0, rebuilt.Quantity)
	assert.Equal(t, domain.StockOutOfStock, rebuilt.Status)
}
