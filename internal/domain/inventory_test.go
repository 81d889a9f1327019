package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name         string
		quantity     int
		reorderPoint int
		maxStock     int
		want         StockStatus
	}{
		{"zero is out of stock", 0, 20, 1000, StockOutOfStock},
		{"negative is out of stock", -5, 20, 1000, StockOutOfStock},
		{"at reorder point is low", 20, 20, 1000, StockLowStock},
		{"below reorder point is low", 12, 20, 1000, StockLowStock},
		{"just above reorder point is in stock", 21, 20, 1000, StockInStock},
		{"at max is in stock", 1000, 20, 1000, StockInStock},
		{"above max is overstocked", 1001, 20, 1000, StockOverstocked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(tt.quantity, tt.reorderPoint, tt.maxStock))
		})
	}
}

func TestNewInventoryItem(t *testing.T) {
	t.Run("applies default thresholds when unset", func(t *testing.T) {
		item, err := NewInventoryItem("prod-1", "SKU-001", "Cotton Shirt", ProductReadymade, 0, 0, 0)

		require.NoError(t, err)
		assert.Equal(t, DefaultMinStock, item.MinStock)
		assert.Equal(t, DefaultMaxStock, item.MaxStock)
		assert.Equal(t, DefaultReorderPoint, item.ReorderPoint)
		assert.Equal(t, 0, item.Quantity)
		assert.Equal(t, StockOutOfStock, item.Status)
	})

	t.Run("keeps explicit thresholds", func(t *testing.T) {
		item, err := NewInventoryItem("prod-1", "SKU-001", "Silk Fabric", ProductFabric, 5, 200, 15)

		require.NoError(t, err)
		assert.Equal(t, 5, item.MinStock)
		assert.Equal(t, 200, item.MaxStock)
		assert.Equal(t, 15, item.ReorderPoint)
	})

	t.Run("rejects invalid product type", func(t *testing.T) {
		_, err := NewInventoryItem("prod-1", "", "x", "gadget", 0, 0, 0)
		assert.ErrorIs(t, err, ErrInvalidProductType)
	})
}

func TestApplyTransaction(t *testing.T) {
	newItem := func(t *testing.T) *InventoryItem {
		t.Helper()
		item, err := NewInventoryItem("prod-1", "SKU-001", "Cotton Shirt", ProductReadymade, 0, 0, 0)
		require.NoError(t, err)
		return item
	}

	t.Run("folds entries and re-derives status", func(t *testing.T) {
		item := newItem(t)

		purchase, err := NewStockTransaction("TXN-1", "prod-1", TxnPurchase, "", 100, 400)
		require.NoError(t, err)
		require.NoError(t, item.ApplyTransaction(purchase, NegativeStockAllow))
		assert.Equal(t, 100, item.Quantity)
		assert.Equal(t, StockInStock, item.Status)
		assert.Equal(t, "TXN-1", item.LastTxnID)

		sale, err := NewStockTransaction("TXN-2", "prod-1", TxnSale, "", 85, 600)
		require.NoError(t, err)
		require.NoError(t, item.ApplyTransaction(sale, NegativeStockAllow))
		assert.Equal(t, 15, item.Quantity)
		assert.Equal(t, StockLowStock, item.Status)
	})

	t.Run("allow policy lets the projection go negative", func(t *testing.T) {
		item := newItem(t)

		sale, err := NewStockTransaction("TXN-3", "prod-1", TxnSale, "", 10, 0)
		require.NoError(t, err)
		require.NoError(t, item.ApplyTransaction(sale, NegativeStockAllow))

		assert.Equal(t, -10, item.Quantity)
		assert.Equal(t, StockOutOfStock, item.Status)
	})

	t.Run("reject policy refuses negative stock and leaves the item untouched", func(t *testing.T) {
		item := newItem(t)
		purchase, err := NewStockTransaction("TXN-4", "prod-1", TxnPurchase, "", 5, 0)
		require.NoError(t, err)
		require.NoError(t, item.ApplyTransaction(purchase, NegativeStockReject))

		sale, err := NewStockTransaction("TXN-5", "prod-1", TxnSale, "", 8, 0)
		require.NoError(t, err)
		err = item.ApplyTransaction(sale, NegativeStockReject)

		assert.ErrorIs(t, err, ErrInsufficientStock)
		assert.Equal(t, 5, item.Quantity)
		assert.Equal(t, "TXN-4", item.LastTxnID)
	})
}

func TestCheckAvailability(t *testing.T) {
	item, err := NewInventoryItem("prod-1", "SKU-001", "Cotton Shirt", ProductReadymade, 5, 1000, 10)
	require.NoError(t, err)
	item.Quantity = 12
	item.Status = DeriveStatus(item.Quantity, item.ReorderPoint, item.MaxStock)

	t.Run("sufficient stock near the reorder point carries a warning", func(t *testing.T) {
		result, err := item.CheckAvailability(10)

		require.NoError(t, err)
		assert.True(t, result.Sufficient)
		assert.Equal(t, 12, result.Available)
		assert.True(t, result.LowStockWarning, "fulfilling would leave 2 on hand, at or below reorder point 10")
	})

	t.Run("sufficient stock well above the reorder point has no warning", func(t *testing.T) {
		result, err := item.CheckAvailability(1)

		require.NoError(t, err)
		assert.True(t, result.Sufficient)
		assert.False(t, result.LowStockWarning)
	})

	t.Run("insufficient stock", func(t *testing.T) {
		result, err := item.CheckAvailability(20)

		require.NoError(t, err)
		assert.False(t, result.Sufficient)
		assert.False(t, result.LowStockWarning)
	})

	t.Run("rejects non-positive request", func(t *testing.T) {
		_, err := item.CheckAvailability(0)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})
}

func TestUpdateThresholds(t *testing.T) {
	item, err := NewInventoryItem("prod-1", "SKU-001", "Cotton Shirt", ProductReadymade, 0, 0, 0)
	require.NoError(t, err)
	item.Quantity = 30
	item.Status = DeriveStatus(item.Quantity, item.ReorderPoint, item.MaxStock)
	require.Equal(t, StockInStock, item.Status)

	require.NoError(t, item.UpdateThresholds(10, 500, 40))
	assert.Equal(t, StockLowStock, item.Status, "raising the reorder point above the quantity flips the status")

	assert.ErrorIs(t, item.UpdateThresholds(0, 500, 40), ErrInvalidQuantity)
	assert.ErrorIs(t, item.UpdateThresholds(100, 50, 40), ErrInvalidQuantity)
}
