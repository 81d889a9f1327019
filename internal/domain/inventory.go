package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Default thresholds applied when a catalog product carries none
const (
	DefaultMinStock     = 10
	DefaultMaxStock     = 1000
	DefaultReorderPoint = 20
)

// StockStatus is the derived health of an inventory projection
type StockStatus string

const (
	StockInStock     StockStatus = "in-stock"
	StockLowStock    StockStatus = "low-stock"
	StockOutOfStock  StockStatus = "out-of-stock"
	StockOverstocked StockStatus = "overstocked"
)

// DeriveStatus computes the stock status from a quantity and thresholds.
// Zero or negative quantity is out-of-stock; at or below the reorder point
// is low-stock; above max is overstocked.
func DeriveStatus(quantity, reorderPoint, maxStock int) StockStatus {
	switch {
	case quantity <= 0:
		return StockOutOfStock
	case quantity <= reorderPoint:
		return StockLowStock
	case quantity > maxStock:
		return StockOverstocked
	default:
		return StockInStock
	}
}

// InventoryItem is the per-product projection of the stock ledger. Its
// quantity is never set directly: it changes only by applying ledger
// entries, so rebuilding from the ledger always reproduces it.
type InventoryItem struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ProductID    string             `bson:"productId" json:"productId"`
	SKU          string             `bson:"sku,omitempty" json:"sku,omitempty"`
	Name         string             `bson:"name" json:"name"`
	Type         ProductType        `bson:"type" json:"type"`
	Quantity     int                `bson:"quantity" json:"quantity"`
	MinStock     int                `bson:"minStock" json:"minStock"`
	MaxStock     int                `bson:"maxStock" json:"maxStock"`
	ReorderPoint int                `bson:"reorderPoint" json:"reorderPoint"`
	Status       StockStatus        `bson:"status" json:"status"`
	LastTxnID    string             `bson:"lastTxnId,omitempty" json:"lastTxnId,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
	Version      int64              `bson:"version" json:"version"`
}

// NewInventoryItem creates a projection for a catalog product, filling in
// the default thresholds for any that are unset.
func NewInventoryItem(productID, sku, name string, productType ProductType, minStock, maxStock, reorderPoint int) (*InventoryItem, error) {
	if !productType.IsValid() {
		return nil, ErrInvalidProductType
	}
	if minStock <= 0 {
		minStock = DefaultMinStock
	}
	if maxStock <= 0 {
		maxStock = DefaultMaxStock
	}
	if reorderPoint <= 0 {
		reorderPoint = DefaultReorderPoint
	}

	now := time.Now().UTC()
	return &InventoryItem{
		ProductID:    productID,
		SKU:          sku,
		Name:         name,
		Type:         productType,
		Quantity:     0,
		MinStock:     minStock,
		MaxStock:     maxStock,
		ReorderPoint: reorderPoint,
		Status:       StockOutOfStock,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// ApplyTransaction folds one ledger entry into the projection. Under the
// reject policy an outbound entry that would take the quantity below zero
// is refused and the projection is left untouched.
func (i *InventoryItem) ApplyTransaction(txn *StockTransaction, policy NegativeStockPolicy) error {
	next := i.Quantity + txn.SignedQuantity()
	if next < 0 && policy == NegativeStockReject {
		return ErrInsufficientStock
	}

	i.Quantity = next
	i.Status = DeriveStatus(i.Quantity, i.ReorderPoint, i.MaxStock)
	i.LastTxnID = txn.TxnID
	i.UpdatedAt = time.Now().UTC()
	return nil
}

// UpdateThresholds replaces the stock thresholds and re-derives the status
func (i *InventoryItem) UpdateThresholds(minStock, maxStock, reorderPoint int) error {
	if minStock <= 0 || maxStock <= 0 || reorderPoint <= 0 || maxStock < minStock {
		return ErrInvalidQuantity
	}

	i.MinStock = minStock
	i.MaxStock = maxStock
	i.ReorderPoint = reorderPoint
	i.Status = DeriveStatus(i.Quantity, i.ReorderPoint, i.MaxStock)
	i.UpdatedAt = time.Now().UTC()
	return nil
}

// AvailabilityResult is the answer to an availability check
type AvailabilityResult struct {
	ProductID       string `json:"productId"`
	Requested       int    `json:"requested"`
	Available       int    `json:"available"`
	Sufficient      bool   `json:"sufficient"`
	LowStockWarning bool   `json:"lowStockWarning,omitempty"`
}

// CheckAvailability reports whether a requested quantity can be fulfilled.
// A fulfillable request that would leave the product at or below its
// reorder point carries a low-stock warning rather than a refusal.
func (i *InventoryItem) CheckAvailability(requested int) (*AvailabilityResult, error) {
	if requested <= 0 {
		return nil, ErrInvalidQuantity
	}

	result := &AvailabilityResult{
		ProductID:  i.ProductID,
		Requested:  requested,
		Available:  i.Quantity,
		Sufficient: i.Quantity >= requested,
	}
	if result.Sufficient && i.Quantity-requested <= i.ReorderPoint {
		result.LowStockWarning = true
	}
	return result, nil
}
