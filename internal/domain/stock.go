package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TransactionType classifies a stock ledger entry
type TransactionType string

const (
	TxnPurchase   TransactionType = "purchase"
	TxnSale       TransactionType = "sale"
	TxnAdjustment TransactionType = "adjustment"
	TxnReturn     TransactionType = "return"
	TxnTransfer   TransactionType = "transfer"
	TxnDamaged    TransactionType = "damaged"
)

// IsValid checks if the transaction type is valid
func (t TransactionType) IsValid() bool {
	switch t {
	case TxnPurchase, TxnSale, TxnAdjustment, TxnReturn, TxnTransfer, TxnDamaged:
		return true
	default:
		return false
	}
}

// AdjustmentDirection signs a manual adjustment
type AdjustmentDirection string

const (
	AdjustmentIn  AdjustmentDirection = "in"
	AdjustmentOut AdjustmentDirection = "out"
)

// NegativeStockPolicy controls whether outbound transactions may drive a
// product's on-hand quantity below zero.
type NegativeStockPolicy string

const (
	// NegativeStockAllow records the transaction and lets the projection go
	// negative; the discrepancy surfaces through the stock status instead.
	NegativeStockAllow NegativeStockPolicy = "allow"
	// NegativeStockReject refuses outbound transactions that would take the
	// projection below zero.
	NegativeStockReject NegativeStockPolicy = "reject"
)

// StockTransaction is one immutable entry in the stock ledger. Entries are
// only ever appended; corrections are new adjustment entries, never edits.
type StockTransaction struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	TxnID     string             `bson:"txnId" json:"id"`
	ProductID string             `bson:"productId" json:"productId"`
	SKU       string             `bson:"sku,omitempty" json:"sku,omitempty"`
	Type      TransactionType    `bson:"type" json:"type"`
	// Direction only applies to adjustments; other types carry an implicit
	// direction.
	Direction AdjustmentDirection `bson:"direction,omitempty" json:"direction,omitempty"`
	Quantity  int                 `bson:"quantity" json:"quantity"`
	// PreviousStock and NewStock snapshot the projected on-hand quantity
	// around this entry, stamped when the entry is appended.
	PreviousStock int       `bson:"previousStock" json:"previousStock"`
	NewStock      int       `bson:"newStock" json:"newStock"`
	UnitPrice     float64   `bson:"unitPrice,omitempty" json:"unitPrice,omitempty"`
	OrderID       string    `bson:"orderId,omitempty" json:"orderId,omitempty"`
	Reference     string    `bson:"reference,omitempty" json:"reference,omitempty"`
	Notes         string    `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedBy     string    `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
}

// NewStockTransaction validates and creates a ledger entry. Quantity is
// always recorded positive; the sign comes from the type (and direction,
// for adjustments).
func NewStockTransaction(txnID, productID string, txnType TransactionType, direction AdjustmentDirection, quantity int, unitPrice float64) (*StockTransaction, error) {
	if !txnType.IsValid() {
		return nil, ErrInvalidTransaction
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if txnType == TxnAdjustment {
		if direction != AdjustmentIn && direction != AdjustmentOut {
			return nil, ErrInvalidTransaction
		}
	} else if direction != "" {
		return nil, ErrInvalidTransaction
	}

	return &StockTransaction{
		TxnID:     txnID,
		ProductID: productID,
		Type:      txnType,
		Direction: direction,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// SignedQuantity returns the entry's effect on on-hand stock: positive for
// inbound types (purchase, return, adjustment-in), negative for outbound
// (sale, damaged, adjustment-out). Transfers move stock between locations
// without changing the total on hand, so they fold to zero.
func (t *StockTransaction) SignedQuantity() int {
	switch t.Type {
	case TxnPurchase, TxnReturn:
		return t.Quantity
	case TxnSale, TxnDamaged:
		return -t.Quantity
	case TxnTransfer:
		return 0
	case TxnAdjustment:
		if t.Direction == AdjustmentOut {
			return -t.Quantity
		}
		return t.Quantity
	default:
		return 0
	}
}

// Inbound reports whether the entry adds stock
func (t *StockTransaction) Inbound() bool {
	return t.SignedQuantity() > 0
}

// StockSummary is the net effect of a set of ledger entries on one product
type StockSummary struct {
	ProductID   string `json:"productId"`
	TotalIn     int    `json:"totalIn"`
	TotalOut    int    `json:"totalOut"`
	NetQuantity int    `json:"netQuantity"`
	TxnCount    int    `json:"txnCount"`
}

// Summarize folds ledger entries into per-product net totals. The result
// depends only on the set of entries, not their order.
func Summarize(txns []*StockTransaction) map[string]*StockSummary {
	summaries := make(map[string]*StockSummary)
	for _, txn := range txns {
		summary, ok := summaries[txn.ProductID]
		if !ok {
			summary = &StockSummary{ProductID: txn.ProductID}
			summaries[txn.ProductID] = summary
		}

		signed := txn.SignedQuantity()
		if signed >= 0 {
			summary.TotalIn += signed
		} else {
			summary.TotalOut += -signed
		}
		summary.NetQuantity += signed
		summary.TxnCount++
	}
	return summaries
}
