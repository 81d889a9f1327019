package domain

import (
	"context"
	"time"
)

// Pagination parameters for list queries
type Pagination struct {
	Skip  int64
	Limit int64
}

// OrderFilter narrows order list queries
type OrderFilter struct {
	Status    Status
	BuyerID   string
	VendorID  string
	Since     *time.Time
	Until     *time.Time
}

// TxnFilter narrows stock ledger queries
type TxnFilter struct {
	ProductID string
	OrderID   string
	Type      TransactionType
	Since     *time.Time
	Until     *time.Time
}

// InventoryFilter narrows inventory list queries
type InventoryFilter struct {
	Status StockStatus
	Type   ProductType
}

// ChallanFilter narrows challan list queries
type ChallanFilter struct {
	Status     ChallanStatus
	CustomerID string
	OrderID    string
}

// NotificationFilter narrows notification list queries
type NotificationFilter struct {
	Type       NotificationType
	UnreadOnly bool
}

// OrderRepository defines the interface for order persistence. Save on an
// existing order matches on the stored version and returns
// ErrVersionConflict when a concurrent writer got there first.
type OrderRepository interface {
	Save(ctx context.Context, order *Order) error
	FindByOrderID(ctx context.Context, orderID string) (*Order, error)
	FindAll(ctx context.Context, filter OrderFilter, page Pagination) ([]*Order, int64, error)
	Delete(ctx context.Context, orderID string) error
	NextSequence(ctx context.Context, year int) (int64, error)
}

// LedgerRepository defines the interface for the append-only stock ledger.
// DeleteAll is the administrative escape hatch for wiping the ledger; no
// other operation removes entries.
type LedgerRepository interface {
	Insert(ctx context.Context, txn *StockTransaction) error
	FindByTxnID(ctx context.Context, txnID string) (*StockTransaction, error)
	FindAll(ctx context.Context, filter TxnFilter, page Pagination) ([]*StockTransaction, int64, error)
	FindByProduct(ctx context.Context, productID string) ([]*StockTransaction, error)
	DeleteAll(ctx context.Context) (int64, error)
	NextSequence(ctx context.Context, year int) (int64, error)
}

// InventoryRepository defines the interface for the inventory projection
type InventoryRepository interface {
	Save(ctx context.Context, item *InventoryItem) error
	FindByProductID(ctx context.Context, productID string) (*InventoryItem, error)
	FindAll(ctx context.Context, filter InventoryFilter, page Pagination) ([]*InventoryItem, int64, error)
	Delete(ctx context.Context, productID string) error
	DeleteAll(ctx context.Context) (int64, error)
}

// ChallanRepository defines the interface for challan persistence
type ChallanRepository interface {
	Save(ctx context.Context, challan *Challan) error
	FindByNumber(ctx context.Context, challanNumber string) (*Challan, error)
	FindAll(ctx context.Context, filter ChallanFilter, page Pagination) ([]*Challan, int64, error)
	NextSequence(ctx context.Context, year int) (int64, error)
}

// CommissionRuleRepository defines the interface for commission rule storage
type CommissionRuleRepository interface {
	Upsert(ctx context.Context, rule *CommissionRule) error
	FindByProductType(ctx context.Context, productType ProductType) (*CommissionRule, error)
	FindAll(ctx context.Context) ([]*CommissionRule, error)
}

// NotificationRepository defines the interface for notification persistence
type NotificationRepository interface {
	Insert(ctx context.Context, notification *Notification) error
	FindAll(ctx context.Context, filter NotificationFilter, page Pagination) ([]*Notification, int64, error)
	MarkRead(ctx context.Context, notifID string) error
	MarkAllRead(ctx context.Context) (int64, error)
}

// KVRepository defines the interface for the keyed blob store backing
// client-side state snapshots.
type KVRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}
