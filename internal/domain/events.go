package domain

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is the interface for domain events
type DomainEvent interface {
	EventID() string
	EventType() string
	AggregateID() string
	OccurredAt() time.Time
}

// BaseDomainEvent provides common event fields
type BaseDomainEvent struct {
	ID          string    `json:"eventId"`
	Type        string    `json:"eventType"`
	Aggregate   string    `json:"aggregateId"`
	Timestamp   time.Time `json:"occurredAt"`
}

func newBaseEvent(eventType, aggregateID string) BaseDomainEvent {
	return BaseDomainEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Aggregate: aggregateID,
		Timestamp: time.Now().UTC(),
	}
}

func (e BaseDomainEvent) EventID() string       { return e.ID }
func (e BaseDomainEvent) EventType() string     { return e.Type }
func (e BaseDomainEvent) AggregateID() string   { return e.Aggregate }
func (e BaseDomainEvent) OccurredAt() time.Time { return e.Timestamp }

// OrderCreatedEvent is emitted when a new order is created
type OrderCreatedEvent struct {
	BaseDomainEvent
	OrderID    string  `json:"orderId"`
	BuyerID    string  `json:"buyerId"`
	VendorID   string  `json:"vendorId"`
	Subtotal   float64 `json:"subtotal"`
	Commission float64 `json:"commission"`
	ItemCount  int     `json:"itemCount"`
}

// NewOrderCreatedEvent creates an OrderCreatedEvent
func NewOrderCreatedEvent(o *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: newBaseEvent("order.created", o.OrderID),
		OrderID:         o.OrderID,
		BuyerID:         o.Buyer.ID,
		VendorID:        o.Vendor.ID,
		Subtotal:        o.Subtotal,
		Commission:      o.Commission,
		ItemCount:       len(o.Items),
	}
}

// OrderStatusChangedEvent is emitted on every lifecycle transition
type OrderStatusChangedEvent struct {
	BaseDomainEvent
	OrderID    string `json:"orderId"`
	Transition string `json:"transition"`
	FromStatus Status `json:"fromStatus"`
	ToStatus   Status `json:"toStatus"`
}

// NewOrderStatusChangedEvent creates an OrderStatusChangedEvent
func NewOrderStatusChangedEvent(o *Order, transition string, from, to Status) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: newBaseEvent("order.status-changed", o.OrderID),
		OrderID:         o.OrderID,
		Transition:      transition,
		FromStatus:      from,
		ToStatus:        to,
	}
}

// OrderReceivedAtWarehouseEvent is emitted on warehouse receipt; its item
// snapshot feeds the purchase entries written to the stock ledger.
type OrderReceivedAtWarehouseEvent struct {
	BaseDomainEvent
	OrderID    string     `json:"orderId"`
	ReceivedBy string     `json:"receivedBy"`
	Location   string     `json:"location"`
	Items      []LineItem `json:"items"`
}

// NewOrderReceivedAtWarehouseEvent creates an OrderReceivedAtWarehouseEvent
func NewOrderReceivedAtWarehouseEvent(o *Order, receivedBy, location string) *OrderReceivedAtWarehouseEvent {
	return &OrderReceivedAtWarehouseEvent{
		BaseDomainEvent: newBaseEvent("order.received-at-warehouse", o.OrderID),
		OrderID:         o.OrderID,
		ReceivedBy:      receivedBy,
		Location:        location,
		Items:           o.Items,
	}
}

// OrderDeliveredEvent is emitted on delivery; its item snapshot feeds the
// sale entries written to the stock ledger.
type OrderDeliveredEvent struct {
	BaseDomainEvent
	OrderID     string     `json:"orderId"`
	BuyerID     string     `json:"buyerId"`
	DeliveredTo string     `json:"deliveredTo"`
	Items       []LineItem `json:"items"`
}

// NewOrderDeliveredEvent creates an OrderDeliveredEvent
func NewOrderDeliveredEvent(o *Order) *OrderDeliveredEvent {
	return &OrderDeliveredEvent{
		BaseDomainEvent: newBaseEvent("order.delivered", o.OrderID),
		OrderID:         o.OrderID,
		BuyerID:         o.Buyer.ID,
		DeliveredTo:     o.DeliveredTo,
		Items:           o.Items,
	}
}

// OrderCancelledEvent is emitted when an order is cancelled
type OrderCancelledEvent struct {
	BaseDomainEvent
	OrderID string `json:"orderId"`
	Reason  string `json:"reason"`
}

// NewOrderCancelledEvent creates an OrderCancelledEvent
func NewOrderCancelledEvent(o *Order, reason string) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseDomainEvent: newBaseEvent("order.cancelled", o.OrderID),
		OrderID:         o.OrderID,
		Reason:          reason,
	}
}

// LowStockAlertEvent is emitted when a ledger entry drives a product to or
// below its reorder point.
type LowStockAlertEvent struct {
	BaseDomainEvent
	ProductID    string      `json:"productId"`
	ProductName  string      `json:"productName"`
	Quantity     int         `json:"quantity"`
	ReorderPoint int         `json:"reorderPoint"`
	Status       StockStatus `json:"status"`
}

// NewLowStockAlertEvent creates a LowStockAlertEvent
func NewLowStockAlertEvent(item *InventoryItem) *LowStockAlertEvent {
	return &LowStockAlertEvent{
		BaseDomainEvent: newBaseEvent("stock.low-stock-alert", item.ProductID),
		ProductID:       item.ProductID,
		ProductName:     item.Name,
		Quantity:        item.Quantity,
		ReorderPoint:    item.ReorderPoint,
		Status:          item.Status,
	}
}

// StockTransactionRecordedEvent is emitted for every ledger entry
type StockTransactionRecordedEvent struct {
	BaseDomainEvent
	TxnID     string          `json:"txnId"`
	ProductID string          `json:"productId"`
	TxnType   TransactionType `json:"txnType"`
	Quantity  int             `json:"quantity"`
	Signed    int             `json:"signedQuantity"`
}

// NewStockTransactionRecordedEvent creates a StockTransactionRecordedEvent
func NewStockTransactionRecordedEvent(txn *StockTransaction) *StockTransactionRecordedEvent {
	return &StockTransactionRecordedEvent{
		BaseDomainEvent: newBaseEvent("stock.transaction-recorded", txn.TxnID),
		TxnID:           txn.TxnID,
		ProductID:       txn.ProductID,
		TxnType:         txn.Type,
		Quantity:        txn.Quantity,
		Signed:          txn.SignedQuantity(),
	}
}

// ChallanPaymentRecordedEvent is emitted when a payment lands on a challan
type ChallanPaymentRecordedEvent struct {
	BaseDomainEvent
	ChallanNumber string        `json:"challanNumber"`
	Amount        float64       `json:"amount"`
	PaidAmount    float64       `json:"paidAmount"`
	Outstanding   float64       `json:"outstanding"`
	Status        ChallanStatus `json:"status"`
}

// NewChallanPaymentRecordedEvent creates a ChallanPaymentRecordedEvent
func NewChallanPaymentRecordedEvent(c *Challan, amount float64) *ChallanPaymentRecordedEvent {
	return &ChallanPaymentRecordedEvent{
		BaseDomainEvent: newBaseEvent("challan.payment-recorded", c.ChallanNumber),
		ChallanNumber:   c.ChallanNumber,
		Amount:          amount,
		PaidAmount:      c.PaidAmount,
		Outstanding:     c.OutstandingBalance(),
		Status:          c.Status,
	}
}
