package application

import (
	"time"

	"github.com/tashivar/backoffice/internal/domain"
)

// PartyInput identifies a buyer or vendor on incoming requests
type PartyInput struct {
	ID      string `json:"id" binding:"required"`
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone,omitempty" binding:"omitempty,phone"`
	Address string `json:"address,omitempty"`
}

// LineItemInput is one product line on an incoming order
type LineItemInput struct {
	ProductID    string  `json:"productId" binding:"required"`
	Name         string  `json:"name" binding:"required"`
	Type         string  `json:"type" binding:"required,product_type"`
	Quantity     int     `json:"quantity" binding:"required,gt=0"`
	CostPrice    float64 `json:"costPrice" binding:"gte=0"`
	SellingPrice float64 `json:"sellingPrice" binding:"required,gt=0"`
}

// CreateOrderCommand carries the inputs for creating an order. Callers
// importing orders from another system may supply the ID; otherwise the
// next sequential ID is assigned.
type CreateOrderCommand struct {
	OrderID       string          `json:"id,omitempty" binding:"omitempty,order_id"`
	Buyer         PartyInput      `json:"buyer" binding:"required"`
	Vendor        PartyInput      `json:"vendor" binding:"required"`
	Items         []LineItemInput `json:"items" binding:"required,min=1,dive"`
	PaymentMethod string          `json:"paymentMethod,omitempty"`
}

// ToDomainItems converts line item inputs to domain line items
func (c CreateOrderCommand) ToDomainItems() []domain.LineItem {
	items := make([]domain.LineItem, 0, len(c.Items))
	for _, in := range c.Items {
		items = append(items, domain.LineItem{
			ProductID:    in.ProductID,
			Name:         in.Name,
			Type:         domain.ProductType(in.Type),
			Quantity:     in.Quantity,
			CostPrice:    in.CostPrice,
			SellingPrice: in.SellingPrice,
		})
	}
	return items
}

// ToDomainParty converts a party input to a domain party
func (p PartyInput) ToDomainParty() domain.Party {
	return domain.Party{ID: p.ID, Name: p.Name, Phone: p.Phone, Address: p.Address}
}

// UpdateOrderCommand carries the mutable order fields. The order ID and
// financial snapshot never change through an update.
type UpdateOrderCommand struct {
	OrderID       string      `json:"-"`
	Buyer         *PartyInput `json:"buyer,omitempty"`
	Vendor        *PartyInput `json:"vendor,omitempty"`
	PaymentMethod *string     `json:"paymentMethod,omitempty"`
	PaymentStatus *string     `json:"paymentStatus,omitempty" binding:"omitempty,oneof=pending partial paid"`
}

// ForwardToVendorCommand carries the purchase order details
type ForwardToVendorCommand struct {
	OrderID          string     `json:"-"`
	DeliveryMethod   string     `json:"deliveryMethod,omitempty" binding:"omitempty,delivery_method"`
	ExpectedDelivery *time.Time `json:"expectedDelivery,omitempty"`
	Origin           string     `json:"origin,omitempty"`
	Notes            string     `json:"notes,omitempty"`
	Parties          []string   `json:"parties,omitempty"`
}

// DispatchCommand carries carrier details for either dispatch transition
type DispatchCommand struct {
	OrderID          string     `json:"-"`
	DeliveryMethod   string     `json:"deliveryMethod" binding:"required,delivery_method"`
	CourierName      string     `json:"courierName,omitempty"`
	TrackingNumber   string     `json:"trackingNumber,omitempty"`
	VehicleNumber    string     `json:"vehicleNumber,omitempty"`
	DriverName       string     `json:"driverName,omitempty"`
	DriverPhone      string     `json:"driverPhone,omitempty" binding:"omitempty,phone"`
	Origin           string     `json:"origin,omitempty"`
	ExpectedDelivery *time.Time `json:"expectedDelivery,omitempty"`
	Notes            string     `json:"notes,omitempty"`
}

// ToDispatchDetails converts the command to domain dispatch details
func (c DispatchCommand) ToDispatchDetails() domain.DispatchDetails {
	return domain.DispatchDetails{
		Method:           domain.DeliveryMethod(c.DeliveryMethod),
		CourierName:      c.CourierName,
		TrackingNumber:   c.TrackingNumber,
		VehicleNumber:    c.VehicleNumber,
		DriverName:       c.DriverName,
		DriverPhone:      c.DriverPhone,
		Origin:           c.Origin,
		ExpectedDelivery: c.ExpectedDelivery,
		Notes:            c.Notes,
	}
}

// ReceiveAtWarehouseCommand carries the warehouse receipt details
type ReceiveAtWarehouseCommand struct {
	OrderID    string `json:"-"`
	ReceivedBy string `json:"receivedBy" binding:"required"`
	Location   string `json:"location,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// MarkDeliveredCommand carries the delivery confirmation
type MarkDeliveredCommand struct {
	OrderID     string `json:"-"`
	DeliveredTo string `json:"deliveredTo" binding:"required"`
}

// CancelOrderCommand carries the cancellation reason
type CancelOrderCommand struct {
	OrderID string `json:"-"`
	Reason  string `json:"reason,omitempty"`
}

// PartyActionCommand targets one party of a multi-party order
type PartyActionCommand struct {
	OrderID string `json:"-"`
	PartyID string `json:"partyId" binding:"required"`
	Notes   string `json:"notes,omitempty"`
}

// RecordTransactionCommand carries a manual stock ledger entry
type RecordTransactionCommand struct {
	ProductID string  `json:"productId" binding:"required"`
	SKU       string  `json:"sku,omitempty" binding:"omitempty,sku"`
	Type      string  `json:"type" binding:"required,txn_type"`
	Direction string  `json:"direction,omitempty" binding:"omitempty,oneof=in out"`
	Quantity  int     `json:"quantity" binding:"required,gt=0"`
	UnitPrice float64 `json:"unitPrice,omitempty" binding:"gte=0"`
	Reference string  `json:"reference,omitempty"`
	Notes     string  `json:"notes,omitempty"`
	CreatedBy string  `json:"createdBy,omitempty"`
}

// SyncProductCommand registers or refreshes one catalog product in the
// inventory projection.
type SyncProductCommand struct {
	ProductID string `json:"productId" binding:"required"`
	SKU       string `json:"sku,omitempty" binding:"omitempty,sku"`
	Name      string `json:"name" binding:"required"`
	Type      string `json:"type" binding:"required,product_type"`
	// Quantity is the catalog's on-hand count, applied only when the
	// product is first registered; resyncs never overwrite the ledger.
	Quantity     int `json:"quantity,omitempty" binding:"gte=0"`
	MinStock     int `json:"minStock,omitempty" binding:"gte=0"`
	MaxStock     int `json:"maxStock,omitempty" binding:"gte=0"`
	ReorderPoint int `json:"reorderPoint,omitempty" binding:"gte=0"`
}

// SyncCatalogCommand carries a batch of catalog products
type SyncCatalogCommand struct {
	Products []SyncProductCommand `json:"products" binding:"required,min=1,dive"`
}

// CheckAvailabilityCommand asks whether a quantity can be fulfilled
type CheckAvailabilityCommand struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

// ChallanItemInput is one line on an incoming challan
type ChallanItemInput struct {
	Description string  `json:"description" binding:"required"`
	Quantity    int     `json:"quantity" binding:"required,gt=0"`
	UnitPrice   float64 `json:"unitPrice" binding:"required,gt=0"`
}

// CreateChallanCommand carries the inputs for creating a challan directly
type CreateChallanCommand struct {
	OrderID  string             `json:"orderId,omitempty" binding:"omitempty,order_id"`
	Customer PartyInput         `json:"customer" binding:"required"`
	Items    []ChallanItemInput `json:"items" binding:"required,min=1,dive"`
	Notes    string             `json:"notes,omitempty"`
}

// CreateChallanFromOfflineRequestCommand carries a sales request taken
// outside the system
type CreateChallanFromOfflineRequestCommand struct {
	OfflineRequestID string             `json:"offlineRequestId" binding:"required"`
	Customer         PartyInput         `json:"customer" binding:"required"`
	Items            []ChallanItemInput `json:"items" binding:"required,min=1,dive"`
	Notes            string             `json:"notes,omitempty"`
}

// RecordChallanPaymentCommand carries one payment against a challan
type RecordChallanPaymentCommand struct {
	ChallanNumber string  `json:"-"`
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	Method        string  `json:"method,omitempty"`
	Reference     string  `json:"reference,omitempty"`
	ReceivedBy    string  `json:"receivedBy,omitempty"`
}

// ConvertChallanCommand converts a paid challan to an invoice
type ConvertChallanCommand struct {
	ChallanNumber string `json:"-"`
	InvoiceNumber string `json:"invoiceNumber,omitempty"`
}

// UpsertCommissionRuleCommand replaces the rule for one product type
type UpsertCommissionRuleCommand struct {
	ProductType  string                   `json:"productType" binding:"required,product_type"`
	Rate         float64                  `json:"rate" binding:"gte=0,lte=100"`
	Distribution []DistributionShareInput `json:"distribution" binding:"required,min=1,dive"`
}

// DistributionShareInput is one recipient's cut on an incoming rule
type DistributionShareInput struct {
	Recipient string  `json:"recipient" binding:"required"`
	Percent   float64 `json:"percent" binding:"required,gt=0"`
}
