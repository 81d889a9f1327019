package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductType distinguishes the two catalog categories, which carry
// different default commission rates.
type ProductType string

const (
	ProductReadymade ProductType = "readymade"
	ProductFabric    ProductType = "fabric"
)

// IsValid checks if the product type is valid
func (t ProductType) IsValid() bool {
	switch t {
	case ProductReadymade, ProductFabric:
		return true
	default:
		return false
	}
}

// Status represents the order lifecycle status
type Status string

const (
	StatusPendingApproval      Status = "pending-approval"
	StatusApproved             Status = "approved"
	StatusForwardedToVendor    Status = "forwarded-to-vendor"
	StatusVendorProcessing     Status = "vendor-processing"
	StatusVendorDispatched     Status = "vendor-dispatched"
	StatusInTransitToWarehouse Status = "in-transit-to-warehouse"
	StatusReceivedAtWarehouse  Status = "received-at-warehouse"
	StatusDispatchedToBuyer    Status = "dispatched-to-buyer"
	StatusInTransitToBuyer     Status = "in-transit-to-buyer"
	StatusDelivered            Status = "delivered"
	StatusCancelled            Status = "cancelled"
)

// legacyStatuses maps display labels used by older clients onto machine
// states. They are normalized on ingestion and never stored.
var legacyStatuses = map[string]Status{
	"placed":     StatusPendingApproval,
	"confirmed":  StatusApproved,
	"processing": StatusVendorProcessing,
	"dispatched": StatusVendorDispatched,
}

// NormalizeStatus maps a raw status string (possibly a legacy label) onto
// a machine state. Returns false if the value is not a known status.
func NormalizeStatus(raw string) (Status, bool) {
	if mapped, ok := legacyStatuses[raw]; ok {
		return mapped, true
	}
	s := Status(raw)
	if s.IsValid() {
		return s, true
	}
	return "", false
}

// IsValid checks if the status is a machine state
func (s Status) IsValid() bool {
	switch s {
	case StatusPendingApproval, StatusApproved, StatusForwardedToVendor,
		StatusVendorProcessing, StatusVendorDispatched, StatusInTransitToWarehouse,
		StatusReceivedAtWarehouse, StatusDispatchedToBuyer, StatusInTransitToBuyer,
		StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transitions are possible
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// PaymentStatus represents the order payment state
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPartial PaymentStatus = "partial"
	PaymentPaid    PaymentStatus = "paid"
)

// Party is a snapshot of a buyer or vendor at order time
type Party struct {
	ID      string `bson:"id" json:"id"`
	Name    string `bson:"name" json:"name"`
	Phone   string `bson:"phone,omitempty" json:"phone,omitempty"`
	Address string `bson:"address,omitempty" json:"address,omitempty"`
}

// LineItem represents a product line in an order
type LineItem struct {
	ProductID    string      `bson:"productId" json:"productId"`
	Name         string      `bson:"name" json:"name"`
	Type         ProductType `bson:"type" json:"type"`
	Quantity     int         `bson:"quantity" json:"quantity"`
	CostPrice    float64     `bson:"costPrice" json:"costPrice"`
	SellingPrice float64     `bson:"sellingPrice" json:"sellingPrice"`
}

// Order is the aggregate root for the order lifecycle. All mutations go
// through the transition methods below; a transition either applies its
// full bundle (status, tracking updates, events) or leaves the order
// unmodified.
type Order struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	OrderID string             `bson:"orderId" json:"id"`

	Buyer  Party      `bson:"buyer" json:"buyer"`
	Vendor Party      `bson:"vendor" json:"vendor"`
	Items  []LineItem `bson:"items" json:"items"`

	Subtotal               float64           `bson:"subtotal" json:"subtotal"`
	Commission             float64           `bson:"commission" json:"commission"`
	CommissionDistribution []CommissionShare `bson:"commissionDistribution" json:"commissionDistribution"`
	Profit                 float64           `bson:"profit" json:"profit"`

	Status        Status        `bson:"status" json:"status"`
	PaymentStatus PaymentStatus `bson:"paymentStatus" json:"paymentStatus"`
	PaymentMethod string        `bson:"paymentMethod,omitempty" json:"paymentMethod,omitempty"`

	PurchaseOrderTracking *TrackingRecord `bson:"purchaseOrderTracking,omitempty" json:"purchaseOrderTracking,omitempty"`
	SalesOrderTracking    *TrackingRecord `bson:"salesOrderTracking,omitempty" json:"salesOrderTracking,omitempty"`

	// VendorDispatches tracks per-party sub-state when production is split
	// across multiple vendors, stitching masters or designers.
	VendorDispatches map[string]*DispatchState `bson:"vendorDispatches,omitempty" json:"vendorDispatches,omitempty"`

	ApprovedAt    *time.Time `bson:"approvedAt,omitempty" json:"approvedAt,omitempty"`
	DeliveredDate *time.Time `bson:"deliveredDate,omitempty" json:"deliveredDate,omitempty"`
	DeliveredTo   string     `bson:"deliveredTo,omitempty" json:"deliveredTo,omitempty"`
	CancelReason  string     `bson:"cancelReason,omitempty" json:"cancelReason,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`

	// Version guards read-modify-write cycles; incremented on every save.
	Version int64 `bson:"version" json:"version"`

	// Domain events - transient, not persisted
	domainEvents []DomainEvent `bson:"-" json:"-"`
}

// NewOrder creates a new Order aggregate in pending-approval status.
// Financials (subtotal, commission snapshot, profit) are fixed at creation.
func NewOrder(orderID string, buyer, vendor Party, items []LineItem, paymentMethod string, rules RuleSet) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}

	for _, item := range items {
		if !item.Type.IsValid() {
			return nil, ErrInvalidProductType
		}
		if item.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
	}

	commission, distribution, err := ComputeCommission(items, rules)
	if err != nil {
		return nil, err
	}

	subtotal := 0.0
	totalCost := 0.0
	for _, item := range items {
		subtotal += item.SellingPrice * float64(item.Quantity)
		totalCost += item.CostPrice * float64(item.Quantity)
	}

	now := time.Now().UTC()
	order := &Order{
		OrderID:                orderID,
		Buyer:                  buyer,
		Vendor:                 vendor,
		Items:                  items,
		Subtotal:               subtotal,
		Commission:             commission,
		CommissionDistribution: distribution,
		Profit:                 subtotal - totalCost - commission,
		Status:                 StatusPendingApproval,
		PaymentStatus:          PaymentPending,
		PaymentMethod:          paymentMethod,
		CreatedAt:              now,
		UpdatedAt:              now,
		domainEvents:           make([]DomainEvent, 0),
	}

	order.addDomainEvent(NewOrderCreatedEvent(order))

	return order, nil
}

// Approve moves the order from pending-approval to approved
func (o *Order) Approve() error {
	if o.Status != StatusPendingApproval {
		return guardViolation("approve", o.Status, StatusPendingApproval)
	}

	now := time.Now().UTC()
	o.setStatus(StatusApproved, "approve")
	o.ApprovedAt = &now

	return nil
}

// ForwardToVendor moves an approved order to forwarded-to-vendor and opens
// the vendor-leg tracking record.
func (o *Order) ForwardToVendor(po PurchaseOrderDetails) error {
	if o.Status != StatusApproved {
		return guardViolation("forward-to-vendor", o.Status, StatusApproved)
	}

	tracking := NewTrackingRecord(po.Number, po.DeliveryMethod, po.ExpectedDelivery, po.Notes)
	tracking.AppendUpdate("Purchase Order Created", po.Origin)

	o.PurchaseOrderTracking = tracking
	o.setStatus(StatusForwardedToVendor, "forward-to-vendor")

	if len(po.Parties) > 0 {
		o.VendorDispatches = make(map[string]*DispatchState, len(po.Parties))
		for _, partyID := range po.Parties {
			o.VendorDispatches[partyID] = &DispatchState{}
		}
	}

	return nil
}

// VendorAccept moves the order into vendor-processing
func (o *Order) VendorAccept() error {
	if o.Status != StatusForwardedToVendor {
		return guardViolation("vendor-accept", o.Status, StatusForwardedToVendor)
	}

	o.PurchaseOrderTracking.AppendUpdate("Accepted by Vendor", o.Vendor.Name)
	o.setStatus(StatusVendorProcessing, "vendor-accept")

	return nil
}

// VendorDispatch records dispatch from the vendor. The order passes
// through vendor-dispatched and lands on in-transit-to-warehouse in one
// operation; both tracking updates are appended to the same bundle so the
// intermediate state is never persisted alone.
func (o *Order) VendorDispatch(d DispatchDetails) error {
	if o.Status != StatusVendorProcessing {
		return guardViolation("vendor-dispatch", o.Status, StatusVendorProcessing)
	}

	o.PurchaseOrderTracking.SetDispatchDetails(d)
	o.PurchaseOrderTracking.AppendUpdate("Dispatched from Vendor", d.Origin)
	o.PurchaseOrderTracking.AppendUpdate("In Transit to Warehouse", d.Origin)

	o.setStatus(StatusVendorDispatched, "vendor-dispatch")
	o.setStatus(StatusInTransitToWarehouse, "vendor-dispatch")

	return nil
}

// ReceiveAtWarehouse records warehouse receipt. For multi-party orders the
// configured receipt policy must be satisfied by the per-party sub-states.
// Emits an event from which one purchase-type stock transaction per line
// item is recorded.
func (o *Order) ReceiveAtWarehouse(r WarehouseReceipt, policy ReceiptPolicy) error {
	if o.Status != StatusInTransitToWarehouse {
		return guardViolation("receive-at-warehouse", o.Status, StatusInTransitToWarehouse)
	}

	if !o.receiptPolicySatisfied(policy) {
		return ErrPartiesNotReceived
	}

	o.PurchaseOrderTracking.SetReceipt(r)
	o.PurchaseOrderTracking.AppendUpdate("Received at Warehouse", r.Location)
	o.setStatus(StatusReceivedAtWarehouse, "receive-at-warehouse")

	o.addDomainEvent(NewOrderReceivedAtWarehouseEvent(o, r.ReceivedBy, r.Location))

	return nil
}

// DispatchToBuyer opens the buyer-leg tracking record and moves the order
// through dispatched-to-buyer onto in-transit-to-buyer atomically,
// mirroring VendorDispatch.
func (o *Order) DispatchToBuyer(d DispatchDetails) error {
	if o.Status != StatusReceivedAtWarehouse {
		return guardViolation("dispatch-to-buyer", o.Status, StatusReceivedAtWarehouse)
	}

	tracking := NewTrackingRecord(d.DocumentNumber, d.Method, d.ExpectedDelivery, d.Notes)
	tracking.SetDispatchDetails(d)
	tracking.AppendUpdate("Dispatched to Buyer", d.Origin)
	tracking.AppendUpdate("In Transit to Buyer", d.Origin)

	o.SalesOrderTracking = tracking
	o.setStatus(StatusDispatchedToBuyer, "dispatch-to-buyer")
	o.setStatus(StatusInTransitToBuyer, "dispatch-to-buyer")

	return nil
}

// MarkDelivered completes the order. Emits an event from which one
// sale-type stock transaction per line item is recorded.
func (o *Order) MarkDelivered(deliveredTo string) error {
	if o.Status != StatusInTransitToBuyer {
		return guardViolation("mark-delivered", o.Status, StatusInTransitToBuyer)
	}

	now := time.Now().UTC()
	o.SalesOrderTracking.AppendUpdate("Delivered", o.Buyer.Address)
	o.DeliveredDate = &now
	o.DeliveredTo = deliveredTo
	o.setStatus(StatusDelivered, "mark-delivered")

	o.addDomainEvent(NewOrderDeliveredEvent(o))

	return nil
}

// Cancel is an administrative override reachable from any non-terminal state
func (o *Order) Cancel(reason string) error {
	if o.Status.IsTerminal() {
		if o.Status == StatusCancelled {
			return ErrOrderCancelled
		}
		return guardViolation("cancel", o.Status, StatusInTransitToBuyer)
	}

	o.CancelReason = reason
	o.setStatus(StatusCancelled, "cancel")
	o.addDomainEvent(NewOrderCancelledEvent(o, reason))

	return nil
}

// PartyAccept records acceptance by one party of a multi-party order
func (o *Order) PartyAccept(partyID string) error {
	state, ok := o.VendorDispatches[partyID]
	if !ok {
		return ErrPartyNotFound
	}

	state.MarkAccepted()
	o.UpdatedAt = time.Now().UTC()
	return nil
}

// PartyDispatch records dispatch by one party of a multi-party order
func (o *Order) PartyDispatch(partyID string, notes string) error {
	state, ok := o.VendorDispatches[partyID]
	if !ok {
		return ErrPartyNotFound
	}

	state.MarkDispatched(notes)
	o.UpdatedAt = time.Now().UTC()
	return nil
}

// PartyReceive records warehouse receipt of one party's goods
func (o *Order) PartyReceive(partyID string) error {
	state, ok := o.VendorDispatches[partyID]
	if !ok {
		return ErrPartyNotFound
	}

	state.MarkReceived()
	o.UpdatedAt = time.Now().UTC()
	return nil
}

// receiptPolicySatisfied checks the multi-party receipt gate. Orders
// without a party split always pass.
func (o *Order) receiptPolicySatisfied(policy ReceiptPolicy) bool {
	if len(o.VendorDispatches) == 0 {
		return true
	}

	received := 0
	for _, state := range o.VendorDispatches {
		if state.Received() {
			received++
		}
	}

	switch policy {
	case ReceiptPolicyAnyParty:
		return received > 0
	default:
		return received == len(o.VendorDispatches)
	}
}

// TotalItems returns the total quantity across all line items
func (o *Order) TotalItems() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}

// TotalCost returns the total cost price of the order
func (o *Order) TotalCost() float64 {
	total := 0.0
	for _, item := range o.Items {
		total += item.CostPrice * float64(item.Quantity)
	}
	return total
}

func (o *Order) setStatus(next Status, transition string) {
	from := o.Status
	o.Status = next
	o.UpdatedAt = time.Now().UTC()
	o.addDomainEvent(NewOrderStatusChangedEvent(o, transition, from, next))
}

func (o *Order) addDomainEvent(event DomainEvent) {
	o.domainEvents = append(o.domainEvents, event)
}

// DomainEvents returns all pending domain events
func (o *Order) DomainEvents() []DomainEvent {
	return o.domainEvents
}

// ClearDomainEvents clears all pending domain events
func (o *Order) ClearDomainEvents() {
	o.domainEvents = make([]DomainEvent, 0)
}
