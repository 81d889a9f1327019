package domain

import "time"

// DeliveryMethod is how a shipment travels
type DeliveryMethod string

const (
	DeliveryCourier DeliveryMethod = "courier"
	DeliveryVehicle DeliveryMethod = "vehicle"
)

// IsValid checks if the delivery method is valid
func (m DeliveryMethod) IsValid() bool {
	return m == DeliveryCourier || m == DeliveryVehicle
}

// TrackingUpdate is one append-only entry in a tracking history
type TrackingUpdate struct {
	Status    string    `bson:"status" json:"status"`
	Location  string    `bson:"location,omitempty" json:"location,omitempty"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// TrackingRecord captures one leg of an order's journey: the vendor leg
// (purchase order) or the buyer leg (sales dispatch). Updates only ever
// append; entries are never rewritten.
type TrackingRecord struct {
	DocumentNumber   string           `bson:"documentNumber,omitempty" json:"documentNumber,omitempty"`
	DeliveryMethod   DeliveryMethod   `bson:"deliveryMethod,omitempty" json:"deliveryMethod,omitempty"`
	CourierName      string           `bson:"courierName,omitempty" json:"courierName,omitempty"`
	TrackingNumber   string           `bson:"trackingNumber,omitempty" json:"trackingNumber,omitempty"`
	VehicleNumber    string           `bson:"vehicleNumber,omitempty" json:"vehicleNumber,omitempty"`
	DriverName       string           `bson:"driverName,omitempty" json:"driverName,omitempty"`
	DriverPhone      string           `bson:"driverPhone,omitempty" json:"driverPhone,omitempty"`
	ExpectedDelivery *time.Time       `bson:"expectedDelivery,omitempty" json:"expectedDelivery,omitempty"`
	ReceivedBy       string           `bson:"receivedBy,omitempty" json:"receivedBy,omitempty"`
	ReceivedAt       *time.Time       `bson:"receivedAt,omitempty" json:"receivedAt,omitempty"`
	Notes            string           `bson:"notes,omitempty" json:"notes,omitempty"`
	Updates          []TrackingUpdate `bson:"updates" json:"updates"`
}

// NewTrackingRecord creates a tracking record with an empty history
func NewTrackingRecord(documentNumber string, method DeliveryMethod, expectedDelivery *time.Time, notes string) *TrackingRecord {
	return &TrackingRecord{
		DocumentNumber:   documentNumber,
		DeliveryMethod:   method,
		ExpectedDelivery: expectedDelivery,
		Notes:            notes,
		Updates:          make([]TrackingUpdate, 0),
	}
}

// AppendUpdate adds a timestamped entry to the tracking history
func (t *TrackingRecord) AppendUpdate(status, location string) {
	t.Updates = append(t.Updates, TrackingUpdate{
		Status:    status,
		Location:  location,
		Timestamp: time.Now().UTC(),
	})
}

// SetDispatchDetails records the carrier details for the leg. Courier
// shipments carry a courier name and tracking number; vehicle shipments
// carry vehicle and driver details.
func (t *TrackingRecord) SetDispatchDetails(d DispatchDetails) {
	if d.Method != "" {
		t.DeliveryMethod = d.Method
	}
	t.CourierName = d.CourierName
	t.TrackingNumber = d.TrackingNumber
	t.VehicleNumber = d.VehicleNumber
	t.DriverName = d.DriverName
	t.DriverPhone = d.DriverPhone
	if d.ExpectedDelivery != nil {
		t.ExpectedDelivery = d.ExpectedDelivery
	}
}

// SetReceipt records who took delivery and when
func (t *TrackingRecord) SetReceipt(r WarehouseReceipt) {
	now := time.Now().UTC()
	t.ReceivedBy = r.ReceivedBy
	t.ReceivedAt = &now
}

// LatestUpdate returns the most recent tracking entry, or nil when the
// history is empty.
func (t *TrackingRecord) LatestUpdate() *TrackingUpdate {
	if len(t.Updates) == 0 {
		return nil
	}
	return &t.Updates[len(t.Updates)-1]
}

// PurchaseOrderDetails carries the inputs for forwarding an order to its
// vendor.
type PurchaseOrderDetails struct {
	Number           string
	DeliveryMethod   DeliveryMethod
	ExpectedDelivery *time.Time
	Origin           string
	Notes            string
	// Parties lists the vendor parties when production is split; empty for
	// single-vendor orders.
	Parties []string
}

// DispatchDetails carries the inputs for a dispatch transition on either leg
type DispatchDetails struct {
	DocumentNumber   string
	Method           DeliveryMethod
	CourierName      string
	TrackingNumber   string
	VehicleNumber    string
	DriverName       string
	DriverPhone      string
	Origin           string
	ExpectedDelivery *time.Time
	Notes            string
}

// WarehouseReceipt carries the inputs for the receive-at-warehouse transition
type WarehouseReceipt struct {
	ReceivedBy string
	Location   string
	Notes      string
}
