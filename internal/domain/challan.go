package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChallanStatus represents the delivery challan payment lifecycle
type ChallanStatus string

const (
	ChallanPending   ChallanStatus = "pending"
	ChallanPartial   ChallanStatus = "partial"
	ChallanPaid      ChallanStatus = "paid"
	ChallanConverted ChallanStatus = "converted"
	ChallanCancelled ChallanStatus = "cancelled"
)

// IsValid checks if the challan status is valid
func (s ChallanStatus) IsValid() bool {
	switch s {
	case ChallanPending, ChallanPartial, ChallanPaid, ChallanConverted, ChallanCancelled:
		return true
	default:
		return false
	}
}

// ChallanItem is one line on a delivery challan
type ChallanItem struct {
	Description string  `bson:"description" json:"description"`
	Quantity    int     `bson:"quantity" json:"quantity"`
	UnitPrice   float64 `bson:"unitPrice" json:"unitPrice"`
	Amount      float64 `bson:"amount" json:"amount"`
}

// ChallanPayment is one recorded payment against a challan
type ChallanPayment struct {
	Amount     float64   `bson:"amount" json:"amount"`
	Method     string    `bson:"method,omitempty" json:"method,omitempty"`
	Reference  string    `bson:"reference,omitempty" json:"reference,omitempty"`
	ReceivedBy string    `bson:"receivedBy,omitempty" json:"receivedBy,omitempty"`
	ReceivedAt time.Time `bson:"receivedAt" json:"receivedAt"`
}

// Challan is a delivery challan aggregate. Its status is derived from its
// payment history: pending with no payments, partial while an outstanding
// balance remains, paid once settled, then optionally converted to an
// invoice.
type Challan struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ChallanNumber    string             `bson:"challanNumber" json:"id"`
	OrderID          string             `bson:"orderId,omitempty" json:"orderId,omitempty"`
	OfflineRequestID string             `bson:"offlineRequestId,omitempty" json:"offlineRequestId,omitempty"`
	Customer         Party              `bson:"customer" json:"customer"`
	Items            []ChallanItem      `bson:"items" json:"items"`
	TotalAmount      float64            `bson:"totalAmount" json:"totalAmount"`
	PaidAmount       float64            `bson:"paidAmount" json:"paidAmount"`
	Payments         []ChallanPayment   `bson:"payments" json:"payments"`
	Status           ChallanStatus      `bson:"status" json:"status"`
	InvoiceNumber    string             `bson:"invoiceNumber,omitempty" json:"invoiceNumber,omitempty"`
	Notes            string             `bson:"notes,omitempty" json:"notes,omitempty"`
	IssuedAt         time.Time          `bson:"issuedAt" json:"issuedAt"`
	ConvertedAt      *time.Time         `bson:"convertedAt,omitempty" json:"convertedAt,omitempty"`
	CancelledAt      *time.Time         `bson:"cancelledAt,omitempty" json:"cancelledAt,omitempty"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
	Version          int64              `bson:"version" json:"version"`
}

// NewChallan creates a pending challan. The total is the sum of its line
// amounts and must be positive.
func NewChallan(challanNumber, orderID string, customer Party, items []ChallanItem, notes string) (*Challan, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}

	total := 0.0
	for i := range items {
		if items[i].Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		if items[i].Amount == 0 {
			items[i].Amount = items[i].UnitPrice * float64(items[i].Quantity)
		}
		total += items[i].Amount
	}
	if total <= 0 {
		return nil, ErrInvalidAmount
	}

	now := time.Now().UTC()
	return &Challan{
		ChallanNumber: challanNumber,
		OrderID:       orderID,
		Customer:      customer,
		Items:         items,
		TotalAmount:   total,
		Payments:      make([]ChallanPayment, 0),
		Status:        ChallanPending,
		Notes:         notes,
		IssuedAt:      now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// paymentTolerance absorbs float accumulation error on money sums;
// anything under half a cent counts as settled.
const paymentTolerance = 0.005

// OutstandingBalance returns the unpaid remainder
func (c *Challan) OutstandingBalance() float64 {
	return c.TotalAmount - c.PaidAmount
}

// RecordPayment applies a payment to the challan. The amount must be
// positive and must not exceed the outstanding balance; overpayment is
// rejected rather than credited.
func (c *Challan) RecordPayment(payment ChallanPayment) error {
	if c.Status == ChallanCancelled || c.Status == ChallanConverted {
		return ErrChallanNotPayable
	}
	if payment.Amount <= 0 {
		return ErrInvalidAmount
	}
	if payment.Amount > c.OutstandingBalance()+paymentTolerance {
		return ErrPaymentExceedsBalance
	}

	if payment.ReceivedAt.IsZero() {
		payment.ReceivedAt = time.Now().UTC()
	}

	c.Payments = append(c.Payments, payment)
	c.PaidAmount += payment.Amount

	if c.OutstandingBalance() < paymentTolerance {
		c.Status = ChallanPaid
	} else {
		c.Status = ChallanPartial
	}
	c.UpdatedAt = time.Now().UTC()

	return nil
}

// ConvertToInvoice closes a fully paid challan under an invoice number
func (c *Challan) ConvertToInvoice(invoiceNumber string) error {
	if c.Status == ChallanConverted {
		return ErrChallanConverted
	}
	if c.Status != ChallanPaid {
		return ErrChallanNotPaid
	}

	now := time.Now().UTC()
	c.InvoiceNumber = invoiceNumber
	c.Status = ChallanConverted
	c.ConvertedAt = &now
	c.UpdatedAt = now

	return nil
}

// Cancel voids the challan. Converted challans cannot be cancelled.
func (c *Challan) Cancel() error {
	if c.Status == ChallanConverted {
		return ErrChallanConverted
	}
	if c.Status == ChallanCancelled {
		return nil
	}

	now := time.Now().UTC()
	c.Status = ChallanCancelled
	c.CancelledAt = &now
	c.UpdatedAt = now

	return nil
}
