package application

import (
	"time"

	"github.com/tashivar/backoffice/internal/domain"
)

// OrderDTO is the API shape of an order
type OrderDTO struct {
	ID                     string                           `json:"id"`
	Buyer                  domain.Party                     `json:"buyer"`
	Vendor                 domain.Party                     `json:"vendor"`
	Items                  []domain.LineItem                `json:"items"`
	Subtotal               float64                          `json:"subtotal"`
	Commission             float64                          `json:"commission"`
	CommissionDistribution []domain.CommissionShare         `json:"commissionDistribution"`
	Profit                 float64                          `json:"profit"`
	Status                 string                           `json:"status"`
	PaymentStatus          string                           `json:"paymentStatus"`
	PaymentMethod          string                           `json:"paymentMethod,omitempty"`
	PurchaseOrderTracking  *domain.TrackingRecord           `json:"purchaseOrderTracking,omitempty"`
	SalesOrderTracking     *domain.TrackingRecord           `json:"salesOrderTracking,omitempty"`
	VendorDispatches       map[string]*domain.DispatchState `json:"vendorDispatches,omitempty"`
	ApprovedAt             *time.Time                       `json:"approvedAt,omitempty"`
	DeliveredDate          *time.Time                       `json:"deliveredDate,omitempty"`
	DeliveredTo            string                           `json:"deliveredTo,omitempty"`
	CancelReason           string                           `json:"cancelReason,omitempty"`
	CreatedAt              time.Time                        `json:"createdAt"`
	UpdatedAt              time.Time                        `json:"updatedAt"`
}

// OrderSummaryDTO is the list shape of an order
type OrderSummaryDTO struct {
	ID         string    `json:"id"`
	BuyerName  string    `json:"buyerName"`
	VendorName string    `json:"vendorName"`
	ItemCount  int       `json:"itemCount"`
	Subtotal   float64   `json:"subtotal"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

// StockSummaryDTO is the API shape of a per-product ledger summary
type StockSummaryDTO struct {
	ProductID   string `json:"productId"`
	TotalIn     int    `json:"totalIn"`
	TotalOut    int    `json:"totalOut"`
	NetQuantity int    `json:"netQuantity"`
	TxnCount    int    `json:"txnCount"`
}
