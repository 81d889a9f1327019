package application

import "github.com/tashivar/backoffice/internal/domain"

// ToOrderDTO converts a domain order to its API shape
func ToOrderDTO(order *domain.Order) *OrderDTO {
	return &OrderDTO{
		ID:                     order.OrderID,
		Buyer:                  order.Buyer,
		Vendor:                 order.Vendor,
		Items:                  order.Items,
		Subtotal:               order.Subtotal,
		Commission:             order.Commission,
		CommissionDistribution: order.CommissionDistribution,
		Profit:                 order.Profit,
		Status:                 string(order.Status),
		PaymentStatus:          string(order.PaymentStatus),
		PaymentMethod:          order.PaymentMethod,
		PurchaseOrderTracking:  order.PurchaseOrderTracking,
		SalesOrderTracking:     order.SalesOrderTracking,
		VendorDispatches:       order.VendorDispatches,
		ApprovedAt:             order.ApprovedAt,
		DeliveredDate:          order.DeliveredDate,
		DeliveredTo:            order.DeliveredTo,
		CancelReason:           order.CancelReason,
		CreatedAt:              order.CreatedAt,
		UpdatedAt:              order.UpdatedAt,
	}
}

// ToOrderSummaryDTOs converts domain orders to their list shape
func ToOrderSummaryDTOs(orders []*domain.Order) []OrderSummaryDTO {
	dtos := make([]OrderSummaryDTO, 0, len(orders))
	for _, order := range orders {
		dtos = append(dtos, OrderSummaryDTO{
			ID:         order.OrderID,
			BuyerName:  order.Buyer.Name,
			VendorName: order.Vendor.Name,
			ItemCount:  len(order.Items),
			Subtotal:   order.Subtotal,
			Status:     string(order.Status),
			CreatedAt:  order.CreatedAt,
		})
	}
	return dtos
}

// ToStockSummaryDTOs converts ledger summaries to their API shape,
// flattening the per-product map.
func ToStockSummaryDTOs(summaries map[string]*domain.StockSummary) []StockSummaryDTO {
	dtos := make([]StockSummaryDTO, 0, len(summaries))
	for _, s := range summaries {
		dtos = append(dtos, StockSummaryDTO{
			ProductID:   s.ProductID,
			TotalIn:     s.TotalIn,
			TotalOut:    s.TotalOut,
			NetQuantity: s.NetQuantity,
			TxnCount:    s.TxnCount,
		})
	}
	return dtos
}
