package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOrder(t *testing.T) *Order {
	t.Helper()

	order, err := NewOrder(
		"ORD-2026-001",
		Party{ID: "buyer-1", Name: "Rahman Textiles"},
		Party{ID: "vendor-1", Name: "Karim Fabrics"},
		[]LineItem{
			{ProductID: "prod-1", Name: "Cotton Shirt", Type: ProductReadymade, Quantity: 10, CostPrice: 400, SellingPrice: 600},
			{ProductID: "prod-2", Name: "Silk Fabric", Type: ProductFabric, Quantity: 5, CostPrice: 800, SellingPrice: 1200},
		},
		"bank-transfer",
		nil,
	)
	require.NoError(t, err)
	return order
}

func TestNewOrder(t *testing.T) {
	t.Run("creates order in pending-approval with computed financials", func(t *testing.T) {
		order := testOrder(t)

		assert.Equal(t, StatusPendingApproval, order.Status)
		assert.Equal(t, PaymentPending, order.PaymentStatus)
		assert.Equal(t, 12000.0, order.Subtotal)
		// cost 4000 * 18% + cost 4000 * 12%
		assert.Equal(t, 1200.0, order.Commission)
		assert.Equal(t, 12000.0-8000.0-1200.0, order.Profit)
		assert.Len(t, order.DomainEvents(), 1)
		assert.Equal(t, "order.created", order.DomainEvents()[0].EventType())
	})

	t.Run("rejects empty items", func(t *testing.T) {
		_, err := NewOrder("ORD-2026-002", Party{ID: "b"}, Party{ID: "v"}, nil, "", nil)
		assert.ErrorIs(t, err, ErrNoItems)
	})

	t.Run("rejects invalid product type", func(t *testing.T) {
		_, err := NewOrder("ORD-2026-003", Party{ID: "b"}, Party{ID: "v"}, []LineItem{
			{ProductID: "p", Type: "electronics", Quantity: 1, SellingPrice: 10},
		}, "", nil)
		assert.ErrorIs(t, err, ErrInvalidProductType)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, err := NewOrder("ORD-2026-004", Party{ID: "b"}, Party{ID: "v"}, []LineItem{
			{ProductID: "p", Type: ProductFabric, Quantity: 0, SellingPrice: 10},
		}, "", nil)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})
}

func TestOrderLifecycle(t *testing.T) {
	t.Run("full happy path reaches delivered", func(t *testing.T) {
		order := testOrder(t)

		require.NoError(t, order.Approve())
		assert.Equal(t, StatusApproved, order.Status)
		assert.NotNil(t, order.ApprovedAt)

		require.NoError(t, order.ForwardToVendor(PurchaseOrderDetails{
			Number: "PO-2026-001", DeliveryMethod: DeliveryCourier,
		}))
		assert.Equal(t, StatusForwardedToVendor, order.Status)
		require.NotNil(t, order.PurchaseOrderTracking)
		assert.Len(t, order.PurchaseOrderTracking.Updates, 1)

		require.NoError(t, order.VendorAccept())
		assert.Equal(t, StatusVendorProcessing, order.Status)

		require.NoError(t, order.VendorDispatch(DispatchDetails{
			Method: DeliveryCourier, CourierName: "Sundarban", TrackingNumber: "SB-9981",
		}))
		assert.Equal(t, StatusInTransitToWarehouse, order.Status)
		// dispatch appends two updates in one operation
		assert.Len(t, order.PurchaseOrderTracking.Updates, 4)
		assert.Equal(t, "In Transit to Warehouse", order.PurchaseOrderTracking.LatestUpdate().Status)

		require.NoError(t, order.ReceiveAtWarehouse(WarehouseReceipt{
			ReceivedBy: "store-keeper", Location: "Dhaka Warehouse",
		}, ReceiptPolicyAllParties))
		assert.Equal(t, StatusReceivedAtWarehouse, order.Status)
		assert.NotNil(t, order.PurchaseOrderTracking.ReceivedAt)

		require.NoError(t, order.DispatchToBuyer(DispatchDetails{
			Method: DeliveryVehicle, VehicleNumber: "DHK-1234", DriverName: "Alam",
		}))
		assert.Equal(t, StatusInTransitToBuyer, order.Status)
		require.NotNil(t, order.SalesOrderTracking)
		assert.Len(t, order.SalesOrderTracking.Updates, 2)

		require.NoError(t, order.MarkDelivered("Rahman Textiles"))
		assert.Equal(t, StatusDelivered, order.Status)
		assert.NotNil(t, order.DeliveredDate)
		assert.True(t, order.Status.IsTerminal())
	})

	t.Run("guard violations", func(t *testing.T) {
		tests := []struct {
			name     string
			prepare  func(o *Order)
			attempt  func(o *Order) error
			required Status
		}{
			{
				name:     "approve an already approved order",
				prepare:  func(o *Order) { _ = o.Approve() },
				attempt:  func(o *Order) error { return o.Approve() },
				required: StatusPendingApproval,
			},
			{
				name:     "forward before approval",
				prepare:  func(o *Order) {},
				attempt:  func(o *Order) error { return o.ForwardToVendor(PurchaseOrderDetails{}) },
				required: StatusApproved,
			},
			{
				name:     "vendor accept before forwarding",
				prepare:  func(o *Order) { _ = o.Approve() },
				attempt:  func(o *Order) error { return o.VendorAccept() },
				required: StatusForwardedToVendor,
			},
			{
				name: "dispatch to buyer before warehouse receipt",
				prepare: func(o *Order) {
					_ = o.Approve()
					_ = o.ForwardToVendor(PurchaseOrderDetails{})
					_ = o.VendorAccept()
					_ = o.VendorDispatch(DispatchDetails{})
				},
				attempt:  func(o *Order) error { return o.DispatchToBuyer(DispatchDetails{}) },
				required: StatusReceivedAtWarehouse,
			},
			{
				name:     "mark delivered from pending",
				prepare:  func(o *Order) {},
				attempt:  func(o *Order) error { return o.MarkDelivered("x") },
				required: StatusInTransitToBuyer,
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				order := testOrder(t)
				tt.prepare(order)
				before := order.Status

				err := tt.attempt(order)

				require.Error(t, err)
				var gv *GuardViolation
				require.ErrorAs(t, err, &gv)
				assert.Equal(t, tt.required, gv.Required)
				assert.Equal(t, before, order.Status, "failed transition must not mutate the order")
			})
		}
	})

	t.Run("cancel from any non-terminal state", func(t *testing.T) {
		order := testOrder(t)
		require.NoError(t, order.Approve())
		require.NoError(t, order.ForwardToVendor(PurchaseOrderDetails{}))

		require.NoError(t, order.Cancel("buyer backed out"))

		assert.Equal(t, StatusCancelled, order.Status)
		assert.Equal(t, "buyer backed out", order.CancelReason)
	})

	t.Run("cancel on delivered order fails", func(t *testing.T) {
		order := testOrder(t)
		require.NoError(t, order.Approve())
		require.NoError(t, order.ForwardToVendor(PurchaseOrderDetails{}))
		require.NoError(t, order.VendorAccept())
		require.NoError(t, order.VendorDispatch(DispatchDetails{}))
		require.NoError(t, order.ReceiveAtWarehouse(WarehouseReceipt{}, ReceiptPolicyAllParties))
		require.NoError(t, order.DispatchToBuyer(DispatchDetails{}))
		require.NoError(t, order.MarkDelivered("x"))

		err := order.Cancel("too late")
		require.Error(t, err)
		assert.True(t, IsGuardViolation(err))
	})

	t.Run("cancel on cancelled order fails", func(t *testing.T) {
		order := testOrder(t)
		require.NoError(t, order.Cancel("first"))

		assert.ErrorIs(t, order.Cancel("second"), ErrOrderCancelled)
	})
}

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want Status
		ok   bool
	}{
		{"placed", StatusPendingApproval, true},
		{"confirmed", StatusApproved, true},
		{"processing", StatusVendorProcessing, true},
		{"dispatched", StatusVendorDispatched, true},
		{"in-transit-to-warehouse", StatusInTransitToWarehouse, true},
		{"delivered", StatusDelivered, true},
		{"shipped", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := NormalizeStatus(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOrderTotals(t *testing.T) {
	order := testOrder(t)

	assert.Equal(t, 15, order.TotalItems())
	assert.Equal(t, 8000.0, order.TotalCost())
}

func TestOrderDomainEvents(t *testing.T) {
	order := testOrder(t)
	require.NoError(t, order.Approve())

	events := order.DomainEvents()
	require.Len(t, events, 2)
	assert.Equal(t, "order.status-changed", events[1].EventType())

	order.ClearDomainEvents()
	assert.Empty(t, order.DomainEvents())
}
