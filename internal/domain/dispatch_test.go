package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multiPartyOrder(t *testing.T) *Order {
	t.Helper()

	order := testOrder(t)
	require.NoError(t, order.Approve())
	require.NoError(t, order.ForwardToVendor(PurchaseOrderDetails{
		Number:  "PO-2026-010",
		Parties: []string{"tailor-1", "tailor-2"},
	}))
	require.NoError(t, order.VendorAccept())
	require.NoError(t, order.VendorDispatch(DispatchDetails{}))
	return order
}

func TestMultiPartyReceipt(t *testing.T) {
	t.Run("all-parties policy blocks until every party delivered", func(t *testing.T) {
		order := multiPartyOrder(t)
		require.NoError(t, order.PartyReceive("tailor-1"))

		err := order.ReceiveAtWarehouse(WarehouseReceipt{}, ReceiptPolicyAllParties)
		assert.ErrorIs(t, err, ErrPartiesNotReceived)
		assert.Equal(t, StatusInTransitToWarehouse, order.Status)

		require.NoError(t, order.PartyReceive("tailor-2"))
		require.NoError(t, order.ReceiveAtWarehouse(WarehouseReceipt{}, ReceiptPolicyAllParties))
		assert.Equal(t, StatusReceivedAtWarehouse, order.Status)
	})

	t.Run("any-party policy allows receipt after the first delivery", func(t *testing.T) {
		order := multiPartyOrder(t)

		err := order.ReceiveAtWarehouse(WarehouseReceipt{}, ReceiptPolicyAnyParty)
		assert.ErrorIs(t, err, ErrPartiesNotReceived)

		require.NoError(t, order.PartyReceive("tailor-1"))
		require.NoError(t, order.ReceiveAtWarehouse(WarehouseReceipt{}, ReceiptPolicyAnyParty))
		assert.Equal(t, StatusReceivedAtWarehouse, order.Status)
	})

	t.Run("single-vendor order passes either policy", func(t *testing.T) {
		order := testOrder(t)
		require.NoError(t, order.Approve())
		require.NoError(t, order.ForwardToVendor(PurchaseOrderDetails{}))
		require.NoError(t, order.VendorAccept())
		require.NoError(t, order.VendorDispatch(DispatchDetails{}))

		require.NoError(t, order.ReceiveAtWarehouse(WarehouseReceipt{}, ReceiptPolicyAllParties))
	})
}

func TestPartyTracking(t *testing.T) {
	t.Run("records per-party progress", func(t *testing.T) {
		order := multiPartyOrder(t)

		require.NoError(t, order.PartyAccept("tailor-1"))
		require.NoError(t, order.PartyDispatch("tailor-1", "sent with driver"))
		require.NoError(t, order.PartyReceive("tailor-1"))

		state := order.VendorDispatches["tailor-1"]
		assert.NotNil(t, state.AcceptedAt)
		assert.NotNil(t, state.DispatchedAt)
		assert.NotNil(t, state.ReceivedAt)
		assert.Equal(t, "sent with driver", state.Notes)
		assert.True(t, state.Received())

		assert.Nil(t, order.VendorDispatches["tailor-2"].AcceptedAt)
	})

	t.Run("unknown party is rejected", func(t *testing.T) {
		order := multiPartyOrder(t)

		assert.ErrorIs(t, order.PartyAccept("tailor-9"), ErrPartyNotFound)
		assert.ErrorIs(t, order.PartyDispatch("tailor-9", ""), ErrPartyNotFound)
		assert.ErrorIs(t, order.PartyReceive("tailor-9"), ErrPartyNotFound)
	})

	t.Run("party marks are idempotent", func(t *testing.T) {
		order := multiPartyOrder(t)

		require.NoError(t, order.PartyAccept("tailor-1"))
		first := *order.VendorDispatches["tailor-1"].AcceptedAt
		require.NoError(t, order.PartyAccept("tailor-1"))
		assert.Equal(t, first, *order.VendorDispatches["tailor-1"].AcceptedAt)
	})
}
