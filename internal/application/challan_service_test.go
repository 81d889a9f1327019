package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tashivar/backoffice/internal/domain"
	apperrors "github.com/tashivar/backoffice/pkg/errors"
)

func createChallanCmd() CreateChallanCommand {
	return CreateChallanCommand{
		Customer: PartyInput{ID: "buyer-1", Name: "Rahman Textiles"},
		Items: []ChallanItemInput{
			{Description: "Cotton Shirt", Quantity: 10, UnitPrice: 100},
		},
	}
}

func TestCreateChallanService(t *testing.T) {
	t.Run("assigns a sequential challan number", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := context.Background()

		first, err := env.challanSvc.CreateChallan(ctx, createChallanCmd())
		require.NoError(t, err)
		second, err := env.challanSvc.CreateChallan(ctx, createChallanCmd())
		require.NoError(t, err)

		assert.Regexp(t, `^CH-\d{4}-001$`, first.ChallanNumber)
		assert.Regexp(t, `^CH-\d{4}-002$`, second.ChallanNumber)
		assert.Equal(t, domain.ChallanPending, first.Status)
		assert.Equal(t, 1000.0, first.TotalAmount)
	})

	t.Run("builds a challan from an order at selling prices", func(t *testing.T) {
		env := newTestEnv(t)
		dto := env.createOrder(t)

		challan, err := env.challanSvc.CreateChallanFromOrder(context.Background(), dto.ID)

		require.NoError(t, err)
		assert.Equal(t, dto.ID, challan.OrderID)
		assert.Equal(t, dto.Subtotal, challan.TotalAmount)
		require.Len(t, challan.Items, 1)
		assert.Equal(t, "Cotton Shirt", challan.Items[0].Description)
		assert.Equal(t, 600.0, challan.Items[0].UnitPrice)
	})

	t.Run("refuses a challan for a cancelled order", func(t *testing.T) {
		env := newTestEnv(t)
		dto := env.createOrder(t)
		_, err := env.orderSvc.CancelOrder(context.Background(), CancelOrderCommand{OrderID: dto.ID})
		require.NoError(t, err)

		_, err = env.challanSvc.CreateChallanFromOrder(context.Background(), dto.ID)

		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.CodeGuardViolation, appErr.Code)
	})

	t.Run("unknown order maps to a 404", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.challanSvc.CreateChallanFromOrder(context.Background(), "ORD-2026-999")

		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, 404, appErr.HTTPStatus)
	})

	t.Run("stamps the offline request id", func(t *testing.T) {
		env := newTestEnv(t)

		challan, err := env.challanSvc.CreateChallanFromOfflineRequest(context.Background(),
			CreateChallanFromOfflineRequestCommand{
				OfflineRequestID: "OFF-2026-042",
				Customer:         PartyInput{ID: "buyer-2", Name: "Karim Traders"},
				Items: []ChallanItemInput{
					{Description: "Silk Saree", Quantity: 2, UnitPrice: 2500},
				},
			})

		require.NoError(t, err)
		assert.Equal(t, "OFF-2026-042", challan.OfflineRequestID)
		assert.Empty(t, challan.OrderID)
		assert.Equal(t, 5000.0, challan.TotalAmount)
		assert.Equal(t, domain.ChallanPending, challan.Status)
	})
}

func TestChallanPaymentFlow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	challan, err := env.challanSvc.CreateChallan(ctx, createChallanCmd())
	require.NoError(t, err)

	t.Run("partial then full payment", func(t *testing.T) {
		updated, err := env.challanSvc.RecordPayment(ctx, RecordChallanPaymentCommand{
			ChallanNumber: challan.ChallanNumber, Amount: 500, Method: "cash",
		})
		require.NoError(t, err)
		assert.Equal(t, domain.ChallanPartial, updated.Status)

		updated, err = env.challanSvc.RecordPayment(ctx, RecordChallanPaymentCommand{
			ChallanNumber: challan.ChallanNumber, Amount: 500, Method: "bank-transfer",
		})
		require.NoError(t, err)
		assert.Equal(t, domain.ChallanPaid, updated.Status)
		assert.Equal(t, 0.0, updated.OutstandingBalance())

		env.notifier.Close()
		assert.Equal(t, 2, env.notifs.countByType(domain.NotifyChallanPayment))
	})

	t.Run("overpayment maps to a 400", func(t *testing.T) {
		_, err := env.challanSvc.RecordPayment(ctx, RecordChallanPaymentCommand{
			ChallanNumber: challan.ChallanNumber, Amount: 1,
		})

		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.CodeGuardViolation, appErr.Code)
	})

	t.Run("convert after full payment", func(t *testing.T) {
		converted, err := env.challanSvc.ConvertToInvoice(ctx, ConvertChallanCommand{
			ChallanNumber: challan.ChallanNumber,
		})

		require.NoError(t, err)
		assert.Equal(t, domain.ChallanConverted, converted.Status)
		assert.Equal(t, "INV-"+challan.ChallanNumber, converted.InvoiceNumber)
	})
}

func TestConvertBeforePaid(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	challan, err := env.challanSvc.CreateChallan(ctx, createChallanCmd())
	require.NoError(t, err)

	_, err = env.challanSvc.ConvertToInvoice(ctx, ConvertChallanCommand{ChallanNumber: challan.ChallanNumber})

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeGuardViolation, appErr.Code)
}

func TestCancelChallanService(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	challan, err := env.challanSvc.CreateChallan(ctx, createChallanCmd())
	require.NoError(t, err)

	cancelled, err := env.challanSvc.CancelChallan(ctx, challan.ChallanNumber)
	require.NoError(t, err)
	assert.Equal(t, domain.ChallanCancelled, cancelled.Status)

	_, err = env.challanSvc.RecordPayment(ctx, RecordChallanPaymentCommand{
		ChallanNumber: challan.ChallanNumber, Amount: 100,
	})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeGuardViolation, appErr.Code)
}
