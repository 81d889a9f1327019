package application

import (
	"context"
	"fmt"
	"time"

	"github.com/tashivar/backoffice/internal/domain"
	apperrors "github.com/tashivar/backoffice/pkg/errors"
	"github.com/tashivar/backoffice/pkg/logging"
	"github.com/tashivar/backoffice/pkg/middleware"
)

// ChallanService handles the delivery challan lifecycle
type ChallanService struct {
	challanRepo domain.ChallanRepository
	orderRepo   domain.OrderRepository
	notifier    *Notifier
	logger      *logging.Logger
	metrics     *middleware.BusinessMetrics
}

// NewChallanService creates a new ChallanService
func NewChallanService(
	challanRepo domain.ChallanRepository,
	orderRepo domain.OrderRepository,
	notifier *Notifier,
	logger *logging.Logger,
	metrics *middleware.BusinessMetrics,
) *ChallanService {
	return &ChallanService{
		challanRepo: challanRepo,
		orderRepo:   orderRepo,
		notifier:    notifier,
		logger:      logger,
		metrics:     metrics,
	}
}

// CreateChallan creates a challan from explicit line items
func (s *ChallanService) CreateChallan(ctx context.Context, cmd CreateChallanCommand) (*domain.Challan, error) {
	items := make([]domain.ChallanItem, 0, len(cmd.Items))
	for _, in := range cmd.Items {
		items = append(items, domain.ChallanItem{
			Description: in.Description,
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
		})
	}

	return s.create(ctx, cmd.OrderID, "", cmd.Customer.ToDomainParty(), items, cmd.Notes)
}

// CreateChallanFromOfflineRequest builds a challan for a sales request
// taken outside the system, stamped with the request id.
func (s *ChallanService) CreateChallanFromOfflineRequest(ctx context.Context, cmd CreateChallanFromOfflineRequestCommand) (*domain.Challan, error) {
	items := make([]domain.ChallanItem, 0, len(cmd.Items))
	for _, in := range cmd.Items {
		items = append(items, domain.ChallanItem{
			Description: in.Description,
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
		})
	}

	return s.create(ctx, "", cmd.OfflineRequestID, cmd.Customer.ToDomainParty(), items, cmd.Notes)
}

// CreateChallanFromOrder builds a challan off an order's line items at
// their selling prices.
func (s *ChallanService) CreateChallanFromOrder(ctx context.Context, orderID string) (*domain.Challan, error) {
	order, err := s.orderRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		s.logger.WithError(err).Error("Failed to get order", "orderId", orderID)
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, apperrors.ErrNotFoundWithID("order", orderID)
	}
	if order.Status == domain.StatusCancelled {
		return nil, apperrors.ErrGuardViolation("cannot issue a challan for a cancelled order")
	}

	items := make([]domain.ChallanItem, 0, len(order.Items))
	for _, line := range order.Items {
		items = append(items, domain.ChallanItem{
			Description: line.Name,
			Quantity:    line.Quantity,
			UnitPrice:   line.SellingPrice,
		})
	}

	return s.create(ctx, orderID, "", order.Buyer, items, "")
}

func (s *ChallanService) create(ctx context.Context, orderID, offlineRequestID string, customer domain.Party, items []domain.ChallanItem, notes string) (*domain.Challan, error) {
	year := time.Now().UTC().Year()
	seq, err := s.challanRepo.NextSequence(ctx, year)
	if err != nil {
		s.logger.WithError(err).Error("Failed to allocate challan sequence")
		return nil, fmt.Errorf("failed to allocate challan sequence: %w", err)
	}
	challanNumber := fmt.Sprintf("CH-%d-%03d", year, seq)

	challan, err := domain.NewChallan(challanNumber, orderID, customer, items, notes)
	if err != nil {
		return nil, apperrors.MapDomainError(err)
	}
	challan.OfflineRequestID = offlineRequestID

	if err := s.saveChallan(ctx, challan); err != nil {
		return nil, err
	}

	s.logger.Event(ctx, "challan.created", map[string]any{
		"challanNumber": challanNumber,
		"orderId":       orderID,
		"totalAmount":   challan.TotalAmount,
	})

	return challan, nil
}

// GetChallan retrieves a challan by number
func (s *ChallanService) GetChallan(ctx context.Context, challanNumber string) (*domain.Challan, error) {
	challan, err := s.challanRepo.FindByNumber(ctx, challanNumber)
	if err != nil {
		s.logger.WithError(err).Error("Failed to get challan", "challanNumber", challanNumber)
		return nil, fmt.Errorf("failed to get challan: %w", err)
	}
	if challan == nil {
		return nil, apperrors.ErrNotFoundWithID("challan", challanNumber)
	}
	return challan, nil
}

// ListChallans lists challans with filters and pagination
func (s *ChallanService) ListChallans(ctx context.Context, filter domain.ChallanFilter, page domain.Pagination) ([]*domain.Challan, int64, error) {
	challans, total, err := s.challanRepo.FindAll(ctx, filter, page)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list challans")
		return nil, 0, fmt.Errorf("failed to list challans: %w", err)
	}
	return challans, total, nil
}

// RecordPayment applies a payment to a challan
func (s *ChallanService) RecordPayment(ctx context.Context, cmd RecordChallanPaymentCommand) (*domain.Challan, error) {
	challan, err := s.GetChallan(ctx, cmd.ChallanNumber)
	if err != nil {
		return nil, err
	}

	payment := domain.ChallanPayment{
		Amount:     cmd.Amount,
		Method:     cmd.Method,
		Reference:  cmd.Reference,
		ReceivedBy: cmd.ReceivedBy,
	}
	if err := challan.RecordPayment(payment); err != nil {
		return nil, apperrors.MapDomainError(err)
	}

	if err := s.saveChallan(ctx, challan); err != nil {
		return nil, err
	}

	s.metrics.RecordChallanPayment(string(challan.Status))
	s.notifier.Emit(domain.NotifyChallanPayment, "Payment received",
		fmt.Sprintf("Payment of %.2f on challan %s, outstanding %.2f",
			cmd.Amount, challan.ChallanNumber, challan.OutstandingBalance()),
		challan.ChallanNumber, "challan")

	s.logger.Event(ctx, "challan.payment-recorded", map[string]any{
		"challanNumber": challan.ChallanNumber,
		"amount":        cmd.Amount,
		"paidAmount":    challan.PaidAmount,
		"status":        string(challan.Status),
	})

	return challan, nil
}

// ConvertToInvoice closes a fully paid challan under an invoice number.
// When no number is supplied one is derived from the challan number.
func (s *ChallanService) ConvertToInvoice(ctx context.Context, cmd ConvertChallanCommand) (*domain.Challan, error) {
	challan, err := s.GetChallan(ctx, cmd.ChallanNumber)
	if err != nil {
		return nil, err
	}

	invoiceNumber := cmd.InvoiceNumber
	if invoiceNumber == "" {
		invoiceNumber = "INV-" + challan.ChallanNumber
	}

	if err := challan.ConvertToInvoice(invoiceNumber); err != nil {
		return nil, apperrors.MapDomainError(err)
	}

	if err := s.saveChallan(ctx, challan); err != nil {
		return nil, err
	}

	s.notifier.Emit(domain.NotifyChallanConverted, "Challan converted",
		fmt.Sprintf("Challan %s converted to invoice %s", challan.ChallanNumber, invoiceNumber),
		challan.ChallanNumber, "challan")

	return challan, nil
}

// CancelChallan voids a challan
func (s *ChallanService) CancelChallan(ctx context.Context, challanNumber string) (*domain.Challan, error) {
	challan, err := s.GetChallan(ctx, challanNumber)
	if err != nil {
		return nil, err
	}

	if err := challan.Cancel(); err != nil {
		return nil, apperrors.MapDomainError(err)
	}

	if err := s.saveChallan(ctx, challan); err != nil {
		return nil, err
	}

	s.logger.Event(ctx, "challan.cancelled", map[string]any{"challanNumber": challanNumber})
	return challan, nil
}

func (s *ChallanService) saveChallan(ctx context.Context, challan *domain.Challan) error {
	if err := s.challanRepo.Save(ctx, challan); err != nil {
		if err == domain.ErrVersionConflict {
			return apperrors.ErrConflict("challan was modified concurrently, retry the operation").Wrap(err)
		}
		s.logger.WithError(err).Error("Failed to save challan", "challanNumber", challan.ChallanNumber)
		return fmt.Errorf("failed to save challan: %w", err)
	}
	return nil
}
