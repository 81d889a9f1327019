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

// OrderService handles the order lifecycle use cases
type OrderService struct {
	orderRepo     domain.OrderRepository
	rulesRepo     domain.CommissionRuleRepository
	inventory     *InventoryService
	notifier      *Notifier
	logger        *logging.Logger
	metrics       *middleware.BusinessMetrics
	receiptPolicy domain.ReceiptPolicy
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo domain.OrderRepository,
	rulesRepo domain.CommissionRuleRepository,
	inventory *InventoryService,
	notifier *Notifier,
	logger *logging.Logger,
	metrics *middleware.BusinessMetrics,
	receiptPolicy domain.ReceiptPolicy,
) *OrderService {
	if !receiptPolicy.IsValid() {
		receiptPolicy = domain.ReceiptPolicyAllParties
	}
	return &OrderService{
		orderRepo:     orderRepo,
		rulesRepo:     rulesRepo,
		inventory:     inventory,
		notifier:      notifier,
		logger:        logger,
		metrics:       metrics,
		receiptPolicy: receiptPolicy,
	}
}

// CreateOrder creates a new order with a snapshotted commission
func (s *OrderService) CreateOrder(ctx context.Context, cmd CreateOrderCommand) (*OrderDTO, error) {
	rules, err := s.loadRules(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to load commission rules")
		return nil, fmt.Errorf("failed to load commission rules: %w", err)
	}

	orderID := cmd.OrderID
	if orderID == "" {
		year := time.Now().UTC().Year()
		seq, err := s.orderRepo.NextSequence(ctx, year)
		if err != nil {
			s.logger.WithError(err).Error("Failed to allocate order sequence")
			return nil, fmt.Errorf("failed to allocate order sequence: %w", err)
		}
		orderID = fmt.Sprintf("ORD-%d-%03d", year, seq)
	} else {
		existing, err := s.orderRepo.FindByOrderID(ctx, orderID)
		if err != nil {
			s.logger.WithError(err).Error("Failed to check order ID", "orderId", orderID)
			return nil, fmt.Errorf("failed to check order ID: %w", err)
		}
		if existing != nil {
			return nil, apperrors.ErrConflict(fmt.Sprintf("order %s already exists", orderID))
		}
	}

	order, err := domain.NewOrder(orderID, cmd.Buyer.ToDomainParty(), cmd.Vendor.ToDomainParty(), cmd.ToDomainItems(), cmd.PaymentMethod, rules)
	if err != nil {
		return nil, apperrors.MapDomainError(err)
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		s.logger.WithError(err).Error("Failed to save order", "orderId", orderID)
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	s.metrics.RecordOrderCreated(cmd.PaymentMethod)
	s.metrics.RecordCommissionComputed()
	s.notifier.Emit(domain.NotifyOrderCreated, "Order created",
		fmt.Sprintf("Order %s created for %s", orderID, order.Buyer.Name), orderID, "order")

	s.logger.Event(ctx, "order.created", map[string]any{
		"orderId":    orderID,
		"buyerId":    order.Buyer.ID,
		"vendorId":   order.Vendor.ID,
		"subtotal":   order.Subtotal,
		"commission": order.Commission,
	})

	return ToOrderDTO(order), nil
}

// GetOrder retrieves an order by ID
func (s *OrderService) GetOrder(ctx context.Context, orderID string) (*OrderDTO, error) {
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return ToOrderDTO(order), nil
}

// ListOrders lists orders with filters and pagination
func (s *OrderService) ListOrders(ctx context.Context, filter domain.OrderFilter, page domain.Pagination) ([]OrderSummaryDTO, int64, error) {
	orders, total, err := s.orderRepo.FindAll(ctx, filter, page)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list orders")
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	return ToOrderSummaryDTOs(orders), total, nil
}

// UpdateOrder merges mutable fields into an order. The order ID, items and
// financial snapshot are immutable; attempts to change them are ignored.
func (s *OrderService) UpdateOrder(ctx context.Context, cmd UpdateOrderCommand) (*OrderDTO, error) {
	order, err := s.findOrder(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}

	if order.Status.IsTerminal() {
		return nil, apperrors.ErrGuardViolation(
			fmt.Sprintf("cannot update order in terminal status %q", order.Status))
	}

	if cmd.Buyer != nil {
		order.Buyer = cmd.Buyer.ToDomainParty()
	}
	if cmd.Vendor != nil {
		order.Vendor = cmd.Vendor.ToDomainParty()
	}
	if cmd.PaymentMethod != nil {
		order.PaymentMethod = *cmd.PaymentMethod
	}
	if cmd.PaymentStatus != nil {
		order.PaymentStatus = domain.PaymentStatus(*cmd.PaymentStatus)
	}
	order.UpdatedAt = time.Now().UTC()

	if err := s.saveOrder(ctx, order); err != nil {
		return nil, err
	}

	return ToOrderDTO(order), nil
}

// DeleteOrder removes an order entirely
func (s *OrderService) DeleteOrder(ctx context.Context, orderID string) error {
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return err
	}

	if err := s.orderRepo.Delete(ctx, order.OrderID); err != nil {
		s.logger.WithError(err).Error("Failed to delete order", "orderId", orderID)
		return fmt.Errorf("failed to delete order: %w", err)
	}

	s.logger.Event(ctx, "order.deleted", map[string]any{"orderId": orderID})
	return nil
}

// ApproveOrder approves a pending order
func (s *OrderService) ApproveOrder(ctx context.Context, orderID string) (*OrderDTO, error) {
	return s.transition(ctx, orderID, "approve", func(order *domain.Order) error {
		return order.Approve()
	})
}

// ForwardToVendor forwards an approved order to its vendor
func (s *OrderService) ForwardToVendor(ctx context.Context, cmd ForwardToVendorCommand) (*OrderDTO, error) {
	return s.transition(ctx, cmd.OrderID, "forward-to-vendor", func(order *domain.Order) error {
		return order.ForwardToVendor(domain.PurchaseOrderDetails{
			Number:           "PO-" + order.OrderID,
			DeliveryMethod:   domain.DeliveryMethod(cmd.DeliveryMethod),
			ExpectedDelivery: cmd.ExpectedDelivery,
			Origin:           cmd.Origin,
			Notes:            cmd.Notes,
			Parties:          cmd.Parties,
		})
	})
}

// VendorAccept records vendor acceptance
func (s *OrderService) VendorAccept(ctx context.Context, orderID string) (*OrderDTO, error) {
	return s.transition(ctx, orderID, "vendor-accept", func(order *domain.Order) error {
		return order.VendorAccept()
	})
}

// VendorDispatch records dispatch from the vendor toward the warehouse
func (s *OrderService) VendorDispatch(ctx context.Context, cmd DispatchCommand) (*OrderDTO, error) {
	return s.transition(ctx, cmd.OrderID, "vendor-dispatch", func(order *domain.Order) error {
		return order.VendorDispatch(cmd.ToDispatchDetails())
	})
}

// ReceiveAtWarehouse records warehouse receipt and writes one purchase
// ledger entry per line item.
func (s *OrderService) ReceiveAtWarehouse(ctx context.Context, cmd ReceiveAtWarehouseCommand) (*OrderDTO, error) {
	dto, err := s.transition(ctx, cmd.OrderID, "receive-at-warehouse", func(order *domain.Order) error {
		return order.ReceiveAtWarehouse(domain.WarehouseReceipt{
			ReceivedBy: cmd.ReceivedBy,
			Location:   cmd.Location,
			Notes:      cmd.Notes,
		}, s.receiptPolicy)
	})
	if err != nil {
		return nil, err
	}

	s.recordOrderStock(ctx, dto, domain.TxnPurchase)
	s.notifier.Emit(domain.NotifyWarehouseReceipt, "Order received at warehouse",
		fmt.Sprintf("Order %s received by %s", cmd.OrderID, cmd.ReceivedBy), cmd.OrderID, "order")

	return dto, nil
}

// DispatchToBuyer records dispatch from the warehouse toward the buyer
func (s *OrderService) DispatchToBuyer(ctx context.Context, cmd DispatchCommand) (*OrderDTO, error) {
	return s.transition(ctx, cmd.OrderID, "dispatch-to-buyer", func(order *domain.Order) error {
		return order.DispatchToBuyer(cmd.ToDispatchDetails())
	})
}

// MarkDelivered completes the order and writes one sale ledger entry per
// line item.
func (s *OrderService) MarkDelivered(ctx context.Context, cmd MarkDeliveredCommand) (*OrderDTO, error) {
	dto, err := s.transition(ctx, cmd.OrderID, "mark-delivered", func(order *domain.Order) error {
		return order.MarkDelivered(cmd.DeliveredTo)
	})
	if err != nil {
		return nil, err
	}

	s.recordOrderStock(ctx, dto, domain.TxnSale)
	s.notifier.Emit(domain.NotifyOrderDelivered, "Order delivered",
		fmt.Sprintf("Order %s delivered to %s", cmd.OrderID, cmd.DeliveredTo), cmd.OrderID, "order")

	return dto, nil
}

// CancelOrder cancels an order from any non-terminal state
func (s *OrderService) CancelOrder(ctx context.Context, cmd CancelOrderCommand) (*OrderDTO, error) {
	dto, err := s.transition(ctx, cmd.OrderID, "cancel", func(order *domain.Order) error {
		return order.Cancel(cmd.Reason)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Emit(domain.NotifyOrderCancelled, "Order cancelled",
		fmt.Sprintf("Order %s cancelled: %s", cmd.OrderID, cmd.Reason), cmd.OrderID, "order")

	return dto, nil
}

// PartyAccept records acceptance by one party of a multi-party order
func (s *OrderService) PartyAccept(ctx context.Context, cmd PartyActionCommand) (*OrderDTO, error) {
	return s.mutate(ctx, cmd.OrderID, func(order *domain.Order) error {
		return order.PartyAccept(cmd.PartyID)
	})
}

// PartyDispatch records dispatch by one party of a multi-party order
func (s *OrderService) PartyDispatch(ctx context.Context, cmd PartyActionCommand) (*OrderDTO, error) {
	return s.mutate(ctx, cmd.OrderID, func(order *domain.Order) error {
		return order.PartyDispatch(cmd.PartyID, cmd.Notes)
	})
}

// PartyReceive records warehouse receipt of one party's goods
func (s *OrderService) PartyReceive(ctx context.Context, cmd PartyActionCommand) (*OrderDTO, error) {
	return s.mutate(ctx, cmd.OrderID, func(order *domain.Order) error {
		return order.PartyReceive(cmd.PartyID)
	})
}

// MarkCommissionSharePaid settles one recipient's share on an order
func (s *OrderService) MarkCommissionSharePaid(ctx context.Context, orderID, recipient string) (*OrderDTO, error) {
	return s.mutate(ctx, orderID, func(order *domain.Order) error {
		return order.MarkSharePaid(recipient)
	})
}

// transition loads an order, applies a lifecycle transition and saves it
func (s *OrderService) transition(ctx context.Context, orderID, name string, fn func(*domain.Order) error) (*OrderDTO, error) {
	dto, err := s.mutate(ctx, orderID, fn)
	if err != nil {
		if domain.IsGuardViolation(err) || apperrors.FromError(err).Code == apperrors.CodeGuardViolation {
			s.metrics.RecordGuardViolation(name)
		}
		return nil, err
	}

	s.metrics.RecordOrderTransition(name, dto.Status)
	s.notifier.Emit(domain.NotifyOrderStatusChanged, "Order status changed",
		fmt.Sprintf("Order %s is now %s", orderID, dto.Status), orderID, "order")

	s.logger.Event(ctx, "order.transition", map[string]any{
		"orderId":    orderID,
		"transition": name,
		"status":     dto.Status,
	})

	return dto, nil
}

// mutate loads an order, applies a domain mutation and saves it
func (s *OrderService) mutate(ctx context.Context, orderID string, fn func(*domain.Order) error) (*OrderDTO, error) {
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := fn(order); err != nil {
		return nil, apperrors.MapDomainError(err)
	}

	if err := s.saveOrder(ctx, order); err != nil {
		return nil, err
	}

	return ToOrderDTO(order), nil
}

func (s *OrderService) findOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := s.orderRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		s.logger.WithError(err).Error("Failed to get order", "orderId", orderID)
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, apperrors.ErrNotFoundWithID("order", orderID)
	}
	return order, nil
}

func (s *OrderService) saveOrder(ctx context.Context, order *domain.Order) error {
	if err := s.orderRepo.Save(ctx, order); err != nil {
		if err == domain.ErrVersionConflict {
			return apperrors.ErrConflict("order was modified concurrently, retry the operation").Wrap(err)
		}
		s.logger.WithError(err).Error("Failed to save order", "orderId", order.OrderID)
		return fmt.Errorf("failed to save order: %w", err)
	}
	return nil
}

// recordOrderStock writes one ledger entry per line item. Ledger failures
// after a committed transition are logged for reconciliation, not surfaced.
func (s *OrderService) recordOrderStock(ctx context.Context, dto *OrderDTO, txnType domain.TransactionType) {
	for _, item := range dto.Items {
		if _, err := s.inventory.RecordOrderTransaction(ctx, item, txnType, dto.ID); err != nil {
			s.logger.WithError(err).Error("Failed to record stock for order line",
				"orderId", dto.ID, "productId", item.ProductID, "txnType", string(txnType))
		}
	}
}

// loadRules reads the stored commission rules, falling back to the
// built-in defaults for product types without one.
func (s *OrderService) loadRules(ctx context.Context) (domain.RuleSet, error) {
	stored, err := s.rulesRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	rules := domain.DefaultRuleSet()
	for _, rule := range stored {
		rules[rule.ProductType] = rule
	}
	return rules, nil
}
