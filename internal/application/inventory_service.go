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

// InventoryService owns the stock ledger and the per-product projection
// derived from it. Every quantity change flows through a ledger entry; the
// projection is a fold over those entries and can be rebuilt from them.
type InventoryService struct {
	ledgerRepo    domain.LedgerRepository
	inventoryRepo domain.InventoryRepository
	notifier      *Notifier
	logger        *logging.Logger
	metrics       *middleware.BusinessMetrics
	negativeStock domain.NegativeStockPolicy
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(
	ledgerRepo domain.LedgerRepository,
	inventoryRepo domain.InventoryRepository,
	notifier *Notifier,
	logger *logging.Logger,
	metrics *middleware.BusinessMetrics,
	negativeStock domain.NegativeStockPolicy,
) *InventoryService {
	if negativeStock != domain.NegativeStockReject {
		negativeStock = domain.NegativeStockAllow
	}
	return &InventoryService{
		ledgerRepo:    ledgerRepo,
		inventoryRepo: inventoryRepo,
		notifier:      notifier,
		logger:        logger,
		metrics:       metrics,
		negativeStock: negativeStock,
	}
}

// RecordTransaction appends a manual ledger entry and folds it into the
// projection.
func (s *InventoryService) RecordTransaction(ctx context.Context, cmd RecordTransactionCommand) (*domain.StockTransaction, error) {
	txnID, err := s.nextTxnID(ctx)
	if err != nil {
		return nil, err
	}

	txn, err := domain.NewStockTransaction(txnID, cmd.ProductID,
		domain.TransactionType(cmd.Type), domain.AdjustmentDirection(cmd.Direction),
		cmd.Quantity, cmd.UnitPrice)
	if err != nil {
		return nil, apperrors.MapDomainError(err)
	}
	txn.SKU = cmd.SKU
	txn.Reference = cmd.Reference
	txn.Notes = cmd.Notes
	txn.CreatedBy = cmd.CreatedBy

	if err := s.append(ctx, txn, ""); err != nil {
		return nil, err
	}
	return txn, nil
}

// RecordOrderTransaction appends a ledger entry driven by an order
// transition, creating the projection item from the order line when the
// product has not been synced yet.
func (s *InventoryService) RecordOrderTransaction(ctx context.Context, item domain.LineItem, txnType domain.TransactionType, orderID string) (*domain.StockTransaction, error) {
	txnID, err := s.nextTxnID(ctx)
	if err != nil {
		return nil, err
	}

	unitPrice := item.CostPrice
	if txnType == domain.TxnSale {
		unitPrice = item.SellingPrice
	}

	txn, err := domain.NewStockTransaction(txnID, item.ProductID, txnType, "", item.Quantity, unitPrice)
	if err != nil {
		return nil, apperrors.MapDomainError(err)
	}
	txn.OrderID = orderID

	if err := s.append(ctx, txn, item.Name); err != nil {
		return nil, err
	}
	return txn, nil
}

// append writes the ledger entry and applies it to the projection. The
// entry is validated against the projection first so a rejected outbound
// leaves no orphan ledger row.
func (s *InventoryService) append(ctx context.Context, txn *domain.StockTransaction, productName string) error {
	item, err := s.findOrCreateItem(ctx, txn, productName)
	if err != nil {
		return err
	}
	statusBefore := item.Status
	txn.PreviousStock = item.Quantity

	if err := item.ApplyTransaction(txn, s.negativeStock); err != nil {
		return apperrors.MapDomainError(err).WithDetail("productId", txn.ProductID)
	}
	txn.NewStock = item.Quantity

	if err := s.ledgerRepo.Insert(ctx, txn); err != nil {
		s.logger.WithError(err).Error("Failed to insert stock transaction", "txnId", txn.TxnID)
		return fmt.Errorf("failed to insert stock transaction: %w", err)
	}

	if err := s.inventoryRepo.Save(ctx, item); err != nil {
		// The ledger entry is committed; the projection catches up on rebuild.
		s.logger.WithError(err).Error("Failed to update inventory projection",
			"txnId", txn.TxnID, "productId", txn.ProductID)
	}

	s.metrics.RecordStockTransaction(string(txn.Type))
	s.alertOnStockStatus(item, statusBefore)

	s.logger.Event(ctx, "stock.transaction-recorded", map[string]any{
		"txnId":     txn.TxnID,
		"productId": txn.ProductID,
		"type":      string(txn.Type),
		"signed":    txn.SignedQuantity(),
		"quantity":  item.Quantity,
	})

	return nil
}

func (s *InventoryService) findOrCreateItem(ctx context.Context, txn *domain.StockTransaction, productName string) (*domain.InventoryItem, error) {
	item, err := s.inventoryRepo.FindByProductID(ctx, txn.ProductID)
	if err != nil {
		s.logger.WithError(err).Error("Failed to get inventory item", "productId", txn.ProductID)
		return nil, fmt.Errorf("failed to get inventory item: %w", err)
	}
	if item != nil {
		return item, nil
	}

	if productName == "" {
		productName = txn.ProductID
	}
	item, err = domain.NewInventoryItem(txn.ProductID, txn.SKU, productName, domain.ProductReadymade, 0, 0, 0)
	if err != nil {
		return nil, apperrors.MapDomainError(err)
	}
	return item, nil
}

func (s *InventoryService) alertOnStockStatus(item *domain.InventoryItem, before domain.StockStatus) {
	if item.Status == before {
		return
	}

	switch item.Status {
	case domain.StockOutOfStock:
		s.notifier.Emit(domain.NotifyOutOfStock, "Out of stock",
			fmt.Sprintf("%s is out of stock", item.Name), item.ProductID, "inventory")
	case domain.StockLowStock:
		s.notifier.Emit(domain.NotifyLowStock, "Low stock",
			fmt.Sprintf("%s is down to %d units (reorder point %d)", item.Name, item.Quantity, item.ReorderPoint),
			item.ProductID, "inventory")
	}
}

// GetTransaction retrieves one ledger entry
func (s *InventoryService) GetTransaction(ctx context.Context, txnID string) (*domain.StockTransaction, error) {
	txn, err := s.ledgerRepo.FindByTxnID(ctx, txnID)
	if err != nil {
		s.logger.WithError(err).Error("Failed to get stock transaction", "txnId", txnID)
		return nil, fmt.Errorf("failed to get stock transaction: %w", err)
	}
	if txn == nil {
		return nil, apperrors.ErrNotFoundWithID("stock transaction", txnID)
	}
	return txn, nil
}

// ListTransactions lists ledger entries with filters and pagination
func (s *InventoryService) ListTransactions(ctx context.Context, filter domain.TxnFilter, page domain.Pagination) ([]*domain.StockTransaction, int64, error) {
	txns, total, err := s.ledgerRepo.FindAll(ctx, filter, page)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list stock transactions")
		return nil, 0, fmt.Errorf("failed to list stock transactions: %w", err)
	}
	return txns, total, nil
}

// Summarize folds the ledger into per-product net totals. With a product
// ID it summarizes that product's history; without one, the whole ledger.
func (s *InventoryService) Summarize(ctx context.Context, productID string) ([]StockSummaryDTO, error) {
	var txns []*domain.StockTransaction
	var err error

	if productID != "" {
		txns, err = s.ledgerRepo.FindByProduct(ctx, productID)
	} else {
		txns, _, err = s.ledgerRepo.FindAll(ctx, domain.TxnFilter{}, domain.Pagination{})
	}
	if err != nil {
		s.logger.WithError(err).Error("Failed to load ledger for summary", "productId", productID)
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}

	return ToStockSummaryDTOs(domain.Summarize(txns)), nil
}

// SyncProduct registers or refreshes one catalog product in the projection
func (s *InventoryService) SyncProduct(ctx context.Context, cmd SyncProductCommand) (*domain.InventoryItem, error) {
	item, err := s.inventoryRepo.FindByProductID(ctx, cmd.ProductID)
	if err != nil {
		s.logger.WithError(err).Error("Failed to get inventory item", "productId", cmd.ProductID)
		return nil, fmt.Errorf("failed to get inventory item: %w", err)
	}

	created := false
	if item == nil {
		created = true
		item, err = domain.NewInventoryItem(cmd.ProductID, cmd.SKU, cmd.Name,
			domain.ProductType(cmd.Type), cmd.MinStock, cmd.MaxStock, cmd.ReorderPoint)
		if err != nil {
			return nil, apperrors.MapDomainError(err)
		}
	} else {
		item.SKU = cmd.SKU
		item.Name = cmd.Name
		item.Type = domain.ProductType(cmd.Type)
		if cmd.MinStock > 0 && cmd.MaxStock > 0 && cmd.ReorderPoint > 0 {
			if err := item.UpdateThresholds(cmd.MinStock, cmd.MaxStock, cmd.ReorderPoint); err != nil {
				return nil, apperrors.MapDomainError(err)
			}
		}
		item.UpdatedAt = time.Now().UTC()
	}

	if err := s.inventoryRepo.Save(ctx, item); err != nil {
		s.logger.WithError(err).Error("Failed to save inventory item", "productId", cmd.ProductID)
		return nil, fmt.Errorf("failed to save inventory item: %w", err)
	}

	// A first sync carries the catalog's on-hand count into the ledger as
	// an opening adjustment. Resyncs leave quantities to the ledger.
	if created && cmd.Quantity > 0 {
		txnID, err := s.nextTxnID(ctx)
		if err != nil {
			return nil, err
		}
		txn, err := domain.NewStockTransaction(txnID, cmd.ProductID,
			domain.TxnAdjustment, domain.AdjustmentIn, cmd.Quantity, 0)
		if err != nil {
			return nil, apperrors.MapDomainError(err)
		}
		txn.SKU = cmd.SKU
		txn.Reference = "catalog-sync"
		txn.Notes = "opening stock from catalog sync"
		if err := s.append(ctx, txn, cmd.Name); err != nil {
			return nil, err
		}
		return s.GetInventoryItem(ctx, cmd.ProductID)
	}
	return item, nil
}

// SyncCatalog registers or refreshes a batch of catalog products
func (s *InventoryService) SyncCatalog(ctx context.Context, cmd SyncCatalogCommand) (int, error) {
	synced := 0
	for _, product := range cmd.Products {
		if _, err := s.SyncProduct(ctx, product); err != nil {
			s.logger.WithError(err).Error("Failed to sync product", "productId", product.ProductID)
			continue
		}
		synced++
	}

	s.logger.Event(ctx, "inventory.catalog-synced", map[string]any{
		"requested": len(cmd.Products),
		"synced":    synced,
	})
	return synced, nil
}

// GetInventoryItem retrieves one projection item
func (s *InventoryService) GetInventoryItem(ctx context.Context, productID string) (*domain.InventoryItem, error) {
	item, err := s.inventoryRepo.FindByProductID(ctx, productID)
	if err != nil {
		s.logger.WithError(err).Error("Failed to get inventory item", "productId", productID)
		return nil, fmt.Errorf("failed to get inventory item: %w", err)
	}
	if item == nil {
		return nil, apperrors.ErrNotFoundWithID("inventory item", productID)
	}
	return item, nil
}

// ListInventory lists projection items with filters and pagination
func (s *InventoryService) ListInventory(ctx context.Context, filter domain.InventoryFilter, page domain.Pagination) ([]*domain.InventoryItem, int64, error) {
	items, total, err := s.inventoryRepo.FindAll(ctx, filter, page)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list inventory")
		return nil, 0, fmt.Errorf("failed to list inventory: %w", err)
	}
	return items, total, nil
}

// CheckAvailability reports whether a requested quantity can be fulfilled
func (s *InventoryService) CheckAvailability(ctx context.Context, cmd CheckAvailabilityCommand) (*domain.AvailabilityResult, error) {
	item, err := s.GetInventoryItem(ctx, cmd.ProductID)
	if err != nil {
		return nil, err
	}

	result, err := item.CheckAvailability(cmd.Quantity)
	if err != nil {
		return nil, apperrors.MapDomainError(err)
	}
	return result, nil
}

// RebuildProjection recomputes one product's projection from its ledger
// history, discarding the stored quantity.
func (s *InventoryService) RebuildProjection(ctx context.Context, productID string) (*domain.InventoryItem, error) {
	item, err := s.GetInventoryItem(ctx, productID)
	if err != nil {
		return nil, err
	}

	txns, err := s.ledgerRepo.FindByProduct(ctx, productID)
	if err != nil {
		s.logger.WithError(err).Error("Failed to load ledger for rebuild", "productId", productID)
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}

	summary := domain.Summarize(txns)[productID]
	item.Quantity = 0
	item.LastTxnID = ""
	if summary != nil {
		item.Quantity = summary.NetQuantity
	}
	item.Status = domain.DeriveStatus(item.Quantity, item.ReorderPoint, item.MaxStock)
	item.UpdatedAt = time.Now().UTC()

	if err := s.inventoryRepo.Save(ctx, item); err != nil {
		s.logger.WithError(err).Error("Failed to save rebuilt projection", "productId", productID)
		return nil, fmt.Errorf("failed to save inventory item: %w", err)
	}

	s.logger.Event(ctx, "inventory.projection-rebuilt", map[string]any{
		"productId": productID,
		"quantity":  item.Quantity,
	})
	return item, nil
}

// DeleteInventoryItem removes one projection item
func (s *InventoryService) DeleteInventoryItem(ctx context.Context, productID string) error {
	if _, err := s.GetInventoryItem(ctx, productID); err != nil {
		return err
	}

	if err := s.inventoryRepo.Delete(ctx, productID); err != nil {
		s.logger.WithError(err).Error("Failed to delete inventory item", "productId", productID)
		return fmt.Errorf("failed to delete inventory item: %w", err)
	}
	return nil
}

// PurgeInventory removes every projection item. The ledger is untouched;
// projections come back on the next sync or rebuild.
func (s *InventoryService) PurgeInventory(ctx context.Context) (int64, error) {
	deleted, err := s.inventoryRepo.DeleteAll(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to purge inventory")
		return 0, fmt.Errorf("failed to purge inventory: %w", err)
	}

	s.logger.Event(ctx, "inventory.purged", map[string]any{"deleted": deleted})
	return deleted, nil
}

// PurgeLedger wipes the stock ledger. Projections keep their quantities
// until the next rebuild, which will fold an empty ledger to zero.
func (s *InventoryService) PurgeLedger(ctx context.Context) (int64, error) {
	deleted, err := s.ledgerRepo.DeleteAll(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to purge stock ledger")
		return 0, fmt.Errorf("failed to purge stock ledger: %w", err)
	}

	s.logger.Event(ctx, "ledger.purged", map[string]any{"deleted": deleted})
	return deleted, nil
}

func (s *InventoryService) nextTxnID(ctx context.Context) (string, error) {
	year := time.Now().UTC().Year()
	seq, err := s.ledgerRepo.NextSequence(ctx, year)
	if err != nil {
		s.logger.WithError(err).Error("Failed to allocate transaction sequence")
		return "", fmt.Errorf("failed to allocate transaction sequence: %w", err)
	}
	return fmt.Sprintf("TXN-%d-%05d", year, seq), nil
}
