package application

import (
	"context"
	"strings"
	"sync"

	"github.com/tashivar/backoffice/internal/domain"
	"github.com/tashivar/backoffice/pkg/logging"
	"github.com/tashivar/backoffice/pkg/metrics"
	"github.com/tashivar/backoffice/pkg/middleware"
)

func testLogger() *logging.Logger {
	cfg := logging.DefaultConfig("backoffice-test")
	cfg.Level = logging.LevelError
	return logging.New(cfg)
}

func testMetrics() *middleware.BusinessMetrics {
	return middleware.NewBusinessMetrics(metrics.New(metrics.DefaultConfig("backoffice-test")))
}

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[string]*domain.Order
	seq    int64
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[string]*domain.Order)}
}

func (r *fakeOrderRepo) Save(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.orders[order.OrderID]; ok && existing.Version != order.Version {
		return domain.ErrVersionConflict
	}
	order.Version++
	order.ClearDomainEvents()
	copied := *order
	r.orders[order.OrderID] = &copied
	return nil
}

func (r *fakeOrderRepo) FindByOrderID(_ context.Context, orderID string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[orderID]
	if !ok {
		return nil, nil
	}
	copied := *order
	return &copied, nil
}

func (r *fakeOrderRepo) FindAll(_ context.Context, filter domain.OrderFilter, page domain.Pagination) ([]*domain.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]*domain.Order, 0)
	for _, order := range r.orders {
		if filter.Status != "" && order.Status != filter.Status {
			continue
		}
		copied := *order
		result = append(result, &copied)
	}
	return result, int64(len(result)), nil
}

func (r *fakeOrderRepo) Delete(_ context.Context, orderID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.orders, orderID)
	return nil
}

func (r *fakeOrderRepo) NextSequence(_ context.Context, _ int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	return r.seq, nil
}

type fakeLedgerRepo struct {
	mu   sync.Mutex
	txns []*domain.StockTransaction
	seq  int64
}

func newFakeLedgerRepo() *fakeLedgerRepo { return &fakeLedgerRepo{} }

func (r *fakeLedgerRepo) Insert(_ context.Context, txn *domain.StockTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.txns = append(r.txns, txn)
	return nil
}

func (r *fakeLedgerRepo) FindByTxnID(_ context.Context, txnID string) (*domain.StockTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, txn := range r.txns {
		if txn.TxnID == txnID {
			return txn, nil
		}
	}
	return nil, nil
}

func (r *fakeLedgerRepo) FindAll(_ context.Context, filter domain.TxnFilter, _ domain.Pagination) ([]*domain.StockTransaction, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]*domain.StockTransaction, 0)
	for _, txn := range r.txns {
		if filter.ProductID != "" && txn.ProductID != filter.ProductID {
			continue
		}
		if filter.OrderID != "" && txn.OrderID != filter.OrderID {
			continue
		}
		if filter.Type != "" && txn.Type != filter.Type {
			continue
		}
		result = append(result, txn)
	}
	return result, int64(len(result)), nil
}

func (r *fakeLedgerRepo) FindByProduct(ctx context.Context, productID string) ([]*domain.StockTransaction, error) {
	txns, _, err := r.FindAll(ctx, domain.TxnFilter{ProductID: productID}, domain.Pagination{})
	return txns, err
}

func (r *fakeLedgerRepo) DeleteAll(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	deleted := int64(len(r.txns))
	r.txns = nil
	return deleted, nil
}

func (r *fakeLedgerRepo) NextSequence(_ context.Context, _ int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	return r.seq, nil
}

type fakeInventoryRepo struct {
	mu    sync.Mutex
	items map[string]*domain.InventoryItem
}

func newFakeInventoryRepo() *fakeInventoryRepo {
	return &fakeInventoryRepo{items: make(map[string]*domain.InventoryItem)}
}

func (r *fakeInventoryRepo) Save(_ context.Context, item *domain.InventoryItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item.Version++
	copied := *item
	r.items[item.ProductID] = &copied
	return nil
}

func (r *fakeInventoryRepo) FindByProductID(_ context.Context, productID string) (*domain.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[productID]
	if !ok {
		return nil, nil
	}
	copied := *item
	return &copied, nil
}

func (r *fakeInventoryRepo) FindAll(_ context.Context, filter domain.InventoryFilter, _ domain.Pagination) ([]*domain.InventoryItem, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]*domain.InventoryItem, 0)
	for _, item := range r.items {
		if filter.Status != "" && item.Status != filter.Status {
			continue
		}
		copied := *item
		result = append(result, &copied)
	}
	return result, int64(len(result)), nil
}

func (r *fakeInventoryRepo) Delete(_ context.Context, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, productID)
	return nil
}

func (r *fakeInventoryRepo) DeleteAll(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := int64(len(r.items))
	r.items = make(map[string]*domain.InventoryItem)
	return count, nil
}

type fakeChallanRepo struct {
	mu       sync.Mutex
	challans map[string]*domain.Challan
	seq      int64
}

func newFakeChallanRepo() *fakeChallanRepo {
	return &fakeChallanRepo{challans: make(map[string]*domain.Challan)}
}

func (r *fakeChallanRepo) Save(_ context.Context, challan *domain.Challan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.challans[challan.ChallanNumber]; ok && existing.Version != challan.Version {
		return domain.ErrVersionConflict
	}
	challan.Version++
	copied := *challan
	r.challans[challan.ChallanNumber] = &copied
	return nil
}

func (r *fakeChallanRepo) FindByNumber(_ context.Context, challanNumber string) (*domain.Challan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	challan, ok := r.challans[challanNumber]
	if !ok {
		return nil, nil
	}
	copied := *challan
	return &copied, nil
}

func (r *fakeChallanRepo) FindAll(_ context.Context, filter domain.ChallanFilter, _ domain.Pagination) ([]*domain.Challan, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]*domain.Challan, 0)
	for _, challan := range r.challans {
		if filter.Status != "" && challan.Status != filter.Status {
			continue
		}
		copied := *challan
		result = append(result, &copied)
	}
	return result, int64(len(result)), nil
}

func (r *fakeChallanRepo) NextSequence(_ context.Context, _ int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	return r.seq, nil
}

type fakeRulesRepo struct {
	mu    sync.Mutex
	rules map[domain.ProductType]*domain.CommissionRule
}

func newFakeRulesRepo() *fakeRulesRepo {
	return &fakeRulesRepo{rules: make(map[domain.ProductType]*domain.CommissionRule)}
}

func (r *fakeRulesRepo) Upsert(_ context.Context, rule *domain.CommissionRule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules[rule.ProductType] = rule
	return nil
}

func (r *fakeRulesRepo) FindByProductType(_ context.Context, productType domain.ProductType) (*domain.CommissionRule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rules[productType], nil
}

func (r *fakeRulesRepo) FindAll(_ context.Context) ([]*domain.CommissionRule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]*domain.CommissionRule, 0, len(r.rules))
	for _, rule := range r.rules {
		result = append(result, rule)
	}
	return result, nil
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications []*domain.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo { return &fakeNotificationRepo{} }

func (r *fakeNotificationRepo) Insert(_ context.Context, notification *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, notification)
	return nil
}

func (r *fakeNotificationRepo) FindAll(_ context.Context, filter domain.NotificationFilter, _ domain.Pagination) ([]*domain.Notification, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]*domain.Notification, 0)
	for _, n := range r.notifications {
		if filter.Type != "" && n.Type != filter.Type {
			continue
		}
		if filter.UnreadOnly && n.Read {
			continue
		}
		result = append(result, n)
	}
	return result, int64(len(result)), nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, notifID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.NotifID == notifID {
			n.MarkRead()
		}
	}
	return nil
}

func (r *fakeNotificationRepo) MarkAllRead(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var updated int64
	for _, n := range r.notifications {
		if !n.Read {
			n.MarkRead()
			updated++
		}
	}
	return updated, nil
}

func (r *fakeNotificationRepo) countByType(notifType domain.NotificationType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, n := range r.notifications {
		if n.Type == notifType {
			count++
		}
	}
	return count
}

type fakeKVRepo struct {
	mu     sync.Mutex
	values map[string][]byte
}

func newFakeKVRepo() *fakeKVRepo { return &fakeKVRepo{values: make(map[string][]byte)} }

func (r *fakeKVRepo) Get(_ context.Context, key string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.values[key], nil
}

func (r *fakeKVRepo) Set(_ context.Context, key string, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key] = value
	return nil
}

func (r *fakeKVRepo) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.values, key)
	return nil
}

func (r *fakeKVRepo) Keys(_ context.Context, prefix string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := make([]string, 0)
	for key := range r.values {
		if prefix == "" || strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}
