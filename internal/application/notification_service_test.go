package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tashivar/backoffice/internal/domain"
)

func seedNotifications(t *testing.T, repo *fakeNotificationRepo) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, repo.Insert(ctx, domain.NewNotification(
		"NTF-aaa11111", domain.NotifyOrderCreated, "Order created", "ORD-2026-001 created", "ORD-2026-001", "order")))
	require.NoError(t, repo.Insert(ctx, domain.NewNotification(
		"NTF-bbb22222", domain.NotifyLowStock, "Low stock", "prod-1 below reorder point", "prod-1", "inventory")))
	require.NoError(t, repo.Insert(ctx, domain.NewNotification(
		"NTF-ccc33333", domain.NotifyOrderDelivered, "Order delivered", "ORD-2026-001 delivered", "ORD-2026-001", "order")))
}

func TestListNotificationsFilters(t *testing.T) {
	repo := newFakeNotificationRepo()
	service := NewNotificationService(repo, testLogger())
	seedNotifications(t, repo)
	ctx := context.Background()

	all, total, err := service.ListNotifications(ctx, domain.NotificationFilter{}, domain.Pagination{Limit: 20})
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, int64(3), total)

	lowStock, _, err := service.ListNotifications(ctx,
		domain.NotificationFilter{Type: domain.NotifyLowStock}, domain.Pagination{Limit: 20})
	require.NoError(t, err)
	require.Len(t, lowStock, 1)
	assert.Equal(t, "NTF-bbb22222", lowStock[0].NotifID)
}

func TestMarkReadExcludesFromUnreadList(t *testing.T) {
	repo := newFakeNotificationRepo()
	service := NewNotificationService(repo, testLogger())
	seedNotifications(t, repo)
	ctx := context.Background()

	require.NoError(t, service.MarkRead(ctx, "NTF-aaa11111"))

	unread, total, err := service.ListNotifications(ctx,
		domain.NotificationFilter{UnreadOnly: true}, domain.Pagination{Limit: 20})
	require.NoError(t, err)
	assert.Len(t, unread, 2)
	assert.Equal(t, int64(2), total)
	for _, n := range unread {
		assert.NotEqual(t, "NTF-aaa11111", n.NotifID)
	}
}

func TestMarkAllRead(t *testing.T) {
	repo := newFakeNotificationRepo()
	service := NewNotificationService(repo, testLogger())
	seedNotifications(t, repo)
	ctx := context.Background()

	require.NoError(t, service.MarkRead(ctx, "NTF-aaa11111"))

	updated, err := service.MarkAllRead(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated)

	unread, _, err := service.ListNotifications(ctx,
		domain.NotificationFilter{UnreadOnly: true}, domain.Pagination{Limit: 20})
	require.NoError(t, err)
	assert.Empty(t, unread)

	updated, err = service.MarkAllRead(ctx)
	require.NoError(t, err)
	assert.Zero(t, updated)
}
