package application

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tashivar/backoffice/internal/domain"
	"github.com/tashivar/backoffice/pkg/kafka"
	"github.com/tashivar/backoffice/pkg/logging"
	"github.com/tashivar/backoffice/pkg/middleware"
	"github.com/tashivar/backoffice/pkg/resilience"
)

const emitTimeout = 5 * time.Second

// Notifier persists notifications and publishes them to Kafka. Emission is
// strictly fire-and-forget: it runs off the caller's goroutine and an
// emission failure is logged, never surfaced. A circuit breaker shields
// the broker so a Kafka outage degrades to store-only notifications.
type Notifier struct {
	repo     domain.NotificationRepository
	producer *kafka.Producer
	breaker  *resilience.CircuitBreaker
	logger   *logging.Logger
	metrics  *middleware.BusinessMetrics
	wg       sync.WaitGroup
}

// NewNotifier creates a Notifier. The producer and breaker may be nil, in
// which case notifications are persisted but not published.
func NewNotifier(
	repo domain.NotificationRepository,
	producer *kafka.Producer,
	breaker *resilience.CircuitBreaker,
	logger *logging.Logger,
	metrics *middleware.BusinessMetrics,
) *Notifier {
	return &Notifier{
		repo:     repo,
		producer: producer,
		breaker:  breaker,
		logger:   logger.WithComponent("notifier"),
		metrics:  metrics,
	}
}

// Emit creates and dispatches a notification without blocking the caller
func (n *Notifier) Emit(notifType domain.NotificationType, title, message, entityID, entityKind string) {
	notification := domain.NewNotification(
		"NTF-"+uuid.New().String()[:8],
		notifType, title, message, entityID, entityKind,
	)

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				n.logger.Panic(context.Background(), r)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), emitTimeout)
		defer cancel()

		n.dispatch(ctx, notification)
	}()
}

func (n *Notifier) dispatch(ctx context.Context, notification *domain.Notification) {
	if err := n.repo.Insert(ctx, notification); err != nil {
		n.logger.WithError(err).Error("Failed to persist notification",
			"notifId", notification.NotifID, "type", string(notification.Type))
		return
	}

	if n.metrics != nil {
		n.metrics.RecordNotificationEmitted(string(notification.Type))
	}

	n.publish(ctx, notification)
}

func (n *Notifier) publish(ctx context.Context, notification *domain.Notification) {
	if n.producer == nil {
		return
	}

	data, err := json.Marshal(notification)
	if err != nil {
		n.logger.WithError(err).Error("Failed to marshal notification", "notifId", notification.NotifID)
		return
	}

	event := &kafka.Event{
		ID:      notification.NotifID,
		Type:    string(notification.Type),
		Subject: notification.EntityID,
		Time:    notification.CreatedAt,
		Data:    data,
	}

	start := time.Now()
	publish := func() (interface{}, error) {
		return nil, n.producer.PublishEvent(ctx, kafka.Topics.Notifications, event)
	}

	if n.breaker != nil {
		_, err = n.breaker.Execute(ctx, publish)
	} else {
		_, err = publish()
	}

	n.logger.NotificationPublish(ctx, kafka.Topics.Notifications, string(notification.Type), err == nil, time.Since(start))
	if err != nil {
		n.logger.WithError(err).Error("Failed to publish notification",
			"notifId", notification.NotifID, "type", string(notification.Type))
	}
}

// Close waits for in-flight emissions to finish, up to the emit timeout
func (n *Notifier) Close() {
	done := make(chan struct{})
	go func() {
		n.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(emitTimeout):
		n.logger.Warn("Timed out waiting for in-flight notifications")
	}
}
