package application

import (
	"context"
	"fmt"

	"github.com/tashivar/backoffice/internal/domain"
	"github.com/tashivar/backoffice/pkg/logging"
)

// NotificationService reads and acknowledges stored notifications
type NotificationService struct {
	repo   domain.NotificationRepository
	logger *logging.Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(repo domain.NotificationRepository, logger *logging.Logger) *NotificationService {
	return &NotificationService{repo: repo, logger: logger}
}

// ListNotifications lists notifications with filters and pagination
func (s *NotificationService) ListNotifications(ctx context.Context, filter domain.NotificationFilter, page domain.Pagination) ([]*domain.Notification, int64, error) {
	notifications, total, err := s.repo.FindAll(ctx, filter, page)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list notifications")
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, total, nil
}

// MarkRead acknowledges one notification
func (s *NotificationService) MarkRead(ctx context.Context, notifID string) error {
	if err := s.repo.MarkRead(ctx, notifID); err != nil {
		s.logger.WithError(err).Error("Failed to mark notification read", "notifId", notifID)
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

// MarkAllRead acknowledges every unread notification
func (s *NotificationService) MarkAllRead(ctx context.Context) (int64, error) {
	updated, err := s.repo.MarkAllRead(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to mark notifications read")
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return updated, nil
}
