package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationType classifies a back-office notification
type NotificationType string

const (
	NotifyOrderCreated        NotificationType = "order-created"
	NotifyOrderStatusChanged  NotificationType = "order-status-changed"
	NotifyOrderDelivered      NotificationType = "order-delivered"
	NotifyOrderCancelled      NotificationType = "order-cancelled"
	NotifyLowStock            NotificationType = "low-stock"
	NotifyOutOfStock          NotificationType = "out-of-stock"
	NotifyChallanPayment      NotificationType = "challan-payment"
	NotifyChallanConverted    NotificationType = "challan-converted"
	NotifyCommissionComputed  NotificationType = "commission-computed"
	NotifyWarehouseReceipt    NotificationType = "warehouse-receipt"
)

// Notification is a persisted back-office alert. Emission is
// fire-and-forget: a failed notification never fails or delays the
// operation that produced it.
type Notification struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	NotifID    string             `bson:"notifId" json:"id"`
	Type       NotificationType   `bson:"type" json:"type"`
	Title      string             `bson:"title" json:"title"`
	Message    string             `bson:"message" json:"message"`
	EntityID   string             `bson:"entityId,omitempty" json:"entityId,omitempty"`
	EntityKind string             `bson:"entityKind,omitempty" json:"entityKind,omitempty"`
	Read       bool               `bson:"read" json:"read"`
	ReadAt     *time.Time         `bson:"readAt,omitempty" json:"readAt,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

// NewNotification creates an unread notification
func NewNotification(notifID string, notifType NotificationType, title, message, entityID, entityKind string) *Notification {
	return &Notification{
		NotifID:    notifID,
		Type:       notifType,
		Title:      title,
		Message:    message,
		EntityID:   entityID,
		EntityKind: entityKind,
		Read:       false,
		CreatedAt:  time.Now().UTC(),
	}
}

// MarkRead marks the notification as read. Idempotent.
func (n *Notification) MarkRead() {
	if !n.Read {
		now := time.Now().UTC()
		n.Read = true
		n.ReadAt = &now
	}
}
