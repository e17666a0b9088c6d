package model

import "time"

// NotificationType names the event a notification describes.
type NotificationType string

const (
	NotifyBookingCreated   NotificationType = "booking_created"
	NotifyBookingConfirmed NotificationType = "booking_confirmed"
	NotifyBookingCancelled NotificationType = "booking_cancelled"
	NotifyBookingCompleted NotificationType = "booking_completed"
	NotifyReviewAdded      NotificationType = "review_added"
	NotifyMessageReceived  NotificationType = "message_received"
	NotifySystem           NotificationType = "system"
)

// Notification mirrors the `notifications` table.  Rows are written by
// the notification service as booking and review events happen; delivery
// beyond this table (email, push) is out of scope.
type Notification struct {
	ID          uint64           // notifications.id
	UserID      uint64           // notifications.user_id
	Type        NotificationType // notifications.notification_type
	Title       string           // notifications.title
	Message     string           // notifications.message
	RelatedID   *uint64          // notifications.related_object_id (nullable)
	RelatedKind *string          // notifications.related_object_type (nullable)
	IsRead      bool             // notifications.is_read
	CreatedAt   time.Time        // notifications.created_at
}

// Message mirrors the `messages` table: direct mail between a tenant and
// a landlord, optionally tied to a property.
type Message struct {
	ID          uint64    // messages.id
	SenderID    uint64    // messages.sender_id
	RecipientID uint64    // messages.recipient_id
	PropertyID  *uint64   // messages.property_id (nullable)
	Subject     string    // messages.subject
	Body        string    // messages.body
	IsRead      bool      // messages.is_read
	CreatedAt   time.Time // messages.created_at
}
