package queue_publisher

import (
    "context"
    "fmt"
    "log"
    "time"

    "github.com/iliyamo/space-rental/internal/model"
    "github.com/iliyamo/space-rental/internal/queue"
    "github.com/iliyamo/space-rental/internal/repository"
)

// Notifier fans a booking lifecycle change out to the in-app notification
// table and to the message broker.  Both sides are best effort: a failed
// notification insert or publish is logged and never fails the request
// that triggered it.
type Notifier struct {
    Notifications *repository.NotificationRepo
}

// NewNotifier returns a Notifier writing through the given repository.
func NewNotifier(n *repository.NotificationRepo) *Notifier {
    return &Notifier{Notifications: n}
}

// bookingNotice maps a broker event type to the notification row contents.
func bookingNotice(eventType, reference string) (model.NotificationType, string, string) {
    switch eventType {
    case queue.EventBookingCreated:
        return model.NotifyBookingCreated, "New booking request",
            fmt.Sprintf("Booking %s is awaiting your confirmation.", reference)
    case queue.EventBookingConfirmed:
        return model.NotifyBookingConfirmed, "Booking confirmed",
            fmt.Sprintf("Booking %s has been confirmed.", reference)
    case queue.EventBookingCancelled:
        return model.NotifyBookingCancelled, "Booking cancelled",
            fmt.Sprintf("Booking %s has been cancelled.", reference)
    case queue.EventBookingCompleted:
        return model.NotifyBookingCompleted, "Booking completed",
            fmt.Sprintf("Booking %s is complete. You can now leave a review.", reference)
    }
    return model.NotifySystem, "Booking update",
        fmt.Sprintf("Booking %s was updated.", reference)
}

// BookingChanged records the event for the given recipients and publishes
// it to the booking.events queue.  recipients are deduplicated so a
// landlord booking their own property gets one row.
func (s *Notifier) BookingChanged(ctx context.Context, ev queue.BookingEvent, recipients ...uint64) {
    if ev.OccurredAt == "" {
        ev.OccurredAt = time.Now().UTC().Format(time.RFC3339)
    }
    kind := "booking"
    typ, title, body := bookingNotice(ev.Type, ev.Reference)
    seen := make(map[uint64]bool, len(recipients))
    for _, uid := range recipients {
        if uid == 0 || seen[uid] {
            continue
        }
        seen[uid] = true
        n := &model.Notification{
            UserID:      uid,
            Type:        typ,
            Title:       title,
            Message:     body,
            RelatedID:   &ev.BookingID,
            RelatedKind: &kind,
        }
        if err := s.Notifications.Create(ctx, n); err != nil {
            log.Printf("notifier: insert notification for user %d failed: %v", uid, err)
        }
    }
    if err := PublishBookingEvent(ctx, ev); err != nil {
        log.Printf("notifier: publish %s failed: %v", ev.Type, err)
    }
}

// ReviewAdded tells a landlord that a new review landed on one of their
// properties.  Reviews wait for moderation so the text stays generic.
func (s *Notifier) ReviewAdded(ctx context.Context, landlordID, reviewID uint64, propertyTitle string) {
    kind := "review"
    n := &model.Notification{
        UserID:      landlordID,
        Type:        model.NotifyReviewAdded,
        Title:       "New review",
        Message:     fmt.Sprintf("A new review was submitted for %q.", propertyTitle),
        RelatedID:   &reviewID,
        RelatedKind: &kind,
    }
    if err := s.Notifications.Create(ctx, n); err != nil {
        log.Printf("notifier: insert review notification failed: %v", err)
    }
}

// MessageReceived tells a user they have new mail in their inbox.
func (s *Notifier) MessageReceived(ctx context.Context, recipientID, messageID uint64, subject string) {
    kind := "message"
    n := &model.Notification{
        UserID:      recipientID,
        Type:        model.NotifyMessageReceived,
        Title:       "New message",
        Message:     fmt.Sprintf("You received a message: %q.", subject),
        RelatedID:   &messageID,
        RelatedKind: &kind,
    }
    if err := s.Notifications.Create(ctx, n); err != nil {
        log.Printf("notifier: insert message notification failed: %v", err)
    }
}
