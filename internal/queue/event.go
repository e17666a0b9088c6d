// Package queue defines message payloads exchanged over the message broker.
package queue

// Event types carried by BookingEvent.  One queue carries the whole booking
// lifecycle; consumers switch on the type field.
const (
    EventBookingCreated   = "booking.created"
    EventBookingConfirmed = "booking.confirmed"
    EventBookingCancelled = "booking.cancelled"
    EventBookingCompleted = "booking.completed"
)

// BookingEvent is published whenever a booking changes state.  It contains
// enough information for downstream consumers to log, notify, or trigger
// analytics without querying the primary database.
type BookingEvent struct {
    Type          string `json:"type"`
    BookingID     uint64 `json:"booking_id"`
    Reference     string `json:"reference"`
    PropertyID    uint64 `json:"property_id"`
    PropertyTitle string `json:"property_title"`
    TenantID      uint64 `json:"tenant_id"`
    LandlordID    uint64 `json:"landlord_id"`
    StartsAt      string `json:"starts_at"`
    EndsAt        string `json:"ends_at"`
    TotalCents    int64  `json:"total_cents"`
    OccurredAt    string `json:"occurred_at"`
}
