package model

import (
	"time"

	"github.com/iliyamo/space-rental/internal/booking"
)

// Booking mirrors the `bookings` table.  The span is half-open
// [StartAt, EndAt) in UTC.  TotalCents is computed exactly once by the
// pricing calculator when the booking is created; afterwards only an
// admin may change it, and nothing recomputes it behind the caller's
// back.
//
// Fields:
//  ID              – primary key identifier.
//  Reference       – human-facing code, e.g. "B0042-9F3A1C".
//  PropertyID      – property being booked.
//  TenantID        – user who made the booking.
//  StartAt         – start instant (inclusive).
//  EndAt           – end instant (exclusive), strictly after StartAt.
//  Unit            – billing unit the tenant requested.
//  Guests          – guest count, at most the property capacity.
//  SpecialRequests – free-form tenant note, nullable.
//  TotalCents      – total price in cents.
//  Status          – lifecycle status.
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Booking struct {
	ID              uint64         // bookings.id
	Reference       string         // bookings.reference
	PropertyID      uint64         // bookings.property_id
	TenantID        uint64         // bookings.tenant_id
	StartAt         time.Time      // bookings.start_at
	EndAt           time.Time      // bookings.end_at
	Unit            booking.Unit   // bookings.unit
	Guests          uint32         // bookings.guests
	SpecialRequests *string        // bookings.special_requests (nullable)
	TotalCents      int64          // bookings.total_cents
	Status          booking.Status // bookings.status
	CreatedAt       time.Time      // bookings.created_at
	UpdatedAt       time.Time      // bookings.updated_at
}

// Span returns the booking's half-open interval.
func (b *Booking) Span() booking.Interval {
	return booking.Interval{Start: b.StartAt, End: b.EndAt}
}
