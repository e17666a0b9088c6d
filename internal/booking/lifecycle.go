// Package booking contains the pricing, availability and lifecycle rules for
// property bookings.  Everything in this package is pure: it never touches
// the database or the network, and every time-dependent decision receives
// "now" from the caller so that tests can pin the clock.
package booking

import (
	"errors"
	"time"
)

// Status enumerates the states a booking can be in.  A booking starts as
// pending, is confirmed or cancelled by the landlord (tenants may also
// cancel), and moves to completed once its span has elapsed.  Cancelled
// and completed are terminal.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// ErrAlreadyInState signals an idempotent transition: the booking is
// already in the requested state.  Handlers surface this as a warning in
// a 200 response rather than an error, matching how repeated "confirm"
// clicks behave in the admin panel.
var ErrAlreadyInState = errors.New("booking already in requested state")

// ErrInvalidTransition signals an illegal state change such as
// completed -> pending.  These are rejected outright.
var ErrInvalidTransition = errors.New("invalid booking status transition")

// ErrNotStarted is returned by Complete when the booking span has not
// yet elapsed.
var ErrNotStarted = errors.New("booking has not ended yet")

// ErrAlreadyStarted is returned when a tenant attempts to cancel a
// booking whose start instant has already passed.
var ErrAlreadyStarted = errors.New("booking has already started")

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Terminal reports whether no further transition may leave s.
func (s Status) Terminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// Blocks reports whether a booking in status s occupies its time span for
// the purposes of conflict detection.  Only pending and confirmed
// bookings block; cancelled and completed ones free their interval.
func (s Status) Blocks() bool {
	return s == StatusPending || s == StatusConfirmed
}

// Transition validates the state change from -> to.  A nil return means
// the change may be applied.  ErrAlreadyInState means the booking is
// already where the caller wants it (no-op, report as warning).  Any
// other combination is ErrInvalidTransition.
//
// Allowed: pending -> confirmed, pending -> cancelled,
// confirmed -> cancelled, confirmed -> completed.
func Transition(from, to Status) error {
	if !from.Valid() || !to.Valid() {
		return ErrInvalidTransition
	}
	if from == to {
		return ErrAlreadyInState
	}
	switch from {
	case StatusPending:
		if to == StatusConfirmed || to == StatusCancelled {
			return nil
		}
	case StatusConfirmed:
		if to == StatusCancelled || to == StatusCompleted {
			return nil
		}
	}
	return ErrInvalidTransition
}

// TenantCancel validates a tenant-initiated cancellation.  On top of the
// normal transition rules a tenant may only cancel before the booking
// starts; landlords are not bound by this check.
func TenantCancel(from Status, start, now time.Time) error {
	if err := Transition(from, StatusCancelled); err != nil {
		return err
	}
	if !start.After(now) {
		return ErrAlreadyStarted
	}
	return nil
}

// Complete validates moving a booking to completed.  Only confirmed
// bookings complete, and only once their end instant has passed.
func Complete(from Status, end, now time.Time) error {
	if err := Transition(from, StatusCompleted); err != nil {
		return err
	}
	if end.After(now) {
		return ErrNotStarted
	}
	return nil
}
