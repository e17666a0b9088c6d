package booking

import (
	"fmt"
	"time"
)

// ValidationError describes a booking request rejected on input grounds:
// a bad span, a guest count over capacity, a span outside business hours.
// Handlers translate it into a 400 response; nothing is persisted.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func invalidf(format string, args ...interface{}) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// Policy carries the configurable booking rules: minimum duration per
// billing unit and the business-hours window for hourly bookings.  Hours
// are whole clock hours in UTC.
type Policy struct {
	MinHourly  time.Duration
	MinDaily   time.Duration
	MinWeekly  time.Duration
	MinMonthly time.Duration
	OpenHour   int
	CloseHour  int
}

// DefaultPolicy returns the platform defaults: 1 hour / 1 day / 1 week /
// 30 days minimums and an 08:00-22:00 business-hours window.
func DefaultPolicy() Policy {
	return Policy{
		MinHourly:  time.Hour,
		MinDaily:   billingDay,
		MinWeekly:  billingWeek,
		MinMonthly: billingMonth,
		OpenHour:   8,
		CloseHour:  22,
	}
}

// minFor returns the minimum span duration for the unit.
func (p Policy) minFor(unit Unit) time.Duration {
	switch unit {
	case UnitHourly:
		return p.MinHourly
	case UnitDaily:
		return p.MinDaily
	case UnitWeekly:
		return p.MinWeekly
	case UnitMonthly:
		return p.MinMonthly
	}
	return p.MinHourly
}

// ValidateSpan checks a requested booking span against the policy.  The
// span must start in the future, end after it starts, meet the minimum
// duration for its unit, and — for hourly bookings — fit inside the
// business-hours window of a single calendar day.
func (p Policy) ValidateSpan(unit Unit, start, end, now time.Time) error {
	if !unit.Valid() {
		return invalidf("unknown billing unit %q", unit)
	}
	if !end.After(start) {
		return invalidf("end must be after start")
	}
	if !start.After(now) {
		return invalidf("booking must start in the future")
	}
	if d, min := end.Sub(start), p.minFor(unit); d < min {
		return invalidf("minimum %s booking duration is %s", unit, min)
	}
	if unit == UnitHourly {
		return p.validateBusinessHours(start, end)
	}
	return nil
}

// validateBusinessHours requires an hourly span to sit within
// [OpenHour:00, CloseHour:00] on one calendar day.  An end exactly at
// closing time is allowed; midnight counts as the end of the start day.
func (p Policy) validateBusinessHours(start, end time.Time) error {
	s, e := start.UTC(), end.UTC()
	sy, sm, sd := s.Date()
	ey, em, ed := e.Date()
	endMins := e.Hour()*60 + e.Minute()
	sameDay := sy == ey && sm == em && sd == ed
	if !sameDay {
		// tolerate an end at exactly midnight of the following day
		if !(endMins == 0 && e.Sub(s) < billingDay) {
			return invalidf("hourly bookings must start and end on the same day")
		}
		endMins = 24 * 60
	}
	startMins := s.Hour()*60 + s.Minute()
	if startMins < p.OpenHour*60 || endMins > p.CloseHour*60 {
		return invalidf("hourly bookings are limited to %02d:00-%02d:00", p.OpenHour, p.CloseHour)
	}
	return nil
}

// ValidateGuests checks the requested guest count against the property
// capacity.  guests == capacity is allowed; capacity+1 is not.
func ValidateGuests(guests, capacity uint32) error {
	if guests == 0 {
		return invalidf("at least one guest is required")
	}
	if guests > capacity {
		return invalidf("guest count %d exceeds property capacity %d", guests, capacity)
	}
	return nil
}
