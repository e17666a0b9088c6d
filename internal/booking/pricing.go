package booking

import (
	"errors"
	"math"
	"time"
)

// Unit classifies how a booking span is billed.  The unit is chosen by
// the tenant when requesting a booking and drives both the minimum
// duration policy and the rate tier used for pricing.
type Unit string

const (
	UnitHourly  Unit = "hourly"
	UnitDaily   Unit = "daily"
	UnitWeekly  Unit = "weekly"
	UnitMonthly Unit = "monthly"
)

// Billing day/week/month lengths.  A month is normalized to 30 days for
// unit counting; derived-rate fallbacks use business-day multipliers
// (8h day, 5-day week, 20-day month) instead.
const (
	billingDay   = 24 * time.Hour
	billingWeek  = 7 * billingDay
	billingMonth = 30 * billingDay
)

// Valid reports whether u is a known billing unit.
func (u Unit) Valid() bool {
	switch u {
	case UnitHourly, UnitDaily, UnitWeekly, UnitMonthly:
		return true
	}
	return false
}

// RateTable holds a property's tiered prices in integer cents.  The
// hourly rate is mandatory and acts as the fallback basis for every
// derived tier; the other tiers are optional.
type RateTable struct {
	HourCents  int64
	DayCents   *int64
	WeekCents  *int64
	MonthCents *int64
}

// ErrNoHourlyRate is returned when a rate table is missing its mandatory
// hourly rate.
var ErrNoHourlyRate = errors.New("rate table has no hourly rate")

// ErrEmptySpan is returned by Quote for zero or negative spans.  Spans
// are normally validated by Policy before pricing, so hitting this in
// production indicates a caller bug.
var ErrEmptySpan = errors.New("span must end after it starts")

// dayEquivalent returns the effective per-day rate: the explicit day
// tier when present, otherwise an 8-hour business day at the hourly rate.
func (rt RateTable) dayEquivalent() int64 {
	if rt.DayCents != nil {
		return *rt.DayCents
	}
	return rt.HourCents * 8
}

// weekEquivalent returns the effective per-week rate: the explicit week
// tier, otherwise 5 business days at the day-equivalent rate.
func (rt RateTable) weekEquivalent() int64 {
	if rt.WeekCents != nil {
		return *rt.WeekCents
	}
	return rt.dayEquivalent() * 5
}

// monthEquivalent returns the effective per-month rate.  The fallback
// chain is month -> week x 4 -> day x 20 -> hour x 8 x 20; the latter
// two arms are covered by weekEquivalent's own fallback.
func (rt RateTable) monthEquivalent() int64 {
	if rt.MonthCents != nil {
		return *rt.MonthCents
	}
	return rt.weekEquivalent() * 4
}

// Quote derives the total price in cents for the span [start, end) billed
// as unit.  Hourly spans bill fractional hours; daily, weekly and monthly
// spans bill whole units rounded up, so a started day (or week, or month)
// is charged in full.
//
// The only fractional arithmetic is the hourly path.  Its result is
// rounded half away from zero (math.Round) to whole cents exactly once,
// at the final step.  All other paths are pure integer multiplication.
func Quote(rt RateTable, unit Unit, start, end time.Time) (int64, error) {
	if rt.HourCents <= 0 {
		return 0, ErrNoHourlyRate
	}
	d := end.Sub(start)
	if d <= 0 {
		return 0, ErrEmptySpan
	}
	switch unit {
	case UnitHourly:
		hours := d.Hours()
		return int64(math.Round(float64(rt.HourCents) * hours)), nil
	case UnitDaily:
		return rt.dayEquivalent() * unitsCeil(d, billingDay), nil
	case UnitWeekly:
		return rt.weekEquivalent() * unitsCeil(d, billingWeek), nil
	case UnitMonthly:
		return rt.monthEquivalent() * unitsCeil(d, billingMonth), nil
	}
	return 0, errors.New("unknown billing unit: " + string(unit))
}

// unitsCeil counts how many whole units of size fit in d, rounding up.
func unitsCeil(d, size time.Duration) int64 {
	n := int64(d / size)
	if d%size != 0 {
		n++
	}
	return n
}
