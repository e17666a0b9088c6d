package booking

import (
	"errors"
	"testing"
	"time"
)

func cents(v int64) *int64 { return &v }

func span(t *testing.T, startHHMM, endHHMM string) (time.Time, time.Time) {
	t.Helper()
	day := "2025-03-10T"
	s, err := time.Parse(time.RFC3339, day+startHHMM+":00Z")
	if err != nil {
		t.Fatalf("parse start: %v", err)
	}
	e, err := time.Parse(time.RFC3339, day+endHHMM+":00Z")
	if err != nil {
		t.Fatalf("parse end: %v", err)
	}
	return s, e
}

func TestQuoteHourly(t *testing.T) {
	rt := RateTable{HourCents: 100000} // 1000.00 per hour
	start, end := span(t, "09:00", "11:00")
	got, err := Quote(rt, UnitHourly, start, end)
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if got != 200000 {
		t.Fatalf("2h at 1000/h: want 200000 cents, got %d", got)
	}
}

func TestQuoteHourlyFractional(t *testing.T) {
	rt := RateTable{HourCents: 100000}
	start, end := span(t, "09:00", "10:30")
	got, err := Quote(rt, UnitHourly, start, end)
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if got != 150000 {
		t.Fatalf("1.5h at 1000/h: want 150000, got %d", got)
	}
}

// The hourly path is the only fractional one; its result is rounded half
// away from zero to whole cents at the final step.  A 1-minute span at
// 1.00/h is 100/60 = 1.666... cents and must round to 2, not truncate to 1.
func TestQuoteRoundingHalfAwayFromZero(t *testing.T) {
	rt := RateTable{HourCents: 100}
	start, err := time.Parse(time.RFC3339, "2025-03-10T09:00:00Z")
	if err != nil {
		t.Fatal(err)
	}
	got, err := Quote(rt, UnitHourly, start, start.Add(time.Minute))
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if got != 2 {
		t.Fatalf("1 minute at 100 cents/h: want 2 cents, got %d", got)
	}
	// exactly half a cent rounds away from zero: 30s at 60 cents/h = 0.5
	got, err = Quote(rt.withHour(60), UnitHourly, start, start.Add(30*time.Second))
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if got != 1 {
		t.Fatalf("half a cent must round up to 1, got %d", got)
	}
}

func (rt RateTable) withHour(h int64) RateTable {
	rt.HourCents = h
	return rt
}

func TestQuoteTiersAndFallbacks(t *testing.T) {
	start, err := time.Parse(time.RFC3339, "2025-03-10T00:00:00Z")
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		rt   RateTable
		unit Unit
		dur  time.Duration
		want int64
	}{
		{"daily explicit", RateTable{HourCents: 1000, DayCents: cents(7000)}, UnitDaily, 48 * time.Hour, 14000},
		{"daily fallback 8h business day", RateTable{HourCents: 1000}, UnitDaily, 48 * time.Hour, 16000},
		{"daily partial day charged in full", RateTable{HourCents: 1000, DayCents: cents(7000)}, UnitDaily, 25 * time.Hour, 14000},
		{"weekly explicit", RateTable{HourCents: 1000, WeekCents: cents(30000)}, UnitWeekly, 7 * 24 * time.Hour, 30000},
		{"weekly fallback day x5", RateTable{HourCents: 1000, DayCents: cents(7000)}, UnitWeekly, 7 * 24 * time.Hour, 35000},
		{"weekly fallback hour x8 x5", RateTable{HourCents: 1000}, UnitWeekly, 7 * 24 * time.Hour, 40000},
		{"monthly explicit", RateTable{HourCents: 1000, MonthCents: cents(100000)}, UnitMonthly, 30 * 24 * time.Hour, 100000},
		{"monthly fallback week x4", RateTable{HourCents: 1000, WeekCents: cents(30000)}, UnitMonthly, 30 * 24 * time.Hour, 120000},
		{"monthly fallback day x20", RateTable{HourCents: 1000, DayCents: cents(7000)}, UnitMonthly, 30 * 24 * time.Hour, 140000},
		{"monthly fallback hour x8 x20", RateTable{HourCents: 1000}, UnitMonthly, 30 * 24 * time.Hour, 160000},
		{"two months", RateTable{HourCents: 1000, MonthCents: cents(100000)}, UnitMonthly, 31 * 24 * time.Hour, 200000},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Quote(tc.rt, tc.unit, start, start.Add(tc.dur))
			if err != nil {
				t.Fatalf("Quote: %v", err)
			}
			if got != tc.want {
				t.Fatalf("want %d, got %d", tc.want, got)
			}
		})
	}
}

func TestQuoteRejectsBadInput(t *testing.T) {
	start, _ := span(t, "09:00", "11:00")
	if _, err := Quote(RateTable{}, UnitHourly, start, start.Add(time.Hour)); !errors.Is(err, ErrNoHourlyRate) {
		t.Fatalf("missing hourly rate: want ErrNoHourlyRate, got %v", err)
	}
	rt := RateTable{HourCents: 1000}
	if _, err := Quote(rt, UnitHourly, start, start); !errors.Is(err, ErrEmptySpan) {
		t.Fatalf("zero span: want ErrEmptySpan, got %v", err)
	}
	if _, err := Quote(rt, UnitHourly, start, start.Add(-time.Hour)); !errors.Is(err, ErrEmptySpan) {
		t.Fatalf("negative span: want ErrEmptySpan, got %v", err)
	}
}
