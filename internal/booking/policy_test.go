package booking

import (
	"errors"
	"testing"
	"time"
)

func mustTime(t *testing.T, v string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, v)
	if err != nil {
		t.Fatal(err)
	}
	return ts
}

func TestValidateSpan(t *testing.T) {
	p := DefaultPolicy()
	now := mustTime(t, "2025-03-09T12:00:00Z")
	tests := []struct {
		name       string
		unit       Unit
		start, end string
		wantErr    bool
	}{
		{"valid hourly", UnitHourly, "2025-03-10T09:00:00Z", "2025-03-10T11:00:00Z", false},
		{"end before start", UnitHourly, "2025-03-10T11:00:00Z", "2025-03-10T09:00:00Z", true},
		{"zero length", UnitHourly, "2025-03-10T09:00:00Z", "2025-03-10T09:00:00Z", true},
		{"in the past", UnitHourly, "2025-03-08T09:00:00Z", "2025-03-08T11:00:00Z", true},
		{"below hourly minimum", UnitHourly, "2025-03-10T09:00:00Z", "2025-03-10T09:30:00Z", true},
		{"before opening", UnitHourly, "2025-03-10T06:00:00Z", "2025-03-10T09:00:00Z", true},
		{"past closing", UnitHourly, "2025-03-10T20:00:00Z", "2025-03-10T23:00:00Z", true},
		{"ends exactly at closing", UnitHourly, "2025-03-10T20:00:00Z", "2025-03-10T22:00:00Z", false},
		{"spans two days", UnitHourly, "2025-03-10T21:00:00Z", "2025-03-11T09:00:00Z", true},
		{"valid daily", UnitDaily, "2025-03-10T09:00:00Z", "2025-03-12T09:00:00Z", false},
		{"below daily minimum", UnitDaily, "2025-03-10T09:00:00Z", "2025-03-10T19:00:00Z", true},
		{"valid weekly", UnitWeekly, "2025-03-10T00:00:00Z", "2025-03-17T00:00:00Z", false},
		{"below weekly minimum", UnitWeekly, "2025-03-10T00:00:00Z", "2025-03-14T00:00:00Z", true},
		{"valid monthly", UnitMonthly, "2025-04-01T00:00:00Z", "2025-05-01T00:00:00Z", false},
		{"below monthly minimum", UnitMonthly, "2025-04-01T00:00:00Z", "2025-04-20T00:00:00Z", true},
		{"unknown unit", Unit("fortnightly"), "2025-03-10T09:00:00Z", "2025-03-10T11:00:00Z", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := p.ValidateSpan(tc.unit, mustTime(t, tc.start), mustTime(t, tc.end), now)
			if tc.wantErr && err == nil {
				t.Fatal("want validation error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("want ok, got %v", err)
			}
			if err != nil {
				var ve *ValidationError
				if !errors.As(err, &ve) {
					t.Fatalf("want *ValidationError, got %T", err)
				}
			}
		})
	}
}

func TestValidateGuestsBoundary(t *testing.T) {
	if err := ValidateGuests(5, 5); err != nil {
		t.Fatalf("guests == capacity must pass: %v", err)
	}
	err := ValidateGuests(6, 5)
	if err == nil {
		t.Fatal("guests == capacity+1 must fail")
	}
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("want *ValidationError, got %T", err)
	}
	if err := ValidateGuests(0, 5); err == nil {
		t.Fatal("zero guests must fail")
	}
}
