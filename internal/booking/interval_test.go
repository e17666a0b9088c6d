package booking

import (
	"math/rand"
	"testing"
	"time"
)

func iv(t *testing.T, start, end string) Interval {
	t.Helper()
	s, err := time.Parse(time.RFC3339, "2025-03-10T"+start+":00Z")
	if err != nil {
		t.Fatal(err)
	}
	e, err := time.Parse(time.RFC3339, "2025-03-10T"+end+":00Z")
	if err != nil {
		t.Fatal(err)
	}
	return Interval{Start: s, End: e}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b string // "start-end"
		want bool
	}{
		{"identical", "09:00-11:00", "09:00-11:00", true},
		{"contained", "09:00-12:00", "10:00-11:00", true},
		{"partial left", "09:00-11:00", "10:00-12:00", true},
		{"partial right", "10:00-12:00", "09:00-11:00", true},
		{"touching end to start", "09:00-10:00", "10:00-11:00", false},
		{"touching start to end", "10:00-11:00", "09:00-10:00", false},
		{"disjoint", "09:00-10:00", "11:00-12:00", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := iv(t, tc.a[:5], tc.a[6:])
			b := iv(t, tc.b[:5], tc.b[6:])
			if got := a.Overlaps(b); got != tc.want {
				t.Fatalf("%s vs %s: want %v, got %v", tc.a, tc.b, tc.want, got)
			}
			// overlap is symmetric
			if got := b.Overlaps(a); got != tc.want {
				t.Fatalf("%s vs %s (reversed): want %v, got %v", tc.b, tc.a, tc.want, got)
			}
		})
	}
}

func TestFindConflictSkipsNonBlockingAndSelf(t *testing.T) {
	base := iv(t, "09:00", "11:00")
	existing := []BookedSpan{
		{BookingID: 1, Interval: base, Status: StatusCancelled},
		{BookingID: 2, Interval: base, Status: StatusCompleted},
		{BookingID: 3, Interval: base, Status: StatusConfirmed},
	}
	if id, ok := FindConflict(existing, iv(t, "10:00", "12:00"), 0); !ok || id != 3 {
		t.Fatalf("want conflict with booking 3, got id=%d ok=%v", id, ok)
	}
	// excluding the only blocking booking clears the span (edit case)
	if id, ok := FindConflict(existing, iv(t, "10:00", "12:00"), 3); ok {
		t.Fatalf("self-excluded check must pass, got conflict with %d", id)
	}
}

// Randomized check of the core invariant: after greedily admitting
// intervals with FindConflict, no two admitted blocking bookings overlap.
func TestFindConflictAdmitsNoOverlappingSet(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	for round := 0; round < 200; round++ {
		var admitted []BookedSpan
		nextID := uint64(1)
		for i := 0; i < 30; i++ {
			startMin := rng.Intn(23 * 60)
			length := 15 + rng.Intn(6*60)
			cand := Interval{
				Start: day.Add(time.Duration(startMin) * time.Minute),
				End:   day.Add(time.Duration(startMin+length) * time.Minute),
			}
			if _, conflict := FindConflict(admitted, cand, 0); !conflict {
				admitted = append(admitted, BookedSpan{BookingID: nextID, Interval: cand, Status: StatusPending})
				nextID++
			}
		}
		for i := range admitted {
			for j := i + 1; j < len(admitted); j++ {
				if admitted[i].Interval.Overlaps(admitted[j].Interval) {
					t.Fatalf("round %d: admitted bookings %d and %d overlap: %v vs %v",
						round, admitted[i].BookingID, admitted[j].BookingID,
						admitted[i].Interval, admitted[j].Interval)
				}
			}
		}
	}
}

// End-to-end scenario: 1000.00/hour, capacity 5.  09:00-11:00 books at
// 2000.00 and blocks 10:00-12:00, while 11:00-13:00 merely touches and
// goes through.
func TestBookingScenario(t *testing.T) {
	rt := RateTable{HourCents: 100000}
	policy := DefaultPolicy()
	now := time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC)

	first := iv(t, "09:00", "11:00")
	if err := policy.ValidateSpan(UnitHourly, first.Start, first.End, now); err != nil {
		t.Fatalf("first span rejected: %v", err)
	}
	if err := ValidateGuests(3, 5); err != nil {
		t.Fatalf("3 of 5 guests rejected: %v", err)
	}
	total, err := Quote(rt, UnitHourly, first.Start, first.End)
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if total != 200000 {
		t.Fatalf("want 200000 cents, got %d", total)
	}
	booked := []BookedSpan{{BookingID: 1, Interval: first, Status: StatusPending}}

	if _, conflict := FindConflict(booked, iv(t, "10:00", "12:00"), 0); !conflict {
		t.Fatal("overlapping second request must conflict")
	}
	if _, conflict := FindConflict(booked, iv(t, "11:00", "13:00"), 0); conflict {
		t.Fatal("touching third request must not conflict")
	}
}
