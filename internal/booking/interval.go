package booking

import "time"

// Interval is a half-open time span [Start, End).  Two intervals that
// merely touch (one ends exactly when the other starts) do not overlap,
// so a booking ending at 10:00 and another starting at 10:00 can coexist
// on the same property.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether iv and other share at least one instant under
// half-open semantics: s1 < e2 && e1 > s2.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && iv.End.After(other.Start)
}

// Duration returns End - Start.
func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// BookedSpan is the slice of an existing booking that matters for
// conflict detection: its identity, its span and its status.
type BookedSpan struct {
	BookingID uint64
	Interval  Interval
	Status    Status
}

// FindConflict scans existing spans of a single property for one that
// blocks the candidate interval.  Cancelled and completed bookings never
// block.  excludeID skips the candidate's own record when re-validating
// an edited booking; pass 0 on creation.  Tenant identity plays no part
// here: a property is either free for the span or it is not.
//
// The repository runs the same predicate in SQL inside the insert
// transaction; this in-memory twin exists so the overlap rules can be
// exercised exhaustively without a database.
func FindConflict(existing []BookedSpan, candidate Interval, excludeID uint64) (uint64, bool) {
	for _, sp := range existing {
		if sp.BookingID == excludeID && excludeID != 0 {
			continue
		}
		if !sp.Status.Blocks() {
			continue
		}
		if sp.Interval.Overlaps(candidate) {
			return sp.BookingID, true
		}
	}
	return 0, false
}
