package booking

import (
	"errors"
	"testing"
	"time"
)

func TestTransitionTable(t *testing.T) {
	tests := []struct {
		from, to Status
		want     error
	}{
		{StatusPending, StatusConfirmed, nil},
		{StatusPending, StatusCancelled, nil},
		{StatusConfirmed, StatusCancelled, nil},
		{StatusConfirmed, StatusCompleted, nil},
		{StatusPending, StatusCompleted, ErrInvalidTransition},
		{StatusCancelled, StatusConfirmed, ErrInvalidTransition},
		{StatusCancelled, StatusPending, ErrInvalidTransition},
		{StatusCompleted, StatusPending, ErrInvalidTransition},
		{StatusCompleted, StatusConfirmed, ErrInvalidTransition},
		{StatusConfirmed, StatusPending, ErrInvalidTransition},
		{StatusPending, StatusPending, ErrAlreadyInState},
		{StatusConfirmed, StatusConfirmed, ErrAlreadyInState},
		{StatusCancelled, StatusCancelled, ErrAlreadyInState},
		{StatusCompleted, StatusCompleted, ErrAlreadyInState},
		{Status("bogus"), StatusConfirmed, ErrInvalidTransition},
	}
	for _, tc := range tests {
		if got := Transition(tc.from, tc.to); !errors.Is(got, tc.want) && got != tc.want {
			t.Errorf("Transition(%s, %s): want %v, got %v", tc.from, tc.to, tc.want, got)
		}
	}
}

// Confirming an already-confirmed booking is a warning, not an error,
// and must leave the status untouched.
func TestIdempotentConfirm(t *testing.T) {
	status := StatusConfirmed
	err := Transition(status, StatusConfirmed)
	if !errors.Is(err, ErrAlreadyInState) {
		t.Fatalf("want ErrAlreadyInState, got %v", err)
	}
	if status != StatusConfirmed {
		t.Fatalf("status changed to %s", status)
	}
}

func TestTenantCancel(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	future := now.Add(2 * time.Hour)
	past := now.Add(-2 * time.Hour)

	if err := TenantCancel(StatusPending, future, now); err != nil {
		t.Fatalf("future pending booking must be cancellable: %v", err)
	}
	if err := TenantCancel(StatusConfirmed, future, now); err != nil {
		t.Fatalf("future confirmed booking must be cancellable: %v", err)
	}
	if err := TenantCancel(StatusConfirmed, past, now); !errors.Is(err, ErrAlreadyStarted) {
		t.Fatalf("started booking: want ErrAlreadyStarted, got %v", err)
	}
	if err := TenantCancel(StatusConfirmed, now, now); !errors.Is(err, ErrAlreadyStarted) {
		t.Fatalf("booking starting exactly now: want ErrAlreadyStarted, got %v", err)
	}
	if err := TenantCancel(StatusCompleted, future, now); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("completed booking: want ErrInvalidTransition, got %v", err)
	}
}

func TestComplete(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	if err := Complete(StatusConfirmed, now.Add(-time.Hour), now); err != nil {
		t.Fatalf("elapsed confirmed booking must complete: %v", err)
	}
	if err := Complete(StatusConfirmed, now.Add(time.Hour), now); !errors.Is(err, ErrNotStarted) {
		t.Fatalf("still-running booking: want ErrNotStarted, got %v", err)
	}
	if err := Complete(StatusPending, now.Add(-time.Hour), now); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("pending booking: want ErrInvalidTransition, got %v", err)
	}
	if err := Complete(StatusCompleted, now.Add(-time.Hour), now); !errors.Is(err, ErrAlreadyInState) {
		t.Fatalf("completed booking: want ErrAlreadyInState warning, got %v", err)
	}
}
