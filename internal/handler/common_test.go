package handler

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/space-rental/internal/booking"
	"github.com/iliyamo/space-rental/internal/repository"
)

func invoke(t *testing.T, err error) (int, map[string]interface{}) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := bookingErrorJSON(c, err); err != nil {
		t.Fatalf("bookingErrorJSON returned %v", err)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return rec.Code, body
}

func TestBookingErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &booking.ValidationError{Reason: "end must be after start"}, http.StatusBadRequest},
		{"conflict", repository.ErrBookingConflict, http.StatusConflict},
		{"duplicate review", repository.ErrDuplicateReview, http.StatusConflict},
		{"deadlock victim", repository.ErrTxDeadlock, http.StatusConflict},
		{"inactive property", repository.ErrPropertyNotActive, http.StatusUnprocessableEntity},
		{"forbidden", repository.ErrForbidden, http.StatusForbidden},
		{"not found", sql.ErrNoRows, http.StatusNotFound},
		{"invalid transition", booking.ErrInvalidTransition, http.StatusUnprocessableEntity},
		{"not ended yet", booking.ErrNotStarted, http.StatusUnprocessableEntity},
		{"no hourly rate", booking.ErrNoHourlyRate, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, body := invoke(t, tc.err)
			if code != tc.want {
				t.Fatalf("got status %d, want %d", code, tc.want)
			}
			if _, ok := body["error"]; !ok {
				t.Fatalf("body %v has no error field", body)
			}
		})
	}
}

func TestIdempotentStateChangeIsWarning(t *testing.T) {
	code, body := invoke(t, booking.ErrAlreadyInState)
	if code != http.StatusOK {
		t.Fatalf("got status %d, want %d", code, http.StatusOK)
	}
	if _, ok := body["warning"]; !ok {
		t.Fatalf("body %v has no warning field", body)
	}
	if _, ok := body["error"]; ok {
		t.Fatalf("idempotent change must not report an error, got %v", body)
	}
}

func TestNewReferenceFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^B\d{4}-[0-9A-F]{6}$`)
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		ref := newReference(42)
		if !pattern.MatchString(ref) {
			t.Fatalf("reference %q does not match expected shape", ref)
		}
		if !strings.HasPrefix(ref, "B0042-") {
			t.Fatalf("reference %q should embed the property id", ref)
		}
		if seen[ref] {
			t.Fatalf("reference %q repeated", ref)
		}
		seen[ref] = true
	}
}

func TestSlugify(t *testing.T) {
	s := slugify("Sunny Loft & Office, 3rd Floor!")
	if !strings.HasPrefix(s, "sunny-loft-office-3rd-floor-") {
		t.Fatalf("unexpected slug %q", s)
	}
	if s == slugify("Sunny Loft & Office, 3rd Floor!") {
		t.Fatalf("slugs for identical titles should differ by suffix")
	}
	if got := slugify("!!!"); !strings.HasPrefix(got, "space-") {
		t.Fatalf("empty titles should fall back, got %q", got)
	}
}

func TestParseRFC3339AcceptsBothForms(t *testing.T) {
	full, err := parseRFC3339("2026-09-01T09:00:00Z")
	if err != nil {
		t.Fatalf("rfc3339 form rejected: %v", err)
	}
	local, err := parseRFC3339("2026-09-01T09:00")
	if err != nil {
		t.Fatalf("datetime-local form rejected: %v", err)
	}
	if !full.Equal(local) {
		t.Fatalf("forms disagree: %v vs %v", full, local)
	}
	if _, err := parseRFC3339("September 1st"); err == nil {
		t.Fatalf("garbage timestamp accepted")
	}
}
