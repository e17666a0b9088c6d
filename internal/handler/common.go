package handler // handler defines http handlers

import (
    "database/sql" // sentinel errors from the repository layer
    "errors"       // errors.Is / errors.As comparisons
    "net/http"     // HTTP status codes
    "strconv"      // strconv converts strings to numeric types
    "time"         // request-scoped timeouts

    "github.com/labstack/echo/v4" // echo defines request context types

    "github.com/iliyamo/space-rental/internal/booking"    // domain rules and validation errors
    "github.com/iliyamo/space-rental/internal/repository" // data access layer
)

// dbTimeout bounds every handler database call.
const dbTimeout = 5 * time.Second

// currentUserID extracts the user_id stored by the JWT middleware and
// converts it to uint64.  Returns 0 when the value is missing or invalid.
func currentUserID(c echo.Context) uint64 {
    v := c.Get("user_id")
    switch t := v.(type) {
    case uint64:
        return t
    case int:
        return uint64(t)
    case int64:
        return uint64(t)
    case float64:
        return uint64(t)
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n
        }
    }
    return 0
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
    id, err := strconv.ParseUint(c.Param(name), 10, 64)
    if err != nil || id == 0 {
        return 0, errors.New("invalid id")
    }
    return id, nil
}

// bookingErrorJSON maps domain and repository errors onto HTTP responses.
// Validation failures are 400, conflicts 409, missing rows 404 and
// ownership violations 403.  An idempotent state change is reported as a
// 200 with a warning instead of an error so clients can retry safely.
func bookingErrorJSON(c echo.Context, err error) error {
    var verr *booking.ValidationError
    switch {
    case errors.As(err, &verr):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": verr.Reason})
    case errors.Is(err, booking.ErrAlreadyInState):
        return c.JSON(http.StatusOK, echo.Map{"warning": "booking already in requested state"})
    case errors.Is(err, booking.ErrInvalidTransition),
        errors.Is(err, booking.ErrNotStarted),
        errors.Is(err, booking.ErrAlreadyStarted):
        return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
    case errors.Is(err, booking.ErrNoHourlyRate), errors.Is(err, booking.ErrEmptySpan):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    case errors.Is(err, repository.ErrBookingConflict):
        return c.JSON(http.StatusConflict, echo.Map{"error": "space is already booked for the requested time"})
    case errors.Is(err, repository.ErrDuplicateReview):
        return c.JSON(http.StatusConflict, echo.Map{"error": "you have already reviewed this space"})
    case errors.Is(err, repository.ErrTxDeadlock):
        return c.JSON(http.StatusConflict, echo.Map{"error": "booking could not be saved, please retry"})
    case errors.Is(err, repository.ErrPropertyNotActive):
        return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "space is not open for booking"})
    case errors.Is(err, repository.ErrForbidden):
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    case errors.Is(err, sql.ErrNoRows):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
    }
    return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
}

// parseRFC3339 accepts both RFC3339 and a bare "2006-01-02T15:04" local
// form since web clients commonly submit datetime-local values.
func parseRFC3339(s string) (time.Time, error) {
    if t, err := time.Parse(time.RFC3339, s); err == nil {
        return t.UTC(), nil
    }
    t, err := time.Parse("2006-01-02T15:04", s)
    if err != nil {
        return time.Time{}, err
    }
    return t.UTC(), nil
}
