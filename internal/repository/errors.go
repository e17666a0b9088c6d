// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// inspecting SQL errors: ErrForbidden maps to 403, ErrBookingConflict
// and ErrDuplicateReview to 409, and sql.ErrNoRows passes through as a
// 404-equivalent.
package repository

import (
	"errors"
	"strings"
)

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers should translate this into an HTTP
// 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrBookingConflict is returned when a requested booking span overlaps
// an existing pending or confirmed booking for the same property. The
// conflict check runs inside the insert transaction, so callers can
// trust that no conflicting row was written.
var ErrBookingConflict = errors.New("booking span conflicts with an existing booking")

// ErrDuplicateReview is returned when a user already reviewed the
// property. The unique key on (property_id, user_id) backs this.
var ErrDuplicateReview = errors.New("user already reviewed this property")

// ErrPropertyNotActive is returned when a booking or review targets a
// property outside the active status.
var ErrPropertyNotActive = errors.New("property is not active")

// ErrTxDeadlock is returned when MySQL picks the transaction as a
// deadlock victim (error 1213). The statement was rolled back and the
// request is safe to retry; handlers translate this into a 409.
var ErrTxDeadlock = errors.New("transaction deadlocked, retry the request")

// isDeadlock reports whether err is the MySQL deadlock error. The
// driver has no typed error for it, so this matches the code the same
// way the duplicate-key checks match 1062.
func isDeadlock(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1213")
}
