package handler

import (
    "context"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/space-rental/internal/booking"
    "github.com/iliyamo/space-rental/internal/queue"
    "github.com/iliyamo/space-rental/internal/repository"
    queue_publisher "github.com/iliyamo/space-rental/internal/service"
)

// LandlordBookingHandler lets landlords act on bookings made against
// their properties: list, confirm, decline and complete.  Status
// changes lock the booking row, run the transition rules and update
// inside one transaction.
type LandlordBookingHandler struct {
    Bookings *repository.BookingRepo
    Notifier *queue_publisher.Notifier
    Now      func() time.Time
}

// NewLandlordBookingHandler constructs a LandlordBookingHandler.
func NewLandlordBookingHandler(b *repository.BookingRepo, n *queue_publisher.Notifier) *LandlordBookingHandler {
    if b == nil {
        panic("nil repository passed to NewLandlordBookingHandler")
    }
    return &LandlordBookingHandler{
        Bookings: b,
        Notifier: n,
        Now:      func() time.Time { return time.Now().UTC() },
    }
}

// ListBookings handles GET /v1/landlord/bookings with an optional
// ?status= filter.
func (h *LandlordBookingHandler) ListBookings(c echo.Context) error {
    landlordID := currentUserID(c)
    if landlordID == 0 {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var status booking.Status
    if v := c.QueryParam("status"); v != "" {
        status = booking.Status(v)
        if !status.Valid() {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
        }
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()
    items, err := h.Bookings.ListByLandlord(ctx, landlordID, status)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"bookings": items, "count": len(items)})
}

// Confirm handles POST /v1/landlord/bookings/:id/confirm.
func (h *LandlordBookingHandler) Confirm(c echo.Context) error {
    return h.changeStatus(c, booking.StatusConfirmed, queue.EventBookingConfirmed)
}

// Decline handles POST /v1/landlord/bookings/:id/decline.  Declining
// is a cancel performed by the landlord and follows the same
// transition rules.
func (h *LandlordBookingHandler) Decline(c echo.Context) error {
    return h.changeStatus(c, booking.StatusCancelled, queue.EventBookingCancelled)
}

// Complete handles POST /v1/landlord/bookings/:id/complete.  Completion
// is only allowed after the booked span has ended.
func (h *LandlordBookingHandler) Complete(c echo.Context) error {
    return h.changeStatus(c, booking.StatusCompleted, queue.EventBookingCompleted)
}

// changeStatus locks the booking, verifies ownership, applies the
// transition rules for the target status and persists the change.  A
// repeat of an already-applied change commits nothing and returns a
// warning so retried requests stay safe.
func (h *LandlordBookingHandler) changeStatus(c echo.Context, to booking.Status, eventType string) error {
    landlordID := currentUserID(c)
    if landlordID == 0 {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    tx, err := h.Bookings.DB().BeginTx(ctx, nil)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    bk, ownerID, err := h.Bookings.GetForUpdateTx(ctx, tx, id)
    if err != nil {
        return bookingErrorJSON(c, err)
    }
    if ownerID != landlordID {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }
    if to == booking.StatusCompleted {
        err = booking.Complete(bk.Status, bk.EndAt, h.Now())
    } else {
        err = booking.Transition(bk.Status, to)
    }
    if err != nil {
        return bookingErrorJSON(c, err)
    }
    if err := h.Bookings.UpdateStatusTx(ctx, tx, id, to); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
    }
    if err := tx.Commit(); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
    }
    committed = true

    if h.Notifier != nil {
        h.Notifier.BookingChanged(ctx, queue.BookingEvent{
            Type:       eventType,
            BookingID:  bk.ID,
            Reference:  bk.Reference,
            PropertyID: bk.PropertyID,
            TenantID:   bk.TenantID,
            LandlordID: landlordID,
            StartsAt:   bk.StartAt.UTC().Format(time.RFC3339),
            EndsAt:     bk.EndAt.UTC().Format(time.RFC3339),
            TotalCents: bk.TotalCents,
        }, bk.TenantID)
    }
    return c.JSON(http.StatusOK, echo.Map{"id": id, "status": string(to)})
}
