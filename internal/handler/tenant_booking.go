package handler

import (
    "context"
    "database/sql"
    "fmt"
    "net/http"
    "strings"
    "time"

    "github.com/google/uuid"
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/space-rental/internal/booking"
    "github.com/iliyamo/space-rental/internal/model"
    "github.com/iliyamo/space-rental/internal/queue"
    "github.com/iliyamo/space-rental/internal/repository"
    queue_publisher "github.com/iliyamo/space-rental/internal/service"
)

// TenantHandler groups the endpoints a tenant uses to request, inspect
// and cancel bookings and to leave reviews.  All methods assume the JWT
// and capability middleware already ran.  Booking creation runs the
// availability check and the insert in one transaction so two racing
// requests can never both succeed for overlapping spans.
type TenantHandler struct {
    Properties *repository.PropertyRepo
    Bookings   *repository.BookingRepo
    Reviews    *repository.ReviewRepo
    Favorites  *repository.FavoriteRepo
    Notifier   *queue_publisher.Notifier
    Policy     booking.Policy
    Now        func() time.Time // injected clock, defaults to time.Now
}

// NewTenantHandler constructs a TenantHandler with the provided
// repositories.  All repository dependencies must be non-nil.
func NewTenantHandler(p *repository.PropertyRepo, b *repository.BookingRepo, rv *repository.ReviewRepo, fav *repository.FavoriteRepo, n *queue_publisher.Notifier, pol booking.Policy) *TenantHandler {
    if p == nil || b == nil || rv == nil || fav == nil {
        panic("nil repository passed to NewTenantHandler")
    }
    return &TenantHandler{
        Properties: p,
        Bookings:   b,
        Reviews:    rv,
        Favorites:  fav,
        Notifier:   n,
        Policy:     pol,
        Now:        func() time.Time { return time.Now().UTC() },
    }
}

type createBookingReq struct {
    PropertyID      uint64  `json:"property_id" validate:"required"`
    StartAt         string  `json:"start_at" validate:"required"`
    EndAt           string  `json:"end_at" validate:"required"`
    Unit            string  `json:"unit" validate:"required"`
    Guests          uint32  `json:"guests" validate:"required,min=1"`
    SpecialRequests *string `json:"special_requests"`
}

// newReference builds a short human-facing booking code from the
// property ID and a uuid suffix, e.g. "B0042-9F3A1C".
func newReference(propertyID uint64) string {
    suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:6]
    return fmt.Sprintf("B%04d-%s", propertyID%10000, suffix)
}

// CreateBooking handles POST /v1/bookings.  The flow is: load the
// property with a row lock, validate the span and guest count, search
// for a conflicting booking under the same lock, price the span and
// insert.  The conflict check and the insert share one transaction;
// the SELECT ... FOR UPDATE serializes writers on the property's rows
// so a concurrent request sees the new row or blocks until commit.
func (h *TenantHandler) CreateBooking(c echo.Context) error {
    tenantID := currentUserID(c)
    if tenantID == 0 {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req createBookingReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if err := c.Validate(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }
    unit := booking.Unit(strings.ToLower(strings.TrimSpace(req.Unit)))
    if !unit.Valid() {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "unit must be hourly, daily, weekly or monthly"})
    }
    start, err := parseRFC3339(req.StartAt)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start_at"})
    }
    end, err := parseRFC3339(req.EndAt)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid end_at"})
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

    prop, err := h.Properties.GetForBookingTx(ctx, tx, req.PropertyID)
    if err != nil {
        if err == sql.ErrNoRows {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "property not found"})
        }
        return bookingErrorJSON(c, err)
    }
    if prop.LandlordID == tenantID {
        return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "cannot book your own space"})
    }

    now := h.Now()
    if err := h.Policy.ValidateSpan(unit, start, end, now); err != nil {
        return bookingErrorJSON(c, err)
    }
    if err := booking.ValidateGuests(req.Guests, prop.Capacity); err != nil {
        return bookingErrorJSON(c, err)
    }

    if _, found, err := h.Bookings.FindConflictTx(ctx, tx, prop.ID, start, end, 0); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    } else if found {
        return bookingErrorJSON(c, repository.ErrBookingConflict)
    }

    total, err := booking.Quote(prop.Rates(), unit, start, end)
    if err != nil {
        return bookingErrorJSON(c, err)
    }

    bk := &model.Booking{
        Reference:       newReference(prop.ID),
        PropertyID:      prop.ID,
        TenantID:        tenantID,
        StartAt:         start,
        EndAt:           end,
        Unit:            unit,
        Guests:          req.Guests,
        SpecialRequests: req.SpecialRequests,
        TotalCents:      total,
        Status:          booking.StatusPending,
    }
    if err := h.Bookings.CreateTx(ctx, tx, bk); err != nil {
        if err == repository.ErrTxDeadlock {
            return bookingErrorJSON(c, err)
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create booking failed"})
    }
    if err := tx.Commit(); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
    }
    committed = true

    if h.Notifier != nil {
        h.Notifier.BookingChanged(ctx, queue.BookingEvent{
            Type:          queue.EventBookingCreated,
            BookingID:     bk.ID,
            Reference:     bk.Reference,
            PropertyID:    prop.ID,
            PropertyTitle: prop.Title,
            TenantID:      tenantID,
            LandlordID:    prop.LandlordID,
            StartsAt:      start.Format(time.RFC3339),
            EndsAt:        end.Format(time.RFC3339),
            TotalCents:    total,
        }, prop.LandlordID)
    }

    return c.JSON(http.StatusCreated, echo.Map{
        "id":          bk.ID,
        "reference":   bk.Reference,
        "property_id": prop.ID,
        "start_at":    start.Format(time.RFC3339),
        "end_at":      end.Format(time.RFC3339),
        "unit":        string(unit),
        "guests":      req.Guests,
        "total_cents": total,
        "status":      string(bk.Status),
    })
}

// MyBookings handles GET /v1/bookings/my.
func (h *TenantHandler) MyBookings(c echo.Context) error {
    tenantID := currentUserID(c)
    if tenantID == 0 {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()
    items, err := h.Bookings.ListByTenant(ctx, tenantID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"bookings": items, "count": len(items)})
}

// GetBooking handles GET /v1/bookings/:id.  Tenants may only read their
// own bookings.
func (h *TenantHandler) GetBooking(c echo.Context) error {
    tenantID := currentUserID(c)
    if tenantID == 0 {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()
    bk, err := h.Bookings.GetByID(ctx, id)
    if err != nil {
        return bookingErrorJSON(c, err)
    }
    if bk.TenantID != tenantID {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "id":               bk.ID,
        "reference":        bk.Reference,
        "property_id":      bk.PropertyID,
        "start_at":         bk.StartAt.UTC().Format(time.RFC3339),
        "end_at":           bk.EndAt.UTC().Format(time.RFC3339),
        "unit":             string(bk.Unit),
        "guests":           bk.Guests,
        "special_requests": bk.SpecialRequests,
        "total_cents":      bk.TotalCents,
        "status":           string(bk.Status),
        "created_at":       bk.CreatedAt.UTC().Format(time.RFC3339),
    })
}

// CancelBooking handles POST /v1/bookings/:id/cancel.  A tenant may
// cancel pending or confirmed bookings that have not started yet.
// Repeating the cancel is answered with a warning, not an error.
func (h *TenantHandler) CancelBooking(c echo.Context) error {
    tenantID := currentUserID(c)
    if tenantID == 0 {
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

    bk, landlordID, err := h.Bookings.GetForUpdateTx(ctx, tx, id)
    if err != nil {
        return bookingErrorJSON(c, err)
    }
    if bk.TenantID != tenantID {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }
    if err := booking.TenantCancel(bk.Status, bk.StartAt, h.Now()); err != nil {
        return bookingErrorJSON(c, err)
    }
    if err := h.Bookings.UpdateStatusTx(ctx, tx, id, booking.StatusCancelled); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
    }
    if err := tx.Commit(); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
    }
    committed = true

    if h.Notifier != nil {
        h.Notifier.BookingChanged(ctx, queue.BookingEvent{
            Type:       queue.EventBookingCancelled,
            BookingID:  bk.ID,
            Reference:  bk.Reference,
            PropertyID: bk.PropertyID,
            TenantID:   bk.TenantID,
            LandlordID: landlordID,
            StartsAt:   bk.StartAt.UTC().Format(time.RFC3339),
            EndsAt:     bk.EndAt.UTC().Format(time.RFC3339),
            TotalCents: bk.TotalCents,
        }, landlordID)
    }
    return c.JSON(http.StatusOK, echo.Map{"id": id, "status": string(booking.StatusCancelled)})
}

type createReviewReq struct {
    PropertyID uint64 `json:"property_id" validate:"required"`
    Rating     uint8  `json:"rating" validate:"required,min=1,max=5"`
    Comment    string `json:"comment" validate:"required,min=3"`
}

// CreateReview handles POST /v1/reviews.  Only tenants with a completed
// booking on the property may review it, once.  Reviews start in the
// pending state and appear publicly after moderation.
func (h *TenantHandler) CreateReview(c echo.Context) error {
    tenantID := currentUserID(c)
    if tenantID == 0 {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req createReviewReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if err := c.Validate(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    prop, err := h.Properties.GetByID(ctx, req.PropertyID)
    if err != nil {
        if err == sql.ErrNoRows {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "property not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    bookingID, ok, err := h.Reviews.HasCompletedBooking(ctx, tenantID, req.PropertyID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if !ok {
        return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "a completed booking is required to review"})
    }

    rv := &model.Review{
        PropertyID: req.PropertyID,
        UserID:     tenantID,
        BookingID:  &bookingID,
        Rating:     req.Rating,
        Comment:    strings.TrimSpace(req.Comment),
        Status:     model.ReviewPending,
        IsVerified: true,
    }
    if err := h.Reviews.Create(ctx, rv); err != nil {
        return bookingErrorJSON(c, err)
    }
    if h.Notifier != nil {
        h.Notifier.ReviewAdded(ctx, prop.LandlordID, rv.ID, prop.Title)
    }
    return c.JSON(http.StatusCreated, echo.Map{"id": rv.ID, "status": string(model.ReviewPending)})
}

// ToggleFavorite handles POST /v1/properties/:id/favorite.
func (h *TenantHandler) ToggleFavorite(c echo.Context) error {
    userID := currentUserID(c)
    if userID == 0 {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid property id"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()
    if _, err := h.Properties.GetByID(ctx, id); err != nil {
        if err == sql.ErrNoRows {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "property not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    added, err := h.Favorites.Toggle(ctx, userID, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"property_id": id, "favorited": added})
}

// MyFavorites handles GET /v1/favorites.
func (h *TenantHandler) MyFavorites(c echo.Context) error {
    userID := currentUserID(c)
    if userID == 0 {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()
    ids, err := h.Favorites.ListPropertyIDs(ctx, userID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"property_ids": ids, "count": len(ids)})
}
