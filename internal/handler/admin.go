package handler

import (
    "context"
    "database/sql"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/space-rental/internal/booking"
    "github.com/iliyamo/space-rental/internal/model"
    "github.com/iliyamo/space-rental/internal/repository"
)

// AdminHandler bundles the moderation and back-office endpoints: user
// management, listing approval, review moderation, booking oversight
// and platform stats.  Every route is gated on the moderate
// capability, which only the admin role carries.
type AdminHandler struct {
    Users      *repository.UserRepo
    Properties *repository.PropertyRepo
    Bookings   *repository.BookingRepo
    Reviews    *repository.ReviewRepo
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(u *repository.UserRepo, p *repository.PropertyRepo, b *repository.BookingRepo, rv *repository.ReviewRepo) *AdminHandler {
    if u == nil || p == nil || b == nil || rv == nil {
        panic("nil repository passed to NewAdminHandler")
    }
    return &AdminHandler{Users: u, Properties: p, Bookings: b, Reviews: rv}
}

// ListUsers handles GET /v1/admin/users with optional ?role= filter.
func (h *AdminHandler) ListUsers(c echo.Context) error {
    var role model.Role
    if v := c.QueryParam("role"); v != "" {
        parsed, ok := model.ParseRole(v)
        if !ok {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown role"})
        }
        role = parsed
    }
    limit, _ := strconv.Atoi(c.QueryParam("limit"))
    offset, _ := strconv.Atoi(c.QueryParam("offset"))

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()
    users, err := h.Users.List(ctx, role, limit, offset)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    type userItem struct {
        ID        uint64 `json:"id"`
        Email     string `json:"email"`
        FullName  string `json:"full_name"`
        Role      string `json:"role"`
        IsActive  bool   `json:"is_active"`
        CreatedAt string `json:"created_at"`
    }
    items := make([]userItem, 0, len(users))
    for _, u := range users {
        items = append(items, userItem{
            ID:        u.ID,
            Email:     u.Email,
            FullName:  u.FullName,
            Role:      string(u.Role),
            IsActive:  u.IsActive,
            CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
        })
    }
    return c.JSON(http.StatusOK, echo.Map{"users": items, "count": len(items)})
}

// SetUserActive handles PATCH /v1/admin/users/:id/active with body
// {"active": bool}.  Deactivated users cannot log in or refresh.
func (h *AdminHandler) SetUserActive(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
    }
    var body struct {
        Active *bool `json:"active"`
    }
    if err := c.Bind(&body); err != nil || body.Active == nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "active is required"})
    }
    if id == currentUserID(c) {
        return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "cannot deactivate yourself"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()
    if err := h.Users.SetActive(ctx, id, *body.Active); err != nil {
        if err == sql.ErrNoRows {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"id": id, "is_active": *body.Active})
}

// PendingProperties handles GET /v1/admin/properties/pending.
func (h *AdminHandler) PendingProperties(c echo.Context) error {
    limit, _ := strconv.Atoi(c.QueryParam("limit"))
    offset, _ := strconv.Atoi(c.QueryParam("offset"))
    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()
    props, err := h.Properties.ListByStatus(ctx, model.PropertyPending, limit, offset)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    items := make([]propertyItem, 0, len(props))
    for i := range props {
        items = append(items, toPropertyItem(&props[i], true))
    }
    return c.JSON(http.StatusOK, echo.Map{"properties": items, "count": len(items)})
}

// ApproveProperty handles POST /v1/admin/properties/:id/approve.
func (h *AdminHandler) ApproveProperty(c echo.Context) error {
    return h.setPropertyStatus(c, model.PropertyActive)
}

// RejectProperty handles POST /v1/admin/properties/:id/reject.
func (h *AdminHandler) RejectProperty(c echo.Context) error {
    return h.setPropertyStatus(c, model.PropertyInactive)
}

func (h *AdminHandler) setPropertyStatus(c echo.Context, status model.PropertyStatus) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid property id"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()
    // landlordID 0 skips the ownership check for admins.
    if err := h.Properties.SetStatus(ctx, id, status, 0); err != nil {
        return bookingErrorJSON(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"id": id, "status": string(status)})
}

// ListBookings handles GET /v1/admin/bookings with optional ?status=
// and ?property_id= filters.
func (h *AdminHandler) ListBookings(c echo.Context) error {
    var status booking.Status
    if v := c.QueryParam("status"); v != "" {
        status = booking.Status(v)
        if !status.Valid() {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
        }
    }
    var propertyID uint64
    if v := c.QueryParam("property_id"); v != "" {
        n, err := strconv.ParseUint(v, 10, 64)
        if err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid property_id"})
        }
        propertyID = n
    }
    limit, _ := strconv.Atoi(c.QueryParam("limit"))
    offset, _ := strconv.Atoi(c.QueryParam("offset"))

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()
    items, err := h.Bookings.ListAll(ctx, status, propertyID, limit, offset)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"bookings": items, "count": len(items)})
}

// UpdateBookingTotal handles PATCH /v1/admin/bookings/:id/total with
// body {"total_cents": n}.  This is the only code path that changes a
// booking's price after creation; nothing ever recomputes it.
func (h *AdminHandler) UpdateBookingTotal(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
    }
    var body struct {
        TotalCents *int64 `json:"total_cents"`
    }
    if err := c.Bind(&body); err != nil || body.TotalCents == nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "total_cents is required"})
    }
    if *body.TotalCents < 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "total_cents must not be negative"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()
    if err := h.Bookings.UpdateTotal(ctx, id, *body.TotalCents); err != nil {
        return bookingErrorJSON(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"id": id, "total_cents": *body.TotalCents})
}

// PendingReviews handles GET /v1/admin/reviews/pending.
func (h *AdminHandler) PendingReviews(c echo.Context) error {
    limit, _ := strconv.Atoi(c.QueryParam("limit"))
    offset, _ := strconv.Atoi(c.QueryParam("offset"))
    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()
    items, err := h.Reviews.ListByStatus(ctx, model.ReviewPending, limit, offset)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"reviews": items, "count": len(items)})
}

// ModerateReview handles POST /v1/admin/reviews/:id/moderate with body
// {"status": "approved"|"rejected", "admin_comment": "..."}.
func (h *AdminHandler) ModerateReview(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid review id"})
    }
    var body struct {
        Status       string  `json:"status"`
        AdminComment *string `json:"admin_comment"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    status := model.ReviewStatus(body.Status)
    if status != model.ReviewApproved && status != model.ReviewRejected {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be approved or rejected"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()
    if err := h.Reviews.Moderate(ctx, id, status, body.AdminComment); err != nil {
        if err == sql.ErrNoRows {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "review not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"id": id, "status": string(status)})
}

// Stats handles GET /v1/admin/stats: booking counts per status and the
// confirmed/completed revenue over the trailing 30 days.
func (h *AdminHandler) Stats(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()
    counts, err := h.Bookings.StatusCounts(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    since := time.Now().UTC().Add(-30 * 24 * time.Hour)
    revenue, err := h.Bookings.RevenueSince(ctx, since)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "bookings_by_status":     counts,
        "revenue_cents_30d":      revenue,
        "revenue_window_started": since.Format(time.RFC3339),
    })
}
