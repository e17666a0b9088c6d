package handler

import (
    "context"
    "database/sql"
    "net/http"
    "strings"

    "github.com/google/uuid"
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/space-rental/internal/model"
    "github.com/iliyamo/space-rental/internal/repository"
)

// listingReq is the request body for creating or updating a listing.
// Prices arrive in cents; the hourly rate is required, the other tiers
// are optional and fall back through the pricing calculator when unset.
type listingReq struct {
    Title       string  `json:"title" validate:"required,min=3"`
    Description string  `json:"description"`
    Type        string  `json:"type" validate:"required"`
    CategoryID  *uint64 `json:"category_id"`
    City        string  `json:"city" validate:"required"`
    Address     string  `json:"address" validate:"required"`
    HourCents   int64   `json:"hour_cents" validate:"required,gt=0"`
    DayCents    *int64  `json:"day_cents"`
    WeekCents   *int64  `json:"week_cents"`
    MonthCents  *int64  `json:"month_cents"`
    Capacity    uint32  `json:"capacity" validate:"required,gt=0"`
    AreaSqM     float64 `json:"area_sq_m" validate:"gte=0"`
    // AmenityIDs replaces the listing's amenity set.  Omitted means
    // "leave unchanged" on update and "none" on create.
    AmenityIDs []uint64 `json:"amenity_ids"`
}

func (r *listingReq) apply(p *model.Property) error {
    t := model.PropertyType(strings.ToLower(strings.TrimSpace(r.Type)))
    if !t.Valid() {
        return echo.NewHTTPError(http.StatusBadRequest, "unknown property type")
    }
    for _, cents := range []*int64{r.DayCents, r.WeekCents, r.MonthCents} {
        if cents != nil && *cents <= 0 {
            return echo.NewHTTPError(http.StatusBadRequest, "rates must be positive")
        }
    }
    p.Title = strings.TrimSpace(r.Title)
    p.Description = strings.TrimSpace(r.Description)
    p.Type = t
    p.CategoryID = r.CategoryID
    p.City = strings.TrimSpace(r.City)
    p.Address = strings.TrimSpace(r.Address)
    p.HourCents = r.HourCents
    p.DayCents = r.DayCents
    p.WeekCents = r.WeekCents
    p.MonthCents = r.MonthCents
    p.Capacity = r.Capacity
    p.AreaSqM = int64(r.AreaSqM * 100)
    return nil
}

// slugify lowercases the title, keeps letters and digits, joins words
// with dashes and appends a uuid suffix for uniqueness.
func slugify(title string) string {
    var b strings.Builder
    lastDash := true
    for _, r := range strings.ToLower(title) {
        switch {
        case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
            b.WriteRune(r)
            lastDash = false
        default:
            if !lastDash {
                b.WriteByte('-')
                lastDash = true
            }
        }
    }
    s := strings.Trim(b.String(), "-")
    if s == "" {
        s = "space"
    }
    return s + "-" + uuid.NewString()[:8]
}

// LandlordHandler groups the endpoints landlords use to manage their
// listings.  Listing lifecycle: created as draft, submitted to pending,
// approved to active by an admin.
type LandlordHandler struct {
    Properties *repository.PropertyRepo
    Amenities  *repository.AmenityRepo
}

// NewLandlordHandler constructs a LandlordHandler.
func NewLandlordHandler(p *repository.PropertyRepo, am *repository.AmenityRepo) *LandlordHandler {
    if p == nil || am == nil {
        panic("nil repository passed to NewLandlordHandler")
    }
    return &LandlordHandler{Properties: p, Amenities: am}
}

// setAmenities replaces a listing's amenity rows in its own short
// transaction.
func (h *LandlordHandler) setAmenities(ctx context.Context, propertyID uint64, ids []uint64) error {
    tx, err := h.Properties.DB().BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()
    if err := h.Amenities.SetForProperty(ctx, tx, propertyID, ids); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// CreateProperty handles POST /v1/landlord/properties.
func (h *LandlordHandler) CreateProperty(c echo.Context) error {
    landlordID := currentUserID(c)
    if landlordID == 0 {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req listingReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if err := c.Validate(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }

    p := &model.Property{LandlordID: landlordID, Status: model.PropertyDraft}
    if err := req.apply(p); err != nil {
        return err
    }
    p.Slug = slugify(p.Title)

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()
    if err := h.Properties.Create(ctx, p); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create property failed"})
    }
    if len(req.AmenityIDs) > 0 {
        if err := h.setAmenities(ctx, p.ID, req.AmenityIDs); err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown amenity id"})
        }
    }
    return c.JSON(http.StatusCreated, echo.Map{
        "id":     p.ID,
        "slug":   p.Slug,
        "status": string(p.Status),
    })
}

// UpdateProperty handles PUT /v1/landlord/properties/:id.  Ownership is
// enforced in the repository's WHERE clause.
func (h *LandlordHandler) UpdateProperty(c echo.Context) error {
    landlordID := currentUserID(c)
    if landlordID == 0 {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid property id"})
    }
    var req listingReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if err := c.Validate(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()
    p, err := h.Properties.GetByID(ctx, id)
    if err != nil {
        if err == sql.ErrNoRows {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "property not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if err := req.apply(p); err != nil {
        return err
    }
    if err := h.Properties.Update(ctx, p, landlordID); err != nil {
        return bookingErrorJSON(c, err)
    }
    if req.AmenityIDs != nil {
        if err := h.setAmenities(ctx, p.ID, req.AmenityIDs); err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown amenity id"})
        }
    }
    return c.JSON(http.StatusOK, echo.Map{"id": p.ID, "message": "property updated"})
}

// MyProperties handles GET /v1/landlord/properties.
func (h *LandlordHandler) MyProperties(c echo.Context) error {
    landlordID := currentUserID(c)
    if landlordID == 0 {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()
    props, err := h.Properties.ListByLandlord(ctx, landlordID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    items := make([]propertyItem, 0, len(props))
    for i := range props {
        items = append(items, toPropertyItem(&props[i], true))
    }
    return c.JSON(http.StatusOK, echo.Map{"properties": items, "count": len(items)})
}

// submitCheck validates a submit request against the loaded listing.
// Ownership is checked before the status so that a non-owner cannot
// learn a listing's moderation state from the idempotent warning.
func submitCheck(p *model.Property, landlordID uint64) (alreadySubmitted bool, err error) {
    if p.LandlordID != landlordID {
        return false, repository.ErrForbidden
    }
    return p.Status == model.PropertyActive || p.Status == model.PropertyPending, nil
}

// SubmitProperty handles POST /v1/landlord/properties/:id/submit.  It
// moves a draft or inactive listing into the moderation queue.
func (h *LandlordHandler) SubmitProperty(c echo.Context) error {
    landlordID := currentUserID(c)
    if landlordID == 0 {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid property id"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()
    p, err := h.Properties.GetByID(ctx, id)
    if err != nil {
        if err == sql.ErrNoRows {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "property not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    already, err := submitCheck(p, landlordID)
    if err != nil {
        return bookingErrorJSON(c, err)
    }
    if already {
        return c.JSON(http.StatusOK, echo.Map{"warning": "property already submitted"})
    }
    if err := h.Properties.SetStatus(ctx, id, model.PropertyPending, landlordID); err != nil {
        return bookingErrorJSON(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"id": id, "status": string(model.PropertyPending)})
}

// DeactivateProperty handles POST /v1/landlord/properties/:id/deactivate.
// An inactive listing stops accepting bookings but keeps its history.
func (h *LandlordHandler) DeactivateProperty(c echo.Context) error {
    landlordID := currentUserID(c)
    if landlordID == 0 {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid property id"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()
    if err := h.Properties.SetStatus(ctx, id, model.PropertyInactive, landlordID); err != nil {
        return bookingErrorJSON(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"id": id, "status": string(model.PropertyInactive)})
}
