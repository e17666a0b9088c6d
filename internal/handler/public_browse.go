package handler

import (
    "context"
    "database/sql"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/space-rental/internal/model"
    "github.com/iliyamo/space-rental/internal/repository"
)

// PublicHandler serves the unauthenticated browse surface: listing
// search, listing detail with reviews, availability and categories.
type PublicHandler struct {
    Properties *repository.PropertyRepo
    Bookings   *repository.BookingRepo
    Reviews    *repository.ReviewRepo
    Categories *repository.CategoryRepo
    Amenities  *repository.AmenityRepo
}

// NewPublicHandler constructs a PublicHandler and panics if any dependency is nil.
func NewPublicHandler(p *repository.PropertyRepo, b *repository.BookingRepo, rv *repository.ReviewRepo, cat *repository.CategoryRepo, am *repository.AmenityRepo) *PublicHandler {
    if p == nil || b == nil || rv == nil || cat == nil || am == nil {
        panic("nil repository passed to NewPublicHandler")
    }
    return &PublicHandler{Properties: p, Bookings: b, Reviews: rv, Categories: cat, Amenities: am}
}

// propertyItem is the public JSON shape of a listing.
type propertyItem struct {
    ID         uint64  `json:"id"`
    Title      string  `json:"title"`
    Slug       string  `json:"slug"`
    Type       string  `json:"type"`
    City       string  `json:"city"`
    Address    string  `json:"address,omitempty"`
    HourCents  int64   `json:"hour_cents"`
    DayCents   *int64  `json:"day_cents,omitempty"`
    WeekCents  *int64  `json:"week_cents,omitempty"`
    MonthCents *int64  `json:"month_cents,omitempty"`
    Capacity   uint32  `json:"capacity"`
    AreaSqM    float64 `json:"area_sq_m"`
    Status     string  `json:"status,omitempty"`
    Views      uint64  `json:"views_count,omitempty"`
}

func toPropertyItem(p *model.Property, includePrivate bool) propertyItem {
    it := propertyItem{
        ID:         p.ID,
        Title:      p.Title,
        Slug:       p.Slug,
        Type:       string(p.Type),
        City:       p.City,
        Address:    p.Address,
        HourCents:  p.HourCents,
        DayCents:   p.DayCents,
        WeekCents:  p.WeekCents,
        MonthCents: p.MonthCents,
        Capacity:   p.Capacity,
        AreaSqM:    float64(p.AreaSqM) / 100,
    }
    if includePrivate {
        it.Status = string(p.Status)
        it.Views = p.ViewsCount
    }
    return it
}

// ListProperties handles GET /v1/properties.  Supported query params:
// city, type, category_id, min_price, max_price (hourly cents),
// min_capacity, q, limit, offset.  Only active listings are returned.
func (h *PublicHandler) ListProperties(c echo.Context) error {
    f := repository.SearchFilter{
        City:  strings.TrimSpace(c.QueryParam("city")),
        Query: strings.TrimSpace(c.QueryParam("q")),
    }
    if t := model.PropertyType(c.QueryParam("type")); t != "" {
        if !t.Valid() {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown property type"})
        }
        f.Type = t
    }
    if v := c.QueryParam("category_id"); v != "" {
        n, err := strconv.ParseUint(v, 10, 64)
        if err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category_id"})
        }
        f.CategoryID = n
    }
    if v := c.QueryParam("min_price"); v != "" {
        n, err := strconv.ParseInt(v, 10, 64)
        if err != nil || n < 0 {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid min_price"})
        }
        f.MinHourCents = n
    }
    if v := c.QueryParam("max_price"); v != "" {
        n, err := strconv.ParseInt(v, 10, 64)
        if err != nil || n < 0 {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid max_price"})
        }
        f.MaxHourCents = n
    }
    if v := c.QueryParam("min_capacity"); v != "" {
        n, err := strconv.ParseUint(v, 10, 32)
        if err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid min_capacity"})
        }
        f.MinCapacity = uint32(n)
    }
    f.Limit, _ = strconv.Atoi(c.QueryParam("limit"))
    f.Offset, _ = strconv.Atoi(c.QueryParam("offset"))

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()
    props, err := h.Properties.ListActive(ctx, f)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    items := make([]propertyItem, 0, len(props))
    for i := range props {
        items = append(items, toPropertyItem(&props[i], false))
    }
    return c.JSON(http.StatusOK, echo.Map{"properties": items, "count": len(items)})
}

// GetProperty handles GET /v1/properties/:id.  The id parameter accepts
// either a numeric ID or a slug.  The response bundles approved reviews
// and their average rating, and bumps the view counter best effort.
func (h *PublicHandler) GetProperty(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    p, err := h.lookup(ctx, c.Param("id"))
    if err != nil {
        if err == sql.ErrNoRows {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "property not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if p.Status != model.PropertyActive {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "property not found"})
    }

    reviews, avg, err := h.Reviews.ListApprovedByProperty(ctx, p.ID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    amenities, err := h.Amenities.ListByProperty(ctx, p.ID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    // Counter bumps never fail a read.
    _ = h.Properties.IncrementViews(ctx, p.ID)

    return c.JSON(http.StatusOK, echo.Map{
        "property":       toPropertyItem(p, false),
        "description":    p.Description,
        "amenities":      amenities,
        "reviews":        reviews,
        "average_rating": avg,
        "review_count":   len(reviews),
    })
}

// lookup resolves a numeric ID or slug to a property.
func (h *PublicHandler) lookup(ctx context.Context, param string) (*model.Property, error) {
    if id, err := strconv.ParseUint(param, 10, 64); err == nil && id > 0 {
        return h.Properties.GetByID(ctx, id)
    }
    return h.Properties.GetBySlug(ctx, param)
}

// Availability handles GET /v1/properties/:id/availability.  It returns
// the booked spans inside the requested window (default: the next 30
// days) so clients can render a calendar.  Touching bookings do not
// block each other, so the spans are returned as half-open intervals.
func (h *PublicHandler) Availability(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid property id"})
    }

    now := time.Now().UTC()
    from, to := now, now.Add(30*24*time.Hour)
    if v := c.QueryParam("from"); v != "" {
        if from, err = parseRFC3339(v); err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid from"})
        }
    }
    if v := c.QueryParam("to"); v != "" {
        if to, err = parseRFC3339(v); err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid to"})
        }
    }
    if !to.After(from) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "to must be after from"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()
    if _, err := h.Properties.GetByID(ctx, id); err != nil {
        if err == sql.ErrNoRows {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "property not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    spans, err := h.Bookings.ListBlockingSpans(ctx, id, from, to)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }

    type span struct {
        Start string `json:"start"`
        End   string `json:"end"`
    }
    booked := make([]span, 0, len(spans))
    for _, s := range spans {
        booked = append(booked, span{
            Start: s.Interval.Start.UTC().Format(time.RFC3339),
            End:   s.Interval.End.UTC().Format(time.RFC3339),
        })
    }
    return c.JSON(http.StatusOK, echo.Map{
        "property_id": id,
        "from":        from.Format(time.RFC3339),
        "to":          to.Format(time.RFC3339),
        "booked":      booked,
    })
}

// ListCategories handles GET /v1/categories.
func (h *PublicHandler) ListCategories(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()
    cats, err := h.Categories.List(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    type catItem struct {
        ID   uint64 `json:"id"`
        Name string `json:"name"`
        Slug string `json:"slug"`
    }
    items := make([]catItem, 0, len(cats))
    for _, ct := range cats {
        items = append(items, catItem{ID: ct.ID, Name: ct.Name, Slug: ct.Slug})
    }
    return c.JSON(http.StatusOK, echo.Map{"categories": items})
}

// ListAmenities handles GET /v1/amenities.
func (h *PublicHandler) ListAmenities(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()
    ams, err := h.Amenities.List(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"amenities": ams})
}
