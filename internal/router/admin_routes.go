package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/space-rental/internal/handler"
	"github.com/iliyamo/space-rental/internal/middleware"
	"github.com/iliyamo/space-rental/internal/model"
)

// RegisterAdmin registers back-office endpoints under /v1/admin.  All
// routes require a valid JWT and the moderation capability, which only
// the admin role carries.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireCapability(model.CapModerateAll),
	)
	// User management.
	g.GET("/users", h.ListUsers)
	g.PATCH("/users/:id/active", h.SetUserActive)

	// Listing moderation.
	g.GET("/properties/pending", h.PendingProperties)
	g.POST("/properties/:id/approve", h.ApproveProperty)
	g.POST("/properties/:id/reject", h.RejectProperty)

	// Booking oversight.  The total patch is the only way a price
	// changes after creation.
	g.GET("/bookings", h.ListBookings)
	g.PATCH("/bookings/:id/total", h.UpdateBookingTotal)

	// Review moderation.
	g.GET("/reviews/pending", h.PendingReviews)
	g.POST("/reviews/:id/moderate", h.ModerateReview)

	// Platform stats.
	g.GET("/stats", h.Stats)
}
