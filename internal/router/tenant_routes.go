package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/space-rental/internal/handler"
	"github.com/iliyamo/space-rental/internal/middleware"
	"github.com/iliyamo/space-rental/internal/model"
)

// RegisterTenant registers tenant-scoped endpoints under /v1.  All routes
// require a valid JWT and the booking capability, which tenants and
// admins hold.  Tenants can request bookings, inspect and cancel their
// own, leave reviews on completed stays and manage favorites.
func RegisterTenant(e *echo.Echo, h *handler.TenantHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireCapability(model.CapViewOwnBookings),
	)
	// Availability-checked, priced and inserted in one transaction.
	g.POST("/bookings", h.CreateBooking)
	g.GET("/bookings/my", h.MyBookings)
	g.GET("/bookings/:id", h.GetBooking)
	// Cancel is only possible before the booked span starts.
	g.POST("/bookings/:id/cancel", h.CancelBooking)
	g.POST("/reviews", h.CreateReview)
	g.POST("/properties/:id/favorite", h.ToggleFavorite)
	g.GET("/favorites", h.MyFavorites)
}
