package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/space-rental/internal/handler"
	"github.com/iliyamo/space-rental/internal/middleware"
	"github.com/iliyamo/space-rental/internal/model"
)

// RegisterLandlord registers landlord-scoped endpoints under /v1/landlord.
// All routes require a valid JWT and the property-management capability.
// Landlords manage their listings and drive the booking lifecycle on
// requests against their spaces.
func RegisterLandlord(e *echo.Echo, p *handler.LandlordHandler, b *handler.LandlordBookingHandler, jwtSecret string) {
	g := e.Group(
		"/v1/landlord",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireCapability(model.CapManageOwnProperties),
	)
	// Listing management.  New listings start as drafts and go through
	// admin moderation before becoming bookable.
	g.POST("/properties", p.CreateProperty)
	g.GET("/properties", p.MyProperties)
	g.PUT("/properties/:id", p.UpdateProperty)
	g.POST("/properties/:id/submit", p.SubmitProperty)
	g.POST("/properties/:id/deactivate", p.DeactivateProperty)

	// Booking lifecycle on the landlord's own properties.
	g.GET("/bookings", b.ListBookings)
	g.POST("/bookings/:id/confirm", b.Confirm)
	g.POST("/bookings/:id/decline", b.Decline)
	g.POST("/bookings/:id/complete", b.Complete)
}
