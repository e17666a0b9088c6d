package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/space-rental/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/space-rental/internal/middleware" // import middleware for JWT authentication and capability gates
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Load balancers and monitoring systems use /healthz to verify that
	// the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	// Operations that do not require an existing session: register, login
	// and the two refresh variants.
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Refresh rotates the refresh token; refresh-access only issues a
	// new short-lived access token.
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout does not require JWT middleware: the handler accepts either a
	// bearer token (revoke all sessions) or a refresh_token body (revoke one).
	g.POST("/logout", a.Logout)

	// Routes that require a valid access token.  The JWTAuth middleware
	// extracts user_id and role into the context for handlers.
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
	auth.PUT("/me", a.UpdateProfile)

	// Clients can call either /v1/auth/logout or /v1/logout with a valid
	// refresh token in the body to terminate a session.
	e.POST("/v1/logout", a.Logout)
}

// RegisterPublic registers unauthenticated browse endpoints.  These return
// sanitized listing data for guests and apply no JWT or role middleware.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler) {
	// Search and browse active listings.
	e.GET("/v1/properties", p.ListProperties)
	// Listing detail by numeric id or slug, with approved reviews.
	e.GET("/v1/properties/:id", p.GetProperty)
	// Booked spans inside a window so guests can see availability before
	// signing up.  Touching spans do not conflict.
	e.GET("/v1/properties/:id/availability", p.Availability)
	// Browse taxonomies used by the search filters.
	e.GET("/v1/categories", p.ListCategories)
	e.GET("/v1/amenities", p.ListAmenities)
}

// RegisterInbox registers notification and messaging endpoints for any
// authenticated user regardless of role.
func RegisterInbox(e *echo.Echo, h *handler.InboxHandler, jwtSecret string) {
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	g.GET("/notifications", h.ListNotifications)
	g.POST("/notifications/:id/read", h.MarkNotificationRead)
	g.POST("/notifications/read-all", h.MarkAllNotificationsRead)
	g.POST("/messages", h.SendMessage)
	g.GET("/messages", h.Inbox)
	g.POST("/messages/:id/read", h.MarkMessageRead)
}
