package middleware // middleware provides shared request processing for handlers

import (
    "net/http" // http package defines standard HTTP status codes

    "github.com/labstack/echo/v4" // echo provides middleware chaining and context

    "github.com/iliyamo/space-rental/internal/model" // model defines roles and capabilities
)

// RequireCapability returns a middleware function that enforces that the
// authenticated user's role grants the given capability.  Routes are gated
// on what a role can do rather than on role names, so admin automatically
// passes every gate and adding a role only means extending the capability
// table in the model package.  It assumes a previous middleware has
// extracted the role into the context under the key "role".
func RequireCapability(cap model.Capability) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            // Retrieve the role from context.  It should have been
            // stored by JWTAuth middleware as a string.  If not
            // present or of wrong type, treat as missing.
            v := c.Get("role")
            s, ok := v.(string)
            if !ok {
                return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
            }
            role, ok := model.ParseRole(s)
            if !ok || !role.Can(cap) {
                return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
            }
            // Otherwise call the next handler in the chain
            return next(c)
        }
    }
}
