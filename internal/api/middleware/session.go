package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireSession rejects requests whose token carried no usable identity.
// A JWT can be structurally valid yet miss the uid or email claim; every
// project operation needs both, so fail fast before any handler runs.
func RequireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid, _ := c.Get("uid").(string)
			email, _ := c.Get("email").(string)
			if uid == "" || email == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "token missing user identity"})
			}
			return next(c)
		}
	}
}
