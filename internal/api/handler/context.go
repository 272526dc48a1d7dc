package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tripsplit/expenses-system/internal/core/ports"
)

// ctxSession extracts the session injected by the Auth middleware and does a
// fast-fail check before any service call: uid and email must both be
// present, otherwise the token is structurally valid but operationally
// unusable.
func ctxSession(c echo.Context) (ports.Session, error) {
	uid, _ := c.Get("uid").(string)
	email, _ := c.Get("email").(string)
	name, _ := c.Get("name").(string)

	if uid == "" || email == "" {
		return ports.Session{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	return ports.Session{UserID: uid, Email: email, Name: name}, nil
}
