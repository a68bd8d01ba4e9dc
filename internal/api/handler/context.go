package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/amenitybook/reservation-api/internal/core/domain"
)

// ctxPrincipal returns the identity injected by the Auth middleware. A
// missing user_id means the route was mounted without the middleware.
func ctxPrincipal(c echo.Context) (domain.Principal, error) {
	id, ok := c.Get("user_id").(int64)
	if !ok {
		return domain.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "No token provided")
	}
	username, _ := c.Get("username").(string)
	return domain.Principal{ID: id, Username: username}, nil
}
