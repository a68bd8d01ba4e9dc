package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/amenitybook/reservation-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps each domain error category to exactly one HTTP status code.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, body limit, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code >= http.StatusInternalServerError {
			logUnhandled(log, c, err)
			return he.Code, "Internal server error"
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrInvalidDay):
		return http.StatusBadRequest, "Date is required to be positive integer"
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, publicMessage(err, domain.ErrValidation)

	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, "Username already exists"
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, publicMessage(err, domain.ErrConflict)

	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized, "Invalid or expired token"
	case errors.Is(err, domain.ErrUnauthorized):
		// Bad username and bad password share this message.
		return http.StatusUnauthorized, "Invalid credentials"

	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, publicMessage(err, domain.ErrNotFound)
	}

	// Unexpected error: log the real cause, return a generic message.
	logUnhandled(log, c, err)
	return http.StatusInternalServerError, "Internal server error"
}

func logUnhandled(log zerolog.Logger, c echo.Context, err error) {
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")
}

// publicMessage strips the category prefix and capitalises the detail, so
// "validation failed: date must be aligned" becomes "Date must be aligned".
func publicMessage(err, category error) string {
	msg := strings.TrimPrefix(err.Error(), category.Error()+": ")
	if msg == "" {
		return msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}
