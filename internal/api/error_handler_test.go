package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/amenitybook/reservation-api/internal/core/domain"
)

func TestHTTPErrorHandler_Mapping(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"invalid day", domain.ErrInvalidDay, http.StatusBadRequest, "Date is required to be positive integer"},
		{"missing credentials", domain.ErrMissingCredentials, http.StatusBadRequest, "Username and password are required"},
		{"password too long", fmt.Errorf("register: %w", domain.ErrPasswordTooLong), http.StatusBadRequest, "Password must be at most 72 bytes"},
		{"not aligned", domain.ErrDayNotAligned, http.StatusBadRequest, "Date must be aligned to 00:00 UTC"},
		{"user exists", fmt.Errorf("create user: %w", domain.ErrUserExists), http.StatusConflict, "Username already exists"},
		{"bad credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
		{"bad token", domain.ErrInvalidToken, http.StatusUnauthorized, "Invalid or expired token"},
		{"amenity not found", domain.ErrAmenityNotFound, http.StatusNotFound, "Amenity not found"},
		{"echo error", echo.NewHTTPError(http.StatusBadRequest, "No file uploaded"), http.StatusBadRequest, "No file uploaded"},
		{"internal", errors.New("connection refused"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			NewHTTPErrorHandler(zerolog.Nop())(tc.err, c)

			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, rec.Code)
			}
			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body.Error != tc.wantMsg {
				t.Fatalf("expected %q, got %q", tc.wantMsg, body.Error)
			}
		})
	}
}

func TestHTTPErrorHandler_InternalDetailsNotLeaked(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(errors.New("pq: password authentication failed for user admin"), c)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if got := rec.Body.String(); got != "{\"error\":\"Internal server error\"}\n" {
		t.Fatalf("unexpected body: %s", got)
	}
}
