package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/amenitybook/reservation-api/internal/api/metrics"
	"github.com/amenitybook/reservation-api/internal/core/domain"
	"github.com/amenitybook/reservation-api/internal/core/ports"
)

// ReservationHandler serves the read-only schedule lookups.
type ReservationHandler struct {
	service ports.ReservationService
}

func NewReservationHandler(service ports.ReservationService) *ReservationHandler {
	return &ReservationHandler{service: service}
}

// ByAmenity handles GET /api/reservations/amenities/:amenityId?date=<seconds>.
//
// @Summary      Amenity schedule for one day
// @Tags         reservations
// @Produce      json
// @Param        amenityId  path      int  true  "Amenity id"
// @Param        date       query     int  true  "Day start as unix seconds (00:00 UTC)"
// @Success      200        {array}   domain.AmenitySlot
// @Failure      400        {object}  errorResponse
// @Failure      500        {object}  errorResponse
// @Router       /api/reservations/amenities/{amenityId} [get]
func (h *ReservationHandler) ByAmenity(c echo.Context) error {
	amenityID, err := pathID(c, "amenityId")
	if err != nil {
		metrics.QueriesTotal.WithLabelValues("amenity_day", "invalid").Inc()
		return err
	}
	day, err := parseDay(c.QueryParam("date"))
	if err != nil {
		metrics.QueriesTotal.WithLabelValues("amenity_day", "invalid").Inc()
		return domain.ErrInvalidDay
	}

	start := time.Now()
	slots, err := h.service.ByAmenityAndDay(c.Request().Context(), amenityID, day)
	metrics.QueryDuration.WithLabelValues("amenity_day").Observe(time.Since(start).Seconds())
	metrics.QueriesTotal.WithLabelValues("amenity_day", queryResult(err)).Inc()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, slots)
}

// ByUser handles GET /api/reservations/users/:userId.
//
// @Summary      User schedule grouped by day
// @Tags         reservations
// @Produce      json
// @Param        userId  path      int  true  "User id"
// @Success      200     {object}  domain.UserSchedule
// @Failure      400     {object}  errorResponse
// @Failure      500     {object}  errorResponse
// @Router       /api/reservations/users/{userId} [get]
func (h *ReservationHandler) ByUser(c echo.Context) error {
	userID, err := pathID(c, "userId")
	if err != nil {
		metrics.QueriesTotal.WithLabelValues("user", "invalid").Inc()
		return err
	}

	start := time.Now()
	schedule, err := h.service.ByUser(c.Request().Context(), userID)
	metrics.QueryDuration.WithLabelValues("user").Observe(time.Since(start).Seconds())
	metrics.QueriesTotal.WithLabelValues("user", queryResult(err)).Inc()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, schedule)
}

func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" must be an integer")
	}
	return id, nil
}

// parseDay accepts an optionally negative decimal integer. Sign checks
// beyond that belong to the service.
func parseDay(raw string) (int64, error) {
	if strings.HasPrefix(raw, "+") {
		return 0, domain.ErrInvalidDay
	}
	day, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, domain.ErrInvalidDay
	}
	return day, nil
}

func queryResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	default:
		return "error"
	}
}
