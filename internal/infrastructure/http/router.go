package http

import (
	"github.com/labstack/echo/v4"

	"github.com/amenitybook/reservation-api/internal/infrastructure/http/handlers"
)

// RegisterHealthRoutes mounts the liveness and readiness probes. They sit
// outside /api and never require a token.
func RegisterHealthRoutes(e *echo.Echo, deps map[string]handlers.Pinger) {
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
}
