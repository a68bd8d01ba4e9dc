package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/amenitybook/reservation-api/docs" // registers the swagger docs
	"github.com/amenitybook/reservation-api/internal/api/handler"
	"github.com/amenitybook/reservation-api/internal/api/middleware"
	"github.com/amenitybook/reservation-api/internal/core/ports"
	infrahttp "github.com/amenitybook/reservation-api/internal/infrastructure/http"
	"github.com/amenitybook/reservation-api/internal/infrastructure/http/handlers"
)

const banner = "REST API Server - Use /api/* endpoints"

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Auth         ports.AuthService
	Reservations ports.ReservationService

	CSVDelimiter  rune
	MaxUploadSize string

	// HealthDeps is keyed by the name reported on /health/ready.
	HealthDeps map[string]handlers.Pinger
	Log        zerolog.Logger

	// Registry receives the HTTP metrics and backs /metrics. Nil uses the
	// Prometheus default registry, where the application metrics live.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if d.Registry != nil {
		registerer, gatherer = d.Registry, d.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "reservation_http",
		Skipper:    skipInfraPaths,
		Registerer: registerer,
	}))
	if d.MaxUploadSize != "" {
		e.Use(echomiddleware.BodyLimit(d.MaxUploadSize))
	}

	// --- Infrastructure routes ---
	e.GET("/", func(c echo.Context) error { return c.String(http.StatusOK, banner) })
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	infrahttp.RegisterHealthRoutes(e, d.HealthDeps)

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(d.Auth)
	reservationHandler := handler.NewReservationHandler(d.Reservations)
	csvHandler := handler.NewCSVHandler(d.CSVDelimiter, d.Log)
	authMiddleware := middleware.Auth(d.Auth)

	api := e.Group("/api")

	// --- Auth routes ---
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	// --- Reservation lookups (public, read-only) ---
	api.GET("/reservations/amenities/:amenityId", reservationHandler.ByAmenity)
	api.GET("/reservations/users/:userId", reservationHandler.ByUser)

	// --- CSV decoding (token required) ---
	api.POST("/csv/parse", csvHandler.Parse, authMiddleware)

	return e
}

func skipInfraPaths(c echo.Context) bool {
	p := c.Path()
	return p == "/metrics" || strings.HasPrefix(p, "/health") || strings.HasPrefix(p, "/swagger")
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Status >= http.StatusInternalServerError {
				evt = log.Error().Err(v.Error)
			}
			evt.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
