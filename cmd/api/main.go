// Command api serves the amenity reservation lookups and the credential
// endpoints over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amenitybook/reservation-api/internal/api"
	"github.com/amenitybook/reservation-api/internal/core/ports"
	"github.com/amenitybook/reservation-api/internal/core/service"
	"github.com/amenitybook/reservation-api/internal/infrastructure/config"
	"github.com/amenitybook/reservation-api/internal/infrastructure/storage"
	"github.com/amenitybook/reservation-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title                      Amenity Reservation API
// @version                    1.0
// @description                Schedule lookups for amenity reservations and user credentials.
// @BasePath                   /
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
func main() {
	if err := run(); err != nil {
		log := logger.Get()
		log.Error().Err(err).Msg("api failed")
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "reservation-api",
	})

	store, err := storage.Open(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			log.Warn().Err(err).Msg("store close failed")
		}
	}()

	if cfg.Store.AutoMigrate {
		if err := store.Migrator.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		log.Info().Str("driver", cfg.Store.Driver).Msg("schema ready")
	}

	healthDeps := maps.Clone(store.Pingers)
	var schedules ports.ScheduleCache
	cache, err := storage.OpenCache(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	if cache != nil {
		defer cache.Close()
		schedules = cache.Schedules
		healthDeps["redis"] = cache.Pinger
	}

	authSvc, err := service.NewAuthService(store.Auth, cfg.Auth.JWTSecret, service.AuthOptions{
		TokenTTL:   cfg.Auth.TokenTTL,
		BcryptCost: cfg.Auth.BcryptCost,
	}, log)
	if err != nil {
		return err
	}
	reservationSvc := service.NewReservationService(store.Reservations, schedules, service.ReservationOptions{
		StrictDayAlignment: cfg.Reservations.StrictDayAlignment,
	}, log)

	e := api.NewRouter(api.Deps{
		Auth:          authSvc,
		Reservations:  reservationSvc,
		CSVDelimiter:  cfg.Delimiter(),
		MaxUploadSize: cfg.Upload.MaxUploadSize,
		HealthDeps:    healthDeps,
		Log:           log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
