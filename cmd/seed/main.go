// Command seed loads amenity and reservation CSV files into the configured
// store, replacing whatever was there.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"unicode/utf8"

	"github.com/amenitybook/reservation-api/internal/core/ports"
	"github.com/amenitybook/reservation-api/internal/core/service"
	"github.com/amenitybook/reservation-api/internal/infrastructure/config"
	"github.com/amenitybook/reservation-api/internal/infrastructure/storage"
	"github.com/amenitybook/reservation-api/internal/pkg/csvrecords"
	"github.com/amenitybook/reservation-api/pkg/logger"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log := logger.Get()
		log.Error().Err(err).Msg("seed failed")
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	amenitiesPath := fs.String("amenities", "data/amenity.csv", "amenity CSV file (id;name)")
	reservationsPath := fs.String("reservations", "data/reservations.csv", "reservation CSV file (id;amenity_id;user_id;start_time;end_time;date)")
	delimiter := fs.String("delimiter", "", "field delimiter; defaults to CSV_DELIMITER")
	migrateOnly := fs.Bool("migrate-only", false, "create the schema and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.IsDevelopment(), Service: "reservation-seed"})

	opts := csvrecords.Options{Delimiter: cfg.Delimiter()}
	if *delimiter != "" {
		if utf8.RuneCountInString(*delimiter) != 1 {
			return fmt.Errorf("delimiter must be a single character, got %q", *delimiter)
		}
		opts.Delimiter, _ = utf8.DecodeRuneInString(*delimiter)
	}

	store, err := storage.Open(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			log.Warn().Err(err).Msg("store close failed")
		}
	}()

	if err := store.Migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	log.Info().Str("driver", cfg.Store.Driver).Msg("schema ready")
	if *migrateOnly {
		return nil
	}

	amenities, err := csvrecords.DecodeFile(*amenitiesPath, opts)
	if err != nil {
		return fmt.Errorf("read %s: %w", *amenitiesPath, err)
	}
	reservations, err := csvrecords.DecodeFile(*reservationsPath, opts)
	if err != nil {
		return fmt.Errorf("read %s: %w", *reservationsPath, err)
	}

	var schedules ports.ScheduleCache
	cache, err := storage.OpenCache(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	if cache != nil {
		defer cache.Close()
		schedules = cache.Schedules
	}

	result, err := service.NewImportService(store.Reservations, schedules, log).Seed(ctx, amenities, reservations)
	if err != nil {
		return err
	}
	log.Info().
		Str("batch_id", result.BatchID).
		Int("amenities", result.Amenities).
		Int("reservations", result.Reservations).
		Msg("seed complete")
	return nil
}
