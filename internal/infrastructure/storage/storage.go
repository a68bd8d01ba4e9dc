// Package storage wires the configured store driver and the optional
// schedule cache into the ports the services consume.
package storage

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/amenitybook/reservation-api/internal/core/ports"
	"github.com/amenitybook/reservation-api/internal/infrastructure/config"
	mongostore "github.com/amenitybook/reservation-api/internal/infrastructure/db/mongo"
	pgstore "github.com/amenitybook/reservation-api/internal/infrastructure/db/postgres"
	redisstore "github.com/amenitybook/reservation-api/internal/infrastructure/db/redis"
	"github.com/amenitybook/reservation-api/internal/infrastructure/http/handlers"
)

// Store bundles the repositories of one backing database.
type Store struct {
	Auth         ports.AuthRepository
	Reservations ports.ReservationRepository
	Migrator     ports.SchemaMigrator
	// Pingers is keyed by the dependency name shown on /health/ready.
	Pingers map[string]handlers.Pinger
	Close   func(ctx context.Context) error
}

// Open connects to the database selected by STORE_DRIVER.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Store, error) {
	switch cfg.Store.Driver {
	case config.DriverMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")
		return &Store{
			Auth:         mongostore.NewAuthRepository(db),
			Reservations: mongostore.NewReservationRepository(db),
			Migrator:     mongostore.NewMigrator(db),
			Pingers:      map[string]handlers.Pinger{"mongodb": mongostore.NewPinger(client)},
			Close:        client.Disconnect,
		}, nil

	case config.DriverPostgres:
		db, err := pgstore.Connect(ctx, pgstore.Config{DSN: cfg.Postgres.DSN, Driver: cfg.Postgres.Driver})
		if err != nil {
			return nil, err
		}
		log.Info().Str("driver", cfg.Postgres.Driver).Msg("connected to postgres")
		return &Store{
			Auth:         pgstore.NewAuthRepository(db),
			Reservations: pgstore.NewReservationRepository(db),
			Migrator:     pgstore.NewMigrator(db),
			Pingers:      map[string]handlers.Pinger{"postgres": pgstore.NewPinger(db)},
			Close:        func(context.Context) error { return db.Close() },
		}, nil
	}

	return nil, fmt.Errorf("storage: unsupported driver %q", cfg.Store.Driver)
}

// Cache is the optional Redis-backed schedule cache.
type Cache struct {
	Schedules ports.ScheduleCache
	Pinger    handlers.Pinger
	Close     func() error
}

// OpenCache connects to Redis. It returns nil, nil when REDIS_ADDR is empty.
func OpenCache(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Cache, error) {
	if cfg.Redis.Addr == "" {
		log.Info().Msg("schedule cache disabled")
		return nil, nil
	}

	client, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		return nil, err
	}
	log.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.Redis.CacheTTL).Msg("schedule cache enabled")

	return &Cache{
		Schedules: redisstore.NewScheduleCache(client, cfg.Redis.CacheTTL),
		Pinger:    redisstore.NewPinger(client),
		Close:     client.Close,
	}, nil
}
