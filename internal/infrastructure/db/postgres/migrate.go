package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schema is applied in order inside one transaction. Every statement is
// idempotent. Reservations carry no foreign key: amenity references are
// checked by the import before the batch is written.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
	id            BIGSERIAL PRIMARY KEY,
	username      TEXT        NOT NULL,
	password_hash TEXT        NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	CONSTRAINT users_username_key UNIQUE (username)
)`,
	`CREATE TABLE IF NOT EXISTS amenities (
	id   BIGINT PRIMARY KEY,
	name TEXT   NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS reservations (
	id         BIGINT  PRIMARY KEY,
	amenity_id BIGINT  NOT NULL,
	user_id    BIGINT  NOT NULL,
	start_time INTEGER NOT NULL,
	end_time   INTEGER NOT NULL,
	date       BIGINT  NOT NULL,
	CONSTRAINT reservations_time_range CHECK (start_time >= 0 AND start_time < end_time AND end_time <= 1440),
	CONSTRAINT reservations_date_positive CHECK (date >= 0)
)`,
	`CREATE INDEX IF NOT EXISTS idx_reservation_amenity_date ON reservations (amenity_id, date, start_time)`,
	`CREATE INDEX IF NOT EXISTS idx_reservation_user_date ON reservations (user_id, date, start_time)`,
}

// Migrator creates the tables and indexes the repositories rely on.
type Migrator struct {
	db *sqlx.DB
}

func NewMigrator(db *sqlx.DB) *Migrator {
	return &Migrator{db: db}
}

func (m *Migrator) Migrate(ctx context.Context) (err error) {
	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for i, stmt := range schema {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration step %d: %w", i+1, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit migration: %w", err)
	}
	return nil
}
