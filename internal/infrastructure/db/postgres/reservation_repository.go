package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/amenitybook/reservation-api/internal/core/domain"
)

// insertBatchSize keeps each multi-row INSERT well below PostgreSQL's
// 65535 bind parameter limit.
const insertBatchSize = 1000

const replaceTimeout = 2 * time.Minute

// ReservationRepository implements ports.ReservationRepository on PostgreSQL.
type ReservationRepository struct {
	db *sqlx.DB
}

func NewReservationRepository(db *sqlx.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

const (
	queryByAmenityAndDay = `SELECT r.id, r.amenity_id, r.user_id, r.start_time, r.end_time, r.date, a.name AS amenity_name
FROM reservations r
JOIN amenities a ON a.id = r.amenity_id
WHERE r.amenity_id = $1 AND r.date = $2
ORDER BY r.start_time, r.id`

	queryByUser = `SELECT id, amenity_id, user_id, start_time, end_time, date
FROM reservations
WHERE user_id = $1
ORDER BY date, start_time, id`

	queryAmenityIDs = `SELECT id FROM amenities ORDER BY id`

	insertAmenities    = `INSERT INTO amenities (id, name) VALUES (:id, :name)`
	insertReservations = `INSERT INTO reservations (id, amenity_id, user_id, start_time, end_time, date) VALUES (:id, :amenity_id, :user_id, :start_time, :end_time, :date)`
)

func (r *ReservationRepository) FindByAmenityAndDay(ctx context.Context, amenityID, dayBucket int64) ([]domain.AmenityReservation, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	out := make([]domain.AmenityReservation, 0)
	if err := r.db.SelectContext(ctx, &out, queryByAmenityAndDay, amenityID, dayBucket); err != nil {
		return nil, fmt.Errorf("select reservations by amenity: %w", err)
	}
	return out, nil
}

func (r *ReservationRepository) FindByUser(ctx context.Context, userID int64) ([]domain.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	out := make([]domain.Reservation, 0)
	if err := r.db.SelectContext(ctx, &out, queryByUser, userID); err != nil {
		return nil, fmt.Errorf("select reservations by user: %w", err)
	}
	return out, nil
}

func (r *ReservationRepository) AmenityIDs(ctx context.Context) ([]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	ids := make([]int64, 0)
	if err := r.db.SelectContext(ctx, &ids, queryAmenityIDs); err != nil {
		return nil, fmt.Errorf("select amenity ids: %w", err)
	}
	return ids, nil
}

func (r *ReservationRepository) ReplaceAmenities(ctx context.Context, amenities []domain.Amenity) error {
	return r.replace(ctx, "amenities", func(tx *sqlx.Tx) error {
		return insertChunks(ctx, tx, insertAmenities, amenities)
	})
}

func (r *ReservationRepository) ReplaceReservations(ctx context.Context, reservations []domain.Reservation) error {
	return r.replace(ctx, "reservations", func(tx *sqlx.Tx) error {
		return insertChunks(ctx, tx, insertReservations, reservations)
	})
}

// replace clears table and runs insert in the same transaction.
func (r *ReservationRepository) replace(ctx context.Context, table string, insert func(*sqlx.Tx) error) (err error) {
	ctx, cancel := context.WithTimeout(ctx, replaceTimeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace %s: begin: %w", table, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// table is always a literal from this file.
	if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return fmt.Errorf("replace %s: clear: %w", table, err)
	}
	if err = insert(tx); err != nil {
		return fmt.Errorf("replace %s: %w", table, err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("replace %s: commit: %w", table, err)
	}
	return nil
}

func insertChunks[T any](ctx context.Context, tx *sqlx.Tx, query string, rows []T) error {
	for start := 0; start < len(rows); start += insertBatchSize {
		end := min(start+insertBatchSize, len(rows))
		if _, err := tx.NamedExecContext(ctx, query, rows[start:end]); err != nil {
			return fmt.Errorf("insert rows %d-%d: %w", start+1, end, err)
		}
	}
	return nil
}
