package ports

import (
	"context"

	"github.com/amenitybook/reservation-api/internal/core/domain"
)

// ReservationRepository defines read access to reservations and the
// destructive resync primitives used by the bulk import.
type ReservationRepository interface {
	// FindByAmenityAndDay returns the amenity's reservations in the given day
	// bucket, joined to the amenity name and ordered by start time.
	FindByAmenityAndDay(ctx context.Context, amenityID, dayBucket int64) ([]domain.AmenityReservation, error)
	// FindByUser returns the user's reservations ordered by date, then start time.
	FindByUser(ctx context.Context, userID int64) ([]domain.Reservation, error)

	AmenityIDs(ctx context.Context) ([]int64, error)

	// ReplaceAmenities and ReplaceReservations delete every existing row of
	// the entity type and insert the batch. Either all of it commits or none.
	ReplaceAmenities(ctx context.Context, amenities []domain.Amenity) error
	ReplaceReservations(ctx context.Context, reservations []domain.Reservation) error
}

// SchemaMigrator prepares tables, collections and indexes.
type SchemaMigrator interface {
	Migrate(ctx context.Context) error
}
