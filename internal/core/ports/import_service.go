package ports

import (
	"context"

	"github.com/amenitybook/reservation-api/internal/core/domain"
)

// Record is one decoded tabular row keyed by column header.
type Record = map[string]string

// ImportService converts decoded rows into validated batches and replaces
// the stored entities with them.
type ImportService interface {
	ImportAmenities(ctx context.Context, rows []Record) (*domain.ImportResult, error)
	ImportReservations(ctx context.Context, rows []Record) (*domain.ImportResult, error)
	Seed(ctx context.Context, amenities, reservations []Record) (*domain.ImportResult, error)
}
