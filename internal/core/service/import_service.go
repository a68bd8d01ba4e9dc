package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/amenitybook/reservation-api/internal/core/domain"
	"github.com/amenitybook/reservation-api/internal/core/ports"
)

// ImportService turns decoded CSV rows into amenity and reservation batches
// and swaps them into the store.
type ImportService struct {
	repo  ports.ReservationRepository
	cache ports.ScheduleCache
	log   zerolog.Logger
}

func NewImportService(repo ports.ReservationRepository, cache ports.ScheduleCache, log zerolog.Logger) *ImportService {
	if cache == nil {
		cache = NopScheduleCache{}
	}
	return &ImportService{repo: repo, cache: cache, log: log}
}

// ImportAmenities validates every row and then replaces all amenities.
func (s *ImportService) ImportAmenities(ctx context.Context, rows []ports.Record) (*domain.ImportResult, error) {
	result := &domain.ImportResult{BatchID: uuid.NewString()}
	n, err := s.importAmenities(ctx, result.BatchID, rows)
	if err != nil {
		return nil, err
	}
	result.Amenities = n
	s.invalidate(ctx, result.BatchID)
	return result, nil
}

// ImportReservations validates every row, including that each amenity_id is
// already stored, and then replaces all reservations.
func (s *ImportService) ImportReservations(ctx context.Context, rows []ports.Record) (*domain.ImportResult, error) {
	result := &domain.ImportResult{BatchID: uuid.NewString()}
	n, err := s.importReservations(ctx, result.BatchID, rows)
	if err != nil {
		return nil, err
	}
	result.Reservations = n
	s.invalidate(ctx, result.BatchID)
	return result, nil
}

// Seed imports amenities, then reservations. Each entity type commits on its
// own; a reservation failure leaves the freshly imported amenities in place.
func (s *ImportService) Seed(ctx context.Context, amenities, reservations []ports.Record) (*domain.ImportResult, error) {
	result := &domain.ImportResult{BatchID: uuid.NewString()}
	defer s.invalidate(ctx, result.BatchID)

	n, err := s.importAmenities(ctx, result.BatchID, amenities)
	if err != nil {
		return nil, err
	}
	result.Amenities = n

	n, err = s.importReservations(ctx, result.BatchID, reservations)
	if err != nil {
		return nil, err
	}
	result.Reservations = n

	return result, nil
}

func (s *ImportService) importAmenities(ctx context.Context, batchID string, rows []ports.Record) (int, error) {
	amenities, err := parseAmenities(rows)
	if err != nil {
		return 0, err
	}
	if err := s.repo.ReplaceAmenities(ctx, amenities); err != nil {
		return 0, fmt.Errorf("import amenities: %w", err)
	}
	s.log.Info().Str("batch_id", batchID).Int("rows", len(amenities)).Msg("amenities imported")
	return len(amenities), nil
}

func (s *ImportService) importReservations(ctx context.Context, batchID string, rows []ports.Record) (int, error) {
	reservations, err := parseReservations(rows)
	if err != nil {
		return 0, err
	}

	ids, err := s.repo.AmenityIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("import reservations: %w", err)
	}
	known := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		known[id] = struct{}{}
	}
	for i, r := range reservations {
		if _, ok := known[r.AmenityID]; !ok {
			return 0, fmt.Errorf("%w: row %d: amenity_id %d", domain.ErrAmenityNotFound, i+1, r.AmenityID)
		}
	}

	if err := s.repo.ReplaceReservations(ctx, reservations); err != nil {
		return 0, fmt.Errorf("import reservations: %w", err)
	}
	s.log.Info().Str("batch_id", batchID).Int("rows", len(reservations)).Msg("reservations imported")
	return len(reservations), nil
}

func (s *ImportService) invalidate(ctx context.Context, batchID string) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn().Err(err).Str("batch_id", batchID).Msg("schedule cache invalidation failed")
	}
}

func parseAmenities(rows []ports.Record) ([]domain.Amenity, error) {
	out := make([]domain.Amenity, 0, len(rows))
	seen := make(map[int64]struct{}, len(rows))
	for i, row := range rows {
		p := rowParser{row: row, line: i + 1}
		a := domain.Amenity{ID: p.int64("id"), Name: p.str("name")}
		if p.err != nil {
			return nil, p.err
		}
		if _, dup := seen[a.ID]; dup {
			return nil, rowError(i+1, fmt.Sprintf("duplicate id %d", a.ID))
		}
		seen[a.ID] = struct{}{}
		out = append(out, a)
	}
	return out, nil
}

func parseReservations(rows []ports.Record) ([]domain.Reservation, error) {
	out := make([]domain.Reservation, 0, len(rows))
	seen := make(map[int64]struct{}, len(rows))
	for i, row := range rows {
		p := rowParser{row: row, line: i + 1}
		r := domain.Reservation{
			ID:        p.int64("id"),
			AmenityID: p.int64("amenity_id"),
			UserID:    p.int64("user_id"),
			StartTime: int(p.int64("start_time")),
			EndTime:   int(p.int64("end_time")),
			Date:      p.int64("date"),
		}
		if p.err != nil {
			return nil, p.err
		}
		if !r.Validate() {
			return nil, rowError(i+1, fmt.Sprintf("invalid time range %d-%d", r.StartTime, r.EndTime))
		}
		if r.Date < 0 {
			return nil, rowError(i+1, "date is negative")
		}
		if _, dup := seen[r.ID]; dup {
			return nil, rowError(i+1, fmt.Sprintf("duplicate id %d", r.ID))
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}
	return out, nil
}

// rowParser reads typed columns from a record and keeps the first error.
type rowParser struct {
	row  ports.Record
	line int
	err  error
}

func (p *rowParser) str(col string) string {
	if p.err != nil {
		return ""
	}
	v, ok := p.row[col]
	if !ok {
		p.err = rowError(p.line, "missing column "+col)
		return ""
	}
	return strings.TrimSpace(v)
}

func (p *rowParser) int64(col string) int64 {
	v := p.str(col)
	if p.err != nil {
		return 0
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		p.err = rowError(p.line, fmt.Sprintf("%s: %q is not an integer", col, v))
		return 0
	}
	return n
}

func rowError(line int, msg string) error {
	return fmt.Errorf("%w: row %d: %s", domain.ErrInvalidImportRow, line, msg)
}
