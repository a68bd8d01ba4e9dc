package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/rs/zerolog"

	"github.com/amenitybook/reservation-api/internal/core/domain"
	"github.com/amenitybook/reservation-api/internal/core/ports"
)

// ReservationOptions controls day-bucket validation.
type ReservationOptions struct {
	// StrictDayAlignment rejects day values that are not 00:00 UTC instead of
	// looking them up as-is.
	StrictDayAlignment bool
}

type ReservationService struct {
	repo  ports.ReservationRepository
	cache ports.ScheduleCache
	opts  ReservationOptions
	log   zerolog.Logger
}

// NewReservationService returns a ReservationService. A nil cache disables caching.
func NewReservationService(repo ports.ReservationRepository, cache ports.ScheduleCache, opts ReservationOptions, log zerolog.Logger) *ReservationService {
	if cache == nil {
		cache = NopScheduleCache{}
	}
	return &ReservationService{repo: repo, cache: cache, opts: opts, log: log}
}

// ByAmenityAndDay returns the amenity's schedule for the day starting at
// daySeconds, ordered by start time. No matches is an empty, non-nil slice.
func (s *ReservationService) ByAmenityAndDay(ctx context.Context, amenityID, daySeconds int64) ([]domain.AmenitySlot, error) {
	bucket, err := domain.DayBucketFromSeconds(daySeconds)
	if err != nil {
		return nil, err
	}
	if s.opts.StrictDayAlignment && !domain.IsDayAligned(daySeconds) {
		return nil, domain.ErrDayNotAligned
	}

	if slots, ok, err := s.cache.GetAmenityDay(ctx, amenityID, bucket); err != nil {
		s.log.Warn().Err(err).Int64("amenity_id", amenityID).Msg("schedule cache read failed")
	} else if ok {
		return slots, nil
	}

	rows, err := s.repo.FindByAmenityAndDay(ctx, amenityID, bucket)
	if err != nil {
		return nil, fmt.Errorf("reservations by amenity: %w", err)
	}

	slices.SortStableFunc(rows, func(a, b domain.AmenityReservation) int {
		return cmp.Compare(a.StartTime, b.StartTime)
	})

	slots := make([]domain.AmenitySlot, 0, len(rows))
	for _, r := range rows {
		slots = append(slots, domain.AmenitySlot{
			ReservationID: r.ID,
			UserID:        r.UserID,
			StartTime:     domain.FormatClock(r.StartTime),
			Duration:      r.Duration(),
			AmenityName:   r.AmenityName,
		})
	}

	if err := s.cache.SetAmenityDay(ctx, amenityID, bucket, slots); err != nil {
		s.log.Warn().Err(err).Int64("amenity_id", amenityID).Msg("schedule cache write failed")
	}
	return slots, nil
}

// ByUser returns the user's reservations grouped by day bucket. Within a
// bucket entries keep the store's start-time order.
func (s *ReservationService) ByUser(ctx context.Context, userID int64) (domain.UserSchedule, error) {
	if schedule, ok, err := s.cache.GetUserSchedule(ctx, userID); err != nil {
		s.log.Warn().Err(err).Int64("user_id", userID).Msg("schedule cache read failed")
	} else if ok {
		return schedule, nil
	}

	rows, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("reservations by user: %w", err)
	}

	schedule := make(domain.UserSchedule)
	for _, r := range rows {
		key := domain.BucketKey(r.Date)
		schedule[key] = append(schedule[key], domain.UserSlot{
			ReservationID: r.ID,
			AmenityID:     r.AmenityID,
			StartTime:     domain.FormatClock(r.StartTime),
			Duration:      r.Duration(),
		})
	}

	if err := s.cache.SetUserSchedule(ctx, userID, schedule); err != nil {
		s.log.Warn().Err(err).Int64("user_id", userID).Msg("schedule cache write failed")
	}
	return schedule, nil
}

// NopScheduleCache never hits and never stores.
type NopScheduleCache struct{}

func (NopScheduleCache) GetAmenityDay(context.Context, int64, int64) ([]domain.AmenitySlot, bool, error) {
	return nil, false, nil
}

func (NopScheduleCache) SetAmenityDay(context.Context, int64, int64, []domain.AmenitySlot) error {
	return nil
}

func (NopScheduleCache) GetUserSchedule(context.Context, int64) (domain.UserSchedule, bool, error) {
	return nil, false, nil
}

func (NopScheduleCache) SetUserSchedule(context.Context, int64, domain.UserSchedule) error {
	return nil
}

func (NopScheduleCache) Invalidate(context.Context) error { return nil }
