package ports

import (
	"context"

	"github.com/amenitybook/reservation-api/internal/core/domain"
)

// ReservationService defines the schedule lookups exposed to clients.
type ReservationService interface {
	ByAmenityAndDay(ctx context.Context, amenityID, daySeconds int64) ([]domain.AmenitySlot, error)
	ByUser(ctx context.Context, userID int64) (domain.UserSchedule, error)
}

// ScheduleCache stores computed schedules between imports.
type ScheduleCache interface {
	GetAmenityDay(ctx context.Context, amenityID, dayBucket int64) ([]domain.AmenitySlot, bool, error)
	SetAmenityDay(ctx context.Context, amenityID, dayBucket int64, slots []domain.AmenitySlot) error
	GetUserSchedule(ctx context.Context, userID int64) (domain.UserSchedule, bool, error)
	SetUserSchedule(ctx context.Context, userID int64, schedule domain.UserSchedule) error
	// Invalidate drops every cached schedule.
	Invalidate(ctx context.Context) error
}
