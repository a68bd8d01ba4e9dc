package service

import (
	"context"
	"slices"
	"sync"

	"github.com/amenitybook/reservation-api/internal/core/domain"
)

// stubReservationRepo is an in-memory ReservationRepository that orders
// results the way the real stores do.
type stubReservationRepo struct {
	mu           sync.Mutex
	amenities    []domain.Amenity
	reservations []domain.Reservation

	findErr     error
	replaceErr  error
	findCalls   int
	replaceCall int
}

func (r *stubReservationRepo) amenityName(id int64) string {
	for _, a := range r.amenities {
		if a.ID == id {
			return a.Name
		}
	}
	return ""
}

func (r *stubReservationRepo) FindByAmenityAndDay(_ context.Context, amenityID, dayBucket int64) ([]domain.AmenityReservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.findCalls++
	if r.findErr != nil {
		return nil, r.findErr
	}
	var out []domain.AmenityReservation
	for _, res := range r.reservations {
		if res.AmenityID == amenityID && res.Date == dayBucket {
			out = append(out, domain.AmenityReservation{Reservation: res, AmenityName: r.amenityName(res.AmenityID)})
		}
	}
	return out, nil
}

func (r *stubReservationRepo) FindByUser(_ context.Context, userID int64) ([]domain.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.findCalls++
	if r.findErr != nil {
		return nil, r.findErr
	}
	var out []domain.Reservation
	for _, res := range r.reservations {
		if res.UserID == userID {
			out = append(out, res)
		}
	}
	slices.SortStableFunc(out, func(a, b domain.Reservation) int {
		if a.Date != b.Date {
			if a.Date < b.Date {
				return -1
			}
			return 1
		}
		return a.StartTime - b.StartTime
	})
	return out, nil
}

func (r *stubReservationRepo) AmenityIDs(context.Context) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	ids := make([]int64, 0, len(r.amenities))
	for _, a := range r.amenities {
		ids = append(ids, a.ID)
	}
	return ids, nil
}

func (r *stubReservationRepo) ReplaceAmenities(_ context.Context, amenities []domain.Amenity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replaceCall++
	if r.replaceErr != nil {
		return r.replaceErr
	}
	r.amenities = slices.Clone(amenities)
	return nil
}

func (r *stubReservationRepo) ReplaceReservations(_ context.Context, reservations []domain.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replaceCall++
	if r.replaceErr != nil {
		return r.replaceErr
	}
	r.reservations = slices.Clone(reservations)
	return nil
}

// stubCache is an in-memory ScheduleCache.
type stubCache struct {
	amenity     map[[2]int64][]domain.AmenitySlot
	user        map[int64]domain.UserSchedule
	getErr      error
	invalidated int
}

func newStubCache() *stubCache {
	return &stubCache{
		amenity: make(map[[2]int64][]domain.AmenitySlot),
		user:    make(map[int64]domain.UserSchedule),
	}
}

func (c *stubCache) GetAmenityDay(_ context.Context, amenityID, dayBucket int64) ([]domain.AmenitySlot, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	slots, ok := c.amenity[[2]int64{amenityID, dayBucket}]
	return slots, ok, nil
}

func (c *stubCache) SetAmenityDay(_ context.Context, amenityID, dayBucket int64, slots []domain.AmenitySlot) error {
	c.amenity[[2]int64{amenityID, dayBucket}] = slots
	return nil
}

func (c *stubCache) GetUserSchedule(_ context.Context, userID int64) (domain.UserSchedule, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	s, ok := c.user[userID]
	return s, ok, nil
}

func (c *stubCache) SetUserSchedule(_ context.Context, userID int64, schedule domain.UserSchedule) error {
	c.user[userID] = schedule
	return nil
}

func (c *stubCache) Invalidate(context.Context) error {
	c.invalidated++
	c.amenity = make(map[[2]int64][]domain.AmenitySlot)
	c.user = make(map[int64]domain.UserSchedule)
	return nil
}

// fixtureRepo mirrors the reservation fixtures used across the API tests.
func fixtureRepo() *stubReservationRepo {
	return &stubReservationRepo{
		amenities: []domain.Amenity{
			{ID: 1, Name: "Massage room"},
			{ID: 2, Name: "Gym"},
		},
		reservations: []domain.Reservation{
			{ID: 2, AmenityID: 1, UserID: 3, StartTime: 600, EndTime: 720, Date: 1593648000000},
			{ID: 1, AmenityID: 1, UserID: 2, StartTime: 300, EndTime: 480, Date: 1593648000000},
			{ID: 3, AmenityID: 2, UserID: 4, StartTime: 360, EndTime: 420, Date: 1593820800000},
			{ID: 5, AmenityID: 2, UserID: 2, StartTime: 720, EndTime: 900, Date: 1593820800000},
			{ID: 4, AmenityID: 1, UserID: 2, StartTime: 420, EndTime: 600, Date: 1593820800000},
		},
	}
}
