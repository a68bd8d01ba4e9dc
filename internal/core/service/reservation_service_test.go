package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/amenitybook/reservation-api/internal/core/domain"
)

func TestReservationService_ByAmenityAndDay_SortedAndFormatted(t *testing.T) {
	svc := NewReservationService(fixtureRepo(), nil, ReservationOptions{}, zerolog.Nop())

	slots, err := svc.ByAmenityAndDay(context.Background(), 1, 1593648000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(slots))
	}

	want := []domain.AmenitySlot{
		{ReservationID: 1, UserID: 2, StartTime: "05:00", Duration: 180, AmenityName: "Massage room"},
		{ReservationID: 2, UserID: 3, StartTime: "10:00", Duration: 120, AmenityName: "Massage room"},
	}
	for i := range want {
		if slots[i] != want[i] {
			t.Errorf("slot %d: want %+v, got %+v", i, want[i], slots[i])
		}
	}
}

func TestReservationService_ByAmenityAndDay_StableOnTies(t *testing.T) {
	repo := &stubReservationRepo{
		amenities: []domain.Amenity{{ID: 7, Name: "Sauna"}},
		reservations: []domain.Reservation{
			{ID: 30, AmenityID: 7, UserID: 1, StartTime: 600, EndTime: 660, Date: 0},
			{ID: 10, AmenityID: 7, UserID: 1, StartTime: 540, EndTime: 600, Date: 0},
			{ID: 20, AmenityID: 7, UserID: 2, StartTime: 600, EndTime: 630, Date: 0},
		},
	}
	svc := NewReservationService(repo, nil, ReservationOptions{}, zerolog.Nop())

	slots, err := svc.ByAmenityAndDay(context.Background(), 7, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	gotIDs := []int64{slots[0].ReservationID, slots[1].ReservationID, slots[2].ReservationID}
	wantIDs := []int64{10, 30, 20}
	for i := range wantIDs {
		if gotIDs[i] != wantIDs[i] {
			t.Fatalf("expected order %v, got %v", wantIDs, gotIDs)
		}
	}
}

func TestReservationService_ByAmenityAndDay_EmptyIsSuccess(t *testing.T) {
	svc := NewReservationService(fixtureRepo(), nil, ReservationOptions{}, zerolog.Nop())

	slots, err := svc.ByAmenityAndDay(context.Background(), 1, 9999999999)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if slots == nil || len(slots) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", slots)
	}
}

func TestReservationService_ByAmenityAndDay_RejectsNegativeDay(t *testing.T) {
	repo := fixtureRepo()
	svc := NewReservationService(repo, nil, ReservationOptions{}, zerolog.Nop())

	_, err := svc.ByAmenityAndDay(context.Background(), 1, -1)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if repo.findCalls != 0 {
		t.Fatal("store must not be queried for an invalid day")
	}
}

func TestReservationService_ByAmenityAndDay_StrictAlignment(t *testing.T) {
	svc := NewReservationService(fixtureRepo(), nil, ReservationOptions{StrictDayAlignment: true}, zerolog.Nop())

	if _, err := svc.ByAmenityAndDay(context.Background(), 1, 1593648001); !errors.Is(err, domain.ErrDayNotAligned) {
		t.Fatalf("expected ErrDayNotAligned, got %v", err)
	}
	if _, err := svc.ByAmenityAndDay(context.Background(), 1, 1593648000); err != nil {
		t.Fatalf("aligned day rejected: %v", err)
	}
}

func TestReservationService_ByAmenityAndDay_StoreError(t *testing.T) {
	repo := fixtureRepo()
	repo.findErr = errors.New("db down")
	svc := NewReservationService(repo, nil, ReservationOptions{}, zerolog.Nop())

	slots, err := svc.ByAmenityAndDay(context.Background(), 1, 1593648000)
	if err == nil {
		t.Fatal("expected error")
	}
	if slots != nil {
		t.Fatal("no partial results on failure")
	}
}

func TestReservationService_ByAmenityAndDay_UsesCache(t *testing.T) {
	repo := fixtureRepo()
	cache := newStubCache()
	svc := NewReservationService(repo, cache, ReservationOptions{}, zerolog.Nop())

	first, err := svc.ByAmenityAndDay(context.Background(), 1, 1593648000)
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.ByAmenityAndDay(context.Background(), 1, 1593648000)
	if err != nil {
		t.Fatal(err)
	}
	if repo.findCalls != 1 {
		t.Fatalf("expected one store query, got %d", repo.findCalls)
	}
	if len(first) != len(second) || first[0] != second[0] {
		t.Fatalf("cached result differs: %+v vs %+v", first, second)
	}
}

func TestReservationService_CacheErrorFallsBackToStore(t *testing.T) {
	repo := fixtureRepo()
	cache := newStubCache()
	cache.getErr = errors.New("redis timeout")
	svc := NewReservationService(repo, cache, ReservationOptions{}, zerolog.Nop())

	slots, err := svc.ByAmenityAndDay(context.Background(), 1, 1593648000)
	if err != nil {
		t.Fatalf("cache failure must not fail the query: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(slots))
	}
}

func TestReservationService_ByUser_GroupsByDay(t *testing.T) {
	svc := NewReservationService(fixtureRepo(), nil, ReservationOptions{}, zerolog.Nop())

	schedule, err := svc.ByUser(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(schedule) != 2 {
		t.Fatalf("expected 2 day buckets, got %d", len(schedule))
	}

	day1 := schedule["1593648000000"]
	if len(day1) != 1 || day1[0] != (domain.UserSlot{ReservationID: 1, AmenityID: 1, StartTime: "05:00", Duration: 180}) {
		t.Fatalf("unexpected day1: %+v", day1)
	}

	day2 := schedule["1593820800000"]
	if len(day2) != 2 {
		t.Fatalf("expected 2 entries on day2, got %d", len(day2))
	}
	if day2[0] != (domain.UserSlot{ReservationID: 4, AmenityID: 1, StartTime: "07:00", Duration: 180}) {
		t.Errorf("unexpected day2[0]: %+v", day2[0])
	}
	if day2[1] != (domain.UserSlot{ReservationID: 5, AmenityID: 2, StartTime: "12:00", Duration: 180}) {
		t.Errorf("unexpected day2[1]: %+v", day2[1])
	}
}

func TestReservationService_ByUser_NoReservations(t *testing.T) {
	svc := NewReservationService(fixtureRepo(), nil, ReservationOptions{}, zerolog.Nop())

	schedule, err := svc.ByUser(context.Background(), 999)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if schedule == nil || len(schedule) != 0 {
		t.Fatalf("expected empty non-nil map, got %#v", schedule)
	}
}

func TestReservationService_ByUser_StoreError(t *testing.T) {
	repo := fixtureRepo()
	repo.findErr = errors.New("db down")
	svc := NewReservationService(repo, nil, ReservationOptions{}, zerolog.Nop())

	if _, err := svc.ByUser(context.Background(), 2); err == nil {
		t.Fatal("expected error")
	}
}
