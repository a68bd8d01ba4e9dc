package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/amenitybook/reservation-api/internal/core/domain"
)

type stubReservationService struct {
	byAmenityFn func(ctx context.Context, amenityID, daySeconds int64) ([]domain.AmenitySlot, error)
	byUserFn    func(ctx context.Context, userID int64) (domain.UserSchedule, error)
}

func (s *stubReservationService) ByAmenityAndDay(ctx context.Context, amenityID, daySeconds int64) ([]domain.AmenitySlot, error) {
	return s.byAmenityFn(ctx, amenityID, daySeconds)
}

func (s *stubReservationService) ByUser(ctx context.Context, userID int64) (domain.UserSchedule, error) {
	return s.byUserFn(ctx, userID)
}

func TestReservationHandler_ByAmenity_Success(t *testing.T) {
	e := newEcho()
	stub := &stubReservationService{
		byAmenityFn: func(ctx context.Context, amenityID, daySeconds int64) ([]domain.AmenitySlot, error) {
			if amenityID != 1 || daySeconds != 1593648000 {
				t.Fatalf("unexpected args: %d %d", amenityID, daySeconds)
			}
			return []domain.AmenitySlot{
				{ReservationID: 1, UserID: 2, StartTime: "05:00", Duration: 180, AmenityName: "Massage room"},
			}, nil
		},
	}
	handler := NewReservationHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/api/reservations/amenities/1?date=1593648000", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("amenityId")
	c.SetParamValues("1")

	if err := handler.ByAmenity(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	want := `[{"reservationId":1,"userId":2,"startTime":"05:00","duration":180,"amenityName":"Massage room"}]` + "\n"
	if rec.Body.String() != want {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestReservationHandler_ByAmenity_EmptyArray(t *testing.T) {
	e := newEcho()
	stub := &stubReservationService{
		byAmenityFn: func(ctx context.Context, amenityID, daySeconds int64) ([]domain.AmenitySlot, error) {
			return []domain.AmenitySlot{}, nil
		},
	}
	handler := NewReservationHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/reservations/amenities/1?date=9999999999", nil), rec)
	c.SetParamNames("amenityId")
	c.SetParamValues("1")

	if err := handler.ByAmenity(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Body.String() != "[]\n" {
		t.Fatalf("expected empty array, got %s", rec.Body.String())
	}
}

func TestReservationHandler_ByAmenity_BadDate(t *testing.T) {
	for _, target := range []string{
		"/api/reservations/amenities/1",
		"/api/reservations/amenities/1?date=",
		"/api/reservations/amenities/1?date=tomorrow",
		"/api/reservations/amenities/1?date=%2B1593648000",
		"/api/reservations/amenities/1?date=+1593648000",
	} {
		t.Run(target, func(t *testing.T) {
			e := newEcho()
			stub := &stubReservationService{
				byAmenityFn: func(ctx context.Context, amenityID, daySeconds int64) ([]domain.AmenitySlot, error) {
					t.Fatalf("should not be called")
					return nil, nil
				},
			}
			handler := NewReservationHandler(stub)

			c := e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), httptest.NewRecorder())
			c.SetParamNames("amenityId")
			c.SetParamValues("1")

			if err := handler.ByAmenity(c); !errors.Is(err, domain.ErrInvalidDay) {
				t.Fatalf("expected ErrInvalidDay, got %v", err)
			}
		})
	}
}

func TestReservationHandler_ByAmenity_NegativeDatePassesThroughService(t *testing.T) {
	e := newEcho()
	stub := &stubReservationService{
		byAmenityFn: func(ctx context.Context, amenityID, daySeconds int64) ([]domain.AmenitySlot, error) {
			return nil, domain.ErrInvalidDay
		},
	}
	handler := NewReservationHandler(stub)

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/reservations/amenities/1?date=-1", nil), httptest.NewRecorder())
	c.SetParamNames("amenityId")
	c.SetParamValues("1")

	if err := handler.ByAmenity(c); !errors.Is(err, domain.ErrInvalidDay) {
		t.Fatalf("expected ErrInvalidDay, got %v", err)
	}
}

func TestReservationHandler_ByAmenity_BadID(t *testing.T) {
	e := newEcho()
	handler := NewReservationHandler(&stubReservationService{})

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/reservations/amenities/gym?date=0", nil), httptest.NewRecorder())
	c.SetParamNames("amenityId")
	c.SetParamValues("gym")

	expectHTTPError(t, handler.ByAmenity(c), http.StatusBadRequest, "amenityId must be an integer")
}

func TestReservationHandler_ByUser_Success(t *testing.T) {
	e := newEcho()
	stub := &stubReservationService{
		byUserFn: func(ctx context.Context, userID int64) (domain.UserSchedule, error) {
			if userID != 2 {
				t.Fatalf("unexpected user id: %d", userID)
			}
			return domain.UserSchedule{
				"1593648000000": {{ReservationID: 1, AmenityID: 1, StartTime: "05:00", Duration: 180}},
			}, nil
		},
	}
	handler := NewReservationHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/reservations/users/2", nil), rec)
	c.SetParamNames("userId")
	c.SetParamValues("2")

	if err := handler.ByUser(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	want := `{"1593648000000":[{"reservationId":1,"amenityId":1,"startTime":"05:00","duration":180}]}` + "\n"
	if rec.Body.String() != want {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestReservationHandler_ByUser_StoreFailure(t *testing.T) {
	e := newEcho()
	boom := errors.New("db down")
	stub := &stubReservationService{
		byUserFn: func(ctx context.Context, userID int64) (domain.UserSchedule, error) {
			return nil, boom
		},
	}
	handler := NewReservationHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/reservations/users/2", nil), rec)
	c.SetParamNames("userId")
	c.SetParamValues("2")

	if err := handler.ByUser(c); !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("no partial body expected, got %s", rec.Body.String())
	}
}
