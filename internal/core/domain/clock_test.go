package domain

import (
	"errors"
	"testing"
)

func TestFormatClock(t *testing.T) {
	cases := []struct {
		minutes int
		want    string
	}{
		{0, "00:00"},
		{5, "00:05"},
		{300, "05:00"},
		{600, "10:00"},
		{725, "12:05"},
		{1439, "23:59"},
	}
	for _, tc := range cases {
		if got := FormatClock(tc.minutes); got != tc.want {
			t.Errorf("FormatClock(%d) = %q, want %q", tc.minutes, got, tc.want)
		}
	}
}

func TestDayBucketFromSeconds(t *testing.T) {
	got, err := DayBucketFromSeconds(1593648000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 1593648000000 {
		t.Fatalf("expected 1593648000000, got %d", got)
	}

	if _, err := DayBucketFromSeconds(-1); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for negative day, got %v", err)
	}
	if _, err := DayBucketFromSeconds(maxDaySeconds + 1); !errors.Is(err, ErrInvalidDay) {
		t.Fatalf("expected ErrInvalidDay on overflow, got %v", err)
	}
}

func TestIsDayAligned(t *testing.T) {
	if !IsDayAligned(1593648000) {
		t.Error("1593648000 is midnight UTC")
	}
	if IsDayAligned(9999999999) {
		t.Error("9999999999 is not midnight UTC")
	}
}

func TestReservation_ValidateAndDuration(t *testing.T) {
	r := Reservation{StartTime: 300, EndTime: 480}
	if !r.Validate() {
		t.Fatal("expected 300-480 to be valid")
	}
	if r.Duration() != 180 {
		t.Fatalf("expected duration 180, got %d", r.Duration())
	}

	invalid := []Reservation{
		{StartTime: 480, EndTime: 480},
		{StartTime: 500, EndTime: 480},
		{StartTime: -1, EndTime: 60},
		{StartTime: 1400, EndTime: 1441},
		{StartTime: 1440, EndTime: 1440},
	}
	for _, r := range invalid {
		if r.Validate() {
			t.Errorf("expected %+v to be invalid", r)
		}
	}

	if !(Reservation{StartTime: 1380, EndTime: 1440}).Validate() {
		t.Error("a booking may end exactly at midnight")
	}
}
