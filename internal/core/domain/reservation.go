package domain

// Reservation is a persisted booking. StartTime and EndTime are minutes from
// midnight; Date is the day-bucket key (epoch milliseconds at 00:00 UTC).
type Reservation struct {
	ID        int64 `db:"id"`
	AmenityID int64 `db:"amenity_id"`
	UserID    int64 `db:"user_id"`
	StartTime int   `db:"start_time"`
	EndTime   int   `db:"end_time"`
	Date      int64 `db:"date"`
}

// Duration returns the booked length in minutes.
func (r Reservation) Duration() int {
	return r.EndTime - r.StartTime
}

// Validate checks the time-range invariant: 0 <= start < end <= 1440.
func (r Reservation) Validate() bool {
	return r.StartTime >= 0 && r.StartTime < MinutesPerDay &&
		r.EndTime > r.StartTime && r.EndTime <= MinutesPerDay
}

// AmenityReservation is a reservation joined to its amenity's name.
type AmenityReservation struct {
	Reservation
	AmenityName string `db:"amenity_name"`
}

// AmenitySlot is one entry of an amenity's schedule for a day.
type AmenitySlot struct {
	ReservationID int64  `json:"reservationId"`
	UserID        int64  `json:"userId"`
	StartTime     string `json:"startTime"`
	Duration      int    `json:"duration"`
	AmenityName   string `json:"amenityName"`
}

// UserSlot is one entry of a user's schedule.
type UserSlot struct {
	ReservationID int64  `json:"reservationId"`
	AmenityID     int64  `json:"amenityId"`
	StartTime     string `json:"startTime"`
	Duration      int    `json:"duration"`
}

// UserSchedule groups a user's slots by day-bucket key.
type UserSchedule map[string][]UserSlot

// ImportResult summarises one bulk import run.
type ImportResult struct {
	BatchID      string `json:"batchId"`
	Amenities    int    `json:"amenities"`
	Reservations int    `json:"reservations"`
}
