package domain

import (
	"fmt"
	"math"
	"strconv"
)

const (
	MinutesPerDay = 24 * 60
	SecondsPerDay = 24 * 60 * 60

	// maxDaySeconds keeps DayBucketFromSeconds from overflowing int64.
	maxDaySeconds = math.MaxInt64 / 1000
)

// FormatClock renders minutes-from-midnight as zero-padded HH:MM.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// DayBucketFromSeconds converts a day given in epoch seconds into the
// millisecond bucket key used by the stores.
func DayBucketFromSeconds(seconds int64) (int64, error) {
	if seconds < 0 || seconds > maxDaySeconds {
		return 0, ErrInvalidDay
	}
	return seconds * 1000, nil
}

// IsDayAligned reports whether seconds falls exactly on 00:00 UTC.
func IsDayAligned(seconds int64) bool {
	return seconds%SecondsPerDay == 0
}

// BucketKey serialises a bucket for use as a map key across the API.
func BucketKey(bucket int64) string {
	return strconv.FormatInt(bucket, 10)
}
