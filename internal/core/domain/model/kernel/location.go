package kernel

import (
	"fmt"
	"time"

	"delivertrack/internal/pkg/errs"
	"delivertrack/internal/pkg/guard"
)

// ErrLocationIsNotConstructed is returned when a zero-value Location is used.
var ErrLocationIsNotConstructed = errs.NewValueIsRequiredError(
	"location must be created via NewLocation or LocationFromMillis constructors")

// Location is a single position observation: latitude and longitude in degrees plus the
// instant it was captured.
//
// Coordinates are not range-checked; the simulator and GPS feeds are
// trusted to send plausible values. The capture instant travels on the wire as epoch
// milliseconds, so it is truncated to millisecond precision on construction.
//
// Example:
//
//	loc, err := kernel.NewLocation(40.7128, -74.006, time.Now())
//	if err != nil {
//	    return err
//	}
//	fmt.Println(loc) // Location(40.712800,-74.006000@1700000000000)
type Location struct {
	lat        float64
	lng        float64
	recordedAt time.Time
	guard      guard.ConstructorGuard
}

// NewLocation creates a location captured at recordedAt.
//
// Returns:
//   - Location: the sample
//   - error: ValueIsRequiredError when recordedAt is the zero time
func NewLocation(lat float64, lng float64, recordedAt time.Time) (Location, error) {
	if recordedAt.IsZero() {
		return Location{}, errs.NewValueIsRequiredError("timestamp")
	}

	return Location{
		lat:        lat,
		lng:        lng,
		recordedAt: recordedAt.Truncate(time.Millisecond),
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// LocationFromMillis creates a location from an epoch-milliseconds timestamp, the
// representation used by the real-time channel and the HTTP API.
func LocationFromMillis(lat float64, lng float64, timestampMillis int64) (Location, error) {
	if timestampMillis <= 0 {
		return Location{}, errs.NewValueIsRequiredError("timestamp")
	}
	return NewLocation(lat, lng, time.UnixMilli(timestampMillis))
}

// Validate returns ErrLocationIsNotConstructed for the zero value.
func (l Location) Validate() error {
	return l.guard.Validate(ErrLocationIsNotConstructed)
}

// Lat returns the latitude in degrees.
func (l Location) Lat() float64 {
	return l.lat
}

// Lng returns the longitude in degrees.
func (l Location) Lng() float64 {
	return l.lng
}

// RecordedAt returns the capture instant.
func (l Location) RecordedAt() time.Time {
	return l.recordedAt
}

// TimestampMillis returns the capture instant as epoch milliseconds.
func (l Location) TimestampMillis() int64 {
	return l.recordedAt.UnixMilli()
}

// Moved returns a new sample displaced by the given deltas and captured at recordedAt.
func (l Location) Moved(dLat float64, dLng float64, recordedAt time.Time) (Location, error) {
	if err := l.Validate(); err != nil {
		return Location{}, err
	}
	return NewLocation(l.lat+dLat, l.lng+dLng, recordedAt)
}

// IsEqual reports whether both samples have identical coordinates and capture instant.
func (l Location) IsEqual(other Location) bool {
	return l.lat == other.lat && l.lng == other.lng && l.recordedAt.Equal(other.recordedAt)
}

func (l Location) String() string {
	return fmt.Sprintf("Location(%f,%f@%d)", l.lat, l.lng, l.TimestampMillis())
}
