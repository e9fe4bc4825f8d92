// Package availability computes the bookable start times of a trainer on a
// given date from their weekly schedule and the appointments already on it.
package availability

import (
	"errors"
	"time"
)

const (
	// SlotStep is the granularity of candidate start times.
	SlotStep = 30 * time.Minute
	// MaxDurationMinutes is the longest appointment that can be requested.
	MaxDurationMinutes = 480

	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

var (
	ErrInvalidDate       = errors.New("invalid date")
	ErrInvalidDuration   = errors.New("invalid duration")
	ErrScheduleNotFound  = errors.New("schedule not found")
	ErrNoIntervalsForDay = errors.New("no intervals for the requested day")
)

// IsNotFound reports whether err is one of the expected not-found conditions.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrScheduleNotFound) || errors.Is(err, ErrNoIntervalsForDay)
}

// ParseDate parses a YYYY-MM-DD calendar date as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}

func ValidateDuration(minutes int) error {
	if minutes <= 0 || minutes > MaxDurationMinutes {
		return ErrInvalidDuration
	}
	return nil
}
