package domain

import (
	"time"
)

// TimeOfDay is a zero-padded "HH:MM" wall-clock time. Zero padding makes
// lexicographic comparison equivalent to chronological comparison.
type TimeOfDay string

// ParseTimeOfDay validates s as a 24h "HH:MM" clock value.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	if len(s) != 5 {
		return "", ErrInvalidRange
	}
	if _, err := time.Parse("15:04", s); err != nil {
		return "", ErrInvalidRange
	}
	return TimeOfDay(s), nil
}

func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t < other
}

// Activity is a time-boxed itinerary item within a tour event's schedule.
type Activity struct {
	ID           string
	TourEventID  string
	ActivityDate time.Time
	StartTime    TimeOfDay
	EndTime      TimeOfDay
	ActivityName string
	ActivityType string
	Description  string
	IsOptional   bool
	CreatedAt    time.Time
}

// TimesOverlap reports whether two half-open [start, end) intervals intersect.
// Touching endpoints do not conflict.
func TimesOverlap(aStart, aEnd, bStart, bEnd TimeOfDay) bool {
	return aStart < bEnd && bStart < aEnd
}
