package domain

import "time"

type TourEventStatus string

const (
	TourEventStatusDraft     TourEventStatus = "draft"
	TourEventStatusActive    TourEventStatus = "active"
	TourEventStatusFull      TourEventStatus = "full"
	TourEventStatusCancelled TourEventStatus = "cancelled"
)

// CanTransitionTo reports whether the status state machine permits the move.
// Cancelled is terminal; full can reopen to active when a seat frees up.
func (s TourEventStatus) CanTransitionTo(next TourEventStatus) bool {
	switch s {
	case TourEventStatusDraft:
		return next == TourEventStatusActive || next == TourEventStatusCancelled
	case TourEventStatusActive:
		return next == TourEventStatusFull || next == TourEventStatusCancelled
	case TourEventStatusFull:
		return next == TourEventStatusActive || next == TourEventStatusCancelled
	default:
		return false
	}
}

// TourEvent is a scheduled, capacity-bounded trip offered by a provider.
type TourEvent struct {
	ID             string
	ProviderID     string
	TemplateID     *string
	CustomTourName string
	StartDate      time.Time
	EndDate        time.Time
	// NumberOfAllowedTourists is the capacity ceiling. RemainingTourists is a
	// cached hint recomputed on every occupancy-affecting commit; decisions
	// never read it.
	NumberOfAllowedTourists int
	RemainingTourists       int
	Status                  TourEventStatus
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// ContainsDate reports whether d falls inside the event's inclusive date range.
func (e TourEvent) ContainsDate(d time.Time) bool {
	d = truncateToDate(d)
	return !d.Before(truncateToDate(e.StartDate)) && !d.After(truncateToDate(e.EndDate))
}

// DatesOverlap reports whether two inclusive date ranges share at least one day.
func DatesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	aStart, aEnd = truncateToDate(aStart), truncateToDate(aEnd)
	bStart, bEnd = truncateToDate(bStart), truncateToDate(bEnd)
	return !aEnd.Before(bStart) && !bEnd.Before(aStart)
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
