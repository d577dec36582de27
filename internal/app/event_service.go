package app

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/opeoladettp/Tourist-Guide-Backend-sub001/internal/clock"
	"github.com/opeoladettp/Tourist-Guide-Backend-sub001/internal/domain"
)

type TourEventRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	CreateTourEvent(ctx context.Context, event domain.TourEvent) error
	GetTourEvent(ctx context.Context, id string) (domain.TourEvent, error)
	GetTourEventForUpdate(ctx context.Context, id string) (domain.TourEvent, error)
	UpdateTourEvent(ctx context.Context, event domain.TourEvent) error
	ListTourEvents(ctx context.Context) ([]domain.TourEvent, error)
	CountRegistrations(ctx context.Context, tourEventID string) (domain.RegistrationCounts, error)
	ListActivityDates(ctx context.Context, tourEventID string) ([]time.Time, error)
	// ListActiveWindowsOfRegistrants returns the date windows that this
	// event's PENDING/APPROVED registrants hold on other events.
	ListActiveWindowsOfRegistrants(ctx context.Context, tourEventID string) ([]domain.RegistrationWindow, error)
}

// TourEventService manages tour event lifecycle and capacity edits.
type TourEventService struct {
	repo  TourEventRepository
	clock clock.Clock
}

func NewTourEventService(repo TourEventRepository, clk clock.Clock) *TourEventService {
	return &TourEventService{repo: repo, clock: clk}
}

type CreateTourEventInput struct {
	ProviderID              string
	TemplateID              *string
	CustomTourName          string
	StartDate               time.Time
	EndDate                 time.Time
	NumberOfAllowedTourists int
}

// Create inserts a new tour event in draft status.
func (s *TourEventService) Create(ctx context.Context, in CreateTourEventInput) (domain.TourEvent, error) {
	if in.ProviderID == "" {
		return domain.TourEvent{}, domain.ErrInvalidID
	}
	if strings.TrimSpace(in.CustomTourName) == "" {
		return domain.TourEvent{}, domain.ErrTourNameRequired
	}
	if !in.StartDate.Before(in.EndDate) {
		return domain.TourEvent{}, domain.ErrInvalidRange
	}
	if in.NumberOfAllowedTourists <= 0 {
		return domain.TourEvent{}, domain.ErrInvalidRange
	}

	now := s.clock.Now()
	event := domain.TourEvent{
		ID:                      uuid.NewString(),
		ProviderID:              in.ProviderID,
		TemplateID:              in.TemplateID,
		CustomTourName:          strings.TrimSpace(in.CustomTourName),
		StartDate:               in.StartDate,
		EndDate:                 in.EndDate,
		NumberOfAllowedTourists: in.NumberOfAllowedTourists,
		RemainingTourists:       in.NumberOfAllowedTourists,
		Status:                  domain.TourEventStatusDraft,
		CreatedAt:               now,
		UpdatedAt:               now,
	}
	if err := s.repo.CreateTourEvent(ctx, event); err != nil {
		return domain.TourEvent{}, err
	}
	return event, nil
}

// Activate makes a draft event bookable.
func (s *TourEventService) Activate(ctx context.Context, id string) (domain.TourEvent, error) {
	return s.transition(ctx, id, domain.TourEventStatusActive)
}

// CancelEvent terminally cancels an event. Administrative, outside the
// registration flow; existing registrations are left for staff to cancel
// explicitly.
func (s *TourEventService) CancelEvent(ctx context.Context, id string) (domain.TourEvent, error) {
	return s.transition(ctx, id, domain.TourEventStatusCancelled)
}

func (s *TourEventService) transition(ctx context.Context, id string, next domain.TourEventStatus) (domain.TourEvent, error) {
	if id == "" {
		return domain.TourEvent{}, domain.ErrInvalidID
	}

	var result domain.TourEvent
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		event, err := s.repo.GetTourEventForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		if !event.Status.CanTransitionTo(next) {
			return domain.ErrInvalidState
		}
		event.Status = next
		event.UpdatedAt = s.clock.Now()
		if err := s.repo.UpdateTourEvent(txCtx, event); err != nil {
			return err
		}
		result = event
		return nil
	})
	if err != nil {
		return domain.TourEvent{}, err
	}
	return result, nil
}

type UpdateTourEventInput struct {
	ID                      string
	CustomTourName          *string
	StartDate               *time.Time
	EndDate                 *time.Time
	NumberOfAllowedTourists *int
}

// Update edits name, dates or capacity. Reducing capacity below the current
// approved count fails with ErrInvalidRange and commits nothing. Date edits
// must keep every scheduled activity inside the new range and must not push
// the event onto dates where an active registrant already holds another
// event. Capacity edits reconcile the full/active status against the
// recounted occupancy.
func (s *TourEventService) Update(ctx context.Context, in UpdateTourEventInput) (domain.TourEvent, error) {
	if in.ID == "" {
		return domain.TourEvent{}, domain.ErrInvalidID
	}

	var result domain.TourEvent
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		event, err := s.repo.GetTourEventForUpdate(txCtx, in.ID)
		if err != nil {
			return err
		}
		if event.Status == domain.TourEventStatusCancelled {
			return domain.ErrInvalidState
		}

		if in.CustomTourName != nil {
			name := strings.TrimSpace(*in.CustomTourName)
			if name == "" {
				return domain.ErrTourNameRequired
			}
			event.CustomTourName = name
		}
		if in.StartDate != nil {
			event.StartDate = *in.StartDate
		}
		if in.EndDate != nil {
			event.EndDate = *in.EndDate
		}
		if !event.StartDate.Before(event.EndDate) {
			return domain.ErrInvalidRange
		}
		if in.StartDate != nil || in.EndDate != nil {
			if err := s.checkDateEdit(txCtx, event); err != nil {
				return err
			}
		}

		counts, err := s.repo.CountRegistrations(txCtx, event.ID)
		if err != nil {
			return err
		}
		if in.NumberOfAllowedTourists != nil {
			capacity := *in.NumberOfAllowedTourists
			if capacity <= 0 || capacity < counts.Approved {
				return domain.ErrInvalidRange
			}
			event.NumberOfAllowedTourists = capacity
		}

		info := capacityFor(event, counts)
		event.RemainingTourists = info.RemainingCapacity
		switch {
		case info.IsFull && event.Status == domain.TourEventStatusActive:
			event.Status = domain.TourEventStatusFull
		case !info.IsFull && event.Status == domain.TourEventStatusFull:
			event.Status = domain.TourEventStatusActive
		}

		event.UpdatedAt = s.clock.Now()
		if err := s.repo.UpdateTourEvent(txCtx, event); err != nil {
			return err
		}
		result = event
		return nil
	})
	if err != nil {
		return domain.TourEvent{}, err
	}
	return result, nil
}

// checkDateEdit verifies that a new date range does not orphan the event's
// children: every scheduled activity must still fall inside the range, and
// the range must not collide with dates the event's active registrants hold
// on other events.
func (s *TourEventService) checkDateEdit(ctx context.Context, event domain.TourEvent) error {
	dates, err := s.repo.ListActivityDates(ctx, event.ID)
	if err != nil {
		return err
	}
	for _, date := range dates {
		if !event.ContainsDate(date) {
			return domain.ErrInvalidRange
		}
	}

	windows, err := s.repo.ListActiveWindowsOfRegistrants(ctx, event.ID)
	if err != nil {
		return err
	}
	for _, window := range windows {
		if domain.DatesOverlap(event.StartDate, event.EndDate, window.StartDate, window.EndDate) {
			return domain.ErrOverlappingRegistration
		}
	}
	return nil
}

// Get returns one tour event.
func (s *TourEventService) Get(ctx context.Context, id string) (domain.TourEvent, error) {
	if id == "" {
		return domain.TourEvent{}, domain.ErrInvalidID
	}
	return s.repo.GetTourEvent(ctx, id)
}

// List returns all tour events with their cached remaining-seat hints.
func (s *TourEventService) List(ctx context.Context) ([]domain.TourEvent, error) {
	return s.repo.ListTourEvents(ctx)
}
