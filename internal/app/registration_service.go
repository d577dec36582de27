package app

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/opeoladettp/Tourist-Guide-Backend-sub001/internal/clock"
	"github.com/opeoladettp/Tourist-Guide-Backend-sub001/internal/domain"
	"github.com/opeoladettp/Tourist-Guide-Backend-sub001/internal/notify"
)

type RegistrationRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetTourEventForUpdate(ctx context.Context, id string) (domain.TourEvent, error)
	GetRegistrationForUpdate(ctx context.Context, id string) (domain.Registration, error)
	FindActiveRegistration(ctx context.Context, tourEventID, touristUserID string) (*domain.Registration, error)
	ListActiveWindowsByTourist(ctx context.Context, touristUserID string) ([]domain.RegistrationWindow, error)
	CountRegistrations(ctx context.Context, tourEventID string) (domain.RegistrationCounts, error)
	CreateRegistration(ctx context.Context, reg domain.Registration) error
	UpdateRegistration(ctx context.Context, reg domain.Registration) error
	UpdateTourEventOccupancy(ctx context.Context, tourEventID string, status domain.TourEventStatus, remaining int, updatedAt time.Time) error
	ListRegistrationsByTourEvent(ctx context.Context, tourEventID string) ([]domain.Registration, error)
	ListRegistrationsByTourist(ctx context.Context, touristUserID string) ([]domain.Registration, error)
}

// RegistrationService orchestrates the registration lifecycle. Every mutation
// runs inside one transaction that locks the owning tour event row and
// recounts occupancy from the registration set before committing, so two
// writers racing for the last seat cannot both succeed.
type RegistrationService struct {
	repo     RegistrationRepository
	clock    clock.Clock
	notifier notify.Notifier
}

func NewRegistrationService(repo RegistrationRepository, clk clock.Clock, notifier notify.Notifier) *RegistrationService {
	return &RegistrationService{
		repo:     repo,
		clock:    clk,
		notifier: notifier,
	}
}

type RegisterInput struct {
	TourEventID   string
	TouristUserID string
}

// Register creates a pending registration. Preconditions checked inside the
// transaction: event is active, no duplicate active registration, no date
// overlap with the tourist's other active registrations, seat available.
func (s *RegistrationService) Register(ctx context.Context, in RegisterInput) (domain.Registration, error) {
	if in.TourEventID == "" || in.TouristUserID == "" {
		return domain.Registration{}, domain.ErrInvalidID
	}

	now := s.clock.Now()
	var result domain.Registration

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		event, err := s.repo.GetTourEventForUpdate(txCtx, in.TourEventID)
		if err != nil {
			return err
		}
		if event.Status != domain.TourEventStatusActive {
			return domain.ErrEventNotBookable
		}

		existing, err := s.repo.FindActiveRegistration(txCtx, event.ID, in.TouristUserID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicateRegistration
		}

		windows, err := s.repo.ListActiveWindowsByTourist(txCtx, in.TouristUserID)
		if err != nil {
			return err
		}
		for _, w := range windows {
			if w.TourEventID == event.ID {
				continue
			}
			if domain.DatesOverlap(event.StartDate, event.EndDate, w.StartDate, w.EndDate) {
				return domain.ErrOverlappingRegistration
			}
		}

		counts, err := s.repo.CountRegistrations(txCtx, event.ID)
		if err != nil {
			return err
		}
		if counts.Approved >= event.NumberOfAllowedTourists {
			return domain.ErrCapacityExceeded
		}

		reg := domain.Registration{
			ID:               uuid.NewString(),
			TourEventID:      event.ID,
			TouristUserID:    in.TouristUserID,
			Status:           domain.RegistrationStatusPending,
			RegistrationDate: now,
		}
		if err := s.repo.CreateRegistration(txCtx, reg); err != nil {
			return err
		}

		info := capacityFor(event, counts)
		if err := s.repo.UpdateTourEventOccupancy(txCtx, event.ID, event.Status, info.RemainingCapacity, now); err != nil {
			return err
		}

		result = reg
		return nil
	})
	if err != nil {
		return domain.Registration{}, err
	}

	s.notifier.Notify(notify.Event{
		Type:           notify.EventRegistrationCreated,
		TourEventID:    result.TourEventID,
		RegistrationID: result.ID,
		TouristUserID:  result.TouristUserID,
		OccurredAt:     now,
	})
	return result, nil
}

type ApproveInput struct {
	RegistrationID string
	ApproverID     string
}

// Approve moves a pending registration to approved. Occupancy is re-validated
// immediately before commit; filling the last seat flips the event to full in
// the same transaction.
func (s *RegistrationService) Approve(ctx context.Context, in ApproveInput) (domain.Registration, error) {
	if in.RegistrationID == "" || in.ApproverID == "" {
		return domain.Registration{}, domain.ErrInvalidID
	}

	now := s.clock.Now()
	var result domain.Registration
	var becameFull bool

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		reg, err := s.repo.GetRegistrationForUpdate(txCtx, in.RegistrationID)
		if err != nil {
			return err
		}
		if reg.Status != domain.RegistrationStatusPending {
			return domain.ErrAlreadyDecided
		}

		event, err := s.repo.GetTourEventForUpdate(txCtx, reg.TourEventID)
		if err != nil {
			return err
		}
		if event.Status == domain.TourEventStatusCancelled {
			return domain.ErrInvalidState
		}

		counts, err := s.repo.CountRegistrations(txCtx, event.ID)
		if err != nil {
			return err
		}
		if counts.Approved >= event.NumberOfAllowedTourists {
			return domain.ErrCapacityExceeded
		}

		reg.Status = domain.RegistrationStatusApproved
		reg.ApprovedByUserID = &in.ApproverID
		reg.ApprovedDate = &now
		if err := s.repo.UpdateRegistration(txCtx, reg); err != nil {
			return err
		}

		// Recount after the write so the persisted snapshot is derived from
		// the registration set, not arithmetic on a possibly stale counter.
		counts, err = s.repo.CountRegistrations(txCtx, event.ID)
		if err != nil {
			return err
		}
		info := capacityFor(event, counts)

		status := event.Status
		if info.IsFull && status == domain.TourEventStatusActive {
			status = domain.TourEventStatusFull
			becameFull = true
		}
		if err := s.repo.UpdateTourEventOccupancy(txCtx, event.ID, status, info.RemainingCapacity, now); err != nil {
			return err
		}

		result = reg
		return nil
	})
	if err != nil {
		return domain.Registration{}, err
	}

	s.notifier.Notify(notify.Event{
		Type:           notify.EventRegistrationApproved,
		TourEventID:    result.TourEventID,
		RegistrationID: result.ID,
		TouristUserID:  result.TouristUserID,
		OccurredAt:     now,
	})
	if becameFull {
		s.notifier.Notify(notify.Event{
			Type:        notify.EventTourEventFull,
			TourEventID: result.TourEventID,
			OccurredAt:  now,
		})
	}
	return result, nil
}

type RejectInput struct {
	RegistrationID string
	ApproverID     string
	Reason         string
}

// Reject moves a pending registration to rejected. A non-empty reason is
// required. Event status never changes on rejection.
func (s *RegistrationService) Reject(ctx context.Context, in RejectInput) (domain.Registration, error) {
	if in.RegistrationID == "" || in.ApproverID == "" {
		return domain.Registration{}, domain.ErrInvalidID
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return domain.Registration{}, domain.ErrReasonRequired
	}

	now := s.clock.Now()
	var result domain.Registration

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		reg, err := s.repo.GetRegistrationForUpdate(txCtx, in.RegistrationID)
		if err != nil {
			return err
		}
		if reg.Status != domain.RegistrationStatusPending {
			return domain.ErrAlreadyDecided
		}

		event, err := s.repo.GetTourEventForUpdate(txCtx, reg.TourEventID)
		if err != nil {
			return err
		}

		reg.Status = domain.RegistrationStatusRejected
		reg.ApprovedByUserID = &in.ApproverID
		reg.ApprovedDate = &now
		reg.RejectedReason = &reason
		if err := s.repo.UpdateRegistration(txCtx, reg); err != nil {
			return err
		}

		counts, err := s.repo.CountRegistrations(txCtx, event.ID)
		if err != nil {
			return err
		}
		info := capacityFor(event, counts)
		if err := s.repo.UpdateTourEventOccupancy(txCtx, event.ID, event.Status, info.RemainingCapacity, now); err != nil {
			return err
		}

		result = reg
		return nil
	})
	if err != nil {
		return domain.Registration{}, err
	}

	s.notifier.Notify(notify.Event{
		Type:           notify.EventRegistrationRejected,
		TourEventID:    result.TourEventID,
		RegistrationID: result.ID,
		TouristUserID:  result.TouristUserID,
		OccurredAt:     now,
	})
	return result, nil
}

type CancelInput struct {
	RegistrationID string
	RequesterID    string
	// Staff marks an administrative cancellation; tourists may only cancel
	// their own registrations.
	Staff bool
}

// Cancel moves a pending or approved registration to cancelled. Cancelling an
// approved registration frees a seat; if the event was full it reopens to
// active in the same transaction.
func (s *RegistrationService) Cancel(ctx context.Context, in CancelInput) (domain.Registration, error) {
	if in.RegistrationID == "" || in.RequesterID == "" {
		return domain.Registration{}, domain.ErrInvalidID
	}

	now := s.clock.Now()
	var result domain.Registration
	var reopened bool

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		reg, err := s.repo.GetRegistrationForUpdate(txCtx, in.RegistrationID)
		if err != nil {
			return err
		}
		if reg.Status == domain.RegistrationStatusCancelled {
			return domain.ErrAlreadyCancelled
		}
		if !reg.Status.IsActive() {
			return domain.ErrInvalidState
		}
		if !in.Staff && reg.TouristUserID != in.RequesterID {
			return domain.ErrPermissionDenied
		}

		event, err := s.repo.GetTourEventForUpdate(txCtx, reg.TourEventID)
		if err != nil {
			return err
		}

		freedSeat := reg.Status == domain.RegistrationStatusApproved
		reg.Status = domain.RegistrationStatusCancelled
		if err := s.repo.UpdateRegistration(txCtx, reg); err != nil {
			return err
		}

		counts, err := s.repo.CountRegistrations(txCtx, event.ID)
		if err != nil {
			return err
		}
		info := capacityFor(event, counts)

		status := event.Status
		if freedSeat && status == domain.TourEventStatusFull && !info.IsFull {
			status = domain.TourEventStatusActive
			reopened = true
		}
		if err := s.repo.UpdateTourEventOccupancy(txCtx, event.ID, status, info.RemainingCapacity, now); err != nil {
			return err
		}

		result = reg
		return nil
	})
	if err != nil {
		return domain.Registration{}, err
	}

	s.notifier.Notify(notify.Event{
		Type:           notify.EventRegistrationCancelled,
		TourEventID:    result.TourEventID,
		RegistrationID: result.ID,
		TouristUserID:  result.TouristUserID,
		OccurredAt:     now,
	})
	if reopened {
		s.notifier.Notify(notify.Event{
			Type:        notify.EventTourEventReopened,
			TourEventID: result.TourEventID,
			OccurredAt:  now,
		})
	}
	return result, nil
}

// ListByTourEvent returns every registration for a tour event, for staff review.
func (s *RegistrationService) ListByTourEvent(ctx context.Context, tourEventID string) ([]domain.Registration, error) {
	if tourEventID == "" {
		return nil, domain.ErrInvalidID
	}
	return s.repo.ListRegistrationsByTourEvent(ctx, tourEventID)
}

// ListByTourist returns a tourist's registrations across all tour events.
func (s *RegistrationService) ListByTourist(ctx context.Context, touristUserID string) ([]domain.Registration, error) {
	if touristUserID == "" {
		return nil, domain.ErrInvalidID
	}
	return s.repo.ListRegistrationsByTourist(ctx, touristUserID)
}
