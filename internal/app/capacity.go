package app

import (
	"context"

	"github.com/opeoladettp/Tourist-Guide-Backend-sub001/internal/domain"
)

// CapacityInfo is an occupancy snapshot derived by recounting the
// registration set. It is the sole authority for "is this event full";
// the cached RemainingTourists column is never consulted.
type CapacityInfo struct {
	TourEventID       string
	TotalCapacity     int
	ApprovedCount     int
	PendingCount      int
	RemainingCapacity int
	IsFull            bool
}

func capacityFor(event domain.TourEvent, counts domain.RegistrationCounts) CapacityInfo {
	remaining := event.NumberOfAllowedTourists - counts.Approved
	if remaining < 0 {
		remaining = 0
	}
	return CapacityInfo{
		TourEventID:       event.ID,
		TotalCapacity:     event.NumberOfAllowedTourists,
		ApprovedCount:     counts.Approved,
		PendingCount:      counts.Pending,
		RemainingCapacity: remaining,
		IsFull:            counts.Approved >= event.NumberOfAllowedTourists,
	}
}

// CapacityRepository reads the state the reconciliation engine recounts from.
type CapacityRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetTourEvent(ctx context.Context, id string) (domain.TourEvent, error)
	CountRegistrations(ctx context.Context, tourEventID string) (domain.RegistrationCounts, error)
}

// CapacityService recomputes authoritative occupancy on demand.
type CapacityService struct {
	repo CapacityRepository
}

func NewCapacityService(repo CapacityRepository) *CapacityService {
	return &CapacityService{repo: repo}
}

// Info returns the occupancy snapshot for a tour event. Event row and counts
// are read inside one transaction so the snapshot is internally consistent.
func (s *CapacityService) Info(ctx context.Context, tourEventID string) (CapacityInfo, error) {
	var info CapacityInfo
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		event, err := s.repo.GetTourEvent(txCtx, tourEventID)
		if err != nil {
			return err
		}
		counts, err := s.repo.CountRegistrations(txCtx, tourEventID)
		if err != nil {
			return err
		}
		info = capacityFor(event, counts)
		return nil
	})
	if err != nil {
		return CapacityInfo{}, err
	}
	return info, nil
}
