package app

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/opeoladettp/Tourist-Guide-Backend-sub001/internal/clock"
	"github.com/opeoladettp/Tourist-Guide-Backend-sub001/internal/domain"
)

type ActivityRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetTourEvent(ctx context.Context, id string) (domain.TourEvent, error)
	GetTourEventForUpdate(ctx context.Context, id string) (domain.TourEvent, error)
	GetActivity(ctx context.Context, id string) (domain.Activity, error)
	ListActivitiesOnDate(ctx context.Context, tourEventID string, date time.Time) ([]domain.Activity, error)
	ListActivities(ctx context.Context, tourEventID string) ([]domain.Activity, error)
	CreateActivity(ctx context.Context, activity domain.Activity) error
	UpdateActivity(ctx context.Context, activity domain.Activity) error
	DeleteActivity(ctx context.Context, id string) error
}

// ScheduleService validates and commits time-boxed activities against a tour
// event's day-by-day schedule. Writes lock the owning event row so two
// concurrent inserts cannot both pass the overlap scan.
type ScheduleService struct {
	repo  ActivityRepository
	clock clock.Clock
}

func NewScheduleService(repo ActivityRepository, clk clock.Clock) *ScheduleService {
	return &ScheduleService{repo: repo, clock: clk}
}

type ActivityInput struct {
	TourEventID  string
	ActivityDate time.Time
	StartTime    string
	EndTime      string
	ActivityName string
	ActivityType string
	Description  string
	IsOptional   bool
}

// AddActivity validates in order: event exists, date in range, start before
// end, no overlap on the same day. Each violation is a distinct failure and
// aborts without writing.
func (s *ScheduleService) AddActivity(ctx context.Context, in ActivityInput) (domain.Activity, error) {
	if in.TourEventID == "" {
		return domain.Activity{}, domain.ErrInvalidID
	}
	if strings.TrimSpace(in.ActivityName) == "" {
		return domain.Activity{}, domain.ErrActivityNameRequired
	}

	var result domain.Activity
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		event, err := s.repo.GetTourEventForUpdate(txCtx, in.TourEventID)
		if err != nil {
			return err
		}
		if event.Status == domain.TourEventStatusCancelled {
			return domain.ErrInvalidState
		}

		start, end, err := s.validateWindow(event, in.ActivityDate, in.StartTime, in.EndTime)
		if err != nil {
			return err
		}
		if err := s.checkConflicts(txCtx, event.ID, in.ActivityDate, start, end, ""); err != nil {
			return err
		}

		activity := domain.Activity{
			ID:           uuid.NewString(),
			TourEventID:  event.ID,
			ActivityDate: in.ActivityDate,
			StartTime:    start,
			EndTime:      end,
			ActivityName: strings.TrimSpace(in.ActivityName),
			ActivityType: in.ActivityType,
			Description:  in.Description,
			IsOptional:   in.IsOptional,
			CreatedAt:    s.clock.Now(),
		}
		if err := s.repo.CreateActivity(txCtx, activity); err != nil {
			return err
		}
		result = activity
		return nil
	})
	if err != nil {
		return domain.Activity{}, err
	}
	return result, nil
}

// UpdateActivity re-runs the full validation, excluding the record under edit
// from the conflict scan.
func (s *ScheduleService) UpdateActivity(ctx context.Context, activityID string, in ActivityInput) (domain.Activity, error) {
	if activityID == "" || in.TourEventID == "" {
		return domain.Activity{}, domain.ErrInvalidID
	}
	if strings.TrimSpace(in.ActivityName) == "" {
		return domain.Activity{}, domain.ErrActivityNameRequired
	}

	var result domain.Activity
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		event, err := s.repo.GetTourEventForUpdate(txCtx, in.TourEventID)
		if err != nil {
			return err
		}
		if event.Status == domain.TourEventStatusCancelled {
			return domain.ErrInvalidState
		}

		activity, err := s.repo.GetActivity(txCtx, activityID)
		if err != nil {
			return err
		}
		if activity.TourEventID != event.ID {
			return domain.ErrActivityNotFound
		}

		start, end, err := s.validateWindow(event, in.ActivityDate, in.StartTime, in.EndTime)
		if err != nil {
			return err
		}
		if err := s.checkConflicts(txCtx, event.ID, in.ActivityDate, start, end, activity.ID); err != nil {
			return err
		}

		activity.ActivityDate = in.ActivityDate
		activity.StartTime = start
		activity.EndTime = end
		activity.ActivityName = strings.TrimSpace(in.ActivityName)
		activity.ActivityType = in.ActivityType
		activity.Description = in.Description
		activity.IsOptional = in.IsOptional
		if err := s.repo.UpdateActivity(txCtx, activity); err != nil {
			return err
		}
		result = activity
		return nil
	})
	if err != nil {
		return domain.Activity{}, err
	}
	return result, nil
}

// RemoveActivity deletes one activity from the schedule.
func (s *ScheduleService) RemoveActivity(ctx context.Context, tourEventID, activityID string) error {
	if tourEventID == "" || activityID == "" {
		return domain.ErrInvalidID
	}
	return s.repo.WithTx(ctx, func(txCtx context.Context) error {
		if _, err := s.repo.GetTourEventForUpdate(txCtx, tourEventID); err != nil {
			return err
		}
		activity, err := s.repo.GetActivity(txCtx, activityID)
		if err != nil {
			return err
		}
		if activity.TourEventID != tourEventID {
			return domain.ErrActivityNotFound
		}
		return s.repo.DeleteActivity(txCtx, activityID)
	})
}

// GetSchedule returns the event's activities, optionally restricted to one
// day, ordered by date then start time.
func (s *ScheduleService) GetSchedule(ctx context.Context, tourEventID string, date *time.Time) ([]domain.Activity, error) {
	if tourEventID == "" {
		return nil, domain.ErrInvalidID
	}
	if _, err := s.repo.GetTourEvent(ctx, tourEventID); err != nil {
		return nil, err
	}
	if date != nil {
		return s.repo.ListActivitiesOnDate(ctx, tourEventID, *date)
	}
	return s.repo.ListActivities(ctx, tourEventID)
}

func (s *ScheduleService) validateWindow(event domain.TourEvent, date time.Time, startRaw, endRaw string) (domain.TimeOfDay, domain.TimeOfDay, error) {
	if !event.ContainsDate(date) {
		return "", "", domain.ErrInvalidRange
	}
	start, err := domain.ParseTimeOfDay(startRaw)
	if err != nil {
		return "", "", err
	}
	end, err := domain.ParseTimeOfDay(endRaw)
	if err != nil {
		return "", "", err
	}
	if !start.Before(end) {
		return "", "", domain.ErrInvalidRange
	}
	return start, end, nil
}

func (s *ScheduleService) checkConflicts(ctx context.Context, tourEventID string, date time.Time, start, end domain.TimeOfDay, excludeID string) error {
	existing, err := s.repo.ListActivitiesOnDate(ctx, tourEventID, date)
	if err != nil {
		return err
	}
	for _, other := range existing {
		if other.ID == excludeID {
			continue
		}
		if domain.TimesOverlap(other.StartTime, other.EndTime, start, end) {
			return domain.ErrScheduleConflict
		}
	}
	return nil
}
