package app

import (
	"context"
	"sort"
	"time"

	"github.com/opeoladettp/Tourist-Guide-Backend-sub001/internal/domain"
	"github.com/opeoladettp/Tourist-Guide-Backend-sub001/internal/notify"
)

// fakeStore is an in-memory implementation of the repository interfaces.
// WithTx snapshots state and restores it when the callback fails, so tests
// can assert that aborted operations commit nothing.
type fakeStore struct {
	events        map[string]domain.TourEvent
	registrations map[string]domain.Registration
	activities    map[string]domain.Activity
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		events:        make(map[string]domain.TourEvent),
		registrations: make(map[string]domain.Registration),
		activities:    make(map[string]domain.Activity),
	}
}

func (f *fakeStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	events := make(map[string]domain.TourEvent, len(f.events))
	for k, v := range f.events {
		events[k] = v
	}
	registrations := make(map[string]domain.Registration, len(f.registrations))
	for k, v := range f.registrations {
		registrations[k] = v
	}
	activities := make(map[string]domain.Activity, len(f.activities))
	for k, v := range f.activities {
		activities[k] = v
	}

	if err := fn(ctx); err != nil {
		f.events = events
		f.registrations = registrations
		f.activities = activities
		return err
	}
	return nil
}

func (f *fakeStore) CreateTourEvent(_ context.Context, event domain.TourEvent) error {
	f.events[event.ID] = event
	return nil
}

func (f *fakeStore) GetTourEvent(_ context.Context, id string) (domain.TourEvent, error) {
	event, ok := f.events[id]
	if !ok {
		return domain.TourEvent{}, domain.ErrTourEventNotFound
	}
	return event, nil
}

func (f *fakeStore) GetTourEventForUpdate(ctx context.Context, id string) (domain.TourEvent, error) {
	return f.GetTourEvent(ctx, id)
}

func (f *fakeStore) UpdateTourEvent(_ context.Context, event domain.TourEvent) error {
	if _, ok := f.events[event.ID]; !ok {
		return domain.ErrTourEventNotFound
	}
	f.events[event.ID] = event
	return nil
}

func (f *fakeStore) ListTourEvents(_ context.Context) ([]domain.TourEvent, error) {
	out := make([]domain.TourEvent, 0, len(f.events))
	for _, event := range f.events {
		out = append(out, event)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) UpdateTourEventOccupancy(_ context.Context, tourEventID string, status domain.TourEventStatus, remaining int, updatedAt time.Time) error {
	event, ok := f.events[tourEventID]
	if !ok {
		return domain.ErrTourEventNotFound
	}
	event.Status = status
	event.RemainingTourists = remaining
	event.UpdatedAt = updatedAt
	f.events[tourEventID] = event
	return nil
}

func (f *fakeStore) ListActivityDates(_ context.Context, tourEventID string) ([]time.Time, error) {
	var out []time.Time
	for _, activity := range f.activities {
		if activity.TourEventID == tourEventID {
			out = append(out, activity.ActivityDate)
		}
	}
	return out, nil
}

func (f *fakeStore) ListActiveWindowsOfRegistrants(_ context.Context, tourEventID string) ([]domain.RegistrationWindow, error) {
	var out []domain.RegistrationWindow
	for _, reg := range f.registrations {
		if reg.TourEventID != tourEventID || !reg.Status.IsActive() {
			continue
		}
		for _, other := range f.registrations {
			if other.TouristUserID != reg.TouristUserID || other.TourEventID == tourEventID || !other.Status.IsActive() {
				continue
			}
			event, ok := f.events[other.TourEventID]
			if !ok {
				continue
			}
			out = append(out, domain.RegistrationWindow{
				RegistrationID: other.ID,
				TourEventID:    other.TourEventID,
				StartDate:      event.StartDate,
				EndDate:        event.EndDate,
			})
		}
	}
	return out, nil
}

func (f *fakeStore) GetRegistrationForUpdate(_ context.Context, id string) (domain.Registration, error) {
	reg, ok := f.registrations[id]
	if !ok {
		return domain.Registration{}, domain.ErrRegistrationNotFound
	}
	return reg, nil
}

func (f *fakeStore) FindActiveRegistration(_ context.Context, tourEventID, touristUserID string) (*domain.Registration, error) {
	for _, reg := range f.registrations {
		if reg.TourEventID == tourEventID && reg.TouristUserID == touristUserID && reg.Status.IsActive() {
			r := reg
			return &r, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) ListActiveWindowsByTourist(_ context.Context, touristUserID string) ([]domain.RegistrationWindow, error) {
	var out []domain.RegistrationWindow
	for _, reg := range f.registrations {
		if reg.TouristUserID != touristUserID || !reg.Status.IsActive() {
			continue
		}
		event, ok := f.events[reg.TourEventID]
		if !ok {
			continue
		}
		out = append(out, domain.RegistrationWindow{
			RegistrationID: reg.ID,
			TourEventID:    reg.TourEventID,
			StartDate:      event.StartDate,
			EndDate:        event.EndDate,
		})
	}
	return out, nil
}

func (f *fakeStore) CountRegistrations(_ context.Context, tourEventID string) (domain.RegistrationCounts, error) {
	var counts domain.RegistrationCounts
	for _, reg := range f.registrations {
		if reg.TourEventID != tourEventID {
			continue
		}
		switch reg.Status {
		case domain.RegistrationStatusApproved:
			counts.Approved++
		case domain.RegistrationStatusPending:
			counts.Pending++
		}
	}
	return counts, nil
}

func (f *fakeStore) CreateRegistration(_ context.Context, reg domain.Registration) error {
	f.registrations[reg.ID] = reg
	return nil
}

func (f *fakeStore) UpdateRegistration(_ context.Context, reg domain.Registration) error {
	if _, ok := f.registrations[reg.ID]; !ok {
		return domain.ErrRegistrationNotFound
	}
	f.registrations[reg.ID] = reg
	return nil
}

func (f *fakeStore) ListRegistrationsByTourEvent(_ context.Context, tourEventID string) ([]domain.Registration, error) {
	var out []domain.Registration
	for _, reg := range f.registrations {
		if reg.TourEventID == tourEventID {
			out = append(out, reg)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) ListRegistrationsByTourist(_ context.Context, touristUserID string) ([]domain.Registration, error) {
	var out []domain.Registration
	for _, reg := range f.registrations {
		if reg.TouristUserID == touristUserID {
			out = append(out, reg)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) GetActivity(_ context.Context, id string) (domain.Activity, error) {
	activity, ok := f.activities[id]
	if !ok {
		return domain.Activity{}, domain.ErrActivityNotFound
	}
	return activity, nil
}

func (f *fakeStore) ListActivitiesOnDate(_ context.Context, tourEventID string, date time.Time) ([]domain.Activity, error) {
	var out []domain.Activity
	for _, activity := range f.activities {
		if activity.TourEventID == tourEventID && sameDate(activity.ActivityDate, date) {
			out = append(out, activity)
		}
	}
	sortActivities(out)
	return out, nil
}

func (f *fakeStore) ListActivities(_ context.Context, tourEventID string) ([]domain.Activity, error) {
	var out []domain.Activity
	for _, activity := range f.activities {
		if activity.TourEventID == tourEventID {
			out = append(out, activity)
		}
	}
	sortActivities(out)
	return out, nil
}

func (f *fakeStore) CreateActivity(_ context.Context, activity domain.Activity) error {
	f.activities[activity.ID] = activity
	return nil
}

func (f *fakeStore) UpdateActivity(_ context.Context, activity domain.Activity) error {
	if _, ok := f.activities[activity.ID]; !ok {
		return domain.ErrActivityNotFound
	}
	f.activities[activity.ID] = activity
	return nil
}

func (f *fakeStore) DeleteActivity(_ context.Context, id string) error {
	if _, ok := f.activities[id]; !ok {
		return domain.ErrActivityNotFound
	}
	delete(f.activities, id)
	return nil
}

func sortActivities(activities []domain.Activity) {
	sort.Slice(activities, func(i, j int) bool {
		if !activities[i].ActivityDate.Equal(activities[j].ActivityDate) {
			return activities[i].ActivityDate.Before(activities[j].ActivityDate)
		}
		return activities[i].StartTime < activities[j].StartTime
	})
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// fakeNotifier records emitted events for assertions.
type fakeNotifier struct {
	events []notify.Event
}

func (f *fakeNotifier) Notify(event notify.Event) {
	f.events = append(f.events, event)
}

func (f *fakeNotifier) types() []string {
	out := make([]string, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.Type)
	}
	return out
}
