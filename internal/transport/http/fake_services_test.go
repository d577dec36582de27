package http

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/opeoladettp/Tourist-Guide-Backend-sub001/internal/app"
	"github.com/opeoladettp/Tourist-Guide-Backend-sub001/internal/domain"
)

// Fake services with overridable function fields, so each test stubs only
// the calls it expects.

type fakeEventService struct {
	create      func(app.CreateTourEventInput) (domain.TourEvent, error)
	update      func(app.UpdateTourEventInput) (domain.TourEvent, error)
	activate    func(string) (domain.TourEvent, error)
	cancelEvent func(string) (domain.TourEvent, error)
	get         func(string) (domain.TourEvent, error)
	list        func() ([]domain.TourEvent, error)
}

func (f *fakeEventService) Create(_ context.Context, in app.CreateTourEventInput) (domain.TourEvent, error) {
	return f.create(in)
}

func (f *fakeEventService) Update(_ context.Context, in app.UpdateTourEventInput) (domain.TourEvent, error) {
	return f.update(in)
}

func (f *fakeEventService) Activate(_ context.Context, id string) (domain.TourEvent, error) {
	return f.activate(id)
}

func (f *fakeEventService) CancelEvent(_ context.Context, id string) (domain.TourEvent, error) {
	return f.cancelEvent(id)
}

func (f *fakeEventService) Get(_ context.Context, id string) (domain.TourEvent, error) {
	return f.get(id)
}

func (f *fakeEventService) List(_ context.Context) ([]domain.TourEvent, error) {
	return f.list()
}

type fakeCapacityReader struct {
	info func(string) (app.CapacityInfo, error)
}

func (f *fakeCapacityReader) Info(_ context.Context, tourEventID string) (app.CapacityInfo, error) {
	return f.info(tourEventID)
}

type fakeRegistrationService struct {
	register        func(app.RegisterInput) (domain.Registration, error)
	approve         func(app.ApproveInput) (domain.Registration, error)
	reject          func(app.RejectInput) (domain.Registration, error)
	cancel          func(app.CancelInput) (domain.Registration, error)
	listByTourEvent func(string) ([]domain.Registration, error)
	listByTourist   func(string) ([]domain.Registration, error)
}

func (f *fakeRegistrationService) Register(_ context.Context, in app.RegisterInput) (domain.Registration, error) {
	return f.register(in)
}

func (f *fakeRegistrationService) Approve(_ context.Context, in app.ApproveInput) (domain.Registration, error) {
	return f.approve(in)
}

func (f *fakeRegistrationService) Reject(_ context.Context, in app.RejectInput) (domain.Registration, error) {
	return f.reject(in)
}

func (f *fakeRegistrationService) Cancel(_ context.Context, in app.CancelInput) (domain.Registration, error) {
	return f.cancel(in)
}

func (f *fakeRegistrationService) ListByTourEvent(_ context.Context, tourEventID string) ([]domain.Registration, error) {
	return f.listByTourEvent(tourEventID)
}

func (f *fakeRegistrationService) ListByTourist(_ context.Context, touristUserID string) ([]domain.Registration, error) {
	return f.listByTourist(touristUserID)
}

type fakeScheduleService struct {
	add         func(app.ActivityInput) (domain.Activity, error)
	update      func(string, app.ActivityInput) (domain.Activity, error)
	remove      func(string, string) error
	getSchedule func(string, *time.Time) ([]domain.Activity, error)
}

func (f *fakeScheduleService) AddActivity(_ context.Context, in app.ActivityInput) (domain.Activity, error) {
	return f.add(in)
}

func (f *fakeScheduleService) UpdateActivity(_ context.Context, activityID string, in app.ActivityInput) (domain.Activity, error) {
	return f.update(activityID, in)
}

func (f *fakeScheduleService) RemoveActivity(_ context.Context, tourEventID, activityID string) error {
	return f.remove(tourEventID, activityID)
}

func (f *fakeScheduleService) GetSchedule(_ context.Context, tourEventID string, date *time.Time) ([]domain.Activity, error) {
	return f.getSchedule(tourEventID, date)
}

type testRouterOpts struct {
	events        *fakeEventService
	capacity      *fakeCapacityReader
	registrations *fakeRegistrationService
	schedule      *fakeScheduleService
}

func newTestRouter(opts testRouterOpts) http.Handler {
	if opts.events == nil {
		opts.events = &fakeEventService{}
	}
	if opts.capacity == nil {
		opts.capacity = &fakeCapacityReader{}
	}
	if opts.registrations == nil {
		opts.registrations = &fakeRegistrationService{}
	}
	if opts.schedule == nil {
		opts.schedule = &fakeScheduleService{}
	}
	return NewRouter(RouterConfig{
		Events:        NewEventHandler(opts.events, opts.capacity),
		Registrations: NewRegistrationHandler(opts.registrations),
		Activities:    NewActivityHandler(opts.schedule),
		Logger:        log.New(io.Discard, "", 0),
	})
}

// doRequest issues a request with gateway identity headers attached.
func doRequest(t *testing.T, handler http.Handler, method, target, body string, userID string, role Role) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if userID != "" {
		req.Header.Set(headerUserID, userID)
	}
	if role != "" {
		req.Header.Set(headerUserRole, string(role))
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}
