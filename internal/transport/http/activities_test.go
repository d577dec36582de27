package http

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opeoladettp/Tourist-Guide-Backend-sub001/internal/app"
	"github.com/opeoladettp/Tourist-Guide-Backend-sub001/internal/domain"
)

func sampleActivity() domain.Activity {
	return domain.Activity{
		ID:           "act-1",
		TourEventID:  "event-1",
		ActivityDate: time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC),
		StartTime:    "09:00",
		EndTime:      "11:00",
		ActivityName: "Museum Visit",
		ActivityType: "culture",
	}
}

func TestActivityHandler_Add(t *testing.T) {
	t.Parallel()

	validBody := `{"activity_date":"2025-06-03","start_time":"09:00","end_time":"11:00","activity_name":"Museum Visit","activity_type":"culture"}`

	tests := []struct {
		name       string
		body       string
		role       Role
		serviceErr error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "created",
			body:       validBody,
			role:       RoleProviderStaff,
			wantStatus: http.StatusCreated,
			wantBody:   `"activity_name":"Museum Visit"`,
		},
		{
			name:       "tourist forbidden",
			body:       validBody,
			role:       RoleTourist,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "bad date",
			body:       `{"activity_date":"June 3","start_time":"09:00","end_time":"11:00","activity_name":"x","activity_type":"culture"}`,
			role:       RoleProviderStaff,
			wantStatus: http.StatusBadRequest,
			wantBody:   codeInvalidDate,
		},
		{
			name:       "date outside event range",
			body:       validBody,
			role:       RoleProviderStaff,
			serviceErr: domain.ErrInvalidRange,
			wantStatus: http.StatusBadRequest,
			wantBody:   codeInvalidRange,
		},
		{
			name:       "overlap conflict",
			body:       validBody,
			role:       RoleProviderStaff,
			serviceErr: domain.ErrScheduleConflict,
			wantStatus: http.StatusConflict,
			wantBody:   codeScheduleConflict,
		},
		{
			name:       "cancelled event",
			body:       validBody,
			role:       RoleProviderStaff,
			serviceErr: domain.ErrInvalidState,
			wantStatus: http.StatusConflict,
			wantBody:   codeInvalidState,
		},
		{
			name:       "event not found",
			body:       validBody,
			role:       RoleProviderStaff,
			serviceErr: domain.ErrTourEventNotFound,
			wantStatus: http.StatusNotFound,
			wantBody:   codeTourEventNotFound,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			schedule := &fakeScheduleService{
				add: func(in app.ActivityInput) (domain.Activity, error) {
					if tc.serviceErr != nil {
						return domain.Activity{}, tc.serviceErr
					}
					activity := sampleActivity()
					activity.TourEventID = in.TourEventID
					return activity, nil
				},
			}
			router := newTestRouter(testRouterOpts{schedule: schedule})

			rec := doRequest(t, router, http.MethodPost, "/api/tour-events/event-1/activities", tc.body, "staff-1", tc.role)
			require.Equal(t, tc.wantStatus, rec.Code)
			if tc.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tc.wantBody)
			}
		})
	}
}

func TestActivityHandler_Update(t *testing.T) {
	t.Parallel()

	var gotActivityID string
	var gotInput app.ActivityInput
	schedule := &fakeScheduleService{
		update: func(activityID string, in app.ActivityInput) (domain.Activity, error) {
			gotActivityID = activityID
			gotInput = in
			activity := sampleActivity()
			activity.StartTime = domain.TimeOfDay(in.StartTime)
			activity.EndTime = domain.TimeOfDay(in.EndTime)
			return activity, nil
		},
	}
	router := newTestRouter(testRouterOpts{schedule: schedule})

	body := `{"activity_date":"2025-06-03","start_time":"10:00","end_time":"12:00","activity_name":"Museum Visit","activity_type":"culture"}`
	rec := doRequest(t, router, http.MethodPut, "/api/tour-events/event-1/activities/act-1", body, "staff-1", RoleProviderStaff)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "act-1", gotActivityID)
	assert.Equal(t, "event-1", gotInput.TourEventID)
	assert.Contains(t, rec.Body.String(), `"start_time":"10:00"`)
}

func TestActivityHandler_Remove(t *testing.T) {
	t.Parallel()

	schedule := &fakeScheduleService{
		remove: func(tourEventID, activityID string) error {
			if activityID != "act-1" {
				return domain.ErrActivityNotFound
			}
			return nil
		},
	}
	router := newTestRouter(testRouterOpts{schedule: schedule})

	rec := doRequest(t, router, http.MethodDelete, "/api/tour-events/event-1/activities/act-1", "", "staff-1", RoleProviderStaff)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, router, http.MethodDelete, "/api/tour-events/event-1/activities/missing", "", "staff-1", RoleProviderStaff)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), codeActivityNotFound)

	rec = doRequest(t, router, http.MethodDelete, "/api/tour-events/event-1/activities/act-1", "", "tourist-1", RoleTourist)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestActivityHandler_Schedule(t *testing.T) {
	t.Parallel()

	var gotDate *time.Time
	schedule := &fakeScheduleService{
		getSchedule: func(tourEventID string, date *time.Time) ([]domain.Activity, error) {
			gotDate = date
			return []domain.Activity{sampleActivity()}, nil
		},
	}
	router := newTestRouter(testRouterOpts{schedule: schedule})

	rec := doRequest(t, router, http.MethodGet, "/api/tour-events/event-1/schedule", "", "tourist-1", RoleTourist)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, gotDate)
	assert.Contains(t, rec.Body.String(), `"activity_date":"2025-06-03"`)

	rec = doRequest(t, router, http.MethodGet, "/api/tour-events/event-1/schedule?date=2025-06-03", "", "tourist-1", RoleTourist)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotDate)
	assert.Equal(t, time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC), *gotDate)

	rec = doRequest(t, router, http.MethodGet, "/api/tour-events/event-1/schedule?date=tomorrow", "", "tourist-1", RoleTourist)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), codeInvalidDate)
}
