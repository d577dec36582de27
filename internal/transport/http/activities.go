package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/opeoladettp/Tourist-Guide-Backend-sub001/internal/app"
	"github.com/opeoladettp/Tourist-Guide-Backend-sub001/internal/domain"
)

// ScheduleService is the minimal interface needed for activity endpoints.
type ScheduleService interface {
	AddActivity(ctx context.Context, in app.ActivityInput) (domain.Activity, error)
	UpdateActivity(ctx context.Context, activityID string, in app.ActivityInput) (domain.Activity, error)
	RemoveActivity(ctx context.Context, tourEventID, activityID string) error
	GetSchedule(ctx context.Context, tourEventID string, date *time.Time) ([]domain.Activity, error)
}

// ActivityHandler serves the per-day schedule endpoints.
type ActivityHandler struct {
	schedule ScheduleService
}

func NewActivityHandler(schedule ScheduleService) *ActivityHandler {
	return &ActivityHandler{schedule: schedule}
}

func (h *ActivityHandler) Add(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireStaff(w, r); !ok {
		return
	}

	in, ok := decodeActivityInput(w, r)
	if !ok {
		return
	}
	in.TourEventID = chi.URLParam(r, "id")

	activity, err := h.schedule.AddActivity(r.Context(), in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toActivityResponse(activity))
}

func (h *ActivityHandler) Update(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireStaff(w, r); !ok {
		return
	}

	in, ok := decodeActivityInput(w, r)
	if !ok {
		return
	}
	in.TourEventID = chi.URLParam(r, "id")

	activity, err := h.schedule.UpdateActivity(r.Context(), chi.URLParam(r, "activityId"), in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toActivityResponse(activity))
}

func (h *ActivityHandler) Remove(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireStaff(w, r); !ok {
		return
	}

	err := h.schedule.RemoveActivity(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "activityId"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ActivityHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	var date *time.Time
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidDate, "invalid date format")
			return
		}
		date = &parsed
	}

	activities, err := h.schedule.GetSchedule(r.Context(), chi.URLParam(r, "id"), date)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := make([]activityResponse, 0, len(activities))
	for _, activity := range activities {
		resp = append(resp, toActivityResponse(activity))
	}
	writeJSON(w, http.StatusOK, resp)
}

type activityRequest struct {
	ActivityDate string `json:"activity_date"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	ActivityName string `json:"activity_name"`
	ActivityType string `json:"activity_type"`
	Description  string `json:"description"`
	IsOptional   bool   `json:"is_optional"`
}

func decodeActivityInput(w http.ResponseWriter, r *http.Request) (app.ActivityInput, bool) {
	var req activityRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return app.ActivityInput{}, false
	}

	date, err := time.Parse(dateLayout, req.ActivityDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidDate, "invalid activity_date format")
		return app.ActivityInput{}, false
	}

	return app.ActivityInput{
		ActivityDate: date,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		ActivityName: req.ActivityName,
		ActivityType: req.ActivityType,
		Description:  req.Description,
		IsOptional:   req.IsOptional,
	}, true
}

type activityResponse struct {
	ID           string `json:"id"`
	TourEventID  string `json:"tour_event_id"`
	ActivityDate string `json:"activity_date"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	ActivityName string `json:"activity_name"`
	ActivityType string `json:"activity_type"`
	Description  string `json:"description,omitempty"`
	IsOptional   bool   `json:"is_optional"`
}

func toActivityResponse(activity domain.Activity) activityResponse {
	return activityResponse{
		ID:           activity.ID,
		TourEventID:  activity.TourEventID,
		ActivityDate: activity.ActivityDate.Format(dateLayout),
		StartTime:    string(activity.StartTime),
		EndTime:      string(activity.EndTime),
		ActivityName: activity.ActivityName,
		ActivityType: activity.ActivityType,
		Description:  activity.Description,
		IsOptional:   activity.IsOptional,
	}
}
