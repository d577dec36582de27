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

const dateLayout = "2006-01-02"

// EventService is the minimal interface needed for tour event endpoints.
type EventService interface {
	Create(ctx context.Context, in app.CreateTourEventInput) (domain.TourEvent, error)
	Update(ctx context.Context, in app.UpdateTourEventInput) (domain.TourEvent, error)
	Activate(ctx context.Context, id string) (domain.TourEvent, error)
	CancelEvent(ctx context.Context, id string) (domain.TourEvent, error)
	Get(ctx context.Context, id string) (domain.TourEvent, error)
	List(ctx context.Context) ([]domain.TourEvent, error)
}

// CapacityReader is the minimal interface needed for the capacity snapshot.
type CapacityReader interface {
	Info(ctx context.Context, tourEventID string) (app.CapacityInfo, error)
}

// EventHandler serves the tour event lifecycle endpoints.
type EventHandler struct {
	events   EventService
	capacity CapacityReader
}

func NewEventHandler(events EventService, capacity CapacityReader) *EventHandler {
	return &EventHandler{events: events, capacity: capacity}
}

func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := make([]tourEventResponse, 0, len(events))
	for _, event := range events {
		resp = append(resp, toTourEventResponse(event))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	event, err := h.events.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTourEventResponse(event))
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireStaff(w, r)
	if !ok {
		return
	}

	var req createTourEventRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}

	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidDate, "invalid start_date format")
		return
	}
	endDate, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidDate, "invalid end_date format")
		return
	}

	event, err := h.events.Create(r.Context(), app.CreateTourEventInput{
		ProviderID:              actor.UserID,
		TemplateID:              req.TemplateID,
		CustomTourName:          req.CustomTourName,
		StartDate:               startDate,
		EndDate:                 endDate,
		NumberOfAllowedTourists: req.NumberOfAllowedTourists,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTourEventResponse(event))
}

func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireStaff(w, r); !ok {
		return
	}

	var req updateTourEventRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}

	in := app.UpdateTourEventInput{
		ID:                      chi.URLParam(r, "id"),
		CustomTourName:          req.CustomTourName,
		NumberOfAllowedTourists: req.NumberOfAllowedTourists,
	}
	if req.StartDate != nil {
		parsed, err := time.Parse(dateLayout, *req.StartDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidDate, "invalid start_date format")
			return
		}
		in.StartDate = &parsed
	}
	if req.EndDate != nil {
		parsed, err := time.Parse(dateLayout, *req.EndDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidDate, "invalid end_date format")
			return
		}
		in.EndDate = &parsed
	}

	event, err := h.events.Update(r.Context(), in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTourEventResponse(event))
}

func (h *EventHandler) Activate(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireStaff(w, r); !ok {
		return
	}
	event, err := h.events.Activate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTourEventResponse(event))
}

func (h *EventHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireStaff(w, r); !ok {
		return
	}
	event, err := h.events.CancelEvent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTourEventResponse(event))
}

func (h *EventHandler) Capacity(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireStaff(w, r); !ok {
		return
	}
	info, err := h.capacity.Info(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, capacityResponse{
		TourEventID:       info.TourEventID,
		TotalCapacity:     info.TotalCapacity,
		ApprovedCount:     info.ApprovedCount,
		PendingCount:      info.PendingCount,
		RemainingCapacity: info.RemainingCapacity,
		IsFull:            info.IsFull,
	})
}

type createTourEventRequest struct {
	TemplateID              *string `json:"template_id,omitempty"`
	CustomTourName          string  `json:"custom_tour_name"`
	StartDate               string  `json:"start_date"`
	EndDate                 string  `json:"end_date"`
	NumberOfAllowedTourists int     `json:"number_of_allowed_tourists"`
}

type updateTourEventRequest struct {
	CustomTourName          *string `json:"custom_tour_name,omitempty"`
	StartDate               *string `json:"start_date,omitempty"`
	EndDate                 *string `json:"end_date,omitempty"`
	NumberOfAllowedTourists *int    `json:"number_of_allowed_tourists,omitempty"`
}

type tourEventResponse struct {
	ID                      string    `json:"id"`
	ProviderID              string    `json:"provider_id"`
	TemplateID              *string   `json:"template_id,omitempty"`
	CustomTourName          string    `json:"custom_tour_name"`
	StartDate               string    `json:"start_date"`
	EndDate                 string    `json:"end_date"`
	NumberOfAllowedTourists int       `json:"number_of_allowed_tourists"`
	RemainingTourists       int       `json:"remaining_tourists"`
	Status                  string    `json:"status"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`
}

type capacityResponse struct {
	TourEventID       string `json:"tour_event_id"`
	TotalCapacity     int    `json:"total_capacity"`
	ApprovedCount     int    `json:"approved_count"`
	PendingCount      int    `json:"pending_count"`
	RemainingCapacity int    `json:"remaining_capacity"`
	IsFull            bool   `json:"is_full"`
}

func toTourEventResponse(event domain.TourEvent) tourEventResponse {
	return tourEventResponse{
		ID:                      event.ID,
		ProviderID:              event.ProviderID,
		TemplateID:              event.TemplateID,
		CustomTourName:          event.CustomTourName,
		StartDate:               event.StartDate.Format(dateLayout),
		EndDate:                 event.EndDate.Format(dateLayout),
		NumberOfAllowedTourists: event.NumberOfAllowedTourists,
		RemainingTourists:       event.RemainingTourists,
		Status:                  string(event.Status),
		CreatedAt:               event.CreatedAt,
		UpdatedAt:               event.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
