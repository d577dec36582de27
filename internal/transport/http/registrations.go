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

// RegistrationService is the minimal interface needed for registration
// endpoints.
type RegistrationService interface {
	Register(ctx context.Context, in app.RegisterInput) (domain.Registration, error)
	Approve(ctx context.Context, in app.ApproveInput) (domain.Registration, error)
	Reject(ctx context.Context, in app.RejectInput) (domain.Registration, error)
	Cancel(ctx context.Context, in app.CancelInput) (domain.Registration, error)
	ListByTourEvent(ctx context.Context, tourEventID string) ([]domain.Registration, error)
	ListByTourist(ctx context.Context, touristUserID string) ([]domain.Registration, error)
}

// RegistrationHandler serves the registration lifecycle endpoints.
type RegistrationHandler struct {
	registrations RegistrationService
}

func NewRegistrationHandler(registrations RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registrations: registrations}
}

func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	if actor.Role != RoleTourist {
		writeError(w, http.StatusForbidden, codeForbidden, "tourist role required")
		return
	}

	reg, err := h.registrations.Register(r.Context(), app.RegisterInput{
		TourEventID:   chi.URLParam(r, "id"),
		TouristUserID: actor.UserID,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRegistrationResponse(reg))
}

func (h *RegistrationHandler) Approve(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireStaff(w, r)
	if !ok {
		return
	}

	reg, err := h.registrations.Approve(r.Context(), app.ApproveInput{
		RegistrationID: chi.URLParam(r, "id"),
		ApproverID:     actor.UserID,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRegistrationResponse(reg))
}

func (h *RegistrationHandler) Reject(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireStaff(w, r)
	if !ok {
		return
	}

	var req rejectRegistrationRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}

	reg, err := h.registrations.Reject(r.Context(), app.RejectInput{
		RegistrationID: chi.URLParam(r, "id"),
		ApproverID:     actor.UserID,
		Reason:         req.Reason,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRegistrationResponse(reg))
}

func (h *RegistrationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	reg, err := h.registrations.Cancel(r.Context(), app.CancelInput{
		RegistrationID: chi.URLParam(r, "id"),
		RequesterID:    actor.UserID,
		Staff:          actor.IsStaff(),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRegistrationResponse(reg))
}

func (h *RegistrationHandler) ListByTourEvent(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireStaff(w, r); !ok {
		return
	}

	regs, err := h.registrations.ListByTourEvent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRegistrationResponses(regs))
}

func (h *RegistrationHandler) ListOwn(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	regs, err := h.registrations.ListByTourist(r.Context(), actor.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRegistrationResponses(regs))
}

type rejectRegistrationRequest struct {
	Reason string `json:"reason"`
}

type registrationResponse struct {
	ID               string     `json:"id"`
	TourEventID      string     `json:"tour_event_id"`
	TouristUserID    string     `json:"tourist_user_id"`
	Status           string     `json:"status"`
	RegistrationDate time.Time  `json:"registration_date"`
	ApprovedByUserID *string    `json:"approved_by_user_id,omitempty"`
	ApprovedDate     *time.Time `json:"approved_date,omitempty"`
	RejectedReason   *string    `json:"rejected_reason,omitempty"`
}

func toRegistrationResponse(reg domain.Registration) registrationResponse {
	return registrationResponse{
		ID:               reg.ID,
		TourEventID:      reg.TourEventID,
		TouristUserID:    reg.TouristUserID,
		Status:           string(reg.Status),
		RegistrationDate: reg.RegistrationDate,
		ApprovedByUserID: reg.ApprovedByUserID,
		ApprovedDate:     reg.ApprovedDate,
		RejectedReason:   reg.RejectedReason,
	}
}

func toRegistrationResponses(regs []domain.Registration) []registrationResponse {
	resp := make([]registrationResponse, 0, len(regs))
	for _, reg := range regs {
		resp = append(resp, toRegistrationResponse(reg))
	}
	return resp
}
