package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/opeoladettp/Tourist-Guide-Backend-sub001/internal/domain"
)

const (
	codeMethodNotAllowed        = "method_not_allowed"
	codeNotFound                = "not_found"
	codeInvalidRequestBody      = "invalid_request_body"
	codeInvalidDate             = "invalid_date"
	codeInvalidID               = "invalid_id"
	codeInvalidState            = "invalid_state"
	codeInvalidRange            = "invalid_range"
	codeTourNameRequired        = "tour_name_required"
	codeActivityNameRequired    = "activity_name_required"
	codeReasonRequired          = "rejection_reason_required"
	codeEventNotBookable        = "event_not_bookable"
	codeCapacityExceeded        = "capacity_exceeded"
	codeScheduleConflict        = "schedule_conflict"
	codeDuplicateRegistration   = "duplicate_registration"
	codeOverlappingRegistration = "overlapping_registration"
	codeAlreadyDecided          = "registration_already_decided"
	codeAlreadyCancelled        = "registration_already_cancelled"
	codeTourEventNotFound       = "tour_event_not_found"
	codeRegistrationNotFound    = "registration_not_found"
	codeActivityNotFound        = "activity_not_found"
	codeForbidden               = "forbidden"
	codeInternalError           = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

// writeDomainError maps a service error to its status and stable code.
func writeDomainError(w http.ResponseWriter, err error) {
	var status int
	var code string

	switch {
	case errors.Is(err, domain.ErrTourEventNotFound):
		status, code = http.StatusNotFound, codeTourEventNotFound
	case errors.Is(err, domain.ErrRegistrationNotFound):
		status, code = http.StatusNotFound, codeRegistrationNotFound
	case errors.Is(err, domain.ErrActivityNotFound):
		status, code = http.StatusNotFound, codeActivityNotFound
	case errors.Is(err, domain.ErrInvalidID):
		status, code = http.StatusBadRequest, codeInvalidID
	case errors.Is(err, domain.ErrInvalidRange):
		status, code = http.StatusBadRequest, codeInvalidRange
	case errors.Is(err, domain.ErrTourNameRequired):
		status, code = http.StatusBadRequest, codeTourNameRequired
	case errors.Is(err, domain.ErrActivityNameRequired):
		status, code = http.StatusBadRequest, codeActivityNameRequired
	case errors.Is(err, domain.ErrReasonRequired):
		status, code = http.StatusBadRequest, codeReasonRequired
	case errors.Is(err, domain.ErrInvalidState):
		status, code = http.StatusConflict, codeInvalidState
	case errors.Is(err, domain.ErrEventNotBookable):
		status, code = http.StatusConflict, codeEventNotBookable
	case errors.Is(err, domain.ErrCapacityExceeded):
		status, code = http.StatusConflict, codeCapacityExceeded
	case errors.Is(err, domain.ErrScheduleConflict):
		status, code = http.StatusConflict, codeScheduleConflict
	case errors.Is(err, domain.ErrDuplicateRegistration):
		status, code = http.StatusConflict, codeDuplicateRegistration
	case errors.Is(err, domain.ErrOverlappingRegistration):
		status, code = http.StatusConflict, codeOverlappingRegistration
	case errors.Is(err, domain.ErrAlreadyDecided):
		status, code = http.StatusConflict, codeAlreadyDecided
	case errors.Is(err, domain.ErrAlreadyCancelled):
		status, code = http.StatusConflict, codeAlreadyCancelled
	case errors.Is(err, domain.ErrPermissionDenied):
		status, code = http.StatusForbidden, codeForbidden
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
		return
	}

	writeError(w, status, code, err.Error())
}
