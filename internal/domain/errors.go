package domain

import "errors"

var (
	ErrTourEventNotFound       = errors.New("tour event not found")
	ErrRegistrationNotFound    = errors.New("registration not found")
	ErrActivityNotFound        = errors.New("activity not found")
	ErrInvalidID               = errors.New("invalid id")
	ErrInvalidState            = errors.New("operation not permitted in current status")
	ErrEventNotBookable        = errors.New("tour event is not accepting registrations")
	ErrCapacityExceeded        = errors.New("tour event capacity exceeded")
	ErrScheduleConflict        = errors.New("activity overlaps an existing activity")
	ErrInvalidRange            = errors.New("invalid date, time or capacity range")
	ErrDuplicateRegistration   = errors.New("tourist already has an active registration for this tour event")
	ErrOverlappingRegistration = errors.New("tourist has an overlapping registration on another tour event")
	ErrPermissionDenied        = errors.New("permission denied")
	ErrReasonRequired          = errors.New("rejection reason required")
	ErrAlreadyDecided          = errors.New("registration already decided")
	ErrAlreadyCancelled        = errors.New("registration already cancelled")
	ErrTourNameRequired        = errors.New("tour name required")
	ErrActivityNameRequired    = errors.New("activity name required")
)
