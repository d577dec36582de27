package domain

import "time"

type RegistrationStatus string

const (
	RegistrationStatusPending   RegistrationStatus = "pending"
	RegistrationStatusApproved  RegistrationStatus = "approved"
	RegistrationStatusRejected  RegistrationStatus = "rejected"
	RegistrationStatusCancelled RegistrationStatus = "cancelled"
)

// IsActive reports whether the registration still claims (pending) or holds
// (approved) a seat.
func (s RegistrationStatus) IsActive() bool {
	return s == RegistrationStatusPending || s == RegistrationStatusApproved
}

// Registration is a tourist's request to occupy one seat on a tour event.
// Registrations are never physically deleted.
type Registration struct {
	ID               string
	TourEventID      string
	TouristUserID    string
	Status           RegistrationStatus
	RegistrationDate time.Time
	ApprovedByUserID *string
	ApprovedDate     *time.Time
	RejectedReason   *string
}

// RegistrationWindow carries an active registration's claim on a date range,
// used for the cross-event overlap check.
type RegistrationWindow struct {
	RegistrationID string
	TourEventID    string
	StartDate      time.Time
	EndDate        time.Time
}

// RegistrationCounts is a recount of the registration set for one tour event.
type RegistrationCounts struct {
	Approved int
	Pending  int
}
