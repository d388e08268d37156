package domain

import (
	"errors"
	"fmt"
)

// Common domain errors
var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrProductNotFound     = errors.New("product not found")
	ErrApplicantNotFound   = errors.New("applicant not found")
	ErrNoCounterOffer      = errors.New("application has no pending counter offer")
	ErrStaleStatus         = errors.New("application status changed concurrently")
)

// Calculation engine errors
var (
	// ErrScheduleTooLong is returned when term and frequency produce more
	// payments than the engine supports.
	ErrScheduleTooLong = errors.New("payment schedule exceeds maximum length")

	// ErrCATNotConverged is returned when the CAT root-find does not reach
	// tolerance within the iteration cap. It indicates a computation fault,
	// not bad user input, and should be logged as an anomaly by the caller.
	ErrCATNotConverged = errors.New("CAT calculation did not converge")
)

// InvalidTransitionError is returned when a status change is not present in
// the transition table. It carries both statuses so the API layer can produce
// a precise user-facing message.
type InvalidTransitionError struct {
	From ApplicationStatus
	To   ApplicationStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}

// MissingFieldError is a field-level validation failure, e.g. a rejection
// without a reason.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("required field is missing: %s", e.Field)
}

// InvalidInputError is returned before any computation proceeds when an input
// value is out of range.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
