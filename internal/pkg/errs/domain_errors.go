package errs

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Sentinel errors shared by the booking core. Handlers map these to HTTP
// statuses; usecases attach them to causes with Mark.
var (
	// Scheduling errors
	ErrConflict        = errors.New("booking conflict")
	ErrResourceLocked  = errors.New("resource locked")
	ErrBookingNotFound = errors.New("booking not found")
	ErrInvalidInterval = errors.New("invalid interval")
	ErrTerminalState   = errors.New("booking is in a terminal state")

	// Policy errors
	ErrPolicyViolation = errors.New("policy violation")

	// Credit errors
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrMissingPricing      = errors.New("no applicable pricing")

	// Registration errors
	ErrAlreadyRegistered    = errors.New("client already registered")
	ErrRegistrationNotFound = errors.New("registration not found")

	// Template errors
	ErrTemplateNotFound = errors.New("class template not found")

	// Invariant violations indicate a bug, never user error. They must not be
	// translated into a 4xx response.
	ErrInvariantViolation = errors.New("invariant violation")
)

// ConflictDetail names the colliding resource and interval. It is attached to
// ErrConflict so callers can report what the request collided with.
type ConflictDetail struct {
	ResourceKind string
	ResourceID   uuid.UUID
	BookingID    uuid.UUID
	StartsAt     time.Time
	EndsAt       time.Time
}

type conflictError struct {
	detail ConflictDetail
}

func (e *conflictError) Error() string {
	return fmt.Sprintf("booking conflict: %s %s is occupied %s..%s by %s",
		e.detail.ResourceKind, e.detail.ResourceID,
		e.detail.StartsAt.Format(time.RFC3339), e.detail.EndsAt.Format(time.RFC3339),
		e.detail.BookingID)
}

func (e *conflictError) Is(target error) bool { return target == ErrConflict }

func NewConflict(detail ConflictDetail) error {
	return &conflictError{detail: detail}
}

// ConflictDetailOf extracts the colliding interval from an ErrConflict chain.
func ConflictDetailOf(err error) (ConflictDetail, bool) {
	var ce *conflictError
	if errors.As(err, &ce) {
		return ce.detail, true
	}
	return ConflictDetail{}, false
}
