package booking

import (
	"time"

	"fitbook/internal/pkg/errs"

	"github.com/google/uuid"
)

// Registration ties a client to a class occurrence. At most one active
// registration may exist per (client, occurrence); the data layer backs this
// with a partial unique index.
type Registration struct {
	id           uuid.UUID
	bookingID    uuid.UUID
	clientID     uuid.UUID
	status       RegistrationStatus
	bookedAt     time.Time
	cancelledAt  *time.Time
	checkedInAt  *time.Time
	creditPassID *uuid.UUID
	creditsSpent int32
}

func NewRegistration(bookingID, clientID uuid.UUID, status RegistrationStatus, now time.Time) (*Registration, error) {
	if status != RegistrationBooked && status != RegistrationWaitlist {
		return nil, errs.Errorf("registration must start as booked or waitlist, got %q", status)
	}
	return &Registration{
		id:        uuid.New(),
		bookingID: bookingID,
		clientID:  clientID,
		status:    status,
		bookedAt:  now.UTC(),
	}, nil
}

type ReconstructRegistrationParams struct {
	ID           uuid.UUID
	BookingID    uuid.UUID
	ClientID     uuid.UUID
	Status       RegistrationStatus
	BookedAt     time.Time
	CancelledAt  *time.Time
	CheckedInAt  *time.Time
	CreditPassID *uuid.UUID
	CreditsSpent int32
}

func ReconstructRegistration(p ReconstructRegistrationParams) *Registration {
	return &Registration{
		id:           p.ID,
		bookingID:    p.BookingID,
		clientID:     p.ClientID,
		status:       p.Status,
		bookedAt:     p.BookedAt,
		cancelledAt:  p.CancelledAt,
		checkedInAt:  p.CheckedInAt,
		creditPassID: p.CreditPassID,
		creditsSpent: p.CreditsSpent,
	}
}

func (r *Registration) ID() uuid.UUID              { return r.id }
func (r *Registration) BookingID() uuid.UUID       { return r.bookingID }
func (r *Registration) ClientID() uuid.UUID        { return r.clientID }
func (r *Registration) Status() RegistrationStatus { return r.status }
func (r *Registration) BookedAt() time.Time        { return r.bookedAt }
func (r *Registration) CancelledAt() *time.Time    { return r.cancelledAt }
func (r *Registration) CheckedInAt() *time.Time    { return r.checkedInAt }
func (r *Registration) CreditPassID() *uuid.UUID   { return r.creditPassID }
func (r *Registration) CreditsSpent() int32        { return r.creditsSpent }

func (r *Registration) AttachCredits(passID uuid.UUID, amount int32) {
	r.creditPassID = &passID
	r.creditsSpent = amount
}

func (r *Registration) Cancel(now time.Time) error {
	if !r.status.IsActive() {
		return errs.Mark(errs.Errorf("registration already %q", r.status), errs.ErrTerminalState)
	}
	t := now.UTC()
	r.status = RegistrationCancelled
	r.cancelledAt = &t
	return nil
}

// CheckIn marks attendance. Checked-in hours feed the monthly payout job.
func (r *Registration) CheckIn(now time.Time) error {
	if r.status != RegistrationBooked {
		return errs.Mark(errs.Errorf("cannot check in registration in status %q", r.status), errs.ErrTerminalState)
	}
	t := now.UTC()
	r.status = RegistrationAttended
	r.checkedInAt = &t
	return nil
}

func (r *Registration) MarkNoShow() error {
	if r.status != RegistrationBooked {
		return errs.Mark(errs.Errorf("cannot mark no-show in status %q", r.status), errs.ErrTerminalState)
	}
	r.status = RegistrationNoShow
	return nil
}

// Promote upgrades a waitlist entry when a booked registration frees capacity.
// The orchestrator always promotes the earliest-created waitlist entry (FIFO).
func (r *Registration) Promote() error {
	if r.status != RegistrationWaitlist {
		return errs.Errorf("cannot promote registration in status %q", r.status)
	}
	r.status = RegistrationBooked
	return nil
}
