package booking

import (
	"time"

	"fitbook/internal/pkg/clock"
	"fitbook/internal/pkg/errs"

	"github.com/google/uuid"
)

// Booking is any entity occupying a room/staff for a time range: an ad-hoc
// event (individual session or block) or one occurrence of a recurring class.
type Booking struct {
	id            uuid.UUID
	kind          Kind
	roomID        uuid.UUID
	staffID       uuid.UUID
	clientID      *uuid.UUID
	templateID    *uuid.UUID
	slot          TimeSlot
	timeZone      string
	status        Status
	notes         string
	capacity      *int32
	creditPassID  *uuid.UUID
	creditsSpent  int32
	cancelledLate bool
	deletedAt     *time.Time
	createdAt     time.Time
	updatedAt     time.Time
}

type Services struct {
	Clock clock.Clock
}

type NewBookingParams struct {
	Kind       Kind
	RoomID     uuid.UUID
	StaffID    uuid.UUID
	ClientID   *uuid.UUID
	TemplateID *uuid.UUID
	Slot       TimeSlot
	TimeZone   string
	Notes      string
	Capacity   *int32
}

func NewBooking(services *Services, p NewBookingParams) (*Booking, error) {
	if !p.Kind.IsValid() {
		return nil, errs.Errorf("invalid booking kind %q", p.Kind)
	}
	if p.Slot.IsZero() {
		return nil, errs.ErrInvalidInterval
	}
	if p.RoomID == uuid.Nil || p.StaffID == uuid.Nil {
		return nil, errs.New("booking requires a room and a staff member")
	}
	now := services.Clock.Now().UTC()
	return &Booking{
		id:         uuid.New(),
		kind:       p.Kind,
		roomID:     p.RoomID,
		staffID:    p.StaffID,
		clientID:   p.ClientID,
		templateID: p.TemplateID,
		slot:       p.Slot,
		timeZone:   p.TimeZone,
		status:     StatusScheduled,
		notes:      p.Notes,
		capacity:   p.Capacity,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

type ReconstructParams struct {
	ID            uuid.UUID
	Kind          Kind
	RoomID        uuid.UUID
	StaffID       uuid.UUID
	ClientID      *uuid.UUID
	TemplateID    *uuid.UUID
	Slot          TimeSlot
	TimeZone      string
	Status        Status
	Notes         string
	Capacity      *int32
	CreditPassID  *uuid.UUID
	CreditsSpent  int32
	CancelledLate bool
	DeletedAt     *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func Reconstruct(p ReconstructParams) *Booking {
	return &Booking{
		id:            p.ID,
		kind:          p.Kind,
		roomID:        p.RoomID,
		staffID:       p.StaffID,
		clientID:      p.ClientID,
		templateID:    p.TemplateID,
		slot:          p.Slot,
		timeZone:      p.TimeZone,
		status:        p.Status,
		notes:         p.Notes,
		capacity:      p.Capacity,
		creditPassID:  p.CreditPassID,
		creditsSpent:  p.CreditsSpent,
		cancelledLate: p.CancelledLate,
		deletedAt:     p.DeletedAt,
		createdAt:     p.CreatedAt,
		updatedAt:     p.UpdatedAt,
	}
}

func (b *Booking) ID() uuid.UUID            { return b.id }
func (b *Booking) Kind() Kind               { return b.kind }
func (b *Booking) RoomID() uuid.UUID        { return b.roomID }
func (b *Booking) StaffID() uuid.UUID       { return b.staffID }
func (b *Booking) ClientID() *uuid.UUID     { return b.clientID }
func (b *Booking) TemplateID() *uuid.UUID   { return b.templateID }
func (b *Booking) Slot() TimeSlot           { return b.slot }
func (b *Booking) TimeZone() string         { return b.timeZone }
func (b *Booking) Status() Status           { return b.status }
func (b *Booking) Notes() string            { return b.notes }
func (b *Booking) Capacity() *int32         { return b.capacity }
func (b *Booking) CreditPassID() *uuid.UUID { return b.creditPassID }
func (b *Booking) CreditsSpent() int32      { return b.creditsSpent }
func (b *Booking) CancelledLate() bool      { return b.cancelledLate }
func (b *Booking) DeletedAt() *time.Time    { return b.deletedAt }
func (b *Booking) CreatedAt() time.Time     { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time     { return b.updatedAt }

func (b *Booking) IsDeleted() bool { return b.deletedAt != nil }

// BlocksResources reports whether this row participates in overlap detection.
func (b *Booking) BlocksResources() bool {
	return b.status != StatusCancelled && !b.IsDeleted()
}

// UpdateNotes replaces the free-form notes staff keep on a booking. Cancel
// reasons land here so the change log records them next to the status flip.
func (b *Booking) UpdateNotes(notes string, now time.Time) {
	b.notes = notes
	b.updatedAt = now.UTC()
}

// AttachCredits records which pass paid for this booking, for refund provenance.
func (b *Booking) AttachCredits(passID uuid.UUID, amount int32) {
	b.creditPassID = &passID
	b.creditsSpent = amount
}

// MoveTo replaces the interval. Only scheduled, non-deleted bookings move;
// conflict re-validation is the orchestrator's job.
func (b *Booking) MoveTo(slot TimeSlot, now time.Time) error {
	if b.status != StatusScheduled || b.IsDeleted() {
		return errs.Mark(errs.Errorf("cannot move booking in status %q", b.status), errs.ErrTerminalState)
	}
	b.slot = slot
	b.updatedAt = now.UTC()
	return nil
}

// CancelOutcome reports how a cancellation was classified.
type CancelOutcome struct {
	Late   bool
	Refund bool
}

// Cancel transitions scheduled -> cancelled. Inside the notice window the
// cancellation still succeeds but is tagged late and forfeits the refund,
// unless the actor is privileged or the refund is forced.
func (b *Booking) Cancel(now time.Time, noticeWindow time.Duration, privileged, forceRefund bool) (CancelOutcome, error) {
	if b.status.IsTerminal() || b.IsDeleted() {
		return CancelOutcome{}, errs.Mark(errs.Errorf("cannot cancel booking in status %q", b.status), errs.ErrTerminalState)
	}
	late := !privileged && now.Add(noticeWindow).After(b.slot.Start())
	refund := b.creditsSpent > 0 && (!late || forceRefund)

	b.status = StatusCancelled
	b.cancelledLate = late
	b.updatedAt = now.UTC()
	return CancelOutcome{Late: late, Refund: refund}, nil
}

func (b *Booking) Complete(now time.Time) error {
	return b.transition(StatusCompleted, now)
}

func (b *Booking) MarkNoShow(now time.Time) error {
	return b.transition(StatusNoShow, now)
}

func (b *Booking) transition(to Status, now time.Time) error {
	if b.status != StatusScheduled || b.IsDeleted() {
		return errs.Mark(errs.Errorf("cannot transition %q -> %q", b.status, to), errs.ErrTerminalState)
	}
	b.status = to
	b.updatedAt = now.UTC()
	return nil
}

// SoftDelete tombstones the row. Hard removal never happens in the core.
func (b *Booking) SoftDelete(now time.Time) {
	t := now.UTC()
	b.deletedAt = &t
	b.updatedAt = t
}
