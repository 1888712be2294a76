package shared

import (
	"context"
	"time"

	"fitbook/internal/domain/audit"
	"fitbook/internal/domain/booking"
	"fitbook/internal/domain/credit"
	"fitbook/internal/domain/schedule"

	"github.com/google/uuid"
)

// UnitOfWork runs command-side work inside one database transaction.
// Lock guards acquired through Tx.Locks() live until commit or rollback.
type UnitOfWork interface {
	// Within: full transaction for write operations with retry on
	// serialization failures.
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: read-only transaction for multi-table consistent reads.
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, reads CommandReads) error) error
	// CommandReads: single-query reads outside an explicit transaction.
	CommandReads() CommandReads
}

type Tx interface {
	Locks() ResourceLocker
	Bookings() BookingRepository
	Registrations() RegistrationRepository
	Templates() TemplateRepository
	Passes() PassRepository
	Audit() AuditRepository
	Outbox() OutboxRepository
	Payouts() PayoutRepository
	Pricing() PricingRepository
	Reads() CommandReads
}

// ResourceLocker acquires row-level exclusive locks on contended resources.
// The guard is the enclosing transaction; there is no explicit release.
// Callers must follow the global order room -> staff -> credit pass.
type ResourceLocker interface {
	Acquire(ctx context.Context, kind booking.ResourceKind, id uuid.UUID) error
}

// OverlapRow describes an existing interval that collides with a proposal.
type OverlapRow struct {
	BookingID uuid.UUID
	StartsAt  time.Time
	EndsAt    time.Time
}

type BookingRepository interface {
	Create(ctx context.Context, b *booking.Booking) error
	Update(ctx context.Context, b *booking.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	// FindByIDForUpdate locks the booking row itself, serializing capacity
	// checks against concurrent registrations.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	// FindOverlap returns the first non-cancelled, non-deleted interval of the
	// resource overlapping slot, or nil. Run only with the resource guard held.
	FindOverlap(ctx context.Context, kind booking.ResourceKind, resourceID uuid.UUID, slot booking.TimeSlot, excludeID *uuid.UUID) (*OverlapRow, error)
	// InsertOccurrence upserts a generated class occurrence keyed by
	// (template id, start instant). Reports false when the row already existed.
	InsertOccurrence(ctx context.Context, b *booking.Booking) (bool, error)
}

type RegistrationRepository interface {
	Create(ctx context.Context, r *booking.Registration) error
	Update(ctx context.Context, r *booking.Registration) error
	FindByID(ctx context.Context, id uuid.UUID) (*booking.Registration, error)
	// FindNonCancelled returns the client's registration for the occurrence in
	// any status except cancelled, or nil. Backs the one-per-client rule: a
	// no-show or attended registration still blocks re-registration.
	FindNonCancelled(ctx context.Context, clientID, bookingID uuid.UUID) (*booking.Registration, error)
	CountBooked(ctx context.Context, bookingID uuid.UUID) (int32, error)
	// EarliestWaitlisted returns the FIFO head of the waitlist, or nil.
	EarliestWaitlisted(ctx context.Context, bookingID uuid.UUID) (*booking.Registration, error)
}

type TemplateRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*schedule.Template, error)
	ListActive(ctx context.Context) ([]*schedule.Template, error)
}

type PassRepository interface {
	// ListActiveForUpdate locks and returns the client's active passes,
	// ordered by id so concurrent allocations lock in the same order.
	ListActiveForUpdate(ctx context.Context, clientID uuid.UUID) ([]*credit.Pass, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*credit.Pass, error)
	UpdateBalance(ctx context.Context, p *credit.Pass) error
}

type AuditRepository interface {
	Insert(ctx context.Context, e *audit.Entry) error
}

type OutboxRepository interface {
	Enqueue(ctx context.Context, topic string, payload []byte) error
}

type PayoutRepository interface {
	// AttendedSessions returns one row per session that had at least one
	// checked-in client in the period ("2006-01"), however many attended.
	AttendedSessions(ctx context.Context, period string) ([]SessionHours, error)
	// Insert records one payout; reports false when (staff, period) already
	// has one.
	Insert(ctx context.Context, p Payout) (bool, error)
}

type PricingRepository interface {
	// CreditsFor resolves the credit price of a booking kind, site-scoped
	// with a global fallback.
	CreditsFor(ctx context.Context, kind booking.Kind, siteID *uuid.UUID) (int32, error)
}

type CommandReads interface {
	BookingByID(ctx context.Context, id uuid.UUID) (*BookingSnapshot, error)
	RoomByID(ctx context.Context, id uuid.UUID) (*RoomSnapshot, error)
	StaffByID(ctx context.Context, id uuid.UUID) (*StaffSnapshot, error)
	ClientName(ctx context.Context, id uuid.UUID) (string, error)
}

type SessionHours struct {
	BookingID uuid.UUID
	StaffID   uuid.UUID
	RateCents int64
	Hours     float64
}

type Payout struct {
	StaffID    uuid.UUID
	Period     string
	Hours      float64
	RateCents  int64
	TotalCents int64
}
