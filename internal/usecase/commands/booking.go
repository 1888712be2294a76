package commands

import (
	"context"
	"time"

	"fitbook/internal/domain/actor"
	"fitbook/internal/domain/booking"
	"fitbook/internal/domain/credit"
	"fitbook/internal/pkg/clock"
	"fitbook/internal/pkg/config"
	"fitbook/internal/pkg/errs"
	"fitbook/internal/usecase/shared"

	"github.com/google/uuid"
)

type CreateBookingParams struct {
	Kind            booking.Kind
	RoomID          uuid.UUID
	StaffID         uuid.UUID
	ClientID        *uuid.UUID
	Start           time.Time
	End             time.Time
	TimeZone        string
	Notes           string
	Capacity        *int32
	CreditsRequired *int32
}

type MoveBookingParams struct {
	BookingID uuid.UUID
	NewStart  time.Time
	NewEnd    time.Time
}

type CancelBookingParams struct {
	BookingID   uuid.UUID
	ForceRefund bool
	// Reason, when given, lands in the booking's notes so the change log
	// carries it alongside the status flip.
	Reason string
}

type BookingResult struct {
	ID            uuid.UUID
	Kind          booking.Kind
	RoomID        uuid.UUID
	StaffID       uuid.UUID
	ClientID      *uuid.UUID
	StartsAt      time.Time
	EndsAt        time.Time
	Status        booking.Status
	Notes         string
	CreditsSpent  int32
	CancelledLate bool
}

type BookingCommands interface {
	CreateBooking(ctx context.Context, act actor.Context, p CreateBookingParams) (*BookingResult, error)
	MoveBooking(ctx context.Context, act actor.Context, p MoveBookingParams) (*BookingResult, error)
	CancelBooking(ctx context.Context, act actor.Context, p CancelBookingParams) (*BookingResult, error)
	CompleteBooking(ctx context.Context, act actor.Context, id uuid.UUID) (*BookingResult, error)
	MarkBookingNoShow(ctx context.Context, act actor.Context, id uuid.UUID) (*BookingResult, error)
}

type bookingCommands struct {
	uow   shared.UnitOfWork
	audit *AuditLogger
	clock clock.Clock
	cfg   config.BookingConfig
}

func NewBookingCommands(uow shared.UnitOfWork, auditLogger *AuditLogger, clk clock.Clock, cfg config.BookingConfig) BookingCommands {
	return &bookingCommands{
		uow:   uow,
		audit: auditLogger,
		clock: clk,
		cfg:   cfg,
	}
}

// CreateBooking is the write path for ad-hoc sessions and blocks. Inside one
// transaction: lock room then staff, check both overlaps under the guards,
// reserve credits when required, persist, audit, enqueue the fact.
func (c *bookingCommands) CreateBooking(ctx context.Context, act actor.Context, p CreateBookingParams) (*BookingResult, error) {
	slot, err := booking.NewTimeSlot(p.Start, p.End)
	if err != nil {
		return nil, err
	}

	var result *BookingResult
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := acquireIntervalLocks(ctx, tx, p.RoomID, p.StaffID); err != nil {
			return err
		}
		if err := checkOverlap(ctx, tx, booking.ResourceRoom, p.RoomID, slot, nil); err != nil {
			return err
		}
		if err := checkOverlap(ctx, tx, booking.ResourceStaff, p.StaffID, slot, nil); err != nil {
			return err
		}

		b, err := booking.NewBooking(&booking.Services{Clock: c.clock}, booking.NewBookingParams{
			Kind:     p.Kind,
			RoomID:   p.RoomID,
			StaffID:  p.StaffID,
			ClientID: p.ClientID,
			Slot:     slot,
			TimeZone: c.timeZoneOrDefault(p.TimeZone),
			Notes:    p.Notes,
			Capacity: p.Capacity,
		})
		if err != nil {
			return err
		}

		if p.ClientID != nil {
			required, err := c.requiredCredits(ctx, tx, p)
			if err != nil {
				return err
			}
			if required > 0 {
				pass, err := reserveCredits(ctx, tx, *p.ClientID, required, c.clock.Now())
				if err != nil {
					return err
				}
				b.AttachCredits(pass.ID(), required)
			}
		}

		if err := tx.Bookings().Create(ctx, b); err != nil {
			return err
		}

		roomName, staffName, clientName := c.resolveNames(ctx, tx, b)
		staffOwner := b.StaffID()
		c.audit.Created(ctx, tx, act, entityKindBooking, b.ID(),
			bookingSnapshot(b, roomName, staffName, clientName), &staffOwner)

		if err := enqueueFact(ctx, tx, TopicBookingCreated, b, nil); err != nil {
			return err
		}
		result = toBookingResult(b)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// MoveBooking re-validates conflicts against the proposed interval before
// committing, ignoring the booking's own prior row. The original and proposed
// intervals are both exposed on the policy error so the excluded policy layer
// can reason about same-day movement.
func (c *bookingCommands) MoveBooking(ctx context.Context, act actor.Context, p MoveBookingParams) (*BookingResult, error) {
	newSlot, err := booking.NewTimeSlot(p.NewStart, p.NewEnd)
	if err != nil {
		return nil, err
	}

	var result *BookingResult
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Bookings().FindByID(ctx, p.BookingID)
		if err != nil {
			return err
		}

		loc := c.businessLocation()
		if !act.IsPrivileged() && !b.Slot().SameDay(newSlot, loc) {
			return errs.Mark(
				errs.Errorf("cross-day move %s -> %s requires a privileged actor", b.Slot(), newSlot),
				errs.ErrPolicyViolation,
			)
		}

		if err := acquireIntervalLocks(ctx, tx, b.RoomID(), b.StaffID()); err != nil {
			return err
		}
		excludeID := b.ID()
		if err := checkOverlap(ctx, tx, booking.ResourceRoom, b.RoomID(), newSlot, &excludeID); err != nil {
			return err
		}
		if err := checkOverlap(ctx, tx, booking.ResourceStaff, b.StaffID(), newSlot, &excludeID); err != nil {
			return err
		}

		roomName, staffName, clientName := c.resolveNames(ctx, tx, b)
		before := bookingSnapshot(b, roomName, staffName, clientName)
		prevSlot := b.Slot()

		if err := b.MoveTo(newSlot, c.clock.Now()); err != nil {
			return err
		}
		if err := tx.Bookings().Update(ctx, b); err != nil {
			return err
		}

		staffOwner := b.StaffID()
		c.audit.Updated(ctx, tx, act, entityKindBooking, b.ID(),
			before, bookingSnapshot(b, roomName, staffName, clientName), &staffOwner)

		if err := enqueueFact(ctx, tx, TopicBookingMoved, b, &prevSlot); err != nil {
			return err
		}
		result = toBookingResult(b)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CancelBooking applies the notice-window policy: late cancellations succeed
// but forfeit the refund unless the actor is privileged or a refund is forced.
func (c *bookingCommands) CancelBooking(ctx context.Context, act actor.Context, p CancelBookingParams) (*BookingResult, error) {
	var result *BookingResult
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Bookings().FindByID(ctx, p.BookingID)
		if err != nil {
			return err
		}
		if err := acquireIntervalLocks(ctx, tx, b.RoomID(), b.StaffID()); err != nil {
			return err
		}

		roomName, staffName, clientName := c.resolveNames(ctx, tx, b)
		before := bookingSnapshot(b, roomName, staffName, clientName)

		outcome, err := b.Cancel(c.clock.Now(), c.cfg.CancelNoticeWindow, act.IsPrivileged(), p.ForceRefund)
		if err != nil {
			return err
		}
		if p.Reason != "" {
			b.UpdateNotes(p.Reason, c.clock.Now())
		}

		if outcome.Refund && b.CreditPassID() != nil {
			if err := refundToPass(ctx, tx, *b.CreditPassID(), b.CreditsSpent()); err != nil {
				return err
			}
		}

		if err := tx.Bookings().Update(ctx, b); err != nil {
			return err
		}

		staffOwner := b.StaffID()
		c.audit.Updated(ctx, tx, act, entityKindBooking, b.ID(),
			before, bookingSnapshot(b, roomName, staffName, clientName), &staffOwner)

		if err := enqueueFact(ctx, tx, TopicBookingCancelled, b, nil); err != nil {
			return err
		}
		result = toBookingResult(b)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *bookingCommands) CompleteBooking(ctx context.Context, act actor.Context, id uuid.UUID) (*BookingResult, error) {
	return c.simpleTransition(ctx, act, id, func(b *booking.Booking) error {
		return b.Complete(c.clock.Now())
	})
}

func (c *bookingCommands) MarkBookingNoShow(ctx context.Context, act actor.Context, id uuid.UUID) (*BookingResult, error) {
	return c.simpleTransition(ctx, act, id, func(b *booking.Booking) error {
		return b.MarkNoShow(c.clock.Now())
	})
}

func (c *bookingCommands) simpleTransition(ctx context.Context, act actor.Context, id uuid.UUID, transition func(*booking.Booking) error) (*BookingResult, error) {
	var result *BookingResult
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Bookings().FindByID(ctx, id)
		if err != nil {
			return err
		}

		roomName, staffName, clientName := c.resolveNames(ctx, tx, b)
		before := bookingSnapshot(b, roomName, staffName, clientName)

		if err := transition(b); err != nil {
			return err
		}
		if err := tx.Bookings().Update(ctx, b); err != nil {
			return err
		}

		staffOwner := b.StaffID()
		c.audit.Updated(ctx, tx, act, entityKindBooking, b.ID(),
			before, bookingSnapshot(b, roomName, staffName, clientName), &staffOwner)
		result = toBookingResult(b)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *bookingCommands) requiredCredits(ctx context.Context, tx shared.Tx, p CreateBookingParams) (int32, error) {
	if p.CreditsRequired != nil {
		return *p.CreditsRequired, nil
	}
	room, err := tx.Reads().RoomByID(ctx, p.RoomID)
	if err != nil {
		return 0, err
	}
	siteID := room.SiteID
	return tx.Pricing().CreditsFor(ctx, p.Kind, &siteID)
}

func (c *bookingCommands) resolveNames(ctx context.Context, tx shared.Tx, b *booking.Booking) (roomName, staffName, clientName string) {
	if room, err := tx.Reads().RoomByID(ctx, b.RoomID()); err == nil {
		roomName = room.Name
	}
	if staff, err := tx.Reads().StaffByID(ctx, b.StaffID()); err == nil {
		staffName = staff.Name
	}
	if b.ClientID() != nil {
		if name, err := tx.Reads().ClientName(ctx, *b.ClientID()); err == nil {
			clientName = name
		}
	}
	return
}

func (c *bookingCommands) businessLocation() *time.Location {
	loc, err := time.LoadLocation(c.cfg.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *bookingCommands) timeZoneOrDefault(tz string) string {
	if tz == "" {
		return c.cfg.TimeZone
	}
	return tz
}

// acquireIntervalLocks takes the room and staff guards in the mandatory
// global order (room before staff before credit pass). Every operation that
// touches overlapping resource sets must go through here so concurrent
// transactions cannot form a deadlock cycle.
func acquireIntervalLocks(ctx context.Context, tx shared.Tx, roomID, staffID uuid.UUID) error {
	if err := tx.Locks().Acquire(ctx, booking.ResourceRoom, roomID); err != nil {
		return err
	}
	return tx.Locks().Acquire(ctx, booking.ResourceStaff, staffID)
}

// checkOverlap runs the half-open collision test under a held guard, so the
// answer stays valid until the transaction commits. On collision it raises
// Conflict carrying the colliding interval; it never auto-resolves.
func checkOverlap(ctx context.Context, tx shared.Tx, kind booking.ResourceKind, resourceID uuid.UUID, slot booking.TimeSlot, excludeID *uuid.UUID) error {
	row, err := tx.Bookings().FindOverlap(ctx, kind, resourceID, slot, excludeID)
	if err != nil {
		return err
	}
	if row != nil {
		return errs.NewConflict(errs.ConflictDetail{
			ResourceKind: string(kind),
			ResourceID:   resourceID,
			BookingID:    row.BookingID,
			StartsAt:     row.StartsAt,
			EndsAt:       row.EndsAt,
		})
	}
	return nil
}

// reserveCredits locks the client's active passes, applies the
// expiry-priority selection, and deducts from the chosen pass. The pass lock
// is acquired last, after room and staff.
func reserveCredits(ctx context.Context, tx shared.Tx, clientID uuid.UUID, required int32, now time.Time) (*credit.Pass, error) {
	passes, err := tx.Passes().ListActiveForUpdate(ctx, clientID)
	if err != nil {
		return nil, err
	}
	pass, err := credit.SelectPass(passes, now, required)
	if err != nil {
		return nil, err
	}
	if err := pass.Deduct(required); err != nil {
		return nil, err
	}
	if err := tx.Passes().UpdateBalance(ctx, pass); err != nil {
		return nil, err
	}
	return pass, nil
}

// refundToPass restores credits to the exact pass they were drawn from.
func refundToPass(ctx context.Context, tx shared.Tx, passID uuid.UUID, amount int32) error {
	pass, err := tx.Passes().FindByIDForUpdate(ctx, passID)
	if err != nil {
		return err
	}
	if err := pass.Refund(amount); err != nil {
		return err
	}
	return tx.Passes().UpdateBalance(ctx, pass)
}

func toBookingResult(b *booking.Booking) *BookingResult {
	return &BookingResult{
		ID:            b.ID(),
		Kind:          b.Kind(),
		RoomID:        b.RoomID(),
		StaffID:       b.StaffID(),
		ClientID:      b.ClientID(),
		StartsAt:      b.Slot().Start(),
		EndsAt:        b.Slot().End(),
		Status:        b.Status(),
		Notes:         b.Notes(),
		CreditsSpent:  b.CreditsSpent(),
		CancelledLate: b.CancelledLate(),
	}
}
