package commands

import (
	"context"

	"fitbook/internal/domain/actor"
	"fitbook/internal/domain/booking"
	"fitbook/internal/pkg/clock"
	"fitbook/internal/pkg/config"
	"fitbook/internal/pkg/errs"
	"fitbook/internal/usecase/shared"

	"github.com/google/uuid"
)

type RegistrationResult struct {
	ID           uuid.UUID
	BookingID    uuid.UUID
	ClientID     uuid.UUID
	Status       booking.RegistrationStatus
	CreditsSpent int32
}

type RegistrationCommands interface {
	Register(ctx context.Context, act actor.Context, clientID, occurrenceID uuid.UUID) (*RegistrationResult, error)
	CancelRegistration(ctx context.Context, act actor.Context, registrationID uuid.UUID) (*RegistrationResult, error)
	CheckIn(ctx context.Context, act actor.Context, registrationID uuid.UUID) (*RegistrationResult, error)
	MarkNoShow(ctx context.Context, act actor.Context, registrationID uuid.UUID) (*RegistrationResult, error)
}

type registrationCommands struct {
	uow   shared.UnitOfWork
	audit *AuditLogger
	clock clock.Clock
	cfg   config.BookingConfig
}

func NewRegistrationCommands(uow shared.UnitOfWork, auditLogger *AuditLogger, clk clock.Clock, cfg config.BookingConfig) RegistrationCommands {
	return &registrationCommands{
		uow:   uow,
		audit: auditLogger,
		clock: clk,
		cfg:   cfg,
	}
}

// Register books a client into a class occurrence, or waitlists them when the
// occurrence is full. The occurrence row itself is locked so two concurrent
// registrations cannot both pass the capacity check.
func (c *registrationCommands) Register(ctx context.Context, act actor.Context, clientID, occurrenceID uuid.UUID) (*RegistrationResult, error) {
	var result *RegistrationResult
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		occ, err := tx.Bookings().FindByIDForUpdate(ctx, occurrenceID)
		if err != nil {
			return err
		}
		if occ.Kind() != booking.KindClass {
			return errs.Mark(errs.Errorf("booking %s is not a class occurrence", occurrenceID), errs.ErrPolicyViolation)
		}
		if occ.Status() != booking.StatusScheduled || occ.IsDeleted() {
			return errs.Mark(errs.Errorf("occurrence %s is not open for registration", occurrenceID), errs.ErrTerminalState)
		}

		if existing, err := tx.Registrations().FindNonCancelled(ctx, clientID, occurrenceID); err != nil {
			return err
		} else if existing != nil {
			return errs.Mark(
				errs.Errorf("client %s already holds registration %s", clientID, existing.ID()),
				errs.ErrAlreadyRegistered,
			)
		}

		status := booking.RegistrationBooked
		if cap := occ.Capacity(); cap != nil {
			booked, err := tx.Registrations().CountBooked(ctx, occurrenceID)
			if err != nil {
				return err
			}
			if booked >= *cap {
				status = booking.RegistrationWaitlist
			}
		}

		reg, err := booking.NewRegistration(occurrenceID, clientID, status, c.clock.Now())
		if err != nil {
			return err
		}

		// Waitlist entries are not charged; credits are only drawn for a
		// confirmed spot.
		if status == booking.RegistrationBooked {
			required, err := tx.Pricing().CreditsFor(ctx, booking.KindClass, nil)
			if err != nil {
				return err
			}
			if required > 0 {
				pass, err := reserveCredits(ctx, tx, clientID, required, c.clock.Now())
				if err != nil {
					return err
				}
				reg.AttachCredits(pass.ID(), required)
			}
		}

		if err := tx.Registrations().Create(ctx, reg); err != nil {
			return err
		}

		clientName, _ := tx.Reads().ClientName(ctx, clientID)
		staffOwner := occ.StaffID()
		c.audit.Created(ctx, tx, act, entityKindRegistration, reg.ID(),
			registrationSnapshot(reg, clientName), &staffOwner)

		result = toRegistrationResult(reg)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CancelRegistration frees the spot and, when a booked registration leaves a
// full class, promotes the earliest-created waitlist entry (FIFO).
func (c *registrationCommands) CancelRegistration(ctx context.Context, act actor.Context, registrationID uuid.UUID) (*RegistrationResult, error) {
	var result *RegistrationResult
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		reg, err := tx.Registrations().FindByID(ctx, registrationID)
		if err != nil {
			return err
		}
		occ, err := tx.Bookings().FindByIDForUpdate(ctx, reg.BookingID())
		if err != nil {
			return err
		}

		wasBooked := reg.Status() == booking.RegistrationBooked
		clientName, _ := tx.Reads().ClientName(ctx, reg.ClientID())
		before := registrationSnapshot(reg, clientName)

		now := c.clock.Now()
		if err := reg.Cancel(now); err != nil {
			return err
		}

		// Refund follows the booking notice window: late cancellations keep
		// the credits unless the actor is privileged.
		late := !act.IsPrivileged() && now.Add(c.cfg.CancelNoticeWindow).After(occ.Slot().Start())
		if wasBooked && reg.CreditPassID() != nil && !late {
			if err := refundToPass(ctx, tx, *reg.CreditPassID(), reg.CreditsSpent()); err != nil {
				return err
			}
		}

		if err := tx.Registrations().Update(ctx, reg); err != nil {
			return err
		}

		staffOwner := occ.StaffID()
		c.audit.Updated(ctx, tx, act, entityKindRegistration, reg.ID(),
			before, registrationSnapshot(reg, clientName), &staffOwner)

		if wasBooked {
			if err := c.promoteEarliestWaitlisted(ctx, tx, act, occ); err != nil {
				return err
			}
		}

		result = toRegistrationResult(reg)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *registrationCommands) CheckIn(ctx context.Context, act actor.Context, registrationID uuid.UUID) (*RegistrationResult, error) {
	return c.simpleTransition(ctx, act, registrationID, func(r *booking.Registration) error {
		return r.CheckIn(c.clock.Now())
	})
}

func (c *registrationCommands) MarkNoShow(ctx context.Context, act actor.Context, registrationID uuid.UUID) (*RegistrationResult, error) {
	return c.simpleTransition(ctx, act, registrationID, func(r *booking.Registration) error {
		return r.MarkNoShow()
	})
}

func (c *registrationCommands) simpleTransition(ctx context.Context, act actor.Context, registrationID uuid.UUID, transition func(*booking.Registration) error) (*RegistrationResult, error) {
	var result *RegistrationResult
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		reg, err := tx.Registrations().FindByID(ctx, registrationID)
		if err != nil {
			return err
		}

		clientName, _ := tx.Reads().ClientName(ctx, reg.ClientID())
		before := registrationSnapshot(reg, clientName)

		if err := transition(reg); err != nil {
			return err
		}
		if err := tx.Registrations().Update(ctx, reg); err != nil {
			return err
		}

		c.audit.Updated(ctx, tx, act, entityKindRegistration, reg.ID(),
			before, registrationSnapshot(reg, clientName), nil)

		result = toRegistrationResult(reg)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// promoteEarliestWaitlisted upgrades the FIFO head of the waitlist after a
// booked spot freed up. Promotion itself does not draw credits; the promoted
// registration keeps its zero balance for the front desk to settle.
func (c *registrationCommands) promoteEarliestWaitlisted(ctx context.Context, tx shared.Tx, act actor.Context, occ *booking.Booking) error {
	head, err := tx.Registrations().EarliestWaitlisted(ctx, occ.ID())
	if err != nil {
		return err
	}
	if head == nil {
		return nil
	}

	clientName, _ := tx.Reads().ClientName(ctx, head.ClientID())
	before := registrationSnapshot(head, clientName)

	if err := head.Promote(); err != nil {
		return err
	}
	if err := tx.Registrations().Update(ctx, head); err != nil {
		return err
	}

	staffOwner := occ.StaffID()
	c.audit.Updated(ctx, tx, act, entityKindRegistration, head.ID(),
		before, registrationSnapshot(head, clientName), &staffOwner)
	return nil
}

func toRegistrationResult(r *booking.Registration) *RegistrationResult {
	return &RegistrationResult{
		ID:           r.ID(),
		BookingID:    r.BookingID(),
		ClientID:     r.ClientID(),
		Status:       r.Status(),
		CreditsSpent: r.CreditsSpent(),
	}
}
