package commands

import (
	"context"
	"log/slog"

	"fitbook/internal/domain/actor"
	"fitbook/internal/domain/booking"
	"fitbook/internal/domain/schedule"
	"fitbook/internal/pkg/clock"
	"fitbook/internal/pkg/config"
	"fitbook/internal/pkg/errs"
	"fitbook/internal/usecase/shared"
)

type ExpandResult struct {
	Created  int
	Skipped  int
	Failures int
}

type ScheduleCommands interface {
	// ExpandRecurringClasses materializes occurrences for every active
	// template over the next horizonDays. Safe to re-run: the upsert plus the
	// (template, start) unique constraint make a second pass a no-op.
	ExpandRecurringClasses(ctx context.Context, act actor.Context, horizonDays int) (*ExpandResult, error)
}

type scheduleCommands struct {
	uow   shared.UnitOfWork
	audit *AuditLogger
	clock clock.Clock
	cfg   config.BookingConfig
}

func NewScheduleCommands(uow shared.UnitOfWork, auditLogger *AuditLogger, clk clock.Clock, cfg config.BookingConfig) ScheduleCommands {
	return &scheduleCommands{
		uow:   uow,
		audit: auditLogger,
		clock: clk,
		cfg:   cfg,
	}
}

func (c *scheduleCommands) ExpandRecurringClasses(ctx context.Context, act actor.Context, horizonDays int) (*ExpandResult, error) {
	if horizonDays <= 0 {
		return nil, errs.Mark(errs.Errorf("horizon %d must be positive", horizonDays), errs.ErrInvalidInterval)
	}
	if horizonDays > c.cfg.MaxHorizonDays {
		horizonDays = c.cfg.MaxHorizonDays
	}

	var templates []*schedule.Template
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		templates, err = tx.Templates().ListActive(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	result := &ExpandResult{}
	for _, tmpl := range templates {
		// One transaction per template: a failing template must not prevent
		// the rest of the batch from expanding.
		created, skipped, err := c.expandTemplate(ctx, act, tmpl, horizonDays)
		if err != nil {
			result.Failures++
			slog.Error("template expansion failed",
				"template_id", tmpl.ID(),
				"template", tmpl.Name(),
				"error", err.Error())
			continue
		}
		result.Created += created
		result.Skipped += skipped
	}
	return result, nil
}

func (c *scheduleCommands) expandTemplate(ctx context.Context, act actor.Context, tmpl *schedule.Template, horizonDays int) (created, skipped int, err error) {
	if tmpl.RoomID() == nil || tmpl.StaffID() == nil {
		slog.Warn("template has no default room or staff, skipping",
			"template_id", tmpl.ID(), "template", tmpl.Name())
		return 0, 0, nil
	}

	occs, err := tmpl.OccurrencesWithin(c.clock.Now(), horizonDays)
	if err != nil {
		return 0, 0, err
	}
	if len(occs) == 0 {
		return 0, 0, nil
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		for _, occ := range occs {
			slot, err := booking.NewTimeSlot(occ.StartsAt, occ.EndsAt)
			if err != nil {
				return err
			}
			templateID := occ.TemplateID
			b, err := booking.NewBooking(&booking.Services{Clock: c.clock}, booking.NewBookingParams{
				Kind:       booking.KindClass,
				RoomID:     *tmpl.RoomID(),
				StaffID:    *tmpl.StaffID(),
				TemplateID: &templateID,
				Slot:       slot,
				TimeZone:   tmpl.TimeZone(),
				Capacity:   tmpl.Capacity(),
			})
			if err != nil {
				return err
			}

			inserted, err := tx.Bookings().InsertOccurrence(ctx, b)
			if err != nil {
				return err
			}
			if !inserted {
				skipped++
				continue
			}
			created++

			roomName, staffName := "", ""
			if room, err := tx.Reads().RoomByID(ctx, b.RoomID()); err == nil {
				roomName = room.Name
			}
			if staff, err := tx.Reads().StaffByID(ctx, b.StaffID()); err == nil {
				staffName = staff.Name
			}
			staffOwner := b.StaffID()
			c.audit.Created(ctx, tx, act, entityKindBooking, b.ID(),
				bookingSnapshot(b, roomName, staffName, ""), &staffOwner)

			if err := enqueueFact(ctx, tx, TopicOccurrenceGenerated, b, nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return created, skipped, nil
}
