package commands

import (
	"context"
	"log/slog"
	"math"
	"time"

	"fitbook/internal/domain/actor"
	"fitbook/internal/pkg/errs"
	"fitbook/internal/usecase/shared"

	"github.com/google/uuid"
)

type PayoutResult struct {
	Created  int
	Existing int
	Failures int
}

type PayoutCommands interface {
	// CalculateMonthlyPayouts computes one payout per staff member for a
	// period ("2006-01") from checked-in session hours times the billing
	// rate. Idempotent per (staff, period): a second run is a no-op.
	CalculateMonthlyPayouts(ctx context.Context, act actor.Context, period string) (*PayoutResult, error)
}

type payoutCommands struct {
	uow shared.UnitOfWork
}

func NewPayoutCommands(uow shared.UnitOfWork) PayoutCommands {
	return &payoutCommands{uow: uow}
}

func (c *payoutCommands) CalculateMonthlyPayouts(ctx context.Context, _ actor.Context, period string) (*PayoutResult, error) {
	if _, err := time.Parse("2006-01", period); err != nil {
		return nil, errs.Mark(errs.Errorf("invalid payout period %q, want YYYY-MM", period), errs.ErrInvalidInterval)
	}

	var sessions []shared.SessionHours
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		sessions, err = tx.Payouts().AttendedSessions(ctx, period)
		return err
	})
	if err != nil {
		return nil, err
	}

	// A session is paid once no matter how many registrations attended it.
	seen := make(map[uuid.UUID]bool, len(sessions))
	totals := make(map[uuid.UUID]*shared.Payout)
	var order []uuid.UUID
	for _, s := range sessions {
		if seen[s.BookingID] {
			continue
		}
		seen[s.BookingID] = true
		p, ok := totals[s.StaffID]
		if !ok {
			p = &shared.Payout{StaffID: s.StaffID, Period: period, RateCents: s.RateCents}
			totals[s.StaffID] = p
			order = append(order, s.StaffID)
		}
		p.Hours += s.Hours
	}

	result := &PayoutResult{}
	for _, staffID := range order {
		// One transaction per staff member, so a single bad row cannot block
		// the rest of the payout run.
		payout := *totals[staffID]
		payout.TotalCents = int64(math.Round(payout.Hours * float64(payout.RateCents)))
		var created bool
		err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			var err error
			created, err = tx.Payouts().Insert(ctx, payout)
			return err
		})
		if err != nil {
			result.Failures++
			slog.Error("payout calculation failed",
				"staff_id", staffID, "period", period, "error", err.Error())
			continue
		}
		if created {
			result.Created++
		} else {
			result.Existing++
		}
	}
	return result, nil
}
