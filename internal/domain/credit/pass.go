package credit

import (
	"time"

	"fitbook/internal/pkg/errs"

	"github.com/google/uuid"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusExpired   Status = "expired"
	StatusDepleted  Status = "depleted"
	StatusSuspended Status = "suspended"
)

// Pass is a client's prepaid credit allotment with its own expiry window.
// Balances are mutated exclusively through Deduct and Refund; both enforce
// 0 <= remaining <= total, and a breach is a bug, not a user error.
type Pass struct {
	id         uuid.UUID
	clientID   uuid.UUID
	total      int32
	remaining  int32
	validFrom  time.Time
	validUntil time.Time
	status     Status
	source     string
}

type PassParams struct {
	ID         uuid.UUID
	ClientID   uuid.UUID
	Total      int32
	Remaining  int32
	ValidFrom  time.Time
	ValidUntil time.Time
	Status     Status
	Source     string
}

func ReconstructPass(p PassParams) *Pass {
	return &Pass{
		id:         p.ID,
		clientID:   p.ClientID,
		total:      p.Total,
		remaining:  p.Remaining,
		validFrom:  p.ValidFrom,
		validUntil: p.ValidUntil,
		status:     p.Status,
		source:     p.Source,
	}
}

func (p *Pass) ID() uuid.UUID         { return p.id }
func (p *Pass) ClientID() uuid.UUID   { return p.clientID }
func (p *Pass) Total() int32          { return p.total }
func (p *Pass) Remaining() int32      { return p.remaining }
func (p *Pass) ValidFrom() time.Time  { return p.validFrom }
func (p *Pass) ValidUntil() time.Time { return p.validUntil }
func (p *Pass) Status() Status        { return p.status }
func (p *Pass) Source() string        { return p.source }

// Eligible reports whether this pass may cover required credits at now.
// Partial consumption across passes is not supported: a single pass must
// cover the full amount.
func (p *Pass) Eligible(now time.Time, required int32) bool {
	if p.status != StatusActive {
		return false
	}
	if now.Before(p.validFrom) || now.After(p.validUntil) {
		return false
	}
	return p.remaining >= required
}

func (p *Pass) Deduct(amount int32) error {
	if amount <= 0 {
		return errs.Mark(errs.Errorf("deduct amount %d must be positive", amount), errs.ErrInvariantViolation)
	}
	if p.remaining-amount < 0 {
		return errs.Mark(
			errs.Errorf("pass %s balance %d would go negative by deducting %d", p.id, p.remaining, amount),
			errs.ErrInvariantViolation,
		)
	}
	p.remaining -= amount
	if p.remaining == 0 {
		p.status = StatusDepleted
	}
	return nil
}

// Refund restores credits to the exact pass they were drawn from and reverses
// a depleted -> active transition if applicable.
func (p *Pass) Refund(amount int32) error {
	if amount <= 0 {
		return errs.Mark(errs.Errorf("refund amount %d must be positive", amount), errs.ErrInvariantViolation)
	}
	if p.remaining+amount > p.total {
		return errs.Mark(
			errs.Errorf("pass %s balance %d+%d would exceed total %d", p.id, p.remaining, amount, p.total),
			errs.ErrInvariantViolation,
		)
	}
	p.remaining += amount
	if p.status == StatusDepleted {
		p.status = StatusActive
	}
	return nil
}

// SelectPass applies the expiry-priority policy: among eligible passes, pick
// the one with the soonest valid_until, so credits about to expire unused are
// spent first. Ties break on pass id for determinism.
func SelectPass(passes []*Pass, now time.Time, required int32) (*Pass, error) {
	var best *Pass
	for _, p := range passes {
		if !p.Eligible(now, required) {
			continue
		}
		if best == nil ||
			p.validUntil.Before(best.validUntil) ||
			(p.validUntil.Equal(best.validUntil) && p.id.String() < best.id.String()) {
			best = p
		}
	}
	if best == nil {
		return nil, errs.ErrInsufficientCredits
	}
	return best, nil
}
