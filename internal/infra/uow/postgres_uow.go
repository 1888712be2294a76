package uow

import (
	"context"
	"crypto/rand"
	"errors"
	"log/slog"
	"math/big"
	"time"

	"fitbook/internal/infra/repository"
	"fitbook/internal/pkg/config"
	"fitbook/internal/pkg/errs"
	"fitbook/internal/usecase/shared"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	maxRetries     = 3
	initialBackoff = 50 * time.Millisecond
	maxBackoff     = time.Second
)

const (
	pgErrCodeSerializationFailure = "40001"
	pgErrCodeDeadlockDetected     = "40P01"
)

// PostgresUoW opens one pgx transaction per Within call and hands the command
// a Tx whose repositories all share it. Serialization failures and deadlocks
// roll back and rerun the whole closure; the closure must therefore be free
// of external side effects.
type PostgresUoW struct {
	pool *pgxpool.Pool
	cfg  config.BookingConfig
}

func NewPostgresUoW(pool *pgxpool.Pool, cfg config.BookingConfig) *PostgresUoW {
	return &PostgresUoW{pool: pool, cfg: cfg}
}

func (u *PostgresUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			if err := sleepWithBackoff(ctx, attempt); err != nil {
				return err
			}
			slog.WarnContext(ctx, "retrying transaction after serialization failure",
				slog.Int("attempt", attempt),
			)
		}

		lastErr = u.runInTx(ctx, fn)
		if lastErr == nil || !isRetryable(lastErr) {
			return lastErr
		}
	}
	return errs.Wrap(lastErr, "transaction retries exhausted")
}

func (u *PostgresUoW) runInTx(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	pgtx, err := u.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return errs.Wrap(err, "failed to begin transaction")
	}
	defer func() {
		// No-op when already committed.
		_ = pgtx.Rollback(ctx)
	}()

	if err := fn(ctx, newTx(pgtx, u.cfg)); err != nil {
		return err
	}
	if err := pgtx.Commit(ctx); err != nil {
		return errs.Wrap(err, "failed to commit transaction")
	}
	return nil
}

func (u *PostgresUoW) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, reads shared.CommandReads) error) error {
	pgtx, err := u.pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return errs.Wrap(err, "failed to begin read-only transaction")
	}
	defer func() {
		_ = pgtx.Rollback(ctx)
	}()

	if err := fn(ctx, repository.NewCommandReads(pgtx)); err != nil {
		return err
	}
	if err := pgtx.Commit(ctx); err != nil {
		return errs.Wrap(err, "failed to commit read-only transaction")
	}
	return nil
}

func (u *PostgresUoW) CommandReads() shared.CommandReads {
	return repository.NewCommandReads(u.pool)
}

func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgErrCodeSerializationFailure || pgErr.Code == pgErrCodeDeadlockDetected
}

// sleepWithBackoff doubles the delay per attempt and adds up to 50% random
// jitter so colliding transactions desynchronize.
func sleepWithBackoff(ctx context.Context, attempt int) error {
	backoff := initialBackoff << (attempt - 1)
	if backoff > maxBackoff {
		backoff = maxBackoff
	}
	if n, err := rand.Int(rand.Reader, big.NewInt(int64(backoff)/2+1)); err == nil {
		backoff += time.Duration(n.Int64())
	}

	timer := time.NewTimer(backoff)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// tx wires every repository to one shared pgx transaction. Repositories are
// built lazily so a command pays only for the tables it touches.
type tx struct {
	pgtx pgx.Tx
	cfg  config.BookingConfig

	locks         *repository.ResourceLockRepository
	bookings      *repository.BookingRepository
	registrations *repository.RegistrationRepository
	templates     *repository.TemplateRepository
	passes        *repository.PassRepository
	audit         *repository.AuditRepository
	outbox        *repository.OutboxRepository
	payouts       *repository.PayoutRepository
	pricing       *repository.PricingRepository
	reads         *repository.CommandReads
}

func newTx(pgtx pgx.Tx, cfg config.BookingConfig) *tx {
	return &tx{pgtx: pgtx, cfg: cfg}
}

func (t *tx) Locks() shared.ResourceLocker {
	if t.locks == nil {
		t.locks = repository.NewResourceLockRepository(t.pgtx, t.cfg.LockTimeout)
	}
	return t.locks
}

func (t *tx) Bookings() shared.BookingRepository {
	if t.bookings == nil {
		t.bookings = repository.NewBookingRepository(t.pgtx)
	}
	return t.bookings
}

func (t *tx) Registrations() shared.RegistrationRepository {
	if t.registrations == nil {
		t.registrations = repository.NewRegistrationRepository(t.pgtx)
	}
	return t.registrations
}

func (t *tx) Templates() shared.TemplateRepository {
	if t.templates == nil {
		t.templates = repository.NewTemplateRepository(t.pgtx)
	}
	return t.templates
}

func (t *tx) Passes() shared.PassRepository {
	if t.passes == nil {
		t.passes = repository.NewPassRepository(t.pgtx)
	}
	return t.passes
}

func (t *tx) Audit() shared.AuditRepository {
	if t.audit == nil {
		t.audit = repository.NewAuditRepository(t.pgtx)
	}
	return t.audit
}

func (t *tx) Outbox() shared.OutboxRepository {
	if t.outbox == nil {
		t.outbox = repository.NewOutboxRepository(t.pgtx)
	}
	return t.outbox
}

func (t *tx) Payouts() shared.PayoutRepository {
	if t.payouts == nil {
		t.payouts = repository.NewPayoutRepository(t.pgtx)
	}
	return t.payouts
}

func (t *tx) Pricing() shared.PricingRepository {
	if t.pricing == nil {
		t.pricing = repository.NewPricingRepository(t.pgtx)
	}
	return t.pricing
}

func (t *tx) Reads() shared.CommandReads {
	if t.reads == nil {
		t.reads = repository.NewCommandReads(t.pgtx)
	}
	return t.reads
}
