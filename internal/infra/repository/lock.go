package repository

import (
	"context"
	"fmt"
	"time"

	"fitbook/internal/domain/booking"
	"fitbook/internal/infra"
	"fitbook/internal/pkg/errs"
	"fitbook/internal/pkg/pgconv"

	"github.com/google/uuid"
)

// ResourceLockRepository implements transactional mutual exclusion as a
// row-level exclusive lock on the contended resource read inside the same
// transaction that will write the competing interval. The guard is the
// transaction itself: commit or rollback releases it.
type ResourceLockRepository struct {
	db          DBTX
	lockTimeout time.Duration
	timeoutSet  bool
}

func NewResourceLockRepository(db DBTX, lockTimeout time.Duration) *ResourceLockRepository {
	return &ResourceLockRepository{
		db:          db,
		lockTimeout: lockTimeout,
	}
}

var lockTables = map[booking.ResourceKind]string{
	booking.ResourceRoom:  "rooms",
	booking.ResourceStaff: "staff",
	booking.ResourcePass:  "credit_passes",
}

// Acquire blocks until the row lock is granted or lock_timeout elapses.
// A timeout surfaces as ResourceLocked, distinct from Conflict: the caller
// may retry with backoff.
func (r *ResourceLockRepository) Acquire(ctx context.Context, kind booking.ResourceKind, id uuid.UUID) error {
	table, ok := lockTables[kind]
	if !ok {
		return errs.Errorf("unknown lockable resource kind %q", kind)
	}

	if !r.timeoutSet {
		// SET LOCAL scopes the timeout to this transaction only.
		ms := r.lockTimeout.Milliseconds()
		if _, err := r.db.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", ms)); err != nil {
			return infra.WrapRepoErr("failed to set lock timeout", err)
		}
		r.timeoutSet = true
	}

	var locked uuid.UUID
	err := r.db.QueryRow(ctx,
		//nolint:gosec // table name comes from the fixed lockTables map
		fmt.Sprintf("SELECT id FROM %s WHERE id = $1 FOR UPDATE", table),
		id,
	).Scan(&locked)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return infra.WrapRepoErr(fmt.Sprintf("%s %s not found", kind, id), err, infra.KindNotFound)
		}
		wrapped := infra.WrapRepoErr(fmt.Sprintf("failed to lock %s %s", kind, id), err)
		if infra.IsKind(wrapped, infra.KindLockNotAvailable) {
			return errs.Mark(wrapped, errs.ErrResourceLocked)
		}
		return wrapped
	}
	return nil
}
