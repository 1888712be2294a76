package repository

import (
	"context"
	"time"

	"fitbook/internal/infra"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// OutboxRepository persists domain facts in the mutating transaction so a
// fact exists if and only if the change committed. The dispatcher drains the
// table asynchronously; delivery is at-least-once.
type OutboxRepository struct {
	db DBTX
}

func NewOutboxRepository(db DBTX) *OutboxRepository {
	return &OutboxRepository{db: db}
}

func (r *OutboxRepository) Enqueue(ctx context.Context, topic string, payload []byte) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO outbox (id, topic, payload, created_at)
		VALUES ($1, $2, $3, now())`,
		uuid.New(), topic, payload,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to enqueue domain fact", err)
	}
	return nil
}

// PendingFact is one undispatched outbox row.
type PendingFact struct {
	ID        uuid.UUID
	Topic     string
	Payload   []byte
	CreatedAt time.Time
}

// ListPending returns the oldest undispatched facts. SKIP LOCKED lets several
// dispatcher instances drain the table without double-claiming rows.
func (r *OutboxRepository) ListPending(ctx context.Context, limit int32) ([]PendingFact, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, topic, payload, created_at
		FROM outbox
		WHERE dispatched_at IS NULL
		ORDER BY created_at, id
		LIMIT $1
		FOR UPDATE SKIP LOCKED`,
		limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list pending facts", err)
	}
	defer rows.Close()

	var out []PendingFact
	for rows.Next() {
		var f PendingFact
		var createdAt pgtype.Timestamptz
		if err := rows.Scan(&f.ID, &f.Topic, &f.Payload, &createdAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan pending fact", err)
		}
		f.CreatedAt = createdAt.Time
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate pending facts", err)
	}
	return out, nil
}

func (r *OutboxRepository) MarkDispatched(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`UPDATE outbox SET dispatched_at = now() WHERE id = $1`, id)
	if err != nil {
		return infra.WrapRepoErr("failed to mark fact dispatched", err)
	}
	return nil
}
