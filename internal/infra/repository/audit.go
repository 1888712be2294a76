package repository

import (
	"context"
	"encoding/json"

	"fitbook/internal/domain/audit"
	"fitbook/internal/infra"
	"fitbook/internal/pkg/errs"
	"fitbook/internal/pkg/pgconv"
)

// AuditRepository appends to the change log. Rows are write-once: there is no
// update or delete path by construction.
type AuditRepository struct {
	db DBTX
}

func NewAuditRepository(db DBTX) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Insert(ctx context.Context, e *audit.Entry) error {
	before, err := marshalSnapshot(e.Before)
	if err != nil {
		return err
	}
	after, err := marshalSnapshot(e.After)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO change_log (
			id, entity_kind, entity_id, action, actor_id, actor_role,
			before, after, changed_fields, ip, user_agent, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		e.ID, e.EntityKind, e.EntityID, string(e.Action),
		pgconv.UUIDPtrToPgtype(e.ActorID), pgconv.StringPtrToPgtype(e.ActorRole),
		before, after, e.ChangedFields,
		pgconv.StringPtrToPgtype(e.IP), pgconv.StringPtrToPgtype(e.UserAgent), e.CreatedAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to insert change log entry", err)
	}
	return nil
}

func marshalSnapshot(s audit.Snapshot) ([]byte, error) {
	if s == nil {
		return nil, nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, errs.Wrap(err, "failed to encode snapshot")
	}
	return b, nil
}
