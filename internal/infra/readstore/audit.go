package readstore

import (
	"context"
	"strconv"
	"strings"
	"time"

	"fitbook/internal/infra"
	"fitbook/internal/pkg/pgconv"
	"fitbook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AuditReadStore struct {
	db *pgxpool.Pool
}

func NewAuditReadStore(db *pgxpool.Pool) *AuditReadStore {
	return &AuditReadStore{db: db}
}

// List pages change_log newest-first with a (created_at, id) keyset. Filters
// are ANDed; the WHERE clause is assembled from fixed fragments with numbered
// placeholders only.
func (s *AuditReadStore) List(ctx context.Context, f queries.AuditFilter, limit int32, afterTime *time.Time, afterID *uuid.UUID) ([]*queries.AuditEntryView, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, strings.ReplaceAll(cond, "?", "$"+strconv.Itoa(len(args))))
	}

	if f.EntityKind != nil {
		add("entity_kind = ?", *f.EntityKind)
	}
	if f.EntityID != nil {
		add("entity_id = ?", *f.EntityID)
	}
	if f.ActorID != nil {
		add("actor_id = ?", *f.ActorID)
	}
	if f.Action != nil {
		add("action = ?", *f.Action)
	}
	if f.From != nil {
		add("created_at >= ?", *f.From)
	}
	if f.To != nil {
		add("created_at < ?", *f.To)
	}
	if afterTime != nil && afterID != nil {
		args = append(args, *afterTime, *afterID)
		n := len(args)
		conds = append(conds, "(created_at, id) < ($"+strconv.Itoa(n-1)+", $"+strconv.Itoa(n)+")")
	}

	query := `
		SELECT id, entity_kind, entity_id, action, actor_id, actor_role,
		       before, after, changed_fields, ip, user_agent, created_at
		FROM change_log`
	if len(conds) > 0 {
		query += "\nWHERE " + strings.Join(conds, " AND ")
	}
	args = append(args, limit)
	query += "\nORDER BY created_at DESC, id DESC\nLIMIT $" + strconv.Itoa(len(args))

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list change log", err)
	}
	defer rows.Close()

	var out []*queries.AuditEntryView
	for rows.Next() {
		var (
			v             queries.AuditEntryView
			actorID       pgtype.UUID
			actorRole     pgtype.Text
			changedFields []string
			ip, userAgent pgtype.Text
			createdAt     pgtype.Timestamptz
		)
		err := rows.Scan(
			&v.ID, &v.EntityKind, &v.EntityID, &v.Action, &actorID, &actorRole,
			&v.Before, &v.After, &changedFields, &ip, &userAgent, &createdAt,
		)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan change log entry", err)
		}
		v.ActorID = pgconv.UUIDPtrFromPgtype(actorID)
		v.ActorRole = pgconv.StringPtrFromPgtype(actorRole)
		v.ChangedFields = changedFields
		v.IP = pgconv.StringPtrFromPgtype(ip)
		v.UserAgent = pgconv.StringPtrFromPgtype(userAgent)
		v.CreatedAt = createdAt.Time
		out = append(out, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate change log", err)
	}
	return out, nil
}
