package queries

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AuditEntryView is the read model of one immutable change-log row.
type AuditEntryView struct {
	ID            uuid.UUID       `json:"id"`
	EntityKind    string          `json:"entity_kind"`
	EntityID      uuid.UUID       `json:"entity_id"`
	Action        string          `json:"action"`
	ActorID       *uuid.UUID      `json:"actor_id,omitempty"`
	ActorRole     *string         `json:"actor_role,omitempty"`
	Before        json.RawMessage `json:"before,omitempty"`
	After         json.RawMessage `json:"after,omitempty"`
	ChangedFields []string        `json:"changed_fields,omitempty"`
	IP            *string         `json:"ip,omitempty"`
	UserAgent     *string         `json:"user_agent,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

type AuditFilter struct {
	EntityKind *string
	EntityID   *uuid.UUID
	ActorID    *uuid.UUID
	Action     *string
	From       *time.Time
	To         *time.Time
}

type AuditPage struct {
	Entries    []*AuditEntryView `json:"entries"`
	NextCursor *string           `json:"next_cursor,omitempty"`
}

// AuditReadStore pages through change_log ordered by created_at DESC, id DESC
// (deterministic keyset pagination).
type AuditReadStore interface {
	List(ctx context.Context, f AuditFilter, limit int32, afterTime *time.Time, afterID *uuid.UUID) ([]*AuditEntryView, error)
}

type AuditQueries interface {
	List(ctx context.Context, f AuditFilter, limit int, after string) (*AuditPage, error)
}

type auditQueries struct {
	store AuditReadStore
}

func NewAuditQueries(store AuditReadStore) AuditQueries {
	return &auditQueries{store: store}
}

func (q *auditQueries) List(ctx context.Context, f AuditFilter, limit int, after string) (*AuditPage, error) {
	limit = ValidateLimit(limit)

	var afterTime *time.Time
	var afterID *uuid.UUID
	if after != "" {
		t, id, err := DecodeAfterCursor(after)
		if err != nil {
			return nil, ErrInvalidCursor
		}
		afterTime = &t
		afterID = &id
	}

	// Fetch one extra row to decide whether another page exists.
	rows, err := q.store.List(ctx, f, int32(limit)+1, afterTime, afterID)
	if err != nil {
		return nil, err
	}

	page := &AuditPage{Entries: rows}
	if len(rows) > limit {
		page.Entries = rows[:limit]
		last := page.Entries[limit-1]
		cursor := EncodeAfterCursor(last.CreatedAt, last.ID)
		page.NextCursor = &cursor
	}
	return page, nil
}
