package audit

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// Snapshot is a flat projection of an entity's business-relevant fields,
// including derived display values (resolved room name, resolved actor name)
// so the trail stays readable after referenced rows are gone. It is computed
// explicitly by the caller, never by persistence-library dirty tracking.
type Snapshot map[string]any

// Diff returns the names of fields whose values differ, sorted. Fields
// present on only one side count as changed.
func (s Snapshot) Diff(other Snapshot) []string {
	changed := make([]string, 0)
	for k, v := range s {
		if ov, ok := other[k]; !ok || ov != v {
			changed = append(changed, k)
		}
	}
	for k := range other {
		if _, ok := s[k]; !ok {
			changed = append(changed, k)
		}
	}
	sort.Strings(changed)
	return changed
}

// Entry is an immutable change-log record. Rows are append-only: written in
// the same transaction as the mutation they describe, never updated or
// deleted afterwards.
type Entry struct {
	ID            uuid.UUID
	EntityKind    string
	EntityID      uuid.UUID
	Action        Action
	ActorID       *uuid.UUID
	ActorRole     *string
	Before        Snapshot // nil on create
	After         Snapshot // nil on delete
	ChangedFields []string // nil unless action = updated
	IP            *string
	UserAgent     *string
	CreatedAt     time.Time
}
