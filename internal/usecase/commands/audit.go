package commands

import (
	"context"
	"log/slog"
	"time"

	"fitbook/internal/domain/actor"
	"fitbook/internal/domain/audit"
	"fitbook/internal/domain/booking"
	"fitbook/internal/pkg/clock"
	"fitbook/internal/usecase/shared"

	"github.com/google/uuid"
)

const (
	entityKindBooking      = "booking"
	entityKindRegistration = "registration"
)

// AuditLogger writes the change log for every mutation of a bookable entity.
// Failures are reported to the operational log and never abort the enclosing
// transaction: a lost audit row is an incident, a lost booking is data loss.
type AuditLogger struct {
	clock clock.Clock
}

func NewAuditLogger(c clock.Clock) *AuditLogger {
	return &AuditLogger{clock: c}
}

func (l *AuditLogger) Created(ctx context.Context, tx shared.Tx, act actor.Context, entityKind string, entityID uuid.UUID, after audit.Snapshot, staffOwner *uuid.UUID) {
	l.write(ctx, tx, act, &audit.Entry{
		EntityKind: entityKind,
		EntityID:   entityID,
		Action:     audit.ActionCreated,
		After:      after,
	}, staffOwner)
}

// Updated computes changed_fields from the two snapshots. A no-op write (no
// field values changed) produces no entry at all.
func (l *AuditLogger) Updated(ctx context.Context, tx shared.Tx, act actor.Context, entityKind string, entityID uuid.UUID, before, after audit.Snapshot, staffOwner *uuid.UUID) {
	changed := before.Diff(after)
	if len(changed) == 0 {
		return
	}
	l.write(ctx, tx, act, &audit.Entry{
		EntityKind:    entityKind,
		EntityID:      entityID,
		Action:        audit.ActionUpdated,
		Before:        before,
		After:         after,
		ChangedFields: changed,
	}, staffOwner)
}

func (l *AuditLogger) Deleted(ctx context.Context, tx shared.Tx, act actor.Context, entityKind string, entityID uuid.UUID, before audit.Snapshot, staffOwner *uuid.UUID) {
	l.write(ctx, tx, act, &audit.Entry{
		EntityKind: entityKind,
		EntityID:   entityID,
		Action:     audit.ActionDeleted,
		Before:     before,
	}, staffOwner)
}

func (l *AuditLogger) write(ctx context.Context, tx shared.Tx, act actor.Context, e *audit.Entry, staffOwner *uuid.UUID) {
	// Actor resolution: authenticated actor, else the interval's staff owner,
	// else null. Role is captured at call time.
	if act.ID != nil {
		e.ActorID = act.ID
		role := act.Role.String()
		e.ActorRole = &role
	} else if staffOwner != nil {
		e.ActorID = staffOwner
		role := actor.RoleStaff.String()
		e.ActorRole = &role
	}
	if act.IP != "" {
		ip := act.IP
		e.IP = &ip
	}
	if act.UserAgent != "" {
		ua := act.UserAgent
		e.UserAgent = &ua
	}
	e.ID = uuid.New()
	e.CreatedAt = l.clock.Now().UTC()

	if err := tx.Audit().Insert(ctx, e); err != nil {
		slog.Error("audit log write failed",
			"entity_kind", e.EntityKind,
			"entity_id", e.EntityID,
			"action", string(e.Action),
			"error", err.Error())
	}
}

// bookingSnapshot projects the business-relevant fields of a booking, with
// display names resolved eagerly so the trail survives row deletions.
func bookingSnapshot(b *booking.Booking, roomName, staffName, clientName string) audit.Snapshot {
	snap := audit.Snapshot{
		"kind":           string(b.Kind()),
		"room_id":        b.RoomID().String(),
		"room_name":      roomName,
		"staff_id":       b.StaffID().String(),
		"staff_name":     staffName,
		"starts_at":      b.Slot().Start().Format(time.RFC3339),
		"ends_at":        b.Slot().End().Format(time.RFC3339),
		"timezone":       b.TimeZone(),
		"status":         string(b.Status()),
		"notes":          b.Notes(),
		"credits_spent":  b.CreditsSpent(),
		"cancelled_late": b.CancelledLate(),
	}
	if b.ClientID() != nil {
		snap["client_id"] = b.ClientID().String()
		snap["client_name"] = clientName
	}
	if b.TemplateID() != nil {
		snap["template_id"] = b.TemplateID().String()
	}
	if b.Capacity() != nil {
		snap["capacity"] = *b.Capacity()
	}
	return snap
}

func registrationSnapshot(r *booking.Registration, clientName string) audit.Snapshot {
	snap := audit.Snapshot{
		"booking_id":    r.BookingID().String(),
		"client_id":     r.ClientID().String(),
		"client_name":   clientName,
		"status":        string(r.Status()),
		"credits_spent": r.CreditsSpent(),
	}
	if r.CheckedInAt() != nil {
		snap["checked_in_at"] = r.CheckedInAt().Format(time.RFC3339)
	}
	if r.CancelledAt() != nil {
		snap["cancelled_at"] = r.CancelledAt().Format(time.RFC3339)
	}
	return snap
}
