package repository

import (
	"context"

	"fitbook/internal/infra"
	"fitbook/internal/pkg/errs"
	"fitbook/internal/pkg/pgconv"
	"fitbook/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// CommandReads serves the small lookups command handlers need while building
// audit snapshots and fact payloads: resolved names and flat row projections.
type CommandReads struct {
	db DBTX
}

func NewCommandReads(db DBTX) *CommandReads {
	return &CommandReads{db: db}
}

func (r *CommandReads) BookingByID(ctx context.Context, id uuid.UUID) (*shared.BookingSnapshot, error) {
	var (
		snap     shared.BookingSnapshot
		clientID pgtype.UUID
		startsAt pgtype.Timestamptz
		endsAt   pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, `
		SELECT b.id, b.kind, b.room_id, rm.name, b.staff_id, st.name,
		       b.client_id, b.starts_at, b.ends_at, b.status
		FROM bookings b
		JOIN rooms rm ON rm.id = b.room_id
		JOIN staff st ON st.id = b.staff_id
		WHERE b.id = $1 AND b.deleted_at IS NULL`,
		id,
	).Scan(&snap.ID, &snap.Kind, &snap.RoomID, &snap.RoomName, &snap.StaffID, &snap.StaffName,
		&clientID, &startsAt, &endsAt, &snap.Status)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, errs.Mark(
				infra.WrapRepoErr("booking not found", err, infra.KindNotFound),
				errs.ErrBookingNotFound,
			)
		}
		return nil, infra.WrapRepoErr("failed to read booking snapshot", err)
	}
	snap.ClientID = pgconv.UUIDPtrFromPgtype(clientID)
	snap.StartsAt = startsAt.Time
	snap.EndsAt = endsAt.Time
	return &snap, nil
}

func (r *CommandReads) RoomByID(ctx context.Context, id uuid.UUID) (*shared.RoomSnapshot, error) {
	var snap shared.RoomSnapshot
	err := r.db.QueryRow(ctx,
		`SELECT id, site_id, name FROM rooms WHERE id = $1`, id,
	).Scan(&snap.ID, &snap.SiteID, &snap.Name)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("room not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to read room", err)
	}
	return &snap, nil
}

func (r *CommandReads) StaffByID(ctx context.Context, id uuid.UUID) (*shared.StaffSnapshot, error) {
	var snap shared.StaffSnapshot
	err := r.db.QueryRow(ctx,
		`SELECT id, name, rate_cents, active FROM staff WHERE id = $1`, id,
	).Scan(&snap.ID, &snap.Name, &snap.RateCents, &snap.Active)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("staff member not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to read staff member", err)
	}
	return &snap, nil
}

func (r *CommandReads) ClientName(ctx context.Context, id uuid.UUID) (string, error) {
	var name string
	err := r.db.QueryRow(ctx,
		`SELECT name FROM clients WHERE id = $1`, id,
	).Scan(&name)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return "", infra.WrapRepoErr("client not found", err, infra.KindNotFound)
		}
		return "", infra.WrapRepoErr("failed to read client", err)
	}
	return name, nil
}
