package readstore

import (
	"context"
	"time"

	"fitbook/internal/infra"
	"fitbook/internal/pkg/errs"
	"fitbook/internal/pkg/pgconv"
	"fitbook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BookingReadStore serves denormalized booking views straight off the pool.
// Read models never join a command transaction.
type BookingReadStore struct {
	db *pgxpool.Pool
}

func NewBookingReadStore(db *pgxpool.Pool) *BookingReadStore {
	return &BookingReadStore{db: db}
}

const bookingViewQuery = `
	SELECT b.id, b.kind, b.room_id, rm.name, b.staff_id, st.name,
	       b.client_id, b.template_id, b.starts_at, b.ends_at, b.tz,
	       b.status, b.notes, b.capacity, b.credits_spent, b.cancelled_late,
	       b.created_at, b.updated_at
	FROM bookings b
	JOIN rooms rm ON rm.id = b.room_id
	JOIN staff st ON st.id = b.staff_id
	WHERE b.deleted_at IS NULL`

func (s *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	v, err := scanBookingView(s.db.QueryRow(ctx, bookingViewQuery+` AND b.id = $1`, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, errs.Mark(
				infra.WrapRepoErr("booking not found", err, infra.KindNotFound),
				errs.ErrBookingNotFound,
			)
		}
		return nil, infra.WrapRepoErr("failed to read booking view", err)
	}
	return v, nil
}

func (s *BookingReadStore) ListForRoom(ctx context.Context, roomID uuid.UUID, from, to time.Time) ([]*queries.BookingView, error) {
	rows, err := s.db.Query(ctx,
		bookingViewQuery+` AND b.room_id = $1 AND b.starts_at < $3 AND b.ends_at > $2
		ORDER BY b.starts_at, b.id`,
		roomID, from, to)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list room schedule", err)
	}
	return collectBookingViews(rows)
}

func (s *BookingReadStore) ListForClient(ctx context.Context, clientID uuid.UUID, from time.Time) ([]*queries.BookingView, error) {
	rows, err := s.db.Query(ctx,
		bookingViewQuery+` AND b.client_id = $1 AND b.ends_at > $2
		ORDER BY b.starts_at, b.id`,
		clientID, from)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list client bookings", err)
	}
	return collectBookingViews(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

type pgRows interface {
	rowScanner
	Next() bool
	Err() error
	Close()
}

func collectBookingViews(rows pgRows) ([]*queries.BookingView, error) {
	defer rows.Close()
	var out []*queries.BookingView
	for rows.Next() {
		v, err := scanBookingView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking view", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate booking views", err)
	}
	return out, nil
}

func scanBookingView(row rowScanner) (*queries.BookingView, error) {
	var (
		v                    queries.BookingView
		clientID, templateID pgtype.UUID
		startsAt, endsAt     pgtype.Timestamptz
		capacity             pgtype.Int4
		createdAt, updatedAt pgtype.Timestamptz
	)
	err := row.Scan(
		&v.ID, &v.Kind, &v.RoomID, &v.RoomName, &v.StaffID, &v.StaffName,
		&clientID, &templateID, &startsAt, &endsAt, &v.TimeZone,
		&v.Status, &v.Notes, &capacity, &v.CreditsSpent, &v.CancelledLate,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	v.ClientID = pgconv.UUIDPtrFromPgtype(clientID)
	v.TemplateID = pgconv.UUIDPtrFromPgtype(templateID)
	v.StartsAt = startsAt.Time
	v.EndsAt = endsAt.Time
	v.Capacity = pgconv.Int32PtrFromPgtype(capacity)
	v.CreatedAt = createdAt.Time
	v.UpdatedAt = updatedAt.Time
	return &v, nil
}
