package repository

import (
	"context"

	"fitbook/internal/domain/booking"
	"fitbook/internal/infra"
	"fitbook/internal/pkg/errs"
	"fitbook/internal/pkg/pgconv"
	"fitbook/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type BookingRepository struct {
	db DBTX
}

func NewBookingRepository(db DBTX) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = `
	id, kind, room_id, staff_id, client_id, template_id,
	starts_at, ends_at, tz, status, notes, capacity,
	credit_pass_id, credits_spent, cancelled_late,
	deleted_at, created_at, updated_at`

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO bookings (
			id, kind, room_id, staff_id, client_id, template_id,
			starts_at, ends_at, tz, status, notes, capacity,
			credit_pass_id, credits_spent, cancelled_late,
			deleted_at, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)`,
		b.ID(), string(b.Kind()), b.RoomID(), b.StaffID(),
		pgconv.UUIDPtrToPgtype(b.ClientID()), pgconv.UUIDPtrToPgtype(b.TemplateID()),
		b.Slot().Start(), b.Slot().End(), b.TimeZone(), string(b.Status()),
		b.Notes(), pgconv.Int32PtrToPgtype(b.Capacity()),
		pgconv.UUIDPtrToPgtype(b.CreditPassID()), b.CreditsSpent(), b.CancelledLate(),
		pgconv.TimePtrToPgtype(b.DeletedAt()), b.CreatedAt(), b.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create booking", err)
	}
	return nil
}

func (r *BookingRepository) Update(ctx context.Context, b *booking.Booking) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE bookings SET
			starts_at = $2, ends_at = $3, status = $4, notes = $5,
			credit_pass_id = $6, credits_spent = $7, cancelled_late = $8,
			deleted_at = $9, updated_at = $10
		WHERE id = $1`,
		b.ID(), b.Slot().Start(), b.Slot().End(), string(b.Status()), b.Notes(),
		pgconv.UUIDPtrToPgtype(b.CreditPassID()), b.CreditsSpent(), b.CancelledLate(),
		pgconv.TimePtrToPgtype(b.DeletedAt()), b.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update booking", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found for update", nil, infra.KindNotFound)
	}
	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	return r.findByID(ctx, id, false)
}

func (r *BookingRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	return r.findByID(ctx, id, true)
}

func (r *BookingRepository) findByID(ctx context.Context, id uuid.UUID, forUpdate bool) (*booking.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 AND deleted_at IS NULL`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	b, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, errs.Mark(
				infra.WrapRepoErr("booking not found", err, infra.KindNotFound),
				errs.ErrBookingNotFound,
			)
		}
		return nil, infra.WrapRepoErr("failed to find booking by ID", err)
	}
	return b, nil
}

// FindOverlap applies the half-open test (starts_at < $end AND ends_at >
// $start) against non-cancelled, non-deleted rows of one resource. Boundary-
// touching intervals are compatible.
func (r *BookingRepository) FindOverlap(ctx context.Context, kind booking.ResourceKind, resourceID uuid.UUID, slot booking.TimeSlot, excludeID *uuid.UUID) (*shared.OverlapRow, error) {
	var column string
	switch kind {
	case booking.ResourceRoom:
		column = "room_id"
	case booking.ResourceStaff:
		column = "staff_id"
	default:
		return nil, errs.Errorf("resource kind %q cannot hold intervals", kind)
	}

	row := r.db.QueryRow(ctx, `
		SELECT id, starts_at, ends_at
		FROM bookings
		WHERE `+column+` = $1
		  AND status <> 'cancelled'
		  AND deleted_at IS NULL
		  AND starts_at < $2
		  AND ends_at > $3
		  AND ($4::uuid IS NULL OR id <> $4)
		ORDER BY starts_at
		LIMIT 1`,
		resourceID, slot.End(), slot.Start(), pgconv.UUIDPtrToPgtype(excludeID),
	)

	var out shared.OverlapRow
	if err := row.Scan(&out.BookingID, &out.StartsAt, &out.EndsAt); err != nil {
		if pgconv.IsNoRows(err) {
			return nil, nil
		}
		return nil, infra.WrapRepoErr("failed to check overlap", err)
	}
	return &out, nil
}

// InsertOccurrence upserts a generated class occurrence. The partial unique
// index on (template_id, starts_at) is the final backstop against duplicate
// creation from concurrent or repeated expansions.
func (r *BookingRepository) InsertOccurrence(ctx context.Context, b *booking.Booking) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO bookings (
			id, kind, room_id, staff_id, client_id, template_id,
			starts_at, ends_at, tz, status, notes, capacity,
			credit_pass_id, credits_spent, cancelled_late,
			deleted_at, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
		ON CONFLICT (template_id, starts_at) WHERE template_id IS NOT NULL
		DO NOTHING`,
		b.ID(), string(b.Kind()), b.RoomID(), b.StaffID(),
		pgconv.UUIDPtrToPgtype(b.ClientID()), pgconv.UUIDPtrToPgtype(b.TemplateID()),
		b.Slot().Start(), b.Slot().End(), b.TimeZone(), string(b.Status()),
		b.Notes(), pgconv.Int32PtrToPgtype(b.Capacity()),
		pgconv.UUIDPtrToPgtype(b.CreditPassID()), b.CreditsSpent(), b.CancelledLate(),
		pgconv.TimePtrToPgtype(b.DeletedAt()), b.CreatedAt(), b.UpdatedAt(),
	)
	if err != nil {
		return false, infra.WrapRepoErr("failed to upsert occurrence", err)
	}
	return tag.RowsAffected() > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*booking.Booking, error) {
	var (
		id, roomID, staffID           uuid.UUID
		kind, tz, status, notes       string
		clientID, templateID, passID  pgtype.UUID
		startsAt, endsAt              pgtype.Timestamptz
		capacity                      pgtype.Int4
		creditsSpent                  int32
		cancelledLate                 bool
		deletedAt, createdAt, updated pgtype.Timestamptz
	)
	err := row.Scan(
		&id, &kind, &roomID, &staffID, &clientID, &templateID,
		&startsAt, &endsAt, &tz, &status, &notes, &capacity,
		&passID, &creditsSpent, &cancelledLate,
		&deletedAt, &createdAt, &updated,
	)
	if err != nil {
		return nil, err
	}

	slot, err := booking.NewTimeSlot(pgconv.TimeFromPgtype(startsAt), pgconv.TimeFromPgtype(endsAt))
	if err != nil {
		return nil, err
	}
	return booking.Reconstruct(booking.ReconstructParams{
		ID:            id,
		Kind:          booking.Kind(kind),
		RoomID:        roomID,
		StaffID:       staffID,
		ClientID:      pgconv.UUIDPtrFromPgtype(clientID),
		TemplateID:    pgconv.UUIDPtrFromPgtype(templateID),
		Slot:          slot,
		TimeZone:      tz,
		Status:        booking.Status(status),
		Notes:         notes,
		Capacity:      pgconv.Int32PtrFromPgtype(capacity),
		CreditPassID:  pgconv.UUIDPtrFromPgtype(passID),
		CreditsSpent:  creditsSpent,
		CancelledLate: cancelledLate,
		DeletedAt:     pgconv.TimePtrFromPgtype(deletedAt),
		CreatedAt:     pgconv.TimeFromPgtype(createdAt),
		UpdatedAt:     pgconv.TimeFromPgtype(updated),
	}), nil
}
