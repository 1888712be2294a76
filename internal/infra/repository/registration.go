package repository

import (
	"context"

	"fitbook/internal/domain/booking"
	"fitbook/internal/infra"
	"fitbook/internal/pkg/errs"
	"fitbook/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type RegistrationRepository struct {
	db DBTX
}

func NewRegistrationRepository(db DBTX) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

const registrationColumns = `
	id, booking_id, client_id, status, booked_at,
	cancelled_at, checked_in_at, credit_pass_id, credits_spent`

func (r *RegistrationRepository) Create(ctx context.Context, reg *booking.Registration) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO registrations (
			id, booking_id, client_id, status, booked_at,
			cancelled_at, checked_in_at, credit_pass_id, credits_spent
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		reg.ID(), reg.BookingID(), reg.ClientID(), string(reg.Status()), reg.BookedAt(),
		pgconv.TimePtrToPgtype(reg.CancelledAt()), pgconv.TimePtrToPgtype(reg.CheckedInAt()),
		pgconv.UUIDPtrToPgtype(reg.CreditPassID()), reg.CreditsSpent(),
	)
	if err != nil {
		wrapped := infra.WrapRepoErr("failed to create registration", err)
		if infra.IsKind(wrapped, infra.KindDuplicateKey) {
			return errs.Mark(wrapped, errs.ErrAlreadyRegistered)
		}
		return wrapped
	}
	return nil
}

func (r *RegistrationRepository) Update(ctx context.Context, reg *booking.Registration) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE registrations SET
			status = $2, cancelled_at = $3, checked_in_at = $4,
			credit_pass_id = $5, credits_spent = $6
		WHERE id = $1`,
		reg.ID(), string(reg.Status()),
		pgconv.TimePtrToPgtype(reg.CancelledAt()), pgconv.TimePtrToPgtype(reg.CheckedInAt()),
		pgconv.UUIDPtrToPgtype(reg.CreditPassID()), reg.CreditsSpent(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update registration", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("registration not found for update", nil, infra.KindNotFound)
	}
	return nil
}

func (r *RegistrationRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Registration, error) {
	reg, err := scanRegistration(r.db.QueryRow(ctx,
		`SELECT `+registrationColumns+` FROM registrations WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, errs.Mark(
				infra.WrapRepoErr("registration not found", err, infra.KindNotFound),
				errs.ErrRegistrationNotFound,
			)
		}
		return nil, infra.WrapRepoErr("failed to find registration by ID", err)
	}
	return reg, nil
}

func (r *RegistrationRepository) FindNonCancelled(ctx context.Context, clientID, bookingID uuid.UUID) (*booking.Registration, error) {
	reg, err := scanRegistration(r.db.QueryRow(ctx, `
		SELECT `+registrationColumns+`
		FROM registrations
		WHERE client_id = $1 AND booking_id = $2 AND status <> 'cancelled'`,
		clientID, bookingID))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, nil
		}
		return nil, infra.WrapRepoErr("failed to find non-cancelled registration", err)
	}
	return reg, nil
}

func (r *RegistrationRepository) CountBooked(ctx context.Context, bookingID uuid.UUID) (int32, error) {
	var n int32
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM registrations WHERE booking_id = $1 AND status = 'booked'`,
		bookingID,
	).Scan(&n)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to count booked registrations", err)
	}
	return n, nil
}

func (r *RegistrationRepository) EarliestWaitlisted(ctx context.Context, bookingID uuid.UUID) (*booking.Registration, error) {
	reg, err := scanRegistration(r.db.QueryRow(ctx, `
		SELECT `+registrationColumns+`
		FROM registrations
		WHERE booking_id = $1 AND status = 'waitlist'
		ORDER BY booked_at, id
		LIMIT 1
		FOR UPDATE`,
		bookingID))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, nil
		}
		return nil, infra.WrapRepoErr("failed to find waitlist head", err)
	}
	return reg, nil
}

func scanRegistration(row rowScanner) (*booking.Registration, error) {
	var (
		id, bookingID, clientID  uuid.UUID
		status                   string
		bookedAt                 pgtype.Timestamptz
		cancelledAt, checkedInAt pgtype.Timestamptz
		passID                   pgtype.UUID
		creditsSpent             int32
	)
	err := row.Scan(
		&id, &bookingID, &clientID, &status, &bookedAt,
		&cancelledAt, &checkedInAt, &passID, &creditsSpent,
	)
	if err != nil {
		return nil, err
	}
	return booking.ReconstructRegistration(booking.ReconstructRegistrationParams{
		ID:           id,
		BookingID:    bookingID,
		ClientID:     clientID,
		Status:       booking.RegistrationStatus(status),
		BookedAt:     pgconv.TimeFromPgtype(bookedAt),
		CancelledAt:  pgconv.TimePtrFromPgtype(cancelledAt),
		CheckedInAt:  pgconv.TimePtrFromPgtype(checkedInAt),
		CreditPassID: pgconv.UUIDPtrFromPgtype(passID),
		CreditsSpent: creditsSpent,
	}), nil
}
