package repository

import (
	"context"

	"fitbook/internal/infra"
	"fitbook/internal/usecase/shared"

	"github.com/google/uuid"
)

type PayoutRepository struct {
	db DBTX
}

func NewPayoutRepository(db DBTX) *PayoutRepository {
	return &PayoutRepository{db: db}
}

// AttendedSessions lists each checked-in session of one calendar month once,
// with its duration in hours. Grouping by booking collapses the per-attendee
// registration rows, so a full class pays its hours a single time. The month
// boundary is evaluated in each booking's own zone so a late-evening class
// near midnight lands in the month its site saw it.
func (r *PayoutRepository) AttendedSessions(ctx context.Context, period string) ([]shared.SessionHours, error) {
	rows, err := r.db.Query(ctx, `
		SELECT b.id,
		       b.staff_id,
		       s.rate_cents,
		       EXTRACT(EPOCH FROM (b.ends_at - b.starts_at)) / 3600.0 AS hours
		FROM registrations r
		JOIN bookings b ON b.id = r.booking_id
		JOIN staff s ON s.id = b.staff_id
		WHERE r.status = 'attended'
		  AND b.deleted_at IS NULL
		  AND to_char(b.starts_at AT TIME ZONE b.tz, 'YYYY-MM') = $1
		GROUP BY b.id, b.staff_id, s.rate_cents
		ORDER BY b.staff_id, b.id`,
		period)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list attended sessions", err)
	}
	defer rows.Close()

	var out []shared.SessionHours
	for rows.Next() {
		var h shared.SessionHours
		if err := rows.Scan(&h.BookingID, &h.StaffID, &h.RateCents, &h.Hours); err != nil {
			return nil, infra.WrapRepoErr("failed to scan session hours", err)
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate session hours", err)
	}
	return out, nil
}

// Insert records one payout. The (staff_id, period) unique constraint makes a
// rerun of the same month a no-op rather than a double payment.
func (r *PayoutRepository) Insert(ctx context.Context, p shared.Payout) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO payouts (id, staff_id, period, hours, rate_cents, total_cents, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (staff_id, period) DO NOTHING`,
		uuid.New(), p.StaffID, p.Period, p.Hours, p.RateCents, p.TotalCents,
	)
	if err != nil {
		return false, infra.WrapRepoErr("failed to insert payout", err)
	}
	return tag.RowsAffected() > 0, nil
}
