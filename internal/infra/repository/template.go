package repository

import (
	"context"
	"encoding/json"
	"time"

	"fitbook/internal/domain/schedule"
	"fitbook/internal/infra"
	"fitbook/internal/pkg/errs"
	"fitbook/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type TemplateRepository struct {
	db DBTX
}

func NewTemplateRepository(db DBTX) *TemplateRepository {
	return &TemplateRepository{db: db}
}

const templateColumns = `
	id, name, weekly_slots, duration_minutes, capacity, room_id, staff_id,
	active, skip_dates, valid_from, valid_to, tz`

func (r *TemplateRepository) FindByID(ctx context.Context, id uuid.UUID) (*schedule.Template, error) {
	t, err := scanTemplate(r.db.QueryRow(ctx,
		`SELECT `+templateColumns+` FROM class_templates WHERE id = $1`, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, errs.Mark(
				infra.WrapRepoErr("class template not found", err, infra.KindNotFound),
				errs.ErrTemplateNotFound,
			)
		}
		return nil, infra.WrapRepoErr("failed to find class template", err)
	}
	return t, nil
}

func (r *TemplateRepository) ListActive(ctx context.Context) ([]*schedule.Template, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+templateColumns+` FROM class_templates WHERE active ORDER BY created_at, id`)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list active templates", err)
	}
	defer rows.Close()

	var out []*schedule.Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan class template", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate templates", err)
	}
	return out, nil
}

func scanTemplate(row rowScanner) (*schedule.Template, error) {
	var (
		id               uuid.UUID
		name, tz         string
		slotsJSON        []byte
		durationMinutes  int32
		capacity         pgtype.Int4
		roomID, staffID  pgtype.UUID
		active           bool
		skipJSON         []byte
		validFrom, valTo pgtype.Timestamptz
	)
	err := row.Scan(
		&id, &name, &slotsJSON, &durationMinutes, &capacity, &roomID, &staffID,
		&active, &skipJSON, &validFrom, &valTo,
	)
	if err != nil {
		return nil, err
	}

	var slots []schedule.WeeklySlot
	if err := json.Unmarshal(slotsJSON, &slots); err != nil {
		return nil, errs.Wrap(err, "corrupt weekly_slots payload")
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, errs.Wrap(err, "invalid template timezone")
	}
	var skipRaw []string
	if len(skipJSON) > 0 {
		if err := json.Unmarshal(skipJSON, &skipRaw); err != nil {
			return nil, errs.Wrap(err, "corrupt skip_dates payload")
		}
	}
	skipDates := make([]time.Time, 0, len(skipRaw))
	for _, s := range skipRaw {
		d, err := time.ParseInLocation(time.DateOnly, s, loc)
		if err != nil {
			return nil, errs.Wrap(err, "corrupt skip date")
		}
		skipDates = append(skipDates, d)
	}

	return schedule.NewTemplate(schedule.TemplateParams{
		ID:        id,
		Name:      name,
		Slots:     slots,
		Duration:  time.Duration(durationMinutes) * time.Minute,
		Capacity:  pgconv.Int32PtrFromPgtype(capacity),
		RoomID:    pgconv.UUIDPtrFromPgtype(roomID),
		StaffID:   pgconv.UUIDPtrFromPgtype(staffID),
		Active:    active,
		SkipDates: skipDates,
		ValidFrom: pgconv.TimeFromPgtype(validFrom),
		ValidTo:   pgconv.TimeFromPgtype(valTo),
		TimeZone:  tz,
	})
}
