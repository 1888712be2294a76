package repository

import (
	"context"

	"fitbook/internal/domain/credit"
	"fitbook/internal/infra"
	"fitbook/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type PassRepository struct {
	db DBTX
}

func NewPassRepository(db DBTX) *PassRepository {
	return &PassRepository{db: db}
}

const passColumns = `
	id, client_id, total_credits, remaining_credits,
	valid_from, valid_until, status, source`

// ListActiveForUpdate locks the client's active passes ordered by id so two
// transactions allocating for the same client always lock in the same order.
func (r *PassRepository) ListActiveForUpdate(ctx context.Context, clientID uuid.UUID) ([]*credit.Pass, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+passColumns+`
		FROM credit_passes
		WHERE client_id = $1 AND status = 'active'
		ORDER BY id
		FOR UPDATE`,
		clientID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to lock client passes", err)
	}
	defer rows.Close()

	var out []*credit.Pass
	for rows.Next() {
		p, err := scanPass(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan credit pass", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate credit passes", err)
	}
	return out, nil
}

func (r *PassRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*credit.Pass, error) {
	p, err := scanPass(r.db.QueryRow(ctx,
		`SELECT `+passColumns+` FROM credit_passes WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("credit pass not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find credit pass", err)
	}
	return p, nil
}

func (r *PassRepository) UpdateBalance(ctx context.Context, p *credit.Pass) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE credit_passes
		SET remaining_credits = $2, status = $3, updated_at = now()
		WHERE id = $1`,
		p.ID(), p.Remaining(), string(p.Status()),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update pass balance", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("credit pass not found for update", nil, infra.KindNotFound)
	}
	return nil
}

func scanPass(row rowScanner) (*credit.Pass, error) {
	var (
		id, clientID          uuid.UUID
		total, remaining      int32
		validFrom, validUntil pgtype.Timestamptz
		status, source        string
	)
	err := row.Scan(&id, &clientID, &total, &remaining, &validFrom, &validUntil, &status, &source)
	if err != nil {
		return nil, err
	}
	return credit.ReconstructPass(credit.PassParams{
		ID:         id,
		ClientID:   clientID,
		Total:      total,
		Remaining:  remaining,
		ValidFrom:  pgconv.TimeFromPgtype(validFrom),
		ValidUntil: pgconv.TimeFromPgtype(validUntil),
		Status:     credit.Status(status),
		Source:     source,
	}), nil
}
