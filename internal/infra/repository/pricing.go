package repository

import (
	"context"

	"fitbook/internal/domain/booking"
	"fitbook/internal/infra"
	"fitbook/internal/pkg/errs"
	"fitbook/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type PricingRepository struct {
	db DBTX
}

func NewPricingRepository(db DBTX) *PricingRepository {
	return &PricingRepository{db: db}
}

// CreditsFor resolves the credit price of a booking kind. A site-scoped rule
// wins over the global one (site_id NULL). No matching rule at all is a
// configuration gap the caller must refuse to price silently.
func (r *PricingRepository) CreditsFor(ctx context.Context, kind booking.Kind, siteID *uuid.UUID) (int32, error) {
	var credits int32
	err := r.db.QueryRow(ctx, `
		SELECT credits
		FROM pricing_rules
		WHERE kind = $1 AND (site_id = $2 OR site_id IS NULL)
		ORDER BY site_id NULLS LAST
		LIMIT 1`,
		string(kind), pgconv.UUIDPtrToPgtype(siteID),
	).Scan(&credits)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return 0, errs.Mark(
				errs.Errorf("no pricing rule for kind %q", kind),
				errs.ErrMissingPricing,
			)
		}
		return 0, infra.WrapRepoErr("failed to resolve pricing rule", err)
	}
	return credits, nil
}
