package readstore

import (
	"context"

	"obsidian/internal/infra"
	"obsidian/internal/infra/db"
	"obsidian/internal/pkg/pgconv"
	"obsidian/internal/usecase/shared"
)

type CouponReadStore struct {
	db db.DBTX
}

func NewCouponReadStore(db db.DBTX) *CouponReadStore {
	return &CouponReadStore{db: db}
}

func (r *CouponReadStore) FindByCode(ctx context.Context, code string) (*shared.CouponSnapshot, error) {
	q := `
		SELECT id, code, kind, value, minimum_amount_cents, max_uses, uses_count, starts_at, ends_at, lifecycle, created_at, updated_at
		FROM coupons
		WHERE code = upper($1)`

	var s shared.CouponSnapshot
	err := r.db.QueryRow(ctx, q, code).Scan(
		&s.ID,
		&s.Code,
		&s.Kind,
		&s.Value,
		&s.MinimumAmountCents,
		&s.MaxUses,
		&s.UsesCount,
		&s.StartsAt,
		&s.EndsAt,
		&s.Lifecycle,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("coupon not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find coupon by code", err)
	}
	return &s, nil
}
