package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"obsidian/internal/domain/coupon"
	"obsidian/internal/infra"
	"obsidian/internal/infra/db"
	"obsidian/internal/pkg/pgconv"
	"obsidian/internal/usecase/shared"
)

const couponColumns = `id, code, kind, value, minimum_amount_cents, max_uses, uses_count, starts_at, ends_at, lifecycle, created_at, updated_at`

type CouponRepository struct{}

func NewCouponRepository() *CouponRepository {
	return &CouponRepository{}
}

func (r *CouponRepository) FindByCode(ctx context.Context, tx db.DBTX, code string) (*shared.CouponSnapshot, error) {
	q := `SELECT ` + couponColumns + ` FROM coupons WHERE code = upper($1)`

	snap, err := scanCoupon(tx.QueryRow(ctx, q, code))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("coupon not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find coupon by code", err)
	}
	return snap, nil
}

func (r *CouponRepository) FindByID(ctx context.Context, tx db.DBTX, id uuid.UUID) (*shared.CouponSnapshot, error) {
	q := `SELECT ` + couponColumns + ` FROM coupons WHERE id = $1`

	snap, err := scanCoupon(tx.QueryRow(ctx, q, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("coupon not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find coupon by id", err)
	}
	return snap, nil
}

func (r *CouponRepository) Create(ctx context.Context, tx db.DBTX, c *coupon.Coupon) (uuid.UUID, error) {
	q := `
		INSERT INTO coupons (id, code, kind, value, minimum_amount_cents, max_uses, starts_at, ends_at, lifecycle)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	var id uuid.UUID
	err := tx.QueryRow(ctx, q,
		c.ID(),
		c.Code().String(),
		c.Discount().Kind().String(),
		c.Discount().Value(),
		c.MinimumAmountCents(),
		c.MaxUses(),
		c.StartsAt(),
		c.EndsAt(),
		c.Lifecycle().String(),
	).Scan(&id)
	if err != nil {
		if pgconv.IsUniqueViolation(err) {
			return uuid.Nil, infra.WrapRepoErr("coupon code already exists", err, infra.KindDuplicateKey)
		}
		return uuid.Nil, infra.WrapRepoErr("failed to create coupon", err)
	}
	return id, nil
}

// Update rewrites the rule fields. Code and uses_count are immutable here;
// the counter only moves through Redeem.
func (r *CouponRepository) Update(ctx context.Context, tx db.DBTX, c *coupon.Coupon) error {
	q := `
		UPDATE coupons
		SET kind = $2,
		    value = $3,
		    minimum_amount_cents = $4,
		    max_uses = $5,
		    starts_at = $6,
		    ends_at = $7,
		    updated_at = now()
		WHERE id = $1`

	tag, err := tx.Exec(ctx, q,
		c.ID(),
		c.Discount().Kind().String(),
		c.Discount().Value(),
		c.MinimumAmountCents(),
		c.MaxUses(),
		c.StartsAt(),
		c.EndsAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update coupon", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("coupon not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *CouponRepository) SetLifecycle(ctx context.Context, tx db.DBTX, id uuid.UUID, state coupon.Lifecycle) error {
	q := `UPDATE coupons SET lifecycle = $2, updated_at = now() WHERE id = $1`

	tag, err := tx.Exec(ctx, q, id, state.String())
	if err != nil {
		return infra.WrapRepoErr("failed to set coupon lifecycle", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("coupon not found", nil, infra.KindNotFound)
	}
	return nil
}

// Redeem consumes one use in a single statement. The usage predicate lives in
// the WHERE clause, so two concurrent redemptions of the last use cannot both
// succeed: the loser matches no row.
func (r *CouponRepository) Redeem(ctx context.Context, tx db.DBTX, code string) (*shared.CouponSnapshot, error) {
	q := `
		UPDATE coupons
		SET uses_count = uses_count + 1, updated_at = now()
		WHERE code = upper($1)
		  AND lifecycle = 'active'
		  AND (max_uses IS NULL OR uses_count < max_uses)
		RETURNING ` + couponColumns

	snap, err := scanCoupon(tx.QueryRow(ctx, q, code))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("coupon not redeemable", err, infra.KindPrecondition)
		}
		return nil, infra.WrapRepoErr("failed to redeem coupon", err)
	}
	return snap, nil
}

// PurgeUnused hard-deletes only when the coupon was never redeemed.
func (r *CouponRepository) PurgeUnused(ctx context.Context, tx db.DBTX, id uuid.UUID) error {
	q := `DELETE FROM coupons WHERE id = $1 AND uses_count = 0`

	tag, err := tx.Exec(ctx, q, id)
	if err != nil {
		return infra.WrapRepoErr("failed to purge coupon", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if checkErr := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM coupons WHERE id = $1)`, id).Scan(&exists); checkErr != nil {
			return infra.WrapRepoErr("failed to check coupon existence", checkErr)
		}
		if !exists {
			return infra.WrapRepoErr("coupon not found", nil, infra.KindNotFound)
		}
		return infra.WrapRepoErr("coupon has recorded uses", nil, infra.KindPrecondition)
	}
	return nil
}

func (r *CouponRepository) DeactivateExpired(ctx context.Context, tx db.DBTX, now time.Time) (int64, error) {
	q := `
		UPDATE coupons
		SET lifecycle = 'deactivated', updated_at = now()
		WHERE lifecycle = 'active' AND ends_at < $1`

	tag, err := tx.Exec(ctx, q, now)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to deactivate expired coupons", err)
	}
	return tag.RowsAffected(), nil
}

func scanCoupon(row interface{ Scan(dest ...any) error }) (*shared.CouponSnapshot, error) {
	var s shared.CouponSnapshot
	err := row.Scan(
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
		return nil, err
	}
	return &s, nil
}
