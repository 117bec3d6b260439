package commands

import (
	"context"

	"github.com/google/uuid"

	"obsidian/internal/domain/coupon"
	reqdto "obsidian/internal/handler/dto/request"
	"obsidian/internal/infra"
	"obsidian/internal/pkg/clock"
	"obsidian/internal/pkg/errs"
	"obsidian/internal/usecase/queries"
	"obsidian/internal/usecase/shared"
)

var (
	ErrCouponNotFound  = errs.New("coupon not found")
	ErrCouponCodeTaken = errs.New("coupon code already exists")
	ErrCouponInUse     = errs.New("coupon has been used and cannot be purged")
	ErrCouponCorrupt   = errs.New("stored coupon fails validation")
)

type CleanupResult struct {
	Deactivated int64
}

type CouponCommands interface {
	Create(ctx context.Context, req reqdto.CreateCouponRequest) (*queries.CouponView, error)
	Update(ctx context.Context, id uuid.UUID, req reqdto.UpdateCouponRequest) (*queries.CouponView, error)
	SetLifecycle(ctx context.Context, id uuid.UUID, state string) error
	// Apply validates the coupon against the order amount and consumes one
	// use via a conditional increment. Concurrent redemptions of the last
	// remaining use are resolved by the database, not by the pre-check.
	Apply(ctx context.Context, code string, amountCents int64) (*queries.CouponApplication, error)
	// CleanupExpired deactivates every active coupon whose window has ended.
	CleanupExpired(ctx context.Context) (*CleanupResult, error)
	// Purge hard-deletes a never-used coupon; a used one is only flagged.
	Purge(ctx context.Context, id uuid.UUID) error
}

type couponCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewCouponCommands(uow shared.UnitOfWork, clk clock.Clock) CouponCommands {
	return &couponCommandsImpl{
		uow:   uow,
		clock: clk,
	}
}

func (c *couponCommandsImpl) Create(ctx context.Context, req reqdto.CreateCouponRequest) (*queries.CouponView, error) {
	entity, err := coupon.NewCoupon(
		uuid.New(),
		req.Code,
		req.Kind,
		req.Value,
		req.MinimumAmountCents,
		req.MaxUses,
		req.StartsAt,
		req.EndsAt,
	)
	if err != nil {
		return nil, err
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		_, createErr := tx.Coupons().Create(ctx, tx.DB(), entity)
		return createErr
	})
	if err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return nil, ErrCouponCodeTaken
		}
		return nil, errs.Wrap(err, "failed to create coupon")
	}

	view := queries.CouponViewFromEntity(entity)
	return &view, nil
}

func (c *couponCommandsImpl) Update(ctx context.Context, id uuid.UUID, req reqdto.UpdateCouponRequest) (*queries.CouponView, error) {
	var view queries.CouponView
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		existing, findErr := tx.Coupons().FindByID(ctx, tx.DB(), id)
		if findErr != nil {
			return findErr
		}

		// Re-run the constructors so the updated row obeys the same rules
		// as a fresh one. Code and usage counter are not updatable.
		entity, buildErr := coupon.NewCoupon(
			existing.ID,
			existing.Code,
			req.Kind,
			req.Value,
			req.MinimumAmountCents,
			req.MaxUses,
			req.StartsAt,
			req.EndsAt,
		)
		if buildErr != nil {
			return buildErr
		}

		if updateErr := tx.Coupons().Update(ctx, tx.DB(), entity); updateErr != nil {
			return updateErr
		}

		updated, findErr := tx.Coupons().FindByID(ctx, tx.DB(), id)
		if findErr != nil {
			return findErr
		}
		refreshed, convErr := shared.CouponFromSnapshot(updated)
		if convErr != nil {
			return errs.Mark(convErr, ErrCouponCorrupt)
		}
		view = queries.CouponViewFromEntity(refreshed)
		return nil
	})
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, err
	}
	return &view, nil
}

func (c *couponCommandsImpl) SetLifecycle(ctx context.Context, id uuid.UUID, state string) error {
	lifecycle, err := coupon.NewLifecycle(state)
	if err != nil {
		return err
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Coupons().SetLifecycle(ctx, tx.DB(), id, lifecycle)
	})
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrCouponNotFound
		}
		return errs.Wrap(err, "failed to set coupon lifecycle")
	}
	return nil
}

func (c *couponCommandsImpl) Apply(ctx context.Context, code string, amountCents int64) (*queries.CouponApplication, error) {
	normalized, err := coupon.NewCode(code)
	if err != nil {
		return nil, err
	}

	var application *queries.CouponApplication
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snapshot, findErr := tx.Coupons().FindByCode(ctx, tx.DB(), normalized.String())
		if findErr != nil {
			return findErr
		}

		entity, convErr := shared.CouponFromSnapshot(snapshot)
		if convErr != nil {
			return errs.Mark(convErr, ErrCouponCorrupt)
		}

		if validErr := entity.ValidateRedemption(c.clock.Now(), amountCents); validErr != nil {
			return validErr
		}

		// The increment carries its own usage-limit predicate; losing the
		// race for the last use surfaces here as a missed row.
		redeemed, redeemErr := tx.Coupons().Redeem(ctx, tx.DB(), normalized.String())
		if redeemErr != nil {
			if infra.IsKind(redeemErr, infra.KindNotFound) || infra.IsKind(redeemErr, infra.KindPrecondition) {
				return coupon.ErrCouponExhausted
			}
			return redeemErr
		}

		final, convErr := shared.CouponFromSnapshot(redeemed)
		if convErr != nil {
			return errs.Mark(convErr, ErrCouponCorrupt)
		}
		application = queries.NewCouponApplication(final, amountCents)
		return nil
	})
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, err
	}
	return application, nil
}

func (c *couponCommandsImpl) CleanupExpired(ctx context.Context) (*CleanupResult, error) {
	var deactivated int64
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		n, deactivateErr := tx.Coupons().DeactivateExpired(ctx, tx.DB(), c.clock.Now())
		if deactivateErr != nil {
			return deactivateErr
		}
		deactivated = n
		return nil
	})
	if err != nil {
		return nil, errs.Wrap(err, "failed to deactivate expired coupons")
	}
	return &CleanupResult{Deactivated: deactivated}, nil
}

func (c *couponCommandsImpl) Purge(ctx context.Context, id uuid.UUID) error {
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		purgeErr := tx.Coupons().PurgeUnused(ctx, tx.DB(), id)
		if purgeErr == nil {
			return nil
		}
		if infra.IsKind(purgeErr, infra.KindPrecondition) {
			// Used at least once: keep the row for bookkeeping, hide it
			// from the storefront.
			return tx.Coupons().SetLifecycle(ctx, tx.DB(), id, coupon.LifecyclePurged)
		}
		return purgeErr
	})
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrCouponNotFound
		}
		return errs.Wrap(err, "failed to purge coupon")
	}
	return nil
}
