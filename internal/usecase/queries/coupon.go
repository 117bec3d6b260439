package queries

import (
	"context"

	"obsidian/internal/domain/coupon"
	"obsidian/internal/infra"
	"obsidian/internal/pkg/clock"
	"obsidian/internal/pkg/errs"
	"obsidian/internal/usecase/shared"
)

var (
	ErrCouponNotFound = errs.New("coupon not found")
	ErrCouponInvalid  = errs.New("coupon invalid")
)

type CouponReadStore interface {
	FindByCode(ctx context.Context, code string) (*shared.CouponSnapshot, error)
}

type CouponQueries interface {
	// Validate runs the full validity pipeline against an order amount
	// without consuming a use.
	Validate(ctx context.Context, code string, amountCents int64) (*CouponApplication, error)
}

type couponQueriesImpl struct {
	readStore CouponReadStore
	clock     clock.Clock
}

func NewCouponQueries(readStore CouponReadStore, clk clock.Clock) CouponQueries {
	return &couponQueriesImpl{
		readStore: readStore,
		clock:     clk,
	}
}

func (q *couponQueriesImpl) Validate(ctx context.Context, code string, amountCents int64) (*CouponApplication, error) {
	normalized, err := coupon.NewCode(code)
	if err != nil {
		return nil, err
	}

	snapshot, err := q.readStore.FindByCode(ctx, normalized.String())
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, errs.Mark(err, ErrCouponNotFound)
	}

	entity, err := shared.CouponFromSnapshot(snapshot)
	if err != nil {
		return nil, errs.Mark(err, ErrCouponInvalid)
	}

	if err := entity.ValidateRedemption(q.clock.Now(), amountCents); err != nil {
		return nil, err
	}

	return NewCouponApplication(entity, amountCents), nil
}

// NewCouponApplication computes discount, final amount and the savings
// percentage for a validated coupon.
func NewCouponApplication(entity *coupon.Coupon, amountCents int64) *CouponApplication {
	discount := entity.DiscountFor(amountCents)
	final := entity.FinalAmountFor(amountCents)

	var savings float64
	if amountCents > 0 {
		savings = float64(discount) / float64(amountCents) * 100
	}

	return &CouponApplication{
		Coupon:              CouponViewFromEntity(entity),
		OriginalAmountCents: amountCents,
		DiscountCents:       discount,
		FinalAmountCents:    final,
		SavingsPercentage:   savings,
	}
}

func CouponViewFromEntity(entity *coupon.Coupon) CouponView {
	return CouponView{
		ID:                 entity.ID(),
		Code:               entity.Code().String(),
		Kind:               entity.Discount().Kind().String(),
		Value:              entity.Discount().Value(),
		MinimumAmountCents: entity.MinimumAmountCents(),
		MaxUses:            entity.MaxUses(),
		UsesCount:          entity.UsesCount(),
		StartsAt:           entity.StartsAt(),
		EndsAt:             entity.EndsAt(),
		Lifecycle:          entity.Lifecycle().String(),
	}
}
