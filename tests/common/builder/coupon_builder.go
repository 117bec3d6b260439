//go:build unit || e2e

package builder

import (
	"time"

	domcoupon "obsidian/internal/domain/coupon"
	reqdto "obsidian/internal/handler/dto/request"
	"obsidian/internal/usecase/queries"
	"obsidian/internal/usecase/shared"

	"github.com/google/uuid"
)

type CouponBuilder struct {
	ID                 uuid.UUID
	Code               string
	Kind               string
	Value              int64
	MinimumAmountCents int64
	MaxUses            *int32
	UsesCount          int32
	StartsAt           time.Time
	EndsAt             time.Time
	Lifecycle          string
}

func NewCouponBuilder() *CouponBuilder {
	now := time.Now()
	return &CouponBuilder{
		ID:                 uuid.New(),
		Code:               "SAVE10",
		Kind:               string(domcoupon.KindPercentage),
		Value:              10,
		MinimumAmountCents: 0,
		MaxUses:            nil,
		UsesCount:          0,
		StartsAt:           now.Add(-time.Hour),
		EndsAt:             now.Add(24 * time.Hour),
		Lifecycle:          string(domcoupon.LifecycleActive),
	}
}

func (b *CouponBuilder) With(mutate func(*CouponBuilder)) *CouponBuilder {
	mutate(b)
	return b
}

// Build methods
func (b *CouponBuilder) BuildDomain() (*domcoupon.Coupon, error) {
	return domcoupon.NewCoupon(b.ID, b.Code, b.Kind, b.Value, b.MinimumAmountCents, b.MaxUses, b.StartsAt, b.EndsAt)
}

// BuildReconstructed bypasses the constructors so tests can produce states a
// fresh coupon cannot have (recorded uses, deactivated lifecycle). The
// builder defaults are always valid, so conversion errors cannot occur here.
func (b *CouponBuilder) BuildReconstructed() *domcoupon.Coupon {
	code, _ := domcoupon.NewCode(b.Code)
	kind, _ := domcoupon.NewKind(b.Kind)
	discount, _ := domcoupon.NewDiscount(kind, b.Value)
	lifecycle, _ := domcoupon.NewLifecycle(b.Lifecycle)
	now := time.Now()
	return domcoupon.ReconstructCoupon(
		b.ID, code, discount, b.MinimumAmountCents, b.MaxUses, b.UsesCount,
		b.StartsAt, b.EndsAt, lifecycle, now, now,
	)
}

func (b *CouponBuilder) BuildSnapshot() *shared.CouponSnapshot {
	now := time.Now()
	return &shared.CouponSnapshot{
		ID:                 b.ID,
		Code:               b.Code,
		Kind:               b.Kind,
		Value:              b.Value,
		MinimumAmountCents: b.MinimumAmountCents,
		MaxUses:            b.MaxUses,
		UsesCount:          b.UsesCount,
		StartsAt:           b.StartsAt,
		EndsAt:             b.EndsAt,
		Lifecycle:          b.Lifecycle,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

func (b *CouponBuilder) BuildView() *queries.CouponView {
	return &queries.CouponView{
		ID:                 b.ID,
		Code:               b.Code,
		Kind:               b.Kind,
		Value:              b.Value,
		MinimumAmountCents: b.MinimumAmountCents,
		MaxUses:            b.MaxUses,
		UsesCount:          b.UsesCount,
		StartsAt:           b.StartsAt,
		EndsAt:             b.EndsAt,
		Lifecycle:          b.Lifecycle,
	}
}

func (b *CouponBuilder) BuildApplication(amountCents int64) *queries.CouponApplication {
	return queries.NewCouponApplication(b.BuildReconstructed(), amountCents)
}

func (b *CouponBuilder) BuildCreateRequestDTO() reqdto.CreateCouponRequest {
	return reqdto.CreateCouponRequest{
		Code:               b.Code,
		Kind:               b.Kind,
		Value:              b.Value,
		MinimumAmountCents: b.MinimumAmountCents,
		MaxUses:            b.MaxUses,
		StartsAt:           b.StartsAt,
		EndsAt:             b.EndsAt,
	}
}

// Fluent builder methods
func (b *CouponBuilder) WithCode(code string) *CouponBuilder {
	b.Code = code
	return b
}

func (b *CouponBuilder) WithKind(kind string) *CouponBuilder {
	b.Kind = kind
	return b
}

func (b *CouponBuilder) WithValue(value int64) *CouponBuilder {
	b.Value = value
	return b
}

func (b *CouponBuilder) WithMinimumAmount(cents int64) *CouponBuilder {
	b.MinimumAmountCents = cents
	return b
}

func (b *CouponBuilder) WithMaxUses(maxUses int32) *CouponBuilder {
	b.MaxUses = &maxUses
	return b
}

func (b *CouponBuilder) WithUsesCount(count int32) *CouponBuilder {
	b.UsesCount = count
	return b
}

func (b *CouponBuilder) WithWindow(startsAt, endsAt time.Time) *CouponBuilder {
	b.StartsAt = startsAt
	b.EndsAt = endsAt
	return b
}

func (b *CouponBuilder) WithLifecycle(lifecycle string) *CouponBuilder {
	b.Lifecycle = lifecycle
	return b
}

func (b *CouponBuilder) AsFixed(cents int64) *CouponBuilder {
	b.Kind = string(domcoupon.KindFixed)
	b.Value = cents
	return b
}
