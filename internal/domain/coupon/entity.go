package coupon

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrCouponInactive    = errors.New("coupon is not active")
	ErrCouponNotYetValid = errors.New("coupon is not yet valid")
	ErrCouponExpired     = errors.New("coupon has expired")
	ErrCouponExhausted   = errors.New("coupon usage limit reached")
	ErrBelowMinimum      = errors.New("order amount below coupon minimum")
	ErrInvalidWindow     = errors.New("start date must be before end date")
)

// BelowMinimumError carries the unmet threshold so the caller can tell the
// shopper how much more they need to spend.
type BelowMinimumError struct {
	MinimumAmountCents int64
}

func (e *BelowMinimumError) Error() string {
	return fmt.Sprintf("order amount below coupon minimum of %d cents", e.MinimumAmountCents)
}

func (e *BelowMinimumError) Is(target error) bool {
	return target == ErrBelowMinimum
}

type Coupon struct {
	id                 uuid.UUID
	code               Code
	discount           Discount
	minimumAmountCents int64
	maxUses            *int32
	usesCount          int32
	startsAt           time.Time
	endsAt             time.Time
	lifecycle          Lifecycle
	createdAt          time.Time
	updatedAt          time.Time
}

func NewCoupon(
	id uuid.UUID,
	code string,
	kind string,
	value int64,
	minimumAmountCents int64,
	maxUses *int32,
	startsAt, endsAt time.Time,
) (*Coupon, error) {
	couponCode, err := NewCode(code)
	if err != nil {
		return nil, err
	}

	couponKind, err := NewKind(kind)
	if err != nil {
		return nil, err
	}

	discount, err := NewDiscount(couponKind, value)
	if err != nil {
		return nil, err
	}

	if minimumAmountCents < 0 {
		return nil, ErrNegativeMinimum
	}

	if !startsAt.Before(endsAt) {
		return nil, ErrInvalidWindow
	}

	return &Coupon{
		id:                 id,
		code:               couponCode,
		discount:           discount,
		minimumAmountCents: minimumAmountCents,
		maxUses:            maxUses,
		usesCount:          0,
		startsAt:           startsAt,
		endsAt:             endsAt,
		lifecycle:          LifecycleActive,
	}, nil
}

func ReconstructCoupon(
	id uuid.UUID,
	code Code,
	discount Discount,
	minimumAmountCents int64,
	maxUses *int32,
	usesCount int32,
	startsAt, endsAt time.Time,
	lifecycle Lifecycle,
	createdAt, updatedAt time.Time,
) *Coupon {
	return &Coupon{
		id:                 id,
		code:               code,
		discount:           discount,
		minimumAmountCents: minimumAmountCents,
		maxUses:            maxUses,
		usesCount:          usesCount,
		startsAt:           startsAt,
		endsAt:             endsAt,
		lifecycle:          lifecycle,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
	}
}

// IsValidAt reports the derived validity: active lifecycle, inside the
// [startsAt, endsAt] window (inclusive at both ends) and not exhausted.
func (c *Coupon) IsValidAt(t time.Time) bool {
	return c.ValidateAt(t) == nil
}

// ValidateAt runs the validity rules in order and returns the first failure.
func (c *Coupon) ValidateAt(t time.Time) error {
	if c.lifecycle != LifecycleActive {
		return ErrCouponInactive
	}
	if t.Before(c.startsAt) {
		return ErrCouponNotYetValid
	}
	if t.After(c.endsAt) {
		return ErrCouponExpired
	}
	if c.IsExhausted() {
		return ErrCouponExhausted
	}
	return nil
}

// ValidateRedemption runs the full pipeline including the minimum-amount
// rule for the given order amount.
func (c *Coupon) ValidateRedemption(t time.Time, amountCents int64) error {
	if err := c.ValidateAt(t); err != nil {
		return err
	}
	if amountCents < c.minimumAmountCents {
		return &BelowMinimumError{MinimumAmountCents: c.minimumAmountCents}
	}
	return nil
}

func (c *Coupon) IsExhausted() bool {
	return c.maxUses != nil && c.usesCount >= *c.maxUses
}

func (c *Coupon) DiscountFor(amountCents int64) int64 {
	return c.discount.AmountFor(amountCents)
}

func (c *Coupon) FinalAmountFor(amountCents int64) int64 {
	return c.discount.FinalAmountFor(amountCents)
}

func (c *Coupon) ID() uuid.UUID              { return c.id }
func (c *Coupon) Code() Code                 { return c.code }
func (c *Coupon) Discount() Discount         { return c.discount }
func (c *Coupon) MinimumAmountCents() int64  { return c.minimumAmountCents }
func (c *Coupon) MaxUses() *int32            { return c.maxUses }
func (c *Coupon) UsesCount() int32           { return c.usesCount }
func (c *Coupon) StartsAt() time.Time        { return c.startsAt }
func (c *Coupon) EndsAt() time.Time          { return c.endsAt }
func (c *Coupon) Lifecycle() Lifecycle       { return c.lifecycle }
func (c *Coupon) CreatedAt() time.Time       { return c.createdAt }
func (c *Coupon) UpdatedAt() time.Time       { return c.updatedAt }
