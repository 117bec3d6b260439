package coupon

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrInvalidCouponCode    = errors.New("invalid coupon code format")
	ErrInvalidDiscountValue = errors.New("invalid discount value")
	ErrInvalidKind          = errors.New("invalid coupon kind")
	ErrInvalidLifecycle     = errors.New("invalid coupon lifecycle state")
	ErrNegativeMinimum      = errors.New("minimum amount cannot be negative")
)

var couponCodeRegex = regexp.MustCompile(`^[A-Z0-9]{3,20}$`)

// Code is a case-insensitive coupon identifier, normalized to uppercase.
type Code string

func NewCode(code string) (Code, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !couponCodeRegex.MatchString(code) {
		return Code(""), ErrInvalidCouponCode
	}
	return Code(code), nil
}

func (c Code) String() string {
	return string(c)
}

type Kind string

const (
	KindPercentage Kind = "percentage"
	KindFixed      Kind = "fixed"
)

func NewKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindPercentage, KindFixed:
		return Kind(s), nil
	default:
		return "", ErrInvalidKind
	}
}

func (k Kind) String() string {
	return string(k)
}

// Lifecycle replaces the source's ad hoc active flag with an explicit state.
// Purged coupons are gone from the storefront but may linger in storage until
// the hard delete (guarded by zero usage) goes through.
type Lifecycle string

const (
	LifecycleActive      Lifecycle = "active"
	LifecycleDeactivated Lifecycle = "deactivated"
	LifecyclePurged      Lifecycle = "purged"
)

func NewLifecycle(s string) (Lifecycle, error) {
	switch Lifecycle(s) {
	case LifecycleActive, LifecycleDeactivated, LifecyclePurged:
		return Lifecycle(s), nil
	default:
		return "", ErrInvalidLifecycle
	}
}

func (l Lifecycle) String() string {
	return string(l)
}

// Discount is the coupon's reduction rule: a percentage of the order amount
// or a fixed amount in cents.
type Discount struct {
	kind  Kind
	value int64
}

func NewDiscount(kind Kind, value int64) (Discount, error) {
	switch kind {
	case KindPercentage:
		if value <= 0 || value > 100 {
			return Discount{}, ErrInvalidDiscountValue
		}
	case KindFixed:
		if value <= 0 {
			return Discount{}, ErrInvalidDiscountValue
		}
	default:
		return Discount{}, ErrInvalidKind
	}
	return Discount{kind: kind, value: value}, nil
}

func (d Discount) Kind() Kind   { return d.kind }
func (d Discount) Value() int64 { return d.value }

// AmountFor computes the discount in cents for the given order amount.
// Percentage: amount * value / 100. Fixed: min(value, amount) so the
// discount can never exceed the order itself.
func (d Discount) AmountFor(amountCents int64) int64 {
	switch d.kind {
	case KindPercentage:
		return amountCents * d.value / 100
	case KindFixed:
		if d.value > amountCents {
			return amountCents
		}
		return d.value
	default:
		return 0
	}
}

// FinalAmountFor clamps at zero even though AmountFor already guarantees
// non-negativity for well-formed discounts; data drift (value > 100 written
// around the constructor) must not produce a negative total.
func (d Discount) FinalAmountFor(amountCents int64) int64 {
	final := amountCents - d.AmountFor(amountCents)
	if final < 0 {
		return 0
	}
	return final
}
