package request

import (
	"strings"
	"time"
)

type ApplyCouponRequest struct {
	Code        string `json:"code" binding:"required"`
	AmountCents int64  `json:"amount_cents" binding:"required,gt=0"`
}

func (r ApplyCouponRequest) NormalizedCode() string {
	return strings.TrimSpace(r.Code)
}

type ValidateCouponRequest struct {
	Code        string `json:"code" binding:"required"`
	AmountCents int64  `json:"amount_cents" binding:"required,gt=0"`
}

func (r ValidateCouponRequest) NormalizedCode() string {
	return strings.TrimSpace(r.Code)
}

type CreateCouponRequest struct {
	Code               string    `json:"code" binding:"required"`
	Kind               string    `json:"kind" binding:"required,oneof=percentage fixed"`
	Value              int64     `json:"value" binding:"required,gt=0"`
	MinimumAmountCents int64     `json:"minimum_amount_cents" binding:"gte=0"`
	MaxUses            *int32    `json:"max_uses,omitempty" binding:"omitempty,gt=0"`
	StartsAt           time.Time `json:"starts_at" binding:"required"`
	EndsAt             time.Time `json:"ends_at" binding:"required"`
}

type UpdateCouponRequest struct {
	Kind               string    `json:"kind" binding:"required,oneof=percentage fixed"`
	Value              int64     `json:"value" binding:"required,gt=0"`
	MinimumAmountCents int64     `json:"minimum_amount_cents" binding:"gte=0"`
	MaxUses            *int32    `json:"max_uses,omitempty" binding:"omitempty,gt=0"`
	StartsAt           time.Time `json:"starts_at" binding:"required"`
	EndsAt             time.Time `json:"ends_at" binding:"required"`
}

type SetCouponLifecycleRequest struct {
	Lifecycle string `json:"lifecycle" binding:"required,oneof=active deactivated"`
}
