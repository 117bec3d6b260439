package response

import (
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"

	"obsidian/internal/usecase/queries"
)

type CouponResponse struct {
	ID                 uuid.UUID `json:"id"`
	Code               string    `json:"code"`
	Kind               string    `json:"kind"`
	Value              int64     `json:"value"`
	MinimumAmountCents int64     `json:"minimum_amount_cents"`
	MaxUses            *int32    `json:"max_uses,omitempty"`
	UsesCount          int32     `json:"uses_count"`
	StartsAt           time.Time `json:"starts_at"`
	EndsAt             time.Time `json:"ends_at"`
	Lifecycle          string    `json:"lifecycle"`
}

func FromCouponView(v *queries.CouponView) *CouponResponse {
	var resp CouponResponse
	_ = copier.Copy(&resp, v)
	return &resp
}

type CouponApplicationResponse struct {
	Coupon              CouponResponse `json:"coupon"`
	OriginalAmountCents int64          `json:"original_amount_cents"`
	DiscountCents       int64          `json:"discount_cents"`
	FinalAmountCents    int64          `json:"final_amount_cents"`
	SavingsPercentage   float64        `json:"savings_percentage"`
}

func FromCouponApplication(v *queries.CouponApplication) *CouponApplicationResponse {
	var resp CouponApplicationResponse
	_ = copier.Copy(&resp, v)
	return &resp
}

type CleanupResponse struct {
	Message     string `json:"message"`
	Deactivated int64  `json:"deactivated"`
}
