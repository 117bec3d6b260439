package response

import (
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"

	"obsidian/internal/usecase/queries"
)

type CartItemResponse struct {
	ID             uuid.UUID  `json:"id"`
	ProductID      uuid.UUID  `json:"product_id"`
	VariantID      *uuid.UUID `json:"variant_id,omitempty"`
	ProductName    *string    `json:"product_name,omitempty"`
	ProductSlug    *string    `json:"product_slug,omitempty"`
	Quantity       int32      `json:"quantity"`
	UnitPriceCents int64      `json:"unit_price_cents"`
	SubtotalCents  int64      `json:"subtotal_cents"`
	AddedAt        time.Time  `json:"added_at"`
}

type CartResponse struct {
	Items      []CartItemResponse `json:"items"`
	TotalCents int64              `json:"total_cents"`
	ItemCount  int32              `json:"item_count"`
}

func FromCartView(v *queries.CartView) *CartResponse {
	resp := CartResponse{
		Items:      make([]CartItemResponse, 0, len(v.Items)),
		TotalCents: v.TotalCents,
		ItemCount:  v.ItemCount,
	}
	for i := range v.Items {
		var item CartItemResponse
		_ = copier.Copy(&item, &v.Items[i])
		resp.Items = append(resp.Items, item)
	}
	return &resp
}
