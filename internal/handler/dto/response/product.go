package response

import (
	"github.com/google/uuid"
	"github.com/jinzhu/copier"

	"obsidian/internal/usecase/queries"
)

type ProductVariantResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	PriceCents *int64    `json:"price_cents,omitempty"`
	Stock      int32     `json:"stock"`
}

type ProductResponse struct {
	ID         uuid.UUID                `json:"id"`
	Name       string                   `json:"name"`
	Slug       string                   `json:"slug"`
	PriceCents int64                    `json:"price_cents"`
	Stock      int32                    `json:"stock"`
	State      string                   `json:"state"`
	Variants   []ProductVariantResponse `json:"variants,omitempty"`
}

func FromProductView(v *queries.ProductView) *ProductResponse {
	var resp ProductResponse
	_ = copier.Copy(&resp, v)
	return &resp
}

func FromProductList(views []queries.ProductView) []ProductResponse {
	res := make([]ProductResponse, 0, len(views))
	for i := range views {
		var item ProductResponse
		_ = copier.Copy(&item, &views[i])
		res = append(res, item)
	}
	return res
}

type StockCheckResponse struct {
	Available      bool   `json:"available"`
	AvailableStock int32  `json:"available_stock"`
	Reason         string `json:"reason,omitempty"`
}

func FromStockCheckView(v *queries.StockCheckView) *StockCheckResponse {
	var resp StockCheckResponse
	_ = copier.Copy(&resp, v)
	return &resp
}
