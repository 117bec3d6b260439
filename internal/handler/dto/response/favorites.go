package response

import (
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"

	"obsidian/internal/usecase/queries"
)

type FavoriteItemResponse struct {
	ID          uuid.UUID `json:"id"`
	ProductID   uuid.UUID `json:"product_id"`
	ProductName *string   `json:"product_name,omitempty"`
	ProductSlug *string   `json:"product_slug,omitempty"`
	AddedAt     time.Time `json:"added_at"`
}

type FavoritesResponse struct {
	Items []FavoriteItemResponse `json:"items"`
	Count int                    `json:"count"`
}

func FromFavoritesView(v *queries.FavoritesView) *FavoritesResponse {
	resp := FavoritesResponse{
		Items: make([]FavoriteItemResponse, 0, len(v.Items)),
		Count: v.Count,
	}
	for i := range v.Items {
		var item FavoriteItemResponse
		_ = copier.Copy(&item, &v.Items[i])
		resp.Items = append(resp.Items, item)
	}
	return &resp
}
