package request

import (
	"github.com/google/uuid"
)

type AddFavoriteRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
}
