package shared

import (
	"time"

	"github.com/google/uuid"
)

// Read-side snapshots handed to the command layer. Reconstructed into domain
// entities before any rule runs.

type CouponSnapshot struct {
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
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type VariantSnapshot struct {
	ID         uuid.UUID
	Name       string
	PriceCents *int64
	Stock      int32
}

type ProductSnapshot struct {
	ID         uuid.UUID
	Name       string
	Slug       string
	PriceCents int64
	Stock      int32
	State      string
	Variants   []VariantSnapshot
}

type CartItemRecord struct {
	ID             uuid.UUID
	CartID         uuid.UUID
	ProductID      uuid.UUID
	VariantID      *uuid.UUID
	Quantity       int32
	UnitPriceCents int64
	AddedAt        time.Time
}

type CartRecord struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Items     []CartItemRecord
	CreatedAt time.Time
	UpdatedAt time.Time
}

type FavoriteItemRecord struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	AddedAt   time.Time
}

type FavoritesRecord struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Items     []FavoriteItemRecord
	CreatedAt time.Time
	UpdatedAt time.Time
}
