package queries

import (
	"time"

	"github.com/google/uuid"
)

type CouponView struct {
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

// CouponApplication is the outcome of validating or redeeming a coupon
// against an order amount.
type CouponApplication struct {
	Coupon              CouponView
	OriginalAmountCents int64
	DiscountCents       int64
	FinalAmountCents    int64
	SavingsPercentage   float64
}

type CartItemView struct {
	ID             uuid.UUID
	ProductID      uuid.UUID
	VariantID      *uuid.UUID
	ProductName    *string
	ProductSlug    *string
	Quantity       int32
	UnitPriceCents int64
	SubtotalCents  int64
	AddedAt        time.Time
}

// CartView totals are recomputed from the item list on construction, never
// read back from storage.
type CartView struct {
	Items      []CartItemView
	TotalCents int64
	ItemCount  int32
}

func NewCartView(items []CartItemView) *CartView {
	view := &CartView{Items: items}
	for i := range items {
		items[i].SubtotalCents = items[i].UnitPriceCents * int64(items[i].Quantity)
		view.TotalCents += items[i].SubtotalCents
		view.ItemCount += items[i].Quantity
	}
	return view
}

type FavoriteItemView struct {
	ID          uuid.UUID
	ProductID   uuid.UUID
	ProductName *string
	ProductSlug *string
	AddedAt     time.Time
}

type FavoritesView struct {
	Items []FavoriteItemView
	Count int
}

func NewFavoritesView(items []FavoriteItemView) *FavoritesView {
	return &FavoritesView{Items: items, Count: len(items)}
}

type AuthorizedUserView struct {
	ID        uuid.UUID
	Email     string
	Role      string
	IsActive  bool
	LastLogin *time.Time
	CreatedAt time.Time
}

type ProductVariantView struct {
	ID         uuid.UUID
	Name       string
	PriceCents *int64
	Stock      int32
}

type ProductView struct {
	ID         uuid.UUID
	Name       string
	Slug       string
	PriceCents int64
	Stock      int32
	State      string
	Variants   []ProductVariantView
}

type StockCheckView struct {
	Available      bool
	AvailableStock int32
	Reason         string
}
