//go:build unit || e2e

package builder

import (
	"time"

	reqdto "obsidian/internal/handler/dto/request"
	"obsidian/internal/usecase/queries"

	"github.com/google/uuid"
)

type CartItemBuilder struct {
	ID             uuid.UUID
	ProductID      uuid.UUID
	VariantID      *uuid.UUID
	ProductName    string
	ProductSlug    string
	Quantity       int32
	UnitPriceCents int64
	AddedAt        time.Time
}

func NewCartItemBuilder() *CartItemBuilder {
	return &CartItemBuilder{
		ID:             uuid.New(),
		ProductID:      uuid.New(),
		ProductName:    "Obsidian Mug",
		ProductSlug:    "obsidian-mug",
		Quantity:       2,
		UnitPriceCents: 1500,
		AddedAt:        time.Now(),
	}
}

func (b *CartItemBuilder) With(mutate func(*CartItemBuilder)) *CartItemBuilder {
	mutate(b)
	return b
}

func (b *CartItemBuilder) BuildAddRequestDTO() reqdto.AddCartItemRequest {
	return reqdto.AddCartItemRequest{
		ProductID: b.ProductID,
		VariantID: b.VariantID,
		Quantity:  b.Quantity,
	}
}

func (b *CartItemBuilder) BuildItemView() queries.CartItemView {
	name := b.ProductName
	slug := b.ProductSlug
	return queries.CartItemView{
		ID:             b.ID,
		ProductID:      b.ProductID,
		VariantID:      b.VariantID,
		ProductName:    &name,
		ProductSlug:    &slug,
		Quantity:       b.Quantity,
		UnitPriceCents: b.UnitPriceCents,
		AddedAt:        b.AddedAt,
	}
}

// BuildView wraps the single line in a cart view with recomputed totals.
func (b *CartItemBuilder) BuildView() *queries.CartView {
	return queries.NewCartView([]queries.CartItemView{b.BuildItemView()})
}

// Fluent builder methods
func (b *CartItemBuilder) WithProductID(id uuid.UUID) *CartItemBuilder {
	b.ProductID = id
	return b
}

func (b *CartItemBuilder) WithVariantID(id uuid.UUID) *CartItemBuilder {
	b.VariantID = &id
	return b
}

func (b *CartItemBuilder) WithQuantity(quantity int32) *CartItemBuilder {
	b.Quantity = quantity
	return b
}

func (b *CartItemBuilder) WithUnitPrice(cents int64) *CartItemBuilder {
	b.UnitPriceCents = cents
	return b
}
