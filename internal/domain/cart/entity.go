package cart

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrItemNotFound    = errors.New("cart item not found")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrNoStock         = errors.New("product is out of stock")
)

// Item is one cart line: a (product, variant) pair with a quantity and the
// unit price snapshotted when the line was first added.
type Item struct {
	id             uuid.UUID
	productID      uuid.UUID
	variantID      *uuid.UUID
	quantity       int32
	unitPriceCents int64
	addedAt        time.Time
}

func NewItem(id, productID uuid.UUID, variantID *uuid.UUID, quantity int32, unitPriceCents int64, addedAt time.Time) Item {
	return Item{
		id:             id,
		productID:      productID,
		variantID:      variantID,
		quantity:       quantity,
		unitPriceCents: unitPriceCents,
		addedAt:        addedAt,
	}
}

func (i Item) ID() uuid.UUID         { return i.id }
func (i Item) ProductID() uuid.UUID  { return i.productID }
func (i Item) VariantID() *uuid.UUID { return i.variantID }
func (i Item) Quantity() int32       { return i.quantity }
func (i Item) UnitPriceCents() int64 { return i.unitPriceCents }
func (i Item) AddedAt() time.Time    { return i.addedAt }

func (i Item) SubtotalCents() int64 {
	return i.unitPriceCents * int64(i.quantity)
}

func (i Item) matches(productID uuid.UUID, variantID *uuid.UUID) bool {
	if i.productID != productID {
		return false
	}
	if i.variantID == nil || variantID == nil {
		return i.variantID == nil && variantID == nil
	}
	return *i.variantID == *variantID
}

// Cart is the per-user aggregate of pending purchase lines. Totals are never
// stored; they are recomputed from the item list on every read.
type Cart struct {
	id        uuid.UUID
	userID    uuid.UUID
	items     []Item
	createdAt time.Time
	updatedAt time.Time
}

func NewCart(id, userID uuid.UUID) *Cart {
	return &Cart{id: id, userID: userID}
}

func ReconstructCart(id, userID uuid.UUID, items []Item, createdAt, updatedAt time.Time) *Cart {
	return &Cart{
		id:        id,
		userID:    userID,
		items:     items,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (c *Cart) ID() uuid.UUID        { return c.id }
func (c *Cart) UserID() uuid.UUID    { return c.userID }
func (c *Cart) Items() []Item        { return c.items }
func (c *Cart) CreatedAt() time.Time { return c.createdAt }
func (c *Cart) UpdatedAt() time.Time { return c.updatedAt }

// AddItem merges into an existing (product, variant) line when present,
// otherwise appends a new line with the given price snapshot. availableStock
// caps the resulting quantity; the cap never fails the call.
func (c *Cart) AddItem(productID uuid.UUID, variantID *uuid.UUID, quantity int32, unitPriceCents int64, availableStock int32, now time.Time) (Item, error) {
	if quantity < 1 {
		return Item{}, ErrInvalidQuantity
	}
	if availableStock < 1 {
		return Item{}, ErrNoStock
	}

	for idx, item := range c.items {
		if item.matches(productID, variantID) {
			merged := item.quantity + quantity
			c.items[idx].quantity = clampQuantity(merged, availableStock)
			return c.items[idx], nil
		}
	}

	item := NewItem(uuid.New(), productID, variantID, clampQuantity(quantity, availableStock), unitPriceCents, now)
	c.items = append(c.items, item)
	return item, nil
}

// UpdateQuantity clamps the requested quantity to [1, availableStock];
// requests above the stock ceiling are silently capped rather than failed.
func (c *Cart) UpdateQuantity(itemID uuid.UUID, quantity int32, availableStock int32) (Item, error) {
	for idx, item := range c.items {
		if item.id == itemID {
			if availableStock < 1 {
				return Item{}, ErrNoStock
			}
			c.items[idx].quantity = clampQuantity(quantity, availableStock)
			return c.items[idx], nil
		}
	}
	return Item{}, ErrItemNotFound
}

// RemoveItem is idempotent: removing an absent line is a no-op.
func (c *Cart) RemoveItem(itemID uuid.UUID) {
	for idx, item := range c.items {
		if item.id == itemID {
			c.items = append(c.items[:idx], c.items[idx+1:]...)
			return
		}
	}
}

func (c *Cart) Clear() {
	c.items = nil
}

func (c *Cart) FindItem(itemID uuid.UUID) (Item, bool) {
	for _, item := range c.items {
		if item.id == itemID {
			return item, true
		}
	}
	return Item{}, false
}

// TotalCents is derived from the item list, never trusted from storage or
// the client.
func (c *Cart) TotalCents() int64 {
	var total int64
	for _, item := range c.items {
		total += item.SubtotalCents()
	}
	return total
}

func (c *Cart) ItemCount() int32 {
	var count int32
	for _, item := range c.items {
		count += item.quantity
	}
	return count
}

func clampQuantity(quantity, availableStock int32) int32 {
	if quantity < 1 {
		return 1
	}
	if quantity > availableStock {
		return availableStock
	}
	return quantity
}
