package favorites

import (
	"time"

	"github.com/google/uuid"
)

type Item struct {
	id        uuid.UUID
	productID uuid.UUID
	addedAt   time.Time
}

func NewItem(id, productID uuid.UUID, addedAt time.Time) Item {
	return Item{id: id, productID: productID, addedAt: addedAt}
}

func (i Item) ID() uuid.UUID        { return i.id }
func (i Item) ProductID() uuid.UUID { return i.productID }
func (i Item) AddedAt() time.Time   { return i.addedAt }

// Favorites is the per-user set of saved product references. A product
// appears at most once.
type Favorites struct {
	id        uuid.UUID
	userID    uuid.UUID
	items     []Item
	createdAt time.Time
	updatedAt time.Time
}

func NewFavorites(id, userID uuid.UUID) *Favorites {
	return &Favorites{id: id, userID: userID}
}

func ReconstructFavorites(id, userID uuid.UUID, items []Item, createdAt, updatedAt time.Time) *Favorites {
	return &Favorites{
		id:        id,
		userID:    userID,
		items:     items,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (f *Favorites) ID() uuid.UUID        { return f.id }
func (f *Favorites) UserID() uuid.UUID    { return f.userID }
func (f *Favorites) Items() []Item        { return f.items }
func (f *Favorites) CreatedAt() time.Time { return f.createdAt }
func (f *Favorites) UpdatedAt() time.Time { return f.updatedAt }

// Add is idempotent: adding a product already in the set returns the
// existing item unchanged.
func (f *Favorites) Add(productID uuid.UUID, now time.Time) Item {
	for _, item := range f.items {
		if item.productID == productID {
			return item
		}
	}
	item := NewItem(uuid.New(), productID, now)
	f.items = append(f.items, item)
	return item
}

// Remove is idempotent: removing an absent item is a no-op.
func (f *Favorites) Remove(itemID uuid.UUID) {
	for idx, item := range f.items {
		if item.id == itemID {
			f.items = append(f.items[:idx], f.items[idx+1:]...)
			return
		}
	}
}

func (f *Favorites) Clear() {
	f.items = nil
}

func (f *Favorites) Contains(productID uuid.UUID) bool {
	for _, item := range f.items {
		if item.productID == productID {
			return true
		}
	}
	return false
}

func (f *Favorites) Count() int {
	return len(f.items)
}
