//go:build unit

package favorites_test

import (
	"testing"
	"time"

	"obsidian/internal/domain/favorites"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAdd(t *testing.T) {
	now := time.Now()
	productID := uuid.New()

	t.Run("adds a product once", func(t *testing.T) {
		f := favorites.NewFavorites(uuid.New(), uuid.New())

		item := f.Add(productID, now)
		assert.Equal(t, productID, item.ProductID())
		assert.Equal(t, 1, f.Count())
		assert.True(t, f.Contains(productID))
	})

	t.Run("adding again returns the existing item", func(t *testing.T) {
		f := favorites.NewFavorites(uuid.New(), uuid.New())

		first := f.Add(productID, now)
		second := f.Add(productID, now.Add(time.Hour))

		assert.Equal(t, first.ID(), second.ID())
		assert.Equal(t, first.AddedAt(), second.AddedAt())
		assert.Equal(t, 1, f.Count())
	})
}

func TestRemove(t *testing.T) {
	now := time.Now()

	t.Run("remove is idempotent", func(t *testing.T) {
		f := favorites.NewFavorites(uuid.New(), uuid.New())
		item := f.Add(uuid.New(), now)

		f.Remove(item.ID())
		assert.Equal(t, 0, f.Count())

		f.Remove(item.ID())
		assert.Equal(t, 0, f.Count())
	})

	t.Run("clear empties the set", func(t *testing.T) {
		f := favorites.NewFavorites(uuid.New(), uuid.New())
		f.Add(uuid.New(), now)
		f.Add(uuid.New(), now)

		f.Clear()
		assert.Equal(t, 0, f.Count())
		assert.Empty(t, f.Items())
	})
}
