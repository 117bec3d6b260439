package readstore

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"obsidian/internal/infra"
	"obsidian/internal/infra/db"
	"obsidian/internal/pkg/pgconv"
	"obsidian/internal/usecase/queries"
)

type CartReadStore struct {
	db db.DBTX
}

func NewCartReadStore(db db.DBTX) *CartReadStore {
	return &CartReadStore{db: db}
}

// GetByUserID returns the cart with per-line product metadata. The join is
// LEFT: a line whose product has since been archived or removed still shows
// up, with nil name and slug.
func (r *CartReadStore) GetByUserID(ctx context.Context, userID uuid.UUID) (*queries.CartView, error) {
	q := `SELECT id FROM carts WHERE user_id = $1`

	var cartID uuid.UUID
	if err := r.db.QueryRow(ctx, q, userID).Scan(&cartID); err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("cart not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find cart", err)
	}

	itemsQuery := `
		SELECT ci.id, ci.product_id, ci.variant_id, p.name, p.slug, ci.quantity, ci.unit_price_cents, ci.added_at
		FROM cart_items ci
		LEFT JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.added_at, ci.id`

	rows, err := r.db.Query(ctx, itemsQuery, cartID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load cart items", err)
	}

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (queries.CartItemView, error) {
		var it queries.CartItemView
		scanErr := row.Scan(&it.ID, &it.ProductID, &it.VariantID, &it.ProductName, &it.ProductSlug, &it.Quantity, &it.UnitPriceCents, &it.AddedAt)
		return it, scanErr
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan cart items", err)
	}

	return queries.NewCartView(items), nil
}
