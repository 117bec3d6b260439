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

type FavoritesReadStore struct {
	db db.DBTX
}

func NewFavoritesReadStore(db db.DBTX) *FavoritesReadStore {
	return &FavoritesReadStore{db: db}
}

func (r *FavoritesReadStore) GetByUserID(ctx context.Context, userID uuid.UUID) (*queries.FavoritesView, error) {
	q := `SELECT id FROM favorites WHERE user_id = $1`

	var favoritesID uuid.UUID
	if err := r.db.QueryRow(ctx, q, userID).Scan(&favoritesID); err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("favorites not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find favorites", err)
	}

	itemsQuery := `
		SELECT fi.id, fi.product_id, p.name, p.slug, fi.added_at
		FROM favorite_items fi
		LEFT JOIN products p ON p.id = fi.product_id
		WHERE fi.favorites_id = $1
		ORDER BY fi.added_at, fi.id`

	rows, err := r.db.Query(ctx, itemsQuery, favoritesID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load favorite items", err)
	}

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (queries.FavoriteItemView, error) {
		var it queries.FavoriteItemView
		scanErr := row.Scan(&it.ID, &it.ProductID, &it.ProductName, &it.ProductSlug, &it.AddedAt)
		return it, scanErr
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan favorite items", err)
	}

	return queries.NewFavoritesView(items), nil
}
