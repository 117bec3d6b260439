package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"obsidian/internal/domain/favorites"
	"obsidian/internal/infra"
	"obsidian/internal/infra/db"
	"obsidian/internal/pkg/pgconv"
	"obsidian/internal/usecase/shared"
)

type FavoritesRepository struct{}

func NewFavoritesRepository() *FavoritesRepository {
	return &FavoritesRepository{}
}

func (r *FavoritesRepository) EnsureForUser(ctx context.Context, tx db.DBTX, userID uuid.UUID) (uuid.UUID, error) {
	q := `
		INSERT INTO favorites (id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET updated_at = now()
		RETURNING id`

	var id uuid.UUID
	if err := tx.QueryRow(ctx, q, uuid.New(), userID).Scan(&id); err != nil {
		if pgconv.IsForeignKeyViolation(err) {
			return uuid.Nil, infra.WrapRepoErr("user does not exist", err, infra.KindForeignKeyViolated)
		}
		return uuid.Nil, infra.WrapRepoErr("failed to ensure favorites", err)
	}
	return id, nil
}

func (r *FavoritesRepository) FindByUserID(ctx context.Context, tx db.DBTX, userID uuid.UUID) (*shared.FavoritesRecord, error) {
	q := `SELECT id, user_id, created_at, updated_at FROM favorites WHERE user_id = $1`

	var record shared.FavoritesRecord
	err := tx.QueryRow(ctx, q, userID).Scan(&record.ID, &record.UserID, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("favorites not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find favorites", err)
	}

	itemsQuery := `
		SELECT id, product_id, added_at
		FROM favorite_items
		WHERE favorites_id = $1
		ORDER BY added_at, id`

	rows, err := tx.Query(ctx, itemsQuery, record.ID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load favorite items", err)
	}

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (shared.FavoriteItemRecord, error) {
		var it shared.FavoriteItemRecord
		scanErr := row.Scan(&it.ID, &it.ProductID, &it.AddedAt)
		return it, scanErr
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan favorite items", err)
	}
	record.Items = items
	return &record, nil
}

func (r *FavoritesRepository) InsertItem(ctx context.Context, tx db.DBTX, favoritesID uuid.UUID, item favorites.Item) error {
	q := `
		INSERT INTO favorite_items (id, favorites_id, product_id, added_at)
		VALUES ($1, $2, $3, $4)`

	_, err := tx.Exec(ctx, q, item.ID(), favoritesID, item.ProductID(), item.AddedAt())
	if err != nil {
		if pgconv.IsUniqueViolation(err) {
			return infra.WrapRepoErr("product already favorited", err, infra.KindDuplicateKey)
		}
		if pgconv.IsForeignKeyViolation(err) {
			return infra.WrapRepoErr("product does not exist", err, infra.KindForeignKeyViolated)
		}
		return infra.WrapRepoErr("failed to insert favorite item", err)
	}
	return nil
}

func (r *FavoritesRepository) DeleteItem(ctx context.Context, tx db.DBTX, favoritesID, itemID uuid.UUID) error {
	q := `DELETE FROM favorite_items WHERE favorites_id = $1 AND id = $2`

	if _, err := tx.Exec(ctx, q, favoritesID, itemID); err != nil {
		return infra.WrapRepoErr("failed to delete favorite item", err)
	}
	return nil
}

func (r *FavoritesRepository) ClearItems(ctx context.Context, tx db.DBTX, favoritesID uuid.UUID) error {
	q := `DELETE FROM favorite_items WHERE favorites_id = $1`

	if _, err := tx.Exec(ctx, q, favoritesID); err != nil {
		return infra.WrapRepoErr("failed to clear favorite items", err)
	}
	return nil
}
