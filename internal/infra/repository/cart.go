package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"obsidian/internal/domain/cart"
	"obsidian/internal/infra"
	"obsidian/internal/infra/db"
	"obsidian/internal/pkg/pgconv"
	"obsidian/internal/usecase/shared"
)

type CartRepository struct{}

func NewCartRepository() *CartRepository {
	return &CartRepository{}
}

// EnsureForUser inserts the user's cart row on first touch; the unique
// user_id constraint makes concurrent ensures converge on one row.
func (r *CartRepository) EnsureForUser(ctx context.Context, tx db.DBTX, userID uuid.UUID) (uuid.UUID, error) {
	q := `
		INSERT INTO carts (id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET updated_at = now()
		RETURNING id`

	var id uuid.UUID
	if err := tx.QueryRow(ctx, q, uuid.New(), userID).Scan(&id); err != nil {
		if pgconv.IsForeignKeyViolation(err) {
			return uuid.Nil, infra.WrapRepoErr("user does not exist", err, infra.KindForeignKeyViolated)
		}
		return uuid.Nil, infra.WrapRepoErr("failed to ensure cart", err)
	}
	return id, nil
}

func (r *CartRepository) FindByUserID(ctx context.Context, tx db.DBTX, userID uuid.UUID) (*shared.CartRecord, error) {
	q := `SELECT id, user_id, created_at, updated_at FROM carts WHERE user_id = $1`

	var record shared.CartRecord
	err := tx.QueryRow(ctx, q, userID).Scan(&record.ID, &record.UserID, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("cart not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find cart", err)
	}

	items, err := r.loadItems(ctx, tx, record.ID)
	if err != nil {
		return nil, err
	}
	record.Items = items
	return &record, nil
}

func (r *CartRepository) loadItems(ctx context.Context, tx db.DBTX, cartID uuid.UUID) ([]shared.CartItemRecord, error) {
	q := `
		SELECT id, cart_id, product_id, variant_id, quantity, unit_price_cents, added_at
		FROM cart_items
		WHERE cart_id = $1
		ORDER BY added_at, id`

	rows, err := tx.Query(ctx, q, cartID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load cart items", err)
	}

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (shared.CartItemRecord, error) {
		var it shared.CartItemRecord
		scanErr := row.Scan(&it.ID, &it.CartID, &it.ProductID, &it.VariantID, &it.Quantity, &it.UnitPriceCents, &it.AddedAt)
		return it, scanErr
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan cart items", err)
	}
	return items, nil
}

// UpsertItem writes one line keyed on (cart, product, variant). A merge in
// the aggregate arrives here as an update of the existing line's quantity.
func (r *CartRepository) UpsertItem(ctx context.Context, tx db.DBTX, cartID uuid.UUID, item cart.Item) error {
	q := `
		INSERT INTO cart_items (id, cart_id, product_id, variant_id, quantity, unit_price_cents, added_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (cart_id, product_id, variant_id)
		DO UPDATE SET quantity = EXCLUDED.quantity`

	_, err := tx.Exec(ctx, q,
		item.ID(),
		cartID,
		item.ProductID(),
		item.VariantID(),
		item.Quantity(),
		item.UnitPriceCents(),
		item.AddedAt(),
	)
	if err != nil {
		if pgconv.IsForeignKeyViolation(err) {
			return infra.WrapRepoErr("product does not exist", err, infra.KindForeignKeyViolated)
		}
		return infra.WrapRepoErr("failed to upsert cart item", err)
	}
	return nil
}

func (r *CartRepository) UpdateItemQuantity(ctx context.Context, tx db.DBTX, cartID, itemID uuid.UUID, quantity int32) error {
	q := `UPDATE cart_items SET quantity = $3 WHERE cart_id = $1 AND id = $2`

	tag, err := tx.Exec(ctx, q, cartID, itemID, quantity)
	if err != nil {
		return infra.WrapRepoErr("failed to update cart item quantity", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("cart item not found", nil, infra.KindNotFound)
	}
	return nil
}

// DeleteItem is a no-op when the line is already gone.
func (r *CartRepository) DeleteItem(ctx context.Context, tx db.DBTX, cartID, itemID uuid.UUID) error {
	q := `DELETE FROM cart_items WHERE cart_id = $1 AND id = $2`

	if _, err := tx.Exec(ctx, q, cartID, itemID); err != nil {
		return infra.WrapRepoErr("failed to delete cart item", err)
	}
	return nil
}

func (r *CartRepository) ClearItems(ctx context.Context, tx db.DBTX, cartID uuid.UUID) error {
	q := `DELETE FROM cart_items WHERE cart_id = $1`

	if _, err := tx.Exec(ctx, q, cartID); err != nil {
		return infra.WrapRepoErr("failed to clear cart items", err)
	}
	return nil
}
