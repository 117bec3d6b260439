package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"obsidian/internal/infra"
	"obsidian/internal/infra/db"
	"obsidian/internal/pkg/pgconv"
	"obsidian/internal/usecase/shared"
)

type ProductRepository struct{}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{}
}

// FindByID reads the product plus variants inside the caller's transaction,
// giving cart mutations a stock ceiling from the same snapshot they write
// against.
func (r *ProductRepository) FindByID(ctx context.Context, tx db.DBTX, id uuid.UUID) (*shared.ProductSnapshot, error) {
	q := `SELECT id, name, slug, price_cents, stock, state FROM products WHERE id = $1`

	var snap shared.ProductSnapshot
	err := tx.QueryRow(ctx, q, id).Scan(&snap.ID, &snap.Name, &snap.Slug, &snap.PriceCents, &snap.Stock, &snap.State)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("product not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find product", err)
	}

	variantsQuery := `
		SELECT id, name, price_cents, stock
		FROM product_variants
		WHERE product_id = $1
		ORDER BY name, id`

	rows, err := tx.Query(ctx, variantsQuery, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load product variants", err)
	}

	variants, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (shared.VariantSnapshot, error) {
		var v shared.VariantSnapshot
		scanErr := row.Scan(&v.ID, &v.Name, &v.PriceCents, &v.Stock)
		return v, scanErr
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan product variants", err)
	}
	snap.Variants = variants
	return &snap, nil
}
