package readstore

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"obsidian/internal/infra"
	"obsidian/internal/infra/db"
	"obsidian/internal/pkg/pgconv"
	"obsidian/internal/usecase/queries"
	"obsidian/internal/usecase/shared"
)

type ProductReadStore struct {
	db db.DBTX
}

func NewProductReadStore(db db.DBTX) *ProductReadStore {
	return &ProductReadStore{db: db}
}

func (r *ProductReadStore) FindByID(ctx context.Context, id uuid.UUID) (*shared.ProductSnapshot, error) {
	q := `SELECT id, name, slug, price_cents, stock, state FROM products WHERE id = $1`

	var snap shared.ProductSnapshot
	err := r.db.QueryRow(ctx, q, id).Scan(&snap.ID, &snap.Name, &snap.Slug, &snap.PriceCents, &snap.Stock, &snap.State)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("product not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find product", err)
	}

	variants, err := r.loadVariants(ctx, id)
	if err != nil {
		return nil, err
	}
	snap.Variants = variants
	return &snap, nil
}

func (r *ProductReadStore) List(ctx context.Context) ([]queries.ProductView, error) {
	q := `
		SELECT id, name, slug, price_cents, stock, state
		FROM products
		WHERE state = 'active'
		ORDER BY name, id`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list products", err)
	}

	views, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (queries.ProductView, error) {
		var v queries.ProductView
		scanErr := row.Scan(&v.ID, &v.Name, &v.Slug, &v.PriceCents, &v.Stock, &v.State)
		return v, scanErr
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan products", err)
	}
	return views, nil
}

func (r *ProductReadStore) loadVariants(ctx context.Context, productID uuid.UUID) ([]shared.VariantSnapshot, error) {
	q := `
		SELECT id, name, price_cents, stock
		FROM product_variants
		WHERE product_id = $1
		ORDER BY name, id`

	rows, err := r.db.Query(ctx, q, productID)
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
	return variants, nil
}
