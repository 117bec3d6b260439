package queries

import (
	"context"

	"obsidian/internal/infra"
	"obsidian/internal/pkg/errs"
	"obsidian/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrProductNotFound = errs.New("product not found")

type ProductReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*shared.ProductSnapshot, error)
	List(ctx context.Context) ([]ProductView, error)
}

type ProductQueries interface {
	Get(ctx context.Context, id uuid.UUID) (*ProductView, error)
	List(ctx context.Context) ([]ProductView, error)
	// CheckStock reports whether the requested quantity of a product (or one
	// of its variants) can currently be fulfilled.
	CheckStock(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID, quantity int32) (*StockCheckView, error)
}

type productQueriesImpl struct {
	readStore ProductReadStore
}

func NewProductQueries(readStore ProductReadStore) ProductQueries {
	return &productQueriesImpl{readStore: readStore}
}

func (q *productQueriesImpl) Get(ctx context.Context, id uuid.UUID) (*ProductView, error) {
	snapshot, err := q.findSnapshot(ctx, id)
	if err != nil {
		return nil, err
	}
	view := ProductViewFromSnapshot(snapshot)
	return &view, nil
}

func (q *productQueriesImpl) List(ctx context.Context) ([]ProductView, error) {
	views, err := q.readStore.List(ctx)
	if err != nil {
		return nil, errs.Wrap(err, "failed to list products")
	}
	return views, nil
}

func (q *productQueriesImpl) CheckStock(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID, quantity int32) (*StockCheckView, error) {
	snapshot, err := q.findSnapshot(ctx, productID)
	if err != nil {
		return nil, err
	}

	entity := shared.ProductFromSnapshot(snapshot)
	check, err := entity.CheckStock(quantity, variantID)
	if err != nil {
		return nil, err
	}

	return &StockCheckView{
		Available:      check.Available,
		AvailableStock: check.AvailableStock,
		Reason:         check.Reason,
	}, nil
}

func (q *productQueriesImpl) findSnapshot(ctx context.Context, id uuid.UUID) (*shared.ProductSnapshot, error) {
	snapshot, err := q.readStore.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, errs.Wrap(err, "failed to find product")
	}
	return snapshot, nil
}

func ProductViewFromSnapshot(s *shared.ProductSnapshot) ProductView {
	variants := make([]ProductVariantView, len(s.Variants))
	for i, v := range s.Variants {
		variants[i] = ProductVariantView{
			ID:         v.ID,
			Name:       v.Name,
			PriceCents: v.PriceCents,
			Stock:      v.Stock,
		}
	}
	return ProductView{
		ID:         s.ID,
		Name:       s.Name,
		Slug:       s.Slug,
		PriceCents: s.PriceCents,
		Stock:      s.Stock,
		State:      s.State,
		Variants:   variants,
	}
}
