package queries

import (
	"context"

	"obsidian/internal/infra"
	"obsidian/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrCartNotFound = errs.New("cart not found")

type CartReadStore interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*CartView, error)
}

type CartQueries interface {
	Get(ctx context.Context, userID uuid.UUID) (*CartView, error)
}

type cartQueriesImpl struct {
	readStore CartReadStore
}

func NewCartQueries(readStore CartReadStore) CartQueries {
	return &cartQueriesImpl{readStore: readStore}
}

func (q *cartQueriesImpl) Get(ctx context.Context, userID uuid.UUID) (*CartView, error) {
	view, err := q.readStore.GetByUserID(ctx, userID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, errs.Wrap(err, "failed to get cart")
	}
	return view, nil
}
