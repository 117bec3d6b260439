package queries

import (
	"context"

	"obsidian/internal/infra"
	"obsidian/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrFavoritesNotFound = errs.New("favorites not found")

type FavoritesReadStore interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*FavoritesView, error)
}

type FavoritesQueries interface {
	Get(ctx context.Context, userID uuid.UUID) (*FavoritesView, error)
}

type favoritesQueriesImpl struct {
	readStore FavoritesReadStore
}

func NewFavoritesQueries(readStore FavoritesReadStore) FavoritesQueries {
	return &favoritesQueriesImpl{readStore: readStore}
}

func (q *favoritesQueriesImpl) Get(ctx context.Context, userID uuid.UUID) (*FavoritesView, error) {
	view, err := q.readStore.GetByUserID(ctx, userID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrFavoritesNotFound
		}
		return nil, errs.Wrap(err, "failed to get favorites")
	}
	return view, nil
}
