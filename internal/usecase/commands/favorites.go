package commands

import (
	"context"

	"github.com/google/uuid"

	"obsidian/internal/infra"
	"obsidian/internal/pkg/clock"
	"obsidian/internal/pkg/errs"
	"obsidian/internal/usecase/queries"
	"obsidian/internal/usecase/shared"
)

type FavoritesCommands interface {
	// Add is idempotent: favoriting a product already in the set is a no-op.
	Add(ctx context.Context, userID, productID uuid.UUID) (*queries.FavoritesView, error)
	Remove(ctx context.Context, userID, itemID uuid.UUID) (*queries.FavoritesView, error)
	Clear(ctx context.Context, userID uuid.UUID) (*queries.FavoritesView, error)
}

type favoritesCommandsImpl struct {
	uow       shared.UnitOfWork
	readStore queries.FavoritesReadStore
	clock     clock.Clock
}

func NewFavoritesCommands(uow shared.UnitOfWork, readStore queries.FavoritesReadStore, clk clock.Clock) FavoritesCommands {
	return &favoritesCommandsImpl{
		uow:       uow,
		readStore: readStore,
		clock:     clk,
	}
}

func (f *favoritesCommandsImpl) Add(ctx context.Context, userID, productID uuid.UUID) (*queries.FavoritesView, error) {
	err := f.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		favoritesID, ensureErr := tx.Favorites().EnsureForUser(ctx, tx.DB(), userID)
		if ensureErr != nil {
			return ensureErr
		}

		if _, productErr := tx.Products().FindByID(ctx, tx.DB(), productID); productErr != nil {
			if infra.IsKind(productErr, infra.KindNotFound) {
				return ErrProductNotFound
			}
			return productErr
		}

		record, findErr := tx.Favorites().FindByUserID(ctx, tx.DB(), userID)
		if findErr != nil {
			return findErr
		}
		entity := shared.FavoritesFromRecord(record)

		if entity.Contains(productID) {
			return nil
		}

		item := entity.Add(productID, f.clock.Now())
		insertErr := tx.Favorites().InsertItem(ctx, tx.DB(), favoritesID, item)
		if insertErr != nil && infra.IsKind(insertErr, infra.KindDuplicateKey) {
			// Lost a race against a concurrent add of the same product;
			// the outcome is identical.
			return nil
		}
		return insertErr
	})
	if err != nil {
		return nil, err
	}
	return f.view(ctx, userID)
}

func (f *favoritesCommandsImpl) Remove(ctx context.Context, userID, itemID uuid.UUID) (*queries.FavoritesView, error) {
	err := f.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		favoritesID, ensureErr := tx.Favorites().EnsureForUser(ctx, tx.DB(), userID)
		if ensureErr != nil {
			return ensureErr
		}
		return tx.Favorites().DeleteItem(ctx, tx.DB(), favoritesID, itemID)
	})
	if err != nil {
		return nil, err
	}
	return f.view(ctx, userID)
}

func (f *favoritesCommandsImpl) Clear(ctx context.Context, userID uuid.UUID) (*queries.FavoritesView, error) {
	err := f.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		favoritesID, ensureErr := tx.Favorites().EnsureForUser(ctx, tx.DB(), userID)
		if ensureErr != nil {
			return ensureErr
		}
		return tx.Favorites().ClearItems(ctx, tx.DB(), favoritesID)
	})
	if err != nil {
		return nil, err
	}
	return f.view(ctx, userID)
}

func (f *favoritesCommandsImpl) view(ctx context.Context, userID uuid.UUID) (*queries.FavoritesView, error) {
	view, err := f.readStore.GetByUserID(ctx, userID)
	if err != nil {
		return nil, errs.Wrap(err, "failed to read favorites after write")
	}
	return view, nil
}
