package commands

import (
	"context"

	"github.com/google/uuid"

	"obsidian/internal/domain/cart"
	reqdto "obsidian/internal/handler/dto/request"
	"obsidian/internal/infra"
	"obsidian/internal/pkg/clock"
	"obsidian/internal/pkg/errs"
	"obsidian/internal/usecase/queries"
	"obsidian/internal/usecase/shared"
)

var (
	ErrProductNotFound = errs.New("product not found")
	ErrCartNotFound    = errs.New("cart not found")
)

type CartCommands interface {
	// AddItem merges into an existing (product, variant) line or appends a
	// new one, snapshotting the unit price and capping at available stock.
	AddItem(ctx context.Context, userID uuid.UUID, req reqdto.AddCartItemRequest) (*queries.CartView, error)
	// UpdateQuantity clamps the requested quantity to [1, stock].
	UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, req reqdto.UpdateCartItemRequest) (*queries.CartView, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*queries.CartView, error)
	Clear(ctx context.Context, userID uuid.UUID) (*queries.CartView, error)
}

type cartCommandsImpl struct {
	uow       shared.UnitOfWork
	readStore queries.CartReadStore
	clock     clock.Clock
}

func NewCartCommands(uow shared.UnitOfWork, readStore queries.CartReadStore, clk clock.Clock) CartCommands {
	return &cartCommandsImpl{
		uow:       uow,
		readStore: readStore,
		clock:     clk,
	}
}

func (c *cartCommandsImpl) AddItem(ctx context.Context, userID uuid.UUID, req reqdto.AddCartItemRequest) (*queries.CartView, error) {
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		cartID, ensureErr := tx.Carts().EnsureForUser(ctx, tx.DB(), userID)
		if ensureErr != nil {
			return ensureErr
		}

		record, findErr := tx.Carts().FindByUserID(ctx, tx.DB(), userID)
		if findErr != nil {
			return findErr
		}
		cartEntity := shared.CartFromRecord(record)

		productSnap, productErr := tx.Products().FindByID(ctx, tx.DB(), req.ProductID)
		if productErr != nil {
			if infra.IsKind(productErr, infra.KindNotFound) {
				return ErrProductNotFound
			}
			return productErr
		}
		productEntity := shared.ProductFromSnapshot(productSnap)

		unitPrice, priceErr := productEntity.UnitPriceCentsFor(req.VariantID)
		if priceErr != nil {
			return priceErr
		}
		stock, stockErr := productEntity.AvailableStockFor(req.VariantID)
		if stockErr != nil {
			return stockErr
		}

		item, addErr := cartEntity.AddItem(req.ProductID, req.VariantID, req.Quantity, unitPrice, stock, c.clock.Now())
		if addErr != nil {
			return addErr
		}

		return tx.Carts().UpsertItem(ctx, tx.DB(), cartID, item)
	})
	if err != nil {
		return nil, err
	}
	return c.view(ctx, userID)
}

func (c *cartCommandsImpl) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, req reqdto.UpdateCartItemRequest) (*queries.CartView, error) {
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		record, findErr := tx.Carts().FindByUserID(ctx, tx.DB(), userID)
		if findErr != nil {
			if infra.IsKind(findErr, infra.KindNotFound) {
				return ErrCartNotFound
			}
			return findErr
		}
		cartEntity := shared.CartFromRecord(record)

		item, ok := cartEntity.FindItem(itemID)
		if !ok {
			return cart.ErrItemNotFound
		}

		productSnap, productErr := tx.Products().FindByID(ctx, tx.DB(), item.ProductID())
		if productErr != nil {
			if infra.IsKind(productErr, infra.KindNotFound) {
				return ErrProductNotFound
			}
			return productErr
		}
		productEntity := shared.ProductFromSnapshot(productSnap)

		stock, stockErr := productEntity.AvailableStockFor(item.VariantID())
		if stockErr != nil {
			return stockErr
		}

		updated, updateErr := cartEntity.UpdateQuantity(itemID, req.Quantity, stock)
		if updateErr != nil {
			return updateErr
		}

		return tx.Carts().UpdateItemQuantity(ctx, tx.DB(), record.ID, itemID, updated.Quantity())
	})
	if err != nil {
		return nil, err
	}
	return c.view(ctx, userID)
}

func (c *cartCommandsImpl) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*queries.CartView, error) {
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		cartID, ensureErr := tx.Carts().EnsureForUser(ctx, tx.DB(), userID)
		if ensureErr != nil {
			return ensureErr
		}
		// Deleting an absent line is a no-op.
		return tx.Carts().DeleteItem(ctx, tx.DB(), cartID, itemID)
	})
	if err != nil {
		return nil, err
	}
	return c.view(ctx, userID)
}

func (c *cartCommandsImpl) Clear(ctx context.Context, userID uuid.UUID) (*queries.CartView, error) {
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		cartID, ensureErr := tx.Carts().EnsureForUser(ctx, tx.DB(), userID)
		if ensureErr != nil {
			return ensureErr
		}
		return tx.Carts().ClearItems(ctx, tx.DB(), cartID)
	})
	if err != nil {
		return nil, err
	}
	return c.view(ctx, userID)
}

// view reads the committed state back through the read store so the response
// carries recomputed totals and product metadata.
func (c *cartCommandsImpl) view(ctx context.Context, userID uuid.UUID) (*queries.CartView, error) {
	view, err := c.readStore.GetByUserID(ctx, userID)
	if err != nil {
		return nil, errs.Wrap(err, "failed to read cart after write")
	}
	return view, nil
}
