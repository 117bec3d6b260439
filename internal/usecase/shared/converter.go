package shared

import (
	"obsidian/internal/domain/cart"
	"obsidian/internal/domain/coupon"
	"obsidian/internal/domain/favorites"
	"obsidian/internal/domain/product"
)

// CouponFromSnapshot rebuilds the domain entity from a storage row. Rows
// that no longer satisfy the constructors (data drift) surface as errors
// instead of silently passing validation.
func CouponFromSnapshot(s *CouponSnapshot) (*coupon.Coupon, error) {
	code, err := coupon.NewCode(s.Code)
	if err != nil {
		return nil, err
	}

	kind, err := coupon.NewKind(s.Kind)
	if err != nil {
		return nil, err
	}

	discount, err := coupon.NewDiscount(kind, s.Value)
	if err != nil {
		return nil, err
	}

	lifecycle, err := coupon.NewLifecycle(s.Lifecycle)
	if err != nil {
		return nil, err
	}

	return coupon.ReconstructCoupon(
		s.ID,
		code,
		discount,
		s.MinimumAmountCents,
		s.MaxUses,
		s.UsesCount,
		s.StartsAt,
		s.EndsAt,
		lifecycle,
		s.CreatedAt,
		s.UpdatedAt,
	), nil
}

func ProductFromSnapshot(s *ProductSnapshot) *product.Product {
	variants := make([]product.Variant, len(s.Variants))
	for i, v := range s.Variants {
		variants[i] = product.Variant{
			ID:         v.ID,
			Name:       v.Name,
			PriceCents: v.PriceCents,
			Stock:      v.Stock,
		}
	}
	return product.ReconstructProduct(s.ID, s.Name, s.Slug, s.PriceCents, s.Stock, product.State(s.State), variants)
}

func CartFromRecord(r *CartRecord) *cart.Cart {
	items := make([]cart.Item, len(r.Items))
	for i, it := range r.Items {
		items[i] = cart.NewItem(it.ID, it.ProductID, it.VariantID, it.Quantity, it.UnitPriceCents, it.AddedAt)
	}
	return cart.ReconstructCart(r.ID, r.UserID, items, r.CreatedAt, r.UpdatedAt)
}

func FavoritesFromRecord(r *FavoritesRecord) *favorites.Favorites {
	items := make([]favorites.Item, len(r.Items))
	for i, it := range r.Items {
		items[i] = favorites.NewItem(it.ID, it.ProductID, it.AddedAt)
	}
	return favorites.ReconstructFavorites(r.ID, r.UserID, items, r.CreatedAt, r.UpdatedAt)
}
