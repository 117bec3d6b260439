package shared

import (
	"context"
	"time"

	"obsidian/internal/domain/cart"
	"obsidian/internal/domain/coupon"
	"obsidian/internal/domain/favorites"
	"obsidian/internal/domain/user"
	"obsidian/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithDB: single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error
}

type Tx interface {
	Users() UserRepository
	Carts() CartRepository
	Favorites() FavoritesRepository
	Coupons() CouponRepository
	Products() ProductRepository
	DB() db.DBTX
}

type UserRepository interface {
	Create(ctx context.Context, tx db.DBTX, u *user.User) (uuid.UUID, error)
	UpdateLastLogin(ctx context.Context, tx db.DBTX, userID uuid.UUID) error
}

type CartRepository interface {
	// EnsureForUser creates the user's cart when missing and returns its id.
	EnsureForUser(ctx context.Context, tx db.DBTX, userID uuid.UUID) (uuid.UUID, error)
	FindByUserID(ctx context.Context, tx db.DBTX, userID uuid.UUID) (*CartRecord, error)
	UpsertItem(ctx context.Context, tx db.DBTX, cartID uuid.UUID, item cart.Item) error
	UpdateItemQuantity(ctx context.Context, tx db.DBTX, cartID, itemID uuid.UUID, quantity int32) error
	DeleteItem(ctx context.Context, tx db.DBTX, cartID, itemID uuid.UUID) error
	ClearItems(ctx context.Context, tx db.DBTX, cartID uuid.UUID) error
}

type FavoritesRepository interface {
	EnsureForUser(ctx context.Context, tx db.DBTX, userID uuid.UUID) (uuid.UUID, error)
	FindByUserID(ctx context.Context, tx db.DBTX, userID uuid.UUID) (*FavoritesRecord, error)
	InsertItem(ctx context.Context, tx db.DBTX, favoritesID uuid.UUID, item favorites.Item) error
	DeleteItem(ctx context.Context, tx db.DBTX, favoritesID, itemID uuid.UUID) error
	ClearItems(ctx context.Context, tx db.DBTX, favoritesID uuid.UUID) error
}

// ProductRepository re-reads product state inside cart mutations so stock
// ceilings come from the transaction, never from the client.
type ProductRepository interface {
	FindByID(ctx context.Context, tx db.DBTX, id uuid.UUID) (*ProductSnapshot, error)
}

type CouponRepository interface {
	// FindByCode and FindByID read inside the caller's transaction so the
	// validation pipeline and the conditional increment see the same row.
	FindByCode(ctx context.Context, tx db.DBTX, code string) (*CouponSnapshot, error)
	FindByID(ctx context.Context, tx db.DBTX, id uuid.UUID) (*CouponSnapshot, error)
	Create(ctx context.Context, tx db.DBTX, c *coupon.Coupon) (uuid.UUID, error)
	Update(ctx context.Context, tx db.DBTX, c *coupon.Coupon) error
	SetLifecycle(ctx context.Context, tx db.DBTX, id uuid.UUID, state coupon.Lifecycle) error
	// Redeem performs the atomic conditional increment: the usage counter
	// only advances when the usage limit still holds at write time.
	Redeem(ctx context.Context, tx db.DBTX, code string) (*CouponSnapshot, error)
	// PurgeUnused hard-deletes a coupon, guarded by a zero usage count.
	PurgeUnused(ctx context.Context, tx db.DBTX, id uuid.UUID) error
	// DeactivateExpired flips every active coupon past its end date to
	// deactivated and returns the affected count. Idempotent.
	DeactivateExpired(ctx context.Context, tx db.DBTX, now time.Time) (int64, error)
}
