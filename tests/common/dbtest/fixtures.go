//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// bcrypt hash of "password123"
const TestPasswordHash = "$2a$12$uhAjVE9f92IGYv3E25pJNetg.27lVt0p7jmLWjqjmhOg92ldPS0A."

func CreateTestUser(t *testing.T, db DBLike, email, role string) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx,
		"INSERT INTO users (id, email, password_hash, role, is_active) VALUES ($1, lower($2), $3, $4, true) ON CONFLICT (email) DO NOTHING",
		userID, email, TestPasswordHash, role)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		_ = db.QueryRow(ctx, "SELECT id FROM users WHERE email = lower($1)", email).Scan(&userID)
	}

	return userID
}

func CreateTestProduct(t *testing.T, db DBLike, name string, priceCents int64, stock int32) uuid.UUID {
	t.Helper()

	productID := uuid.New()
	slug := strings.ToLower(strings.ReplaceAll(name, " ", "-")) + "-" + productID.String()[:8]
	ctx := context.Background()

	_, err := db.Exec(ctx,
		"INSERT INTO products (id, name, slug, price_cents, stock, state) VALUES ($1, $2, $3, $4, $5, 'active')",
		productID, name, slug, priceCents, stock)
	require.NoError(t, err)

	return productID
}

func CreateTestVariant(t *testing.T, db DBLike, productID uuid.UUID, name string, priceCents *int64, stock int32) uuid.UUID {
	t.Helper()

	variantID := uuid.New()
	ctx := context.Background()

	var price int64
	if priceCents != nil {
		price = *priceCents
	} else {
		err := db.QueryRow(ctx, "SELECT price_cents FROM products WHERE id = $1", productID).Scan(&price)
		require.NoError(t, err)
	}

	_, err := db.Exec(ctx,
		"INSERT INTO product_variants (id, product_id, name, price_cents, stock) VALUES ($1, $2, $3, $4, $5)",
		variantID, productID, name, price, stock)
	require.NoError(t, err)

	return variantID
}

type CouponRow struct {
	Code               string
	Kind               string
	Value              int64
	MinimumAmountCents int64
	MaxUses            *int32
	UsesCount          int32
	StartsAt           time.Time
	EndsAt             time.Time
	Lifecycle          string
}

func InsertCoupon(t *testing.T, db DBLike, row CouponRow) uuid.UUID {
	t.Helper()

	couponID := uuid.New()
	if row.Lifecycle == "" {
		row.Lifecycle = "active"
	}
	ctx := context.Background()

	_, err := db.Exec(ctx, `
		INSERT INTO coupons (id, code, kind, value, minimum_amount_cents, max_uses, uses_count, starts_at, ends_at, lifecycle)
		VALUES ($1, upper($2), $3, $4, $5, $6, $7, $8, $9, $10)`,
		couponID, row.Code, row.Kind, row.Value, row.MinimumAmountCents,
		row.MaxUses, row.UsesCount, row.StartsAt, row.EndsAt, row.Lifecycle)
	require.NoError(t, err)

	return couponID
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables between tests
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return nil
}
