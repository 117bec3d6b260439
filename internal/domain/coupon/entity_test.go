//go:build unit

package coupon_test

import (
	"testing"
	"time"

	"obsidian/internal/domain/coupon"
	"obsidian/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCase struct {
	name   string
	mutate func(*builder.CouponBuilder)
	errIs  error
}

func TestNewCoupon(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		actual, err := builder.NewCouponBuilder().BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, actual)

		assert.Equal(t, "SAVE10", actual.Code().String())
		assert.Equal(t, coupon.KindPercentage, actual.Discount().Kind())
		assert.Equal(t, int64(10), actual.Discount().Value())
		assert.Equal(t, coupon.LifecycleActive, actual.Lifecycle())
		assert.Equal(t, int32(0), actual.UsesCount())
	})

	t.Run("code normalization", func(t *testing.T) {
		actual, err := builder.NewCouponBuilder().WithCode("  save10  ").BuildDomain()
		require.NoError(t, err)
		assert.Equal(t, "SAVE10", actual.Code().String())
	})

	t.Run("constructor validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "code too short",
				mutate: func(b *builder.CouponBuilder) { b.WithCode("AB") },
				errIs:  coupon.ErrInvalidCouponCode,
			},
			{
				name:   "code with invalid characters",
				mutate: func(b *builder.CouponBuilder) { b.WithCode("SAVE-10") },
				errIs:  coupon.ErrInvalidCouponCode,
			},
			{
				name:   "code at maximum length",
				mutate: func(b *builder.CouponBuilder) { b.WithCode("A2345678901234567890") },
			},
			{
				name:   "code above maximum length",
				mutate: func(b *builder.CouponBuilder) { b.WithCode("A23456789012345678901") },
				errIs:  coupon.ErrInvalidCouponCode,
			},
			{
				name:   "unknown kind",
				mutate: func(b *builder.CouponBuilder) { b.WithKind("bogo") },
				errIs:  coupon.ErrInvalidKind,
			},
			{
				name:   "percentage of zero",
				mutate: func(b *builder.CouponBuilder) { b.WithValue(0) },
				errIs:  coupon.ErrInvalidDiscountValue,
			},
			{
				name:   "percentage of one hundred",
				mutate: func(b *builder.CouponBuilder) { b.WithValue(100) },
			},
			{
				name:   "percentage above one hundred",
				mutate: func(b *builder.CouponBuilder) { b.WithValue(101) },
				errIs:  coupon.ErrInvalidDiscountValue,
			},
			{
				name:   "fixed amount of zero",
				mutate: func(b *builder.CouponBuilder) { b.AsFixed(0) },
				errIs:  coupon.ErrInvalidDiscountValue,
			},
			{
				name:   "negative minimum amount",
				mutate: func(b *builder.CouponBuilder) { b.WithMinimumAmount(-1) },
				errIs:  coupon.ErrNegativeMinimum,
			},
			{
				name: "inverted window",
				mutate: func(b *builder.CouponBuilder) {
					now := time.Now()
					b.WithWindow(now.Add(time.Hour), now)
				},
				errIs: coupon.ErrInvalidWindow,
			},
		})
	})
}

func TestDiscountComputation(t *testing.T) {
	t.Run("percentage discount", func(t *testing.T) {
		c := builder.NewCouponBuilder().BuildReconstructed()

		assert.Equal(t, int64(1000), c.DiscountFor(10000))
		assert.Equal(t, int64(9000), c.FinalAmountFor(10000))
	})

	t.Run("percentage discount truncates", func(t *testing.T) {
		c := builder.NewCouponBuilder().WithValue(33).BuildReconstructed()

		// 999 * 33 / 100 = 329.67, integer division keeps cents whole
		assert.Equal(t, int64(329), c.DiscountFor(999))
		assert.Equal(t, int64(670), c.FinalAmountFor(999))
	})

	t.Run("fixed discount caps at order amount", func(t *testing.T) {
		c := builder.NewCouponBuilder().WithCode("FLAT20").AsFixed(2000).BuildReconstructed()

		assert.Equal(t, int64(1500), c.DiscountFor(1500))
		assert.Equal(t, int64(0), c.FinalAmountFor(1500))
	})

	t.Run("fixed discount below order amount", func(t *testing.T) {
		c := builder.NewCouponBuilder().WithCode("FLAT20").AsFixed(2000).BuildReconstructed()

		assert.Equal(t, int64(2000), c.DiscountFor(5000))
		assert.Equal(t, int64(3000), c.FinalAmountFor(5000))
	})
}

func TestValidity(t *testing.T) {
	now := time.Now()

	t.Run("validity pipeline ordering", func(t *testing.T) {
		// Deactivated AND expired: lifecycle is checked first.
		c := builder.NewCouponBuilder().
			WithLifecycle(string(coupon.LifecycleDeactivated)).
			WithWindow(now.Add(-48*time.Hour), now.Add(-24*time.Hour)).
			BuildReconstructed()

		require.ErrorIs(t, c.ValidateAt(now), coupon.ErrCouponInactive)
	})

	t.Run("lifecycle states", func(t *testing.T) {
		for _, state := range []string{string(coupon.LifecycleDeactivated), string(coupon.LifecyclePurged)} {
			c := builder.NewCouponBuilder().WithLifecycle(state).BuildReconstructed()
			assert.ErrorIs(t, c.ValidateAt(now), coupon.ErrCouponInactive, state)
			assert.False(t, c.IsValidAt(now))
		}
	})

	t.Run("window boundaries are inclusive", func(t *testing.T) {
		start := now.Add(time.Hour)
		end := now.Add(24 * time.Hour)
		c := builder.NewCouponBuilder().WithWindow(start, end).BuildReconstructed()

		assert.ErrorIs(t, c.ValidateAt(start.Add(-time.Second)), coupon.ErrCouponNotYetValid)
		assert.NoError(t, c.ValidateAt(start))
		assert.NoError(t, c.ValidateAt(end))
		assert.ErrorIs(t, c.ValidateAt(end.Add(time.Second)), coupon.ErrCouponExpired)
	})

	t.Run("usage limit boundary", func(t *testing.T) {
		c := builder.NewCouponBuilder().WithMaxUses(5).WithUsesCount(4).BuildReconstructed()
		assert.NoError(t, c.ValidateAt(now))
		assert.False(t, c.IsExhausted())

		c = builder.NewCouponBuilder().WithMaxUses(5).WithUsesCount(5).BuildReconstructed()
		assert.ErrorIs(t, c.ValidateAt(now), coupon.ErrCouponExhausted)
		assert.True(t, c.IsExhausted())
	})

	t.Run("unlimited uses", func(t *testing.T) {
		c := builder.NewCouponBuilder().WithUsesCount(1000000).BuildReconstructed()
		assert.False(t, c.IsExhausted())
		assert.NoError(t, c.ValidateAt(now))
	})
}

func TestValidateRedemption(t *testing.T) {
	now := time.Now()

	t.Run("below minimum carries the threshold", func(t *testing.T) {
		c := builder.NewCouponBuilder().WithMinimumAmount(10000).BuildReconstructed()

		err := c.ValidateRedemption(now, 8000)
		require.ErrorIs(t, err, coupon.ErrBelowMinimum)

		var belowMin *coupon.BelowMinimumError
		require.ErrorAs(t, err, &belowMin)
		assert.Equal(t, int64(10000), belowMin.MinimumAmountCents)
	})

	t.Run("amount at minimum passes", func(t *testing.T) {
		c := builder.NewCouponBuilder().WithMinimumAmount(10000).BuildReconstructed()
		assert.NoError(t, c.ValidateRedemption(now, 10000))
	})

	t.Run("validity failures take precedence over the minimum", func(t *testing.T) {
		c := builder.NewCouponBuilder().
			WithLifecycle(string(coupon.LifecycleDeactivated)).
			WithMinimumAmount(10000).
			BuildReconstructed()

		assert.ErrorIs(t, c.ValidateRedemption(now, 8000), coupon.ErrCouponInactive)
	})
}

func runCases(t *testing.T, cases []testCase) {
	t.Helper()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			actual, err := builder.NewCouponBuilder().With(c.mutate).BuildDomain()

			if c.errIs == nil {
				require.NotNil(t, actual)
				require.NoError(t, err)
			} else {
				require.Nil(t, actual)
				require.Error(t, err)
				require.ErrorIs(t, err, c.errIs)
			}
		})
	}
}
