//go:build e2e

package coupon_test

import (
	"net/http"
	"testing"
	"time"

	"obsidian/internal/domain/user"
	reqdto "obsidian/internal/handler/dto/request"
	resdto "obsidian/internal/handler/dto/response"
	"obsidian/tests/common/dbtest"
	"obsidian/tests/common/httptest"
	"obsidian/tests/e2e"
	"obsidian/tests/e2e/common/helper"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	couponsURL  = "/api/coupons"
	validateURL = "/api/coupons/validate"
	applyURL    = "/api/coupons/apply"
	cleanupURL  = "/api/coupons/cleanup"
)

type couponSuite struct {
	e2e.SharedSuite
}

func TestCouponSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(couponSuite))
}

func int32Ptr(v int32) *int32 { return &v }

func (s *couponSuite) activeWindow() (time.Time, time.Time) {
	now := time.Now().UTC()
	return now.Add(-time.Hour), now.Add(24 * time.Hour)
}

func (s *couponSuite) usesCount(t *testing.T, code string) int32 {
	t.Helper()
	var n int32
	err := s.DB.QueryRow(t.Context(), "SELECT uses_count FROM coupons WHERE code = upper($1)", code).Scan(&n)
	require.NoError(t, err)
	return n
}

func (s *couponSuite) TestValidate() {
	starts, ends := s.activeWindow()

	s.Run("percentage discount with truncation", func() {
		t := s.T()
		dbtest.InsertCoupon(t, s.DB, dbtest.CouponRow{
			Code: "SAVE33", Kind: "percentage", Value: 33, StartsAt: starts, EndsAt: ends,
		})

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, validateURL,
			reqdto.ValidateCouponRequest{Code: "SAVE33", AmountCents: 999}, "")
		require.Equal(t, http.StatusOK, w.Code)

		var res resdto.CouponApplicationResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &res))
		require.Equal(t, int64(329), res.DiscountCents)
		require.Equal(t, int64(670), res.FinalAmountCents)

		require.Equal(t, int32(0), s.usesCount(t, "SAVE33"), "validation must not consume a use")
	})

	s.Run("fixed discount never exceeds the order amount", func() {
		t := s.T()
		dbtest.InsertCoupon(t, s.DB, dbtest.CouponRow{
			Code: "FLAT20", Kind: "fixed", Value: 2000, StartsAt: starts, EndsAt: ends,
		})

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, validateURL,
			reqdto.ValidateCouponRequest{Code: "FLAT20", AmountCents: 1500}, "")
		require.Equal(t, http.StatusOK, w.Code)

		var res resdto.CouponApplicationResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &res))
		require.Equal(t, int64(1500), res.DiscountCents)
		require.Equal(t, int64(0), res.FinalAmountCents)
	})

	s.Run("lookup is case insensitive", func() {
		t := s.T()
		dbtest.InsertCoupon(t, s.DB, dbtest.CouponRow{
			Code: "SAVE10", Kind: "percentage", Value: 10, StartsAt: starts, EndsAt: ends,
		})

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, validateURL,
			reqdto.ValidateCouponRequest{Code: "save10", AmountCents: 10000}, "")
		require.Equal(t, http.StatusOK, w.Code)
	})

	s.Run("error taxonomy", func() {
		t := s.T()
		now := time.Now().UTC()

		dbtest.InsertCoupon(t, s.DB, dbtest.CouponRow{
			Code: "EXPIRED", Kind: "percentage", Value: 10,
			StartsAt: now.Add(-48 * time.Hour), EndsAt: now.Add(-24 * time.Hour),
		})
		dbtest.InsertCoupon(t, s.DB, dbtest.CouponRow{
			Code: "UPCOMING", Kind: "percentage", Value: 10,
			StartsAt: now.Add(24 * time.Hour), EndsAt: now.Add(48 * time.Hour),
		})
		dbtest.InsertCoupon(t, s.DB, dbtest.CouponRow{
			Code: "DISABLED", Kind: "percentage", Value: 10,
			StartsAt: starts, EndsAt: ends, Lifecycle: "deactivated",
		})
		dbtest.InsertCoupon(t, s.DB, dbtest.CouponRow{
			Code: "DRAINED", Kind: "percentage", Value: 10,
			MaxUses: int32Ptr(5), UsesCount: 5, StartsAt: starts, EndsAt: ends,
		})
		dbtest.InsertCoupon(t, s.DB, dbtest.CouponRow{
			Code: "BIGSPEND", Kind: "percentage", Value: 10,
			MinimumAmountCents: 15000, StartsAt: starts, EndsAt: ends,
		})

		cases := []struct {
			name           string
			code           string
			expectedStatus int
		}{
			{name: "unknown code", code: "MISSING", expectedStatus: http.StatusNotFound},
			{name: "expired", code: "EXPIRED", expectedStatus: http.StatusUnprocessableEntity},
			{name: "not yet valid", code: "UPCOMING", expectedStatus: http.StatusUnprocessableEntity},
			{name: "deactivated", code: "DISABLED", expectedStatus: http.StatusUnprocessableEntity},
			{name: "exhausted", code: "DRAINED", expectedStatus: http.StatusUnprocessableEntity},
			{name: "below minimum", code: "BIGSPEND", expectedStatus: http.StatusUnprocessableEntity},
		}
		for _, tc := range cases {
			w := httptest.PerformRequest(t, s.Router, http.MethodPost, validateURL,
				reqdto.ValidateCouponRequest{Code: tc.code, AmountCents: 10000}, "")
			require.Equal(t, tc.expectedStatus, w.Code, tc.name)
		}
	})

	s.Run("below minimum reports the threshold", func() {
		t := s.T()
		dbtest.InsertCoupon(t, s.DB, dbtest.CouponRow{
			Code: "BIGSPEND", Kind: "percentage", Value: 10,
			MinimumAmountCents: 15000, StartsAt: starts, EndsAt: ends,
		})

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, validateURL,
			reqdto.ValidateCouponRequest{Code: "BIGSPEND", AmountCents: 10000}, "")
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		require.Contains(t, w.Body.String(), "15000")
	})
}

func (s *couponSuite) TestApply() {
	starts, ends := s.activeWindow()

	s.Run("consumes one use per redemption", func() {
		t := s.T()
		_, token := helper.CreateAndLogin(t, s.DB, s.Router, "shopper@example.com", string(user.RoleCustomer))
		dbtest.InsertCoupon(t, s.DB, dbtest.CouponRow{
			Code: "SAVE10", Kind: "percentage", Value: 10, StartsAt: starts, EndsAt: ends,
		})

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, applyURL,
			reqdto.ApplyCouponRequest{Code: "SAVE10", AmountCents: 10000}, token)
		require.Equal(t, http.StatusOK, w.Code)

		var res resdto.CouponApplicationResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &res))
		require.Equal(t, int64(1000), res.DiscountCents)
		require.Equal(t, int32(1), res.Coupon.UsesCount)

		require.Equal(t, int32(1), s.usesCount(t, "SAVE10"))
	})

	s.Run("requires authentication", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, applyURL,
			reqdto.ApplyCouponRequest{Code: "SAVE10", AmountCents: 10000}, "")
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	s.Run("usage limit is enforced at the database", func() {
		t := s.T()
		_, token := helper.CreateAndLogin(t, s.DB, s.Router, "shopper@example.com", string(user.RoleCustomer))
		dbtest.InsertCoupon(t, s.DB, dbtest.CouponRow{
			Code: "LIMITED", Kind: "fixed", Value: 500,
			MaxUses: int32Ptr(2), StartsAt: starts, EndsAt: ends,
		})

		for range 2 {
			w := httptest.PerformRequest(t, s.Router, http.MethodPost, applyURL,
				reqdto.ApplyCouponRequest{Code: "LIMITED", AmountCents: 10000}, token)
			require.Equal(t, http.StatusOK, w.Code)
		}

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, applyURL,
			reqdto.ApplyCouponRequest{Code: "LIMITED", AmountCents: 10000}, token)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)

		require.Equal(t, int32(2), s.usesCount(t, "LIMITED"), "uses_count must never exceed max_uses")
	})
}

func (s *couponSuite) TestAdminLifecycle() {
	s.Run("create stores the normalized code", func() {
		t := s.T()
		_, token := helper.CreateAndLogin(t, s.DB, s.Router, "admin@example.com", string(user.RoleAdmin))
		starts, ends := s.activeWindow()

		reqBody := reqdto.CreateCouponRequest{
			Code: "  welcome5  ", Kind: "percentage", Value: 5, StartsAt: starts, EndsAt: ends,
		}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, couponsURL, reqBody, token)
		require.Equal(t, http.StatusCreated, w.Code)

		var res resdto.CouponResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &res))

		expected := &resdto.CouponResponse{
			Code:      "WELCOME5",
			Kind:      "percentage",
			Value:     5,
			Lifecycle: "active",
		}
		opts := []cmp.Option{
			cmpopts.IgnoreFields(resdto.CouponResponse{}, "ID", "StartsAt", "EndsAt"),
		}
		if diff := cmp.Diff(expected, &res, opts...); diff != "" {
			t.Errorf("Coupon response mismatch (-want +got):\n%s", diff)
		}

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, couponsURL, reqBody, token)
		require.Equal(t, http.StatusConflict, w.Code, "duplicate code after normalization")
	})

	s.Run("customers cannot manage coupons", func() {
		t := s.T()
		_, token := helper.CreateAndLogin(t, s.DB, s.Router, "shopper@example.com", string(user.RoleCustomer))
		starts, ends := s.activeWindow()

		reqBody := reqdto.CreateCouponRequest{
			Code: "NOPE", Kind: "percentage", Value: 5, StartsAt: starts, EndsAt: ends,
		}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, couponsURL, reqBody, token)
		require.Equal(t, http.StatusForbidden, w.Code)
	})

	s.Run("update re-validates the full rule set", func() {
		t := s.T()
		_, token := helper.CreateAndLogin(t, s.DB, s.Router, "admin@example.com", string(user.RoleAdmin))
		starts, ends := s.activeWindow()
		couponID := dbtest.InsertCoupon(t, s.DB, dbtest.CouponRow{
			Code: "SAVE10", Kind: "percentage", Value: 10, StartsAt: starts, EndsAt: ends,
		})

		w := httptest.PerformRequest(t, s.Router, http.MethodPut, couponsURL+"/"+couponID.String(),
			reqdto.UpdateCouponRequest{Kind: "percentage", Value: 25, StartsAt: starts, EndsAt: ends}, token)
		require.Equal(t, http.StatusOK, w.Code)

		var res resdto.CouponResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &res))
		require.Equal(t, int64(25), res.Value)

		// percentage above 100 must be rejected
		w = httptest.PerformRequest(t, s.Router, http.MethodPut, couponsURL+"/"+couponID.String(),
			reqdto.UpdateCouponRequest{Kind: "percentage", Value: 101, StartsAt: starts, EndsAt: ends}, token)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	s.Run("deactivation takes effect immediately", func() {
		t := s.T()
		_, token := helper.CreateAndLogin(t, s.DB, s.Router, "admin@example.com", string(user.RoleAdmin))
		starts, ends := s.activeWindow()
		couponID := dbtest.InsertCoupon(t, s.DB, dbtest.CouponRow{
			Code: "SAVE10", Kind: "percentage", Value: 10, StartsAt: starts, EndsAt: ends,
		})

		w := httptest.PerformRequest(t, s.Router, http.MethodPatch, couponsURL+"/"+couponID.String()+"/lifecycle",
			reqdto.SetCouponLifecycleRequest{Lifecycle: "deactivated"}, token)
		require.Equal(t, http.StatusNoContent, w.Code)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, validateURL,
			reqdto.ValidateCouponRequest{Code: "SAVE10", AmountCents: 10000}, "")
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	s.Run("purging a never-used coupon deletes the row", func() {
		t := s.T()
		_, token := helper.CreateAndLogin(t, s.DB, s.Router, "admin@example.com", string(user.RoleAdmin))
		starts, ends := s.activeWindow()
		couponID := dbtest.InsertCoupon(t, s.DB, dbtest.CouponRow{
			Code: "FRESH", Kind: "percentage", Value: 10, StartsAt: starts, EndsAt: ends,
		})

		w := httptest.PerformRequest(t, s.Router, http.MethodDelete, couponsURL+"/"+couponID.String(), nil, token)
		require.Equal(t, http.StatusNoContent, w.Code)

		var count int
		err := s.DB.QueryRow(t.Context(), "SELECT count(*) FROM coupons WHERE id = $1", couponID).Scan(&count)
		require.NoError(t, err)
		require.Equal(t, 0, count)
	})

	s.Run("purging a used coupon keeps the row for bookkeeping", func() {
		t := s.T()
		_, token := helper.CreateAndLogin(t, s.DB, s.Router, "admin@example.com", string(user.RoleAdmin))
		starts, ends := s.activeWindow()
		couponID := dbtest.InsertCoupon(t, s.DB, dbtest.CouponRow{
			Code: "VETERAN", Kind: "percentage", Value: 10, UsesCount: 7, StartsAt: starts, EndsAt: ends,
		})

		w := httptest.PerformRequest(t, s.Router, http.MethodDelete, couponsURL+"/"+couponID.String(), nil, token)
		require.Equal(t, http.StatusNoContent, w.Code)

		var lifecycle string
		err := s.DB.QueryRow(t.Context(), "SELECT lifecycle FROM coupons WHERE id = $1", couponID).Scan(&lifecycle)
		require.NoError(t, err)
		require.Equal(t, "purged", lifecycle)

		// hidden from the storefront
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, validateURL,
			reqdto.ValidateCouponRequest{Code: "VETERAN", AmountCents: 10000}, "")
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	s.Run("purging an unknown coupon is a 404", func() {
		t := s.T()
		_, token := helper.CreateAndLogin(t, s.DB, s.Router, "admin@example.com", string(user.RoleAdmin))

		w := httptest.PerformRequest(t, s.Router, http.MethodDelete, couponsURL+"/"+uuid.NewString(), nil, token)
		require.Equal(t, http.StatusNotFound, w.Code)
	})
}

func (s *couponSuite) TestCleanup() {
	s.Run("deactivates only expired active coupons", func() {
		t := s.T()
		_, token := helper.CreateAndLogin(t, s.DB, s.Router, "admin@example.com", string(user.RoleAdmin))
		now := time.Now().UTC()

		expiredID := dbtest.InsertCoupon(t, s.DB, dbtest.CouponRow{
			Code: "OLDSALE", Kind: "percentage", Value: 10,
			StartsAt: now.Add(-48 * time.Hour), EndsAt: now.Add(-time.Hour),
		})
		currentID := dbtest.InsertCoupon(t, s.DB, dbtest.CouponRow{
			Code: "NEWSALE", Kind: "percentage", Value: 10,
			StartsAt: now.Add(-time.Hour), EndsAt: now.Add(24 * time.Hour),
		})

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, cleanupURL, nil, token)
		require.Equal(t, http.StatusOK, w.Code)

		var res resdto.CleanupResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &res))
		require.Equal(t, int64(1), res.Deactivated)

		var lifecycle string
		require.NoError(t, s.DB.QueryRow(t.Context(), "SELECT lifecycle FROM coupons WHERE id = $1", expiredID).Scan(&lifecycle))
		require.Equal(t, "deactivated", lifecycle)
		require.NoError(t, s.DB.QueryRow(t.Context(), "SELECT lifecycle FROM coupons WHERE id = $1", currentID).Scan(&lifecycle))
		require.Equal(t, "active", lifecycle)

		// idempotent: a second sweep finds nothing
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, cleanupURL, nil, token)
		require.Equal(t, http.StatusOK, w.Code)
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &res))
		require.Equal(t, int64(0), res.Deactivated)
	})
}
