//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"

	"obsidian/internal/domain/coupon"
	"obsidian/internal/domain/user"
	"obsidian/internal/handler/api"
	reqdto "obsidian/internal/handler/dto/request"
	resdto "obsidian/internal/handler/dto/response"
	"obsidian/internal/usecase/commands"
	"obsidian/internal/usecase/queries"
	"obsidian/tests/common/builder"
	"obsidian/tests/common/httptest"
	"obsidian/tests/common/testutil"
	commandsmock "obsidian/tests/mock/commands"
	queriesmock "obsidian/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type CouponHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockCouponCommands
	mockQueries  *queriesmock.MockCouponQueries
	handler      *api.CouponHandler
}

func (s *CouponHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockCouponCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockCouponQueries(s.mockCtrl)
	s.handler = api.NewCouponHandler(s.mockCommands, s.mockQueries)

	// Mock authentication middleware for testing
	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Unauthorized"}})
			return
		}
		c.Set("user_id", uuid.New())
		c.Set("user_role", user.RoleAdmin)
		c.Next()
	}

	s.router.POST("/coupons/validate", s.handler.Validate)
	s.router.POST("/coupons/apply", authMiddleware, s.handler.Apply)
	s.router.POST("/coupons", authMiddleware, s.handler.Create)
	s.router.POST("/coupons/cleanup", authMiddleware, s.handler.Cleanup)
	s.router.PUT("/coupons/:id", authMiddleware, s.handler.Update)
	s.router.PATCH("/coupons/:id/lifecycle", authMiddleware, s.handler.SetLifecycle)
	s.router.DELETE("/coupons/:id", authMiddleware, s.handler.Purge)
}

func (s *CouponHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestCouponHandlerSuite(t *testing.T) {
	suite.Run(t, new(CouponHandlerTestSuite))
}

// ================================================================================
// TestValidate
// ================================================================================

func (s *CouponHandlerTestSuite) TestValidate() {
	url := "/coupons/validate"
	reqBody := reqdto.ValidateCouponRequest{Code: "SAVE10", AmountCents: 10000}

	s.Run("success: returns the application breakdown", func() {
		application := builder.NewCouponBuilder().BuildApplication(10000)
		s.mockQueries.EXPECT().Validate(gomock.Any(), "SAVE10", int64(10000)).
			Return(application, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var response resdto.CouponApplicationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(int64(10000), response.OriginalAmountCents)
		s.Equal(int64(1000), response.DiscountCents)
		s.Equal(int64(9000), response.FinalAmountCents)
		s.InDelta(10.0, response.SavingsPercentage, 0.001)
		s.Equal("SAVE10", response.Coupon.Code)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		cases := []struct {
			name   string
			mutate func(m map[string]any)
		}{
			{name: "missing field: code", mutate: testutil.Field("code", nil)},
			{name: "missing field: amount_cents", mutate: testutil.Field("amount_cents", nil)},
			{name: "zero amount", mutate: testutil.Field("amount_cents", 0)},
			{name: "negative amount", mutate: testutil.Field("amount_cents", -100)},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
			})
		}
	})

	s.Run("error: maps pipeline errors to proper statuses", func() {
		testCases := []struct {
			name           string
			queriesError   error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "coupon not found",
				queriesError:   queries.ErrCouponNotFound,
				expectedStatus: http.StatusNotFound,
				expectedMsg:    "Coupon not found",
			},
			{
				name:           "invalid code format",
				queriesError:   coupon.ErrInvalidCouponCode,
				expectedStatus: http.StatusBadRequest,
				expectedMsg:    "Invalid coupon code format",
			},
			{
				name:           "deactivated coupon",
				queriesError:   coupon.ErrCouponInactive,
				expectedStatus: http.StatusUnprocessableEntity,
				expectedMsg:    "Coupon is not active",
			},
			{
				name:           "not yet valid",
				queriesError:   coupon.ErrCouponNotYetValid,
				expectedStatus: http.StatusUnprocessableEntity,
				expectedMsg:    "Coupon is not yet valid",
			},
			{
				name:           "expired",
				queriesError:   coupon.ErrCouponExpired,
				expectedStatus: http.StatusUnprocessableEntity,
				expectedMsg:    "Coupon has expired",
			},
			{
				name:           "exhausted",
				queriesError:   coupon.ErrCouponExhausted,
				expectedStatus: http.StatusUnprocessableEntity,
				expectedMsg:    "Coupon usage limit reached",
			},
			{
				name:           "internal server error",
				queriesError:   errors.New("database error"),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Internal server error",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockQueries.EXPECT().Validate(gomock.Any(), "SAVE10", int64(10000)).
					Return(nil, tc.queriesError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})

	s.Run("error: below minimum carries the threshold in the detail", func() {
		s.mockQueries.EXPECT().Validate(gomock.Any(), "SAVE10", int64(10000)).
			Return(nil, &coupon.BelowMinimumError{MinimumAmountCents: 15000}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "below the coupon minimum of 15000 cents")
		s.Contains(rec.Body.String(), "minimum_amount_cents")
	})
}

// ================================================================================
// TestApply
// ================================================================================

func (s *CouponHandlerTestSuite) TestApply() {
	url := "/coupons/apply"
	reqBody := reqdto.ApplyCouponRequest{Code: "FLAT20", AmountCents: 1500}

	s.Run("success: fixed discount never exceeds the order amount", func() {
		application := builder.NewCouponBuilder().WithCode("FLAT20").AsFixed(2000).BuildApplication(1500)
		s.mockCommands.EXPECT().Apply(gomock.Any(), "FLAT20", int64(1500)).
			Return(application, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var response resdto.CouponApplicationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(int64(1500), response.DiscountCents)
		s.Equal(int64(0), response.FinalAmountCents)
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})

	s.Run("error: exhausted coupon after losing the last-use race", func() {
		s.mockCommands.EXPECT().Apply(gomock.Any(), "FLAT20", int64(1500)).
			Return(nil, coupon.ErrCouponExhausted).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "Coupon usage limit reached")
	})
}

// ================================================================================
// TestCreate
// ================================================================================

func (s *CouponHandlerTestSuite) TestCreate() {
	url := "/coupons"
	reqBody := builder.NewCouponBuilder().BuildCreateRequestDTO()

	s.Run("success: returns 201 Created", func() {
		returnView := builder.NewCouponBuilder().BuildView()
		s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any()).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var response resdto.CouponResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal("SAVE10", response.Code)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		cases := []struct {
			name   string
			mutate func(m map[string]any)
		}{
			{name: "missing field: code", mutate: testutil.Field("code", nil)},
			{name: "unknown kind", mutate: testutil.Field("kind", "bogo")},
			{name: "zero value", mutate: testutil.Field("value", 0)},
			{name: "negative minimum", mutate: testutil.Field("minimum_amount_cents", -1)},
			{name: "zero max_uses", mutate: testutil.Field("max_uses", 0)},
			{name: "missing window start", mutate: testutil.Field("starts_at", nil)},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
			})
		}
	})

	s.Run("error: 409 Conflict on duplicate code", func() {
		s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any()).
			Return(nil, commands.ErrCouponCodeTaken).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "Coupon code already exists")
	})
}

// ================================================================================
// TestLifecycleAndPurge
// ================================================================================

func (s *CouponHandlerTestSuite) TestSetLifecycle() {
	couponID := uuid.New()
	url := "/coupons/" + couponID.String() + "/lifecycle"
	reqBody := reqdto.SetCouponLifecycleRequest{Lifecycle: "deactivated"}

	s.Run("success: returns 204 No Content", func() {
		s.mockCommands.EXPECT().SetLifecycle(gomock.Any(), couponID, "deactivated").
			Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, reqBody, "bearer-token")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: 400 Bad Request for purged via API", func() {
		// purged is only reachable through DELETE
		requestMap := testutil.DtoMap(s.T(), reqBody, testutil.Field("lifecycle", "purged"))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, requestMap, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
	})

	s.Run("error: 404 Not Found", func() {
		s.mockCommands.EXPECT().SetLifecycle(gomock.Any(), couponID, "deactivated").
			Return(commands.ErrCouponNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Coupon not found")
	})
}

func (s *CouponHandlerTestSuite) TestPurge() {
	couponID := uuid.New()
	url := "/coupons/" + couponID.String()

	s.Run("success: returns 204 No Content", func() {
		s.mockCommands.EXPECT().Purge(gomock.Any(), couponID).
			Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "bearer-token")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: 400 Bad Request for invalid UUID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, "/coupons/invalid-uuid", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid id")
	})

	s.Run("error: 404 Not Found", func() {
		s.mockCommands.EXPECT().Purge(gomock.Any(), couponID).
			Return(commands.ErrCouponNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Coupon not found")
	})
}

// ================================================================================
// TestCleanup
// ================================================================================

func (s *CouponHandlerTestSuite) TestCleanup() {
	url := "/coupons/cleanup"

	s.Run("success: reports the number of deactivated coupons", func() {
		s.mockCommands.EXPECT().CleanupExpired(gomock.Any()).
			Return(&commands.CleanupResult{Deactivated: 3}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")

		var response resdto.CleanupResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(int64(3), response.Deactivated)
	})

	s.Run("error: 500 on failure", func() {
		s.mockCommands.EXPECT().CleanupExpired(gomock.Any()).
			Return(nil, errors.New("database error")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Cleanup failed")
	})
}
