package api

import (
	"errors"
	"fmt"
	"net/http"

	"obsidian/internal/domain/coupon"
	reqdto "obsidian/internal/handler/dto/request"
	resdto "obsidian/internal/handler/dto/response"
	"obsidian/internal/handler/httperr"
	"obsidian/internal/usecase/commands"
	"obsidian/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CouponHandler struct {
	cmds commands.CouponCommands
	q    queries.CouponQueries
}

func NewCouponHandler(cmds commands.CouponCommands, q queries.CouponQueries) *CouponHandler {
	return &CouponHandler{cmds: cmds, q: q}
}

// @Summary Apply coupon
// @Description Validate a coupon against an order amount and consume one use
// @Tags coupons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.ApplyCouponRequest true "Apply coupon request"
// @Success 200 {object} resdto.CouponApplicationResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /coupons/apply [post]
func (h *CouponHandler) Apply(c *gin.Context) {
	var req reqdto.ApplyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	application, err := h.cmds.Apply(c.Request.Context(), req.NormalizedCode(), req.AmountCents)
	if err != nil {
		abortCouponError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromCouponApplication(application))
}

// @Summary Validate coupon
// @Description Run the validity pipeline against an order amount without consuming a use
// @Tags coupons
// @Accept json
// @Produce json
// @Param request body reqdto.ValidateCouponRequest true "Validate coupon request"
// @Success 200 {object} resdto.CouponApplicationResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /coupons/validate [post]
func (h *CouponHandler) Validate(c *gin.Context) {
	var req reqdto.ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	application, err := h.q.Validate(c.Request.Context(), req.NormalizedCode(), req.AmountCents)
	if err != nil {
		abortCouponError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromCouponApplication(application))
}

// @Summary Cleanup expired coupons
// @Description Deactivate every active coupon whose validity window has ended
// @Tags coupons
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.CleanupResponse
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /coupons/cleanup [post]
func (h *CouponHandler) Cleanup(c *gin.Context) {
	result, err := h.cmds.CleanupExpired(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Cleanup failed", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.CleanupResponse{
		Message:     "expired coupons deactivated",
		Deactivated: result.Deactivated,
	})
}

// @Summary Create coupon
// @Tags coupons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateCouponRequest true "Create coupon request"
// @Success 201 {object} resdto.CouponResponse
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /coupons [post]
func (h *CouponHandler) Create(c *gin.Context) {
	var req reqdto.CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	view, err := h.cmds.Create(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, commands.ErrCouponCodeTaken) {
			httperr.AbortWithError(c, http.StatusConflict, err, "Coupon code already exists", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid coupon", nil)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromCouponView(view))
}

// @Summary Update coupon
// @Tags coupons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Coupon ID"
// @Param request body reqdto.UpdateCouponRequest true "Update coupon request"
// @Success 200 {object} resdto.CouponResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /coupons/{id} [put]
func (h *CouponHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}

	var req reqdto.UpdateCouponRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request", nil)
		return
	}

	view, err := h.cmds.Update(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, commands.ErrCouponNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Coupon not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid coupon", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromCouponView(view))
}

// @Summary Set coupon lifecycle
// @Tags coupons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Coupon ID"
// @Param request body reqdto.SetCouponLifecycleRequest true "Lifecycle request"
// @Success 204 "No Content"
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /coupons/{id}/lifecycle [patch]
func (h *CouponHandler) SetLifecycle(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}

	var req reqdto.SetCouponLifecycleRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request", nil)
		return
	}

	if err := h.cmds.SetLifecycle(c.Request.Context(), id, req.Lifecycle); err != nil {
		if errors.Is(err, commands.ErrCouponNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Coupon not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid lifecycle", nil)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Purge coupon
// @Description Hard-delete a never-used coupon; used coupons are only hidden
// @Tags coupons
// @Security BearerAuth
// @Param id path string true "Coupon ID"
// @Success 204 "No Content"
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /coupons/{id} [delete]
func (h *CouponHandler) Purge(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}

	if err := h.cmds.Purge(c.Request.Context(), id); err != nil {
		if errors.Is(err, commands.ErrCouponNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Coupon not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Purge failed", nil)
		return
	}

	c.Status(http.StatusNoContent)
}

// abortCouponError translates validation pipeline failures into responses
// that name the unmet condition.
func abortCouponError(c *gin.Context, err error) {
	var belowMin *coupon.BelowMinimumError

	switch {
	case errors.Is(err, commands.ErrCouponNotFound), errors.Is(err, queries.ErrCouponNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Coupon not found", nil)
	case errors.Is(err, coupon.ErrInvalidCouponCode):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid coupon code format", nil)
	case errors.Is(err, coupon.ErrCouponInactive):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Coupon is not active", nil)
	case errors.Is(err, coupon.ErrCouponNotYetValid):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Coupon is not yet valid", nil)
	case errors.Is(err, coupon.ErrCouponExpired):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Coupon has expired", nil)
	case errors.Is(err, coupon.ErrCouponExhausted):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Coupon usage limit reached", nil)
	case errors.As(err, &belowMin):
		msg := fmt.Sprintf("Order amount is below the coupon minimum of %d cents", belowMin.MinimumAmountCents)
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, msg, gin.H{"minimum_amount_cents": belowMin.MinimumAmountCents})
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}
