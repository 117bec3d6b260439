package api

import (
	"errors"
	"net/http"
	"strconv"

	"obsidian/internal/domain/product"
	resdto "obsidian/internal/handler/dto/response"
	"obsidian/internal/handler/httperr"
	"obsidian/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProductHandler struct {
	q queries.ProductQueries
}

func NewProductHandler(q queries.ProductQueries) *ProductHandler {
	return &ProductHandler{q: q}
}

// @Summary List products
// @Tags products
// @Produce json
// @Success 200 {array} resdto.ProductResponse
// @Router /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	views, err := h.q.List(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to list products", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": resdto.FromProductList(views)})
}

// @Summary Get product
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} resdto.ProductResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /products/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}

	view, err := h.q.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, queries.ErrProductNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Product not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load product", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromProductView(view))
}

// @Summary Check stock
// @Description Advisory, point-in-time availability check; never a reservation
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Param quantity query int false "Requested quantity (default 1)"
// @Param variantId query string false "Variant ID"
// @Success 200 {object} resdto.StockCheckResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /products/{id}/stock [get]
func (h *ProductHandler) CheckStock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}

	quantity := int32(1)
	if v := c.Query("quantity"); v != "" {
		iv, convErr := strconv.ParseInt(v, 10, 32)
		if convErr != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, convErr, "Invalid quantity", nil)
			return
		}
		quantity = int32(iv)
	}

	var variantID *uuid.UUID
	if v := c.Query("variantId"); v != "" {
		parsed, parseErr := uuid.Parse(v)
		if parseErr != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, parseErr, "Invalid variant id", nil)
			return
		}
		variantID = &parsed
	}

	view, err := h.q.CheckStock(c.Request.Context(), id, variantID, quantity)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrProductNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Product not found", nil)
		case errors.Is(err, product.ErrVariantNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Product variant not found", nil)
		case errors.Is(err, product.ErrInvalidQuantity):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Quantity must be at least 1", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Stock check failed", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromStockCheckView(view))
}
