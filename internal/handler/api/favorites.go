package api

import (
	"errors"
	"net/http"

	reqdto "obsidian/internal/handler/dto/request"
	resdto "obsidian/internal/handler/dto/response"
	"obsidian/internal/handler/httperr"
	"obsidian/internal/handler/middleware"
	"obsidian/internal/usecase/commands"
	"obsidian/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type FavoritesHandler struct {
	cmds commands.FavoritesCommands
	q    queries.FavoritesQueries
}

func NewFavoritesHandler(cmds commands.FavoritesCommands, q queries.FavoritesQueries) *FavoritesHandler {
	return &FavoritesHandler{cmds: cmds, q: q}
}

// @Summary Get favorites
// @Tags favorites
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.FavoritesResponse
// @Failure 401 {object} httperr.Response
// @Router /favorites [get]
func (h *FavoritesHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errors.New("missing user context"), "Unauthorized", nil)
		return
	}

	view, err := h.q.Get(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, queries.ErrFavoritesNotFound) {
			c.JSON(http.StatusOK, resdto.FromFavoritesView(&queries.FavoritesView{}))
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load favorites", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromFavoritesView(view))
}

// @Summary Add favorite
// @Description Save a product; saving one already present is a no-op
// @Tags favorites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.AddFavoriteRequest true "Add favorite request"
// @Success 200 {object} resdto.FavoritesResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /favorites [post]
func (h *FavoritesHandler) Add(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errors.New("missing user context"), "Unauthorized", nil)
		return
	}

	var req reqdto.AddFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	view, err := h.cmds.Add(c.Request.Context(), userID, req.ProductID)
	if err != nil {
		if errors.Is(err, commands.ErrProductNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Product not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to add favorite", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromFavoritesView(view))
}

// @Summary Remove favorite
// @Description Remove a saved item; removing an absent one is a no-op
// @Tags favorites
// @Produce json
// @Security BearerAuth
// @Param id path string true "Favorite item ID"
// @Success 200 {object} resdto.FavoritesResponse
// @Failure 400 {object} httperr.Response
// @Router /favorites/{id} [delete]
func (h *FavoritesHandler) Remove(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errors.New("missing user context"), "Unauthorized", nil)
		return
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid item id", nil)
		return
	}

	view, err := h.cmds.Remove(c.Request.Context(), userID, itemID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to remove favorite", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromFavoritesView(view))
}

// @Summary Clear favorites
// @Tags favorites
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.FavoritesResponse
// @Router /favorites [delete]
func (h *FavoritesHandler) Clear(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errors.New("missing user context"), "Unauthorized", nil)
		return
	}

	view, err := h.cmds.Clear(c.Request.Context(), userID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to clear favorites", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromFavoritesView(view))
}
