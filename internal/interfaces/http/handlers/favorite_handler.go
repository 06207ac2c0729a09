package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"kemea.backend/internal/interfaces/http/response"
	"kemea.backend/internal/usecases"
)

// FavoriteHandler manages the caller's saved ads.
type FavoriteHandler struct {
	favoriteUsecase *usecases.FavoriteUsecase
}

// NewFavoriteHandler creates a new favorite handler
func NewFavoriteHandler(favoriteUsecase *usecases.FavoriteUsecase) *FavoriteHandler {
	return &FavoriteHandler{favoriteUsecase: favoriteUsecase}
}

// List
// GET /api/v1/favorites
func (h *FavoriteHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	page := pagination(c)

	favs, total, err := h.favoriteUsecase.List(c.Request.Context(), userID, page)
	if err != nil {
		response.Error(c, err)
		return
	}
	paginated(c, "Favorites retrieved", favs, total, page)
}

// Add
// POST /api/v1/favorites/:propertyId
func (h *FavoriteHandler) Add(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	propertyID, ok := pathUUID(c, "propertyId")
	if !ok {
		return
	}

	fav, err := h.favoriteUsecase.Add(c.Request.Context(), userID, propertyID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Added to favorites", fav)
}

// Remove
// DELETE /api/v1/favorites/:propertyId
func (h *FavoriteHandler) Remove(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	propertyID, ok := pathUUID(c, "propertyId")
	if !ok {
		return
	}

	if err := h.favoriteUsecase.Remove(c.Request.Context(), userID, propertyID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Removed from favorites", nil)
}
