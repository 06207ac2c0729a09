package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"kemea.backend/internal/domain/entities"
	"kemea.backend/internal/interfaces/http/middleware"
	"kemea.backend/internal/interfaces/http/response"
	"kemea.backend/internal/usecases"
)

// PropertyHandler serves public listings and the agent's ad management.
type PropertyHandler struct {
	propertyUsecase *usecases.PropertyUsecase
}

// NewPropertyHandler creates a new property handler
func NewPropertyHandler(propertyUsecase *usecases.PropertyUsecase) *PropertyHandler {
	return &PropertyHandler{propertyUsecase: propertyUsecase}
}

// Lookups returns every lookup table keyed by kind
// GET /api/v1/properties/lookups
func (h *PropertyHandler) Lookups(c *gin.Context) {
	lookups, err := h.propertyUsecase.Lookups(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Lookups retrieved", lookups)
}

// List is the public search
// GET /api/v1/properties
func (h *PropertyHandler) List(c *gin.Context) {
	var query entities.ListingQuery
	if !bindQuery(c, &query) {
		return
	}
	page := pagination(c)

	ads, total, err := h.propertyUsecase.List(c.Request.Context(), &query, page)
	if err != nil {
		response.Error(c, err)
		return
	}
	paginated(c, "Properties retrieved", ads, total, page)
}

// Nearby
// GET /api/v1/properties/nearby?lat=&lng=&radius=
func (h *PropertyHandler) Nearby(c *gin.Context) {
	var query entities.NearbyQuery
	if !bindQuery(c, &query) {
		return
	}
	page := pagination(c)

	ads, total, err := h.propertyUsecase.Nearby(c.Request.Context(), &query, page)
	if err != nil {
		response.Error(c, err)
		return
	}
	paginated(c, "Properties retrieved", ads, total, page)
}

// ByCity
// GET /api/v1/properties/city/:city
func (h *PropertyHandler) ByCity(c *gin.Context) {
	page := pagination(c)
	ads, total, err := h.propertyUsecase.ByCity(c.Request.Context(), c.Param("city"), page)
	if err != nil {
		response.Error(c, err)
		return
	}
	paginated(c, "Properties retrieved", ads, total, page)
}

// Details shows one ad. Listers also see their own unpublished ads.
// GET /api/v1/properties/:id
func (h *PropertyHandler) Details(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	viewerID, _ := middleware.GetUserID(c)

	ad, err := h.propertyUsecase.Details(c.Request.Context(), id, viewerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Property retrieved", ad)
}

// Dashboard lists the agent's ads
// GET /api/v1/agent/properties
func (h *PropertyHandler) Dashboard(c *gin.Context) {
	listerID, ok := currentUser(c)
	if !ok {
		return
	}
	page := pagination(c)

	dashboard, err := h.propertyUsecase.Dashboard(c.Request.Context(), listerID, page)
	if err != nil {
		response.Error(c, err)
		return
	}
	paginated(c, "Dashboard retrieved", dashboard, dashboard.Total, page)
}

// SearchOwn filters the agent's ads
// GET /api/v1/agent/properties/search
func (h *PropertyHandler) SearchOwn(c *gin.Context) {
	listerID, ok := currentUser(c)
	if !ok {
		return
	}
	var query entities.ListingQuery
	if !bindQuery(c, &query) {
		return
	}
	page := pagination(c)

	ads, total, err := h.propertyUsecase.SearchOwn(c.Request.Context(), listerID, &query, page)
	if err != nil {
		response.Error(c, err)
		return
	}
	paginated(c, "Properties retrieved", ads, total, page)
}

// Create
// POST /api/v1/agent/properties
func (h *PropertyHandler) Create(c *gin.Context) {
	listerID, ok := currentUser(c)
	if !ok {
		return
	}
	var input entities.PropertyInput
	if !bindJSON(c, &input) {
		return
	}

	ad, err := h.propertyUsecase.Create(c.Request.Context(), listerID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Property created", ad)
}

// Update
// PATCH /api/v1/agent/properties/:id
func (h *PropertyHandler) Update(c *gin.Context) {
	listerID, id, ok := h.ownedParams(c)
	if !ok {
		return
	}
	var input entities.PropertyInput
	if !bindJSON(c, &input) {
		return
	}

	ad, err := h.propertyUsecase.Update(c.Request.Context(), listerID, id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Property updated", ad)
}

// Delete
// DELETE /api/v1/agent/properties/:id
func (h *PropertyHandler) Delete(c *gin.Context) {
	listerID, id, ok := h.ownedParams(c)
	if !ok {
		return
	}
	if err := h.propertyUsecase.Delete(c.Request.Context(), listerID, id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Property deleted", nil)
}

// Terminate takes an ad off the market
// POST /api/v1/agent/properties/:id/terminate
func (h *PropertyHandler) Terminate(c *gin.Context) {
	listerID, id, ok := h.ownedParams(c)
	if !ok {
		return
	}
	if err := h.propertyUsecase.Terminate(c.Request.Context(), listerID, id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Property terminated", nil)
}

func (h *PropertyHandler) ownedParams(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	listerID, ok := currentUser(c)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	return listerID, id, true
}
