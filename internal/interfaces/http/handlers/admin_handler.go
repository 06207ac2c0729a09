package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"kemea.backend/internal/domain/entities"
	"kemea.backend/internal/interfaces/http/response"
	"kemea.backend/internal/usecases"
)

// AdminHandler handles staff endpoints
type AdminHandler struct {
	propertyUsecase *usecases.PropertyUsecase
	policyUsecase   *usecases.PolicyUsecase
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(propertyUsecase *usecases.PropertyUsecase, policyUsecase *usecases.PolicyUsecase) *AdminHandler {
	return &AdminHandler{
		propertyUsecase: propertyUsecase,
		policyUsecase:   policyUsecase,
	}
}

// UpdatePropertyStatus moderates an ad
// PUT /api/v1/admin/properties/:id/status
func (h *AdminHandler) UpdatePropertyStatus(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var input entities.UpdateAdStatusInput
	if !bindJSON(c, &input) {
		return
	}

	ad, err := h.propertyUsecase.SetStatus(c.Request.Context(), id, input.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Property status updated", ad)
}

// UpsertPolicy creates or replaces a policy translation
// POST /api/v1/admin/policies
func (h *AdminHandler) UpsertPolicy(c *gin.Context) {
	var input entities.PolicyInput
	if !bindJSON(c, &input) {
		return
	}

	policy, err := h.policyUsecase.Upsert(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Policy saved", policy)
}

// CreateLookup adds a row to a lookup table
// POST /api/v1/admin/lookups/:kind
func (h *AdminHandler) CreateLookup(c *gin.Context) {
	var input entities.LookupInput
	if !bindJSON(c, &input) {
		return
	}

	lookup, err := h.propertyUsecase.CreateLookup(c.Request.Context(), entities.LookupKind(c.Param("kind")), input.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Lookup created", lookup)
}
