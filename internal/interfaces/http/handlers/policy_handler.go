package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	domainerrors "kemea.backend/internal/domain/errors"
	"kemea.backend/internal/interfaces/http/response"
	"kemea.backend/internal/usecases"
)

// PolicyHandler serves legal texts.
type PolicyHandler struct {
	policyUsecase *usecases.PolicyUsecase
}

// NewPolicyHandler creates a new policy handler
func NewPolicyHandler(policyUsecase *usecases.PolicyUsecase) *PolicyHandler {
	return &PolicyHandler{policyUsecase: policyUsecase}
}

// Get returns one policy, falling back to English. A missing policy is an
// empty success.
// GET /api/v1/policy?title=&lang=
func (h *PolicyHandler) Get(c *gin.Context) {
	title := c.Query("title")
	if title == "" {
		response.Error(c, domainerrors.BadRequest("title is required"))
		return
	}

	policy, err := h.policyUsecase.Get(c.Request.Context(), title, c.Query("lang"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if policy == nil {
		response.Success(c, http.StatusOK, "No policy found", nil)
		return
	}
	response.Success(c, http.StatusOK, "Policy retrieved", policy)
}

// List
// GET /api/v1/policies?lang=
func (h *PolicyHandler) List(c *gin.Context) {
	policies, err := h.policyUsecase.List(c.Request.Context(), c.Query("lang"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Policies retrieved", policies)
}
