package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"kemea.backend/internal/domain/entities"
	"kemea.backend/internal/interfaces/http/response"
	"kemea.backend/internal/usecases"
)

// CompanyHandler handles the company back office and the public company page.
type CompanyHandler struct {
	companyUsecase *usecases.CompanyUsecase
}

// NewCompanyHandler creates a new company handler
func NewCompanyHandler(companyUsecase *usecases.CompanyUsecase) *CompanyHandler {
	return &CompanyHandler{companyUsecase: companyUsecase}
}

// GetProfile
// GET /api/v1/company/profile
func (h *CompanyHandler) GetProfile(c *gin.Context) {
	companyID, ok := currentUser(c)
	if !ok {
		return
	}
	profile, err := h.companyUsecase.GetProfile(c.Request.Context(), companyID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Company profile retrieved", profile)
}

// UpdateProfile
// PATCH /api/v1/company/profile
func (h *CompanyHandler) UpdateProfile(c *gin.Context) {
	companyID, ok := currentUser(c)
	if !ok {
		return
	}
	var input entities.UpdateCompanyProfileInput
	if !bindJSON(c, &input) {
		return
	}

	profile, err := h.companyUsecase.UpdateProfile(c.Request.Context(), companyID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Company profile updated", profile)
}

// ListAgents
// GET /api/v1/company/agents
func (h *CompanyHandler) ListAgents(c *gin.Context) {
	companyID, ok := currentUser(c)
	if !ok {
		return
	}
	agents, err := h.companyUsecase.ListAgents(c.Request.Context(), companyID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Agents retrieved", agents)
}

// CreateAgent
// POST /api/v1/company/agents
func (h *CompanyHandler) CreateAgent(c *gin.Context) {
	companyID, ok := currentUser(c)
	if !ok {
		return
	}
	var input entities.CompanyAgentInput
	if !bindJSON(c, &input) {
		return
	}

	agent, err := h.companyUsecase.CreateAgent(c.Request.Context(), companyID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Agent created", agent)
}

// UpdateAgent
// PATCH /api/v1/company/agents/:id
func (h *CompanyHandler) UpdateAgent(c *gin.Context) {
	companyID, ok := currentUser(c)
	if !ok {
		return
	}
	agentID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var input entities.CompanyAgentInput
	if !bindJSON(c, &input) {
		return
	}

	agent, err := h.companyUsecase.UpdateAgent(c.Request.Context(), companyID, agentID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Agent updated", agent)
}

// ListAvailability
// GET /api/v1/company/availability
func (h *CompanyHandler) ListAvailability(c *gin.Context) {
	companyID, ok := currentUser(c)
	if !ok {
		return
	}
	entries, err := h.companyUsecase.ListAvailability(c.Request.Context(), companyID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Availability retrieved", entries)
}

// CreateAvailability accepts a JSON array of windows.
// POST /api/v1/company/availability
func (h *CompanyHandler) CreateAvailability(c *gin.Context) {
	companyID, ok := currentUser(c)
	if !ok {
		return
	}
	var input []entities.AvailabilityInput
	if !bindJSON(c, &input) {
		return
	}

	entries, err := h.companyUsecase.CreateAvailability(c.Request.Context(), companyID, input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Availability created", entries)
}

// UpdateAvailability
// PUT /api/v1/company/availability
func (h *CompanyHandler) UpdateAvailability(c *gin.Context) {
	companyID, ok := currentUser(c)
	if !ok {
		return
	}
	var input entities.AvailabilityInput
	if !bindJSON(c, &input) {
		return
	}

	entry, err := h.companyUsecase.UpdateAvailability(c.Request.Context(), companyID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Availability updated", entry)
}

// Details is the public company page
// GET /api/v1/companies/:id
func (h *CompanyHandler) Details(c *gin.Context) {
	companyID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	details, err := h.companyUsecase.Details(c.Request.Context(), companyID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Company retrieved", details)
}
