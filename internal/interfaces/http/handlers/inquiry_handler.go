package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"kemea.backend/internal/domain/entities"
	"kemea.backend/internal/interfaces/http/response"
	"kemea.backend/internal/usecases"
)

// InquiryHandler accepts contact messages and promotion requests.
type InquiryHandler struct {
	inquiryUsecase *usecases.InquiryUsecase
}

// NewInquiryHandler creates a new inquiry handler
func NewInquiryHandler(inquiryUsecase *usecases.InquiryUsecase) *InquiryHandler {
	return &InquiryHandler{inquiryUsecase: inquiryUsecase}
}

// ContactCompany
// POST /api/v1/properties/:id/contact
func (h *InquiryHandler) ContactCompany(c *gin.Context) {
	propertyID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var input entities.ContactCompanyInput
	if !bindJSON(c, &input) {
		return
	}

	contact, err := h.inquiryUsecase.ContactCompany(c.Request.Context(), propertyID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Your message has been sent", contact)
}

// PromoteRequest
// POST /api/v1/promote-requests
func (h *InquiryHandler) PromoteRequest(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var input entities.PromoteAdRequestInput
	if !bindJSON(c, &input) {
		return
	}

	req, err := h.inquiryUsecase.PromoteRequest(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Request received", req)
}
