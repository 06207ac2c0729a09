package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	domainerrors "kemea.backend/internal/domain/errors"
	"kemea.backend/internal/interfaces/http/middleware"
	"kemea.backend/internal/interfaces/http/response"
	"kemea.backend/pkg/utils"
)

// bindJSON binds the body into dst and renders a validation error on failure.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.ValidationError(c, err)
		return false
	}
	return true
}

func bindQuery(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		response.ValidationError(c, err)
		return false
	}
	return true
}

// pathUUID parses a uuid path parameter. Malformed ids render as not found.
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.Error(c, domainerrors.NonExistent("Resource not found"))
		return uuid.Nil, false
	}
	return id, true
}

// currentUser returns the authenticated caller.
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Authentication required"))
		return uuid.Nil, false
	}
	return id, true
}

func pagination(c *gin.Context) utils.PaginationParams {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return utils.GetPaginationParams(page, limit)
}

func paginated(c *gin.Context, message string, results interface{}, total int64, page utils.PaginationParams) {
	response.Paginated(c, message, results, utils.CalculateMeta(total, page.Page, page.Limit))
}
