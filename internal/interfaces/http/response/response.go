package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domainerrors "kemea.backend/internal/domain/errors"
	"kemea.backend/pkg/logger"
	"kemea.backend/pkg/utils"
)

const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Envelope is the body shape of every API response.
type Envelope struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Code    string      `json:"code,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Page wraps a list result with its pagination metadata.
type Page struct {
	Results    interface{}          `json:"results"`
	Pagination utils.PaginationMeta `json:"pagination"`
}

// Success sends a success envelope
func Success(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Envelope{Status: StatusSuccess, Message: message, Data: data})
}

// Paginated sends a success envelope holding one page of results.
func Paginated(c *gin.Context, message string, results interface{}, meta utils.PaginationMeta) {
	Success(c, http.StatusOK, message, Page{Results: results, Pagination: meta})
}

// Error renders err into the envelope. Non-AppErrors become server_error;
// AppErrors with a non-error status (verified_user) render as success.
func Error(c *gin.Context, err error) {
	appErr, ok := domainerrors.As(err)
	if !ok {
		appErr = domainerrors.InternalError(err)
	}

	if appErr.Status >= http.StatusInternalServerError {
		logger.Error(c.Request.Context(), "Request failed",
			zap.String("path", c.FullPath()),
			zap.String("code", appErr.Code),
			zap.Error(err),
		)
	}

	status := StatusFailure
	if appErr.Status < http.StatusBadRequest {
		status = StatusSuccess
	}

	c.AbortWithStatusJSON(appErr.Status, Envelope{
		Status:  status,
		Message: appErr.Message,
		Code:    appErr.Code,
	})
}

// ValidationError renders a binding failure.
func ValidationError(c *gin.Context, err error) {
	Error(c, domainerrors.BadRequest(err.Error()))
}
