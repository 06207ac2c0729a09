package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "kemea.backend/internal/domain/errors"
	"kemea.backend/pkg/utils"
)

func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestSuccess(t *testing.T) {
	c, w := newContext()

	Success(c, http.StatusCreated, "Created", gin.H{"ok": true})
	assert.Equal(t, http.StatusCreated, w.Code)

	body := decode(t, w)
	assert.Equal(t, StatusSuccess, body["status"])
	assert.Equal(t, "Created", body["message"])
	assert.NotContains(t, body, "code")
	assert.Equal(t, true, body["data"].(map[string]interface{})["ok"])
}

func TestPaginated(t *testing.T) {
	c, w := newContext()

	Paginated(c, "Listings", []string{"a"}, utils.CalculateMeta(1, 1, 20))
	body := decode(t, w)
	data := body["data"].(map[string]interface{})
	assert.Len(t, data["results"], 1)
	assert.Equal(t, float64(1), data["pagination"].(map[string]interface{})["total_count"])
}

func TestError_AppError(t *testing.T) {
	c, w := newContext()

	Error(c, fmt.Errorf("wrapped: %w", domainerrors.NonExistent("User with this email not found")))
	assert.Equal(t, http.StatusNotFound, w.Code)

	body := decode(t, w)
	assert.Equal(t, StatusFailure, body["status"])
	assert.Equal(t, domainerrors.CodeNonExistent, body["code"])
	assert.Equal(t, "User with this email not found", body["message"])
	assert.True(t, c.IsAborted())
}

func TestError_VerifiedUserIsSuccessShaped(t *testing.T) {
	c, w := newContext()

	Error(c, domainerrors.VerifiedUser("Email verified already"))
	assert.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, StatusSuccess, body["status"])
	assert.Equal(t, domainerrors.CodeVerifiedUser, body["code"])
}

func TestError_GenericError(t *testing.T) {
	c, w := newContext()

	Error(c, errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, domainerrors.CodeServerError, decode(t, w)["code"])
}

func TestValidationError(t *testing.T) {
	c, w := newContext()

	ValidationError(c, errors.New("email is required"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, domainerrors.CodeValidationError, body["code"])
	assert.Equal(t, "email is required", body["message"])
}
