package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"kemea.backend/internal/domain/entities"
	"kemea.backend/internal/interfaces/http/response"
	"kemea.backend/internal/usecases"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authUsecase         *usecases.AuthUsecase
	verificationUsecase *usecases.VerificationUsecase
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authUsecase *usecases.AuthUsecase, verificationUsecase *usecases.VerificationUsecase) *AuthHandler {
	return &AuthHandler{
		authUsecase:         authUsecase,
		verificationUsecase: verificationUsecase,
	}
}

// Register handles normal user registration
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var input entities.RegisterInput
	if !bindJSON(c, &input) {
		return
	}

	profile, err := h.authUsecase.Register(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Registration successful. Please check your email for the verification code.", profile)
}

// RegisterCompany handles company registration
// POST /api/v1/auth/register/company
func (h *AuthHandler) RegisterCompany(c *gin.Context) {
	var input entities.RegisterCompanyInput
	if !bindJSON(c, &input) {
		return
	}

	profile, err := h.authUsecase.RegisterCompany(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Registration successful. Please check your email for the verification code.", profile)
}

// VerifyEmail consumes the registration OTP
// POST /api/v1/auth/verify-email
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var input entities.VerifyEmailInput
	if !bindJSON(c, &input) {
		return
	}

	if err := h.verificationUsecase.VerifyEmail(c.Request.Context(), &input); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Email verified successfully", nil)
}

// ResendVerification issues a fresh registration OTP
// POST /api/v1/auth/resend-verification
func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var input entities.EmailInput
	if !bindJSON(c, &input) {
		return
	}

	if err := h.verificationUsecase.ResendVerification(c.Request.Context(), input.Email); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "A new verification code has been sent", nil)
}

// Login handles user login
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var input entities.LoginInput
	if !bindJSON(c, &input) {
		return
	}

	auth, err := h.authUsecase.Login(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Login successful", auth)
}

// Logout blacklists the refresh token
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	var input entities.TokenInput
	if !bindJSON(c, &input) {
		return
	}

	if err := h.authUsecase.Logout(c.Request.Context(), input.Refresh); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Logged out", nil)
}

// RefreshToken handles token refresh
// POST /api/v1/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var input entities.TokenInput
	if !bindJSON(c, &input) {
		return
	}

	pair, err := h.authUsecase.RefreshToken(c.Request.Context(), input.Refresh)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Token refreshed", pair)
}

// ForgotPassword emails a password reset OTP
// POST /api/v1/auth/password/forgot
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var input entities.EmailInput
	if !bindJSON(c, &input) {
		return
	}

	if err := h.verificationUsecase.ForgotPassword(c.Request.Context(), input.Email); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "A password reset code has been sent", nil)
}

// VerifyResetCode exchanges the reset OTP for a reset token
// POST /api/v1/auth/password/verify-code
func (h *AuthHandler) VerifyResetCode(c *gin.Context) {
	var input entities.VerifyEmailInput
	if !bindJSON(c, &input) {
		return
	}

	token, err := h.verificationUsecase.VerifyResetCode(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Code accepted", token)
}

// ResetPassword sets a new password using a reset token
// POST /api/v1/auth/password/reset/:token
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var input entities.ResetPasswordInput
	if !bindJSON(c, &input) {
		return
	}

	if err := h.verificationUsecase.ResetPassword(c.Request.Context(), c.Param("token"), input.Password); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Password has been reset", nil)
}

// ChangePassword changes the caller's password
// POST /api/v1/auth/password/change
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var input entities.ChangePasswordInput
	if !bindJSON(c, &input) {
		return
	}

	if err := h.authUsecase.ChangePassword(c.Request.Context(), userID, &input); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Password changed", nil)
}

// RequestEmailChange sends an OTP to the new address
// POST /api/v1/auth/email/change/request
func (h *AuthHandler) RequestEmailChange(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var input entities.EmailInput
	if !bindJSON(c, &input) {
		return
	}

	if err := h.verificationUsecase.RequestEmailChange(c.Request.Context(), userID, input.Email); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "A verification code has been sent to the new address", nil)
}

// ConfirmEmailChange switches the account to the new address
// POST /api/v1/auth/email/change
func (h *AuthHandler) ConfirmEmailChange(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var input entities.ChangeEmailInput
	if !bindJSON(c, &input) {
		return
	}

	if err := h.verificationUsecase.ConfirmEmailChange(c.Request.Context(), userID, &input); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Email changed", nil)
}

// GoogleLogin signs in with a Google ID token
// POST /api/v1/auth/google
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var input struct {
		IDToken string `json:"id_token" binding:"required"`
	}
	if !bindJSON(c, &input) {
		return
	}

	auth, err := h.authUsecase.GoogleLogin(c.Request.Context(), input.IDToken)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Login successful", auth)
}

// Me returns the caller with their profile
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	profile, err := h.authUsecase.Me(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Profile retrieved", profile)
}
