package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"kemea.backend/internal/domain/entities"
	domainerrors "kemea.backend/internal/domain/errors"
	"kemea.backend/internal/interfaces/http/response"
	"kemea.backend/pkg/jwt"
	"kemea.backend/pkg/logger"
)

const (
	// AuthorizationHeader is the header key for authorization
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer tokens
	BearerPrefix = "Bearer "
	// UserIDKey is the context key for user ID
	UserIDKey = "userId"
	// UserEmailKey is the context key for user email
	UserEmailKey = "userEmail"
	// UserRoleKey is the context key for user role
	UserRoleKey = "userRole"
)

// AccessTokenValidator is satisfied by *jwt.JWTService.
type AccessTokenValidator interface {
	ValidateAccessToken(token string) (*jwt.Claims, error)
}

// AccountChecker reports whether the account behind a token may still act.
type AccountChecker interface {
	AccountActive(ctx context.Context, userID uuid.UUID) (bool, error)
}

// AuthMiddleware rejects requests without a valid bearer access token.
func AuthMiddleware(tokens AccessTokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c, tokens) {
			return
		}
		c.Next()
	}
}

// ActiveAuthMiddleware is AuthMiddleware plus a lookup that rejects tokens
// of deactivated or deleted accounts.
func ActiveAuthMiddleware(tokens AccessTokenValidator, accounts AccountChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c, tokens) {
			return
		}

		userID, _ := GetUserID(c)
		active, err := accounts.AccountActive(c.Request.Context(), userID)
		if err != nil {
			response.Error(c, err)
			return
		}
		if !active {
			logger.Debug(c.Request.Context(), "Rejected token of inactive account")
			response.Error(c, domainerrors.Unauthorized("Account is inactive"))
			return
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, tokens AccessTokenValidator) bool {
	header := c.GetHeader(AuthorizationHeader)
	if header == "" {
		response.Error(c, domainerrors.Unauthorized("Authorization header is required"))
		return false
	}
	if !strings.HasPrefix(header, BearerPrefix) {
		response.Error(c, domainerrors.Unauthorized("Invalid authorization format. Use: Bearer <token>"))
		return false
	}

	claims, err := tokens.ValidateAccessToken(strings.TrimPrefix(header, BearerPrefix))
	if err != nil {
		logger.Debug(c.Request.Context(), "Rejected bearer token")
		if errors.Is(err, jwt.ErrExpiredToken) {
			response.Error(c, domainerrors.Unauthorized("Token has expired"))
			return false
		}
		response.Error(c, domainerrors.Unauthorized("Invalid token"))
		return false
	}

	setClaims(c, claims)
	return true
}

// OptionalAuth attaches the caller when a valid bearer token is present and
// lets anonymous requests through otherwise.
func OptionalAuth(tokens AccessTokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(AuthorizationHeader)
		if strings.HasPrefix(header, BearerPrefix) {
			if claims, err := tokens.ValidateAccessToken(strings.TrimPrefix(header, BearerPrefix)); err == nil {
				setClaims(c, claims)
			}
		}
		c.Next()
	}
}

func setClaims(c *gin.Context, claims *jwt.Claims) {
	c.Set(UserIDKey, claims.UserID)
	c.Set(UserEmailKey, claims.Email)
	c.Set(UserRoleKey, claims.Role)

	ctx := context.WithValue(c.Request.Context(), logger.UserIDKey, claims.UserID.String())
	c.Request = c.Request.WithContext(ctx)
}

// GetUserID gets the user ID from context
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := userID.(uuid.UUID)
	return id, ok
}

// GetUserRole gets the user role from context
func GetUserRole(c *gin.Context) (entities.Role, bool) {
	role, exists := c.Get(UserRoleKey)
	if !exists {
		return "", false
	}
	s, ok := role.(string)
	return entities.Role(s), ok
}

// RequireRole creates a middleware that requires one of roles. Staff pass every check.
func RequireRole(roles ...entities.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := GetUserRole(c)
		if !exists {
			response.Error(c, domainerrors.Unauthorized("User role not found"))
			return
		}
		if userRole == entities.RoleStaff {
			c.Next()
			return
		}

		for _, role := range roles {
			if userRole == role {
				c.Next()
				return
			}
		}
		response.Error(c, domainerrors.Forbidden("Insufficient permissions"))
	}
}

// RequireAgent restricts a route to company accounts.
func RequireAgent() gin.HandlerFunc {
	return RequireRole(entities.RoleAgent)
}

// RequireStaff restricts a route to staff accounts.
func RequireStaff() gin.HandlerFunc {
	return RequireRole(entities.RoleStaff)
}
