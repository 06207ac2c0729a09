package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"kemea.backend/internal/config"
	"kemea.backend/internal/interfaces/http/handlers"
	"kemea.backend/internal/interfaces/http/middleware"
	"kemea.backend/pkg/jwt"
	"kemea.backend/pkg/metrics"
	"kemea.backend/pkg/redis"
)

const (
	serviceName    = "kemea-backend"
	serviceVersion = "1.0.0"
)

type routeDeps struct {
	jwtService      *jwt.JWTService
	accounts        middleware.AccountChecker
	authHandler     *handlers.AuthHandler
	profileHandler  *handlers.ProfileHandler
	companyHandler  *handlers.CompanyHandler
	propertyHandler *handlers.PropertyHandler
	favoriteHandler *handlers.FavoriteHandler
	inquiryHandler  *handlers.InquiryHandler
	policyHandler   *handlers.PolicyHandler
	adminHandler    *handlers.AdminHandler
	db              *gorm.DB
}

func newRouter(cfg *config.Config, d routeDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())

	applyCORSMiddleware(r, cfg.Server.AllowedOrigins)
	registerHealthRoute(r, d.db)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	registerAPIV1Routes(r, cfg, d)
	return r
}

func registerAPIV1Routes(r *gin.Engine, cfg *config.Config, d routeDeps) {
	auth := middleware.ActiveAuthMiddleware(d.jwtService, d.accounts)
	otpLimit := middleware.RateLimit("otp", cfg.RateLimit.OTPRequests, cfg.RateLimit.OTPWindow)
	rl := cfg.RateLimit
	byEmail := middleware.ByJSONField("email")
	verifyLimit := middleware.RateLimitBy("verify", rl.VerifyRequests, rl.VerifyWindow, middleware.ByClientIP, byEmail)
	resetLimit := middleware.RateLimitBy("reset", rl.VerifyRequests, rl.VerifyWindow, middleware.ByClientIP, middleware.ByParam("token"))
	loginLimit := middleware.RateLimitBy("login", rl.LoginRequests, rl.LoginWindow, middleware.ByClientIP, byEmail)
	accountLimit := middleware.RateLimitBy("account", rl.VerifyRequests, rl.VerifyWindow, middleware.ByUser, middleware.ByClientIP)

	v1 := r.Group("/api/v1")
	{
		// Auth routes
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", otpLimit, middleware.IdempotencyMiddleware(), d.authHandler.Register)
			authGroup.POST("/register/company", otpLimit, middleware.IdempotencyMiddleware(), d.authHandler.RegisterCompany)
			authGroup.POST("/verify-email", verifyLimit, d.authHandler.VerifyEmail)
			authGroup.POST("/resend-verification", otpLimit, d.authHandler.ResendVerification)
			authGroup.POST("/login", loginLimit, d.authHandler.Login)
			authGroup.POST("/logout", d.authHandler.Logout)
			authGroup.POST("/refresh", d.authHandler.RefreshToken)
			authGroup.POST("/google", d.authHandler.GoogleLogin)
			authGroup.POST("/password/forgot", otpLimit, d.authHandler.ForgotPassword)
			authGroup.POST("/password/verify-code", verifyLimit, d.authHandler.VerifyResetCode)
			authGroup.POST("/password/reset/:token", resetLimit, d.authHandler.ResetPassword)
			authGroup.POST("/password/change", auth, accountLimit, d.authHandler.ChangePassword)
			authGroup.POST("/email/change/request", auth, otpLimit, d.authHandler.RequestEmailChange)
			authGroup.POST("/email/change", auth, accountLimit, d.authHandler.ConfirmEmailChange)
			authGroup.GET("/me", auth, d.authHandler.Me)
		}

		// Profile routes (protected)
		profile := v1.Group("/profile")
		profile.Use(auth)
		{
			profile.GET("", d.profileHandler.Get)
			profile.PATCH("", d.profileHandler.Update)
			profile.POST("/deactivate", d.profileHandler.Deactivate)
			profile.GET("/referral", d.profileHandler.Referral)
		}

		// Company back office (agents only)
		company := v1.Group("/company")
		company.Use(auth, middleware.RequireAgent())
		{
			company.GET("/profile", d.companyHandler.GetProfile)
			company.PATCH("/profile", d.companyHandler.UpdateProfile)
			company.GET("/agents", d.companyHandler.ListAgents)
			company.POST("/agents", d.companyHandler.CreateAgent)
			company.PATCH("/agents/:id", d.companyHandler.UpdateAgent)
			company.GET("/availability", d.companyHandler.ListAvailability)
			company.POST("/availability", d.companyHandler.CreateAvailability)
			company.PUT("/availability", d.companyHandler.UpdateAvailability)
		}
		v1.GET("/companies/:id", d.companyHandler.Details)

		// Public listings
		properties := v1.Group("/properties")
		{
			properties.GET("", d.propertyHandler.List)
			properties.GET("/lookups", d.propertyHandler.Lookups)
			properties.GET("/nearby", d.propertyHandler.Nearby)
			properties.GET("/city/:city", d.propertyHandler.ByCity)
			properties.GET("/:id", middleware.OptionalAuth(d.jwtService), d.propertyHandler.Details)
			properties.POST("/:id/contact", d.inquiryHandler.ContactCompany)
		}

		// Agent ad management
		agentAds := v1.Group("/agent/properties")
		agentAds.Use(auth, middleware.RequireAgent())
		{
			agentAds.GET("", d.propertyHandler.Dashboard)
			agentAds.GET("/search", d.propertyHandler.SearchOwn)
			agentAds.POST("", middleware.IdempotencyMiddleware(), d.propertyHandler.Create)
			agentAds.PATCH("/:id", d.propertyHandler.Update)
			agentAds.DELETE("/:id", d.propertyHandler.Delete)
			agentAds.POST("/:id/terminate", d.propertyHandler.Terminate)
		}

		favorites := v1.Group("/favorites")
		favorites.Use(auth)
		{
			favorites.GET("", d.favoriteHandler.List)
			favorites.POST("/:propertyId", d.favoriteHandler.Add)
			favorites.DELETE("/:propertyId", d.favoriteHandler.Remove)
		}

		v1.POST("/promote-requests", auth, d.inquiryHandler.PromoteRequest)

		v1.GET("/policy", d.policyHandler.Get)
		v1.GET("/policies", d.policyHandler.List)

		// Admin routes (staff only)
		admin := v1.Group("/admin")
		admin.Use(auth, middleware.RequireStaff())
		{
			admin.PUT("/properties/:id/status", d.adminHandler.UpdatePropertyStatus)
			admin.POST("/policies", d.adminHandler.UpsertPolicy)
			admin.POST("/lookups/:kind", d.adminHandler.CreateLookup)
		}
	}
}

// applyCORSMiddleware echoes allowed origins and answers preflight requests.
func applyCORSMiddleware(r *gin.Engine, allowed []string) {
	allowAll := false
	origins := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			allowAll = true
		}
		origins[strings.TrimRight(o, "/")] = struct{}{}
	}

	r.Use(func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if _, ok := origins[origin]; ok || allowAll {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
				c.Header("Access-Control-Allow-Credentials", "true")
			}
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, Idempotency-Key, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
}

// registerHealthRoute reports database and redis reachability.
func registerHealthRoute(r *gin.Engine, db *gorm.DB) {
	r.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		checks := gin.H{"database": "ok", "redis": "ok"}
		status := http.StatusOK
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			checks["database"] = "unavailable"
			status = http.StatusServiceUnavailable
		}
		if err := redis.GetClient().Ping(ctx).Err(); err != nil {
			checks["redis"] = "unavailable"
			status = http.StatusServiceUnavailable
		}

		state := "ok"
		if status != http.StatusOK {
			state = "degraded"
		}
		c.JSON(status, gin.H{
			"status":  state,
			"service": serviceName,
			"version": serviceVersion,
			"checks":  checks,
		})
	})
}
