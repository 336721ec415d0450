package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bizcard-backend/internal/shared/middleware"
	"bizcard-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.Logger(),
		middleware.ClientIPMiddleware(),
	)

	limiter := middleware.NewRateLimiter(c.Cache)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c, limiter)
		setupUserRoutes(v1, c)
		setupProfileRoutes(v1, c)
		setupCardRoutes(v1, c)
		setupAnalyticsRoutes(v1, c)
		setupPublicRoutes(v1, c, limiter)
	}

	return router
}

// ========================================
// AUTH ROUTES
// ========================================
func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container, limiter *middleware.RateLimiter) {
	rl := c.Config.RateLimit

	auth := v1.Group("/auth")
	{
		auth.POST("/register",
			middleware.RateLimit(limiter, "signup", rl.SignupAttempts, rl.SignupWindow),
			c.UserHandler.Register)
		auth.POST("/login",
			middleware.RateLimit(limiter, "login", rl.LoginAttempts, rl.LoginWindow),
			c.UserHandler.Login)
		auth.POST("/refresh", c.UserHandler.RefreshToken)
	}
}

// ========================================
// USER ROUTES
// ========================================
func setupUserRoutes(v1 *gin.RouterGroup, c *container.Container) {
	users := v1.Group("/users")
	users.Use(middleware.AuthMiddleware(c.Config.JWT.Secret))
	{
		users.GET("/me", c.UserHandler.Me)
	}
}

// ========================================
// PROFILE ROUTES
// ========================================
func setupProfileRoutes(v1 *gin.RouterGroup, c *container.Container) {
	profile := v1.Group("/profile")
	profile.Use(middleware.AuthMiddleware(c.Config.JWT.Secret))
	{
		profile.GET("", c.ProfileHandler.GetProfile)
		profile.PUT("/personal", c.ProfileHandler.SavePersonalInfo)

		profile.PUT("/professional", c.ProfileHandler.SaveProfessionalInfo)
		profile.DELETE("/professional/:id", c.ProfileHandler.DeleteProfessionalInfo)

		profile.PUT("/education", c.ProfileHandler.SaveEducation)
		profile.DELETE("/education/:id", c.ProfileHandler.DeleteEducation)

		profile.PUT("/awards", c.ProfileHandler.SaveAward)
		profile.DELETE("/awards/:id", c.ProfileHandler.DeleteAward)

		profile.PUT("/products", c.ProfileHandler.SaveProductService)
		profile.DELETE("/products/:id", c.ProfileHandler.DeleteProductService)
	}
}

// ========================================
// CARD ROUTES
// ========================================
func setupCardRoutes(v1 *gin.RouterGroup, c *container.Container) {
	cards := v1.Group("/cards")
	cards.Use(middleware.AuthMiddleware(c.Config.JWT.Secret))
	{
		cards.POST("", c.CardHandler.Create)
		cards.GET("", c.CardHandler.List)
		cards.GET("/:id", c.CardHandler.Get)
		cards.PUT("/:id", c.CardHandler.Update)
		cards.PATCH("/:id/active", c.CardHandler.SetActive)
		cards.DELETE("/:id", c.CardHandler.Delete)
	}
}

// ========================================
// ANALYTICS ROUTES
// ========================================
func setupAnalyticsRoutes(v1 *gin.RouterGroup, c *container.Container) {
	analytics := v1.Group("/analytics")
	analytics.Use(middleware.AuthMiddleware(c.Config.JWT.Secret))
	{
		analytics.GET("/summary", c.AnalyticsHandler.Summary)
	}
}

// ========================================
// PUBLIC ROUTES
// ========================================
// The anonymous card page. Rate limited per IP so a scraper cannot flood the
// view tracker.
func setupPublicRoutes(v1 *gin.RouterGroup, c *container.Container, limiter *middleware.RateLimiter) {
	rl := c.Config.RateLimit

	v1.GET("/c/:slug",
		middleware.RateLimit(limiter, "card_view", rl.ViewAttempts, rl.ViewWindow),
		c.CardHandler.View)
}

// ========================================
// HEALTH CHECK HANDLER
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
		}

		dbStatus := "ok"
		if appCtx.DB == nil || appCtx.DB.Pool == nil {
			dbStatus = "disconnected"
			health["status"] = "degraded"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.DB.HealthCheck(ctx); err != nil {
				dbStatus = fmt.Sprintf("error: %v", err)
				health["status"] = "degraded"
			}
		}

		redisStatus := "ok"
		if appCtx.Cache == nil {
			redisStatus = "disconnected"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.Cache.Ping(ctx); err != nil {
				redisStatus = fmt.Sprintf("error: %v", err)
			}
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
		}

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, health)
	}
}
