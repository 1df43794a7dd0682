package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"angeles-backend/internal/shared/middleware"
	"angeles-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(c.Config.CORS.AllowedOrigins),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupIdentityRoutes(v1, c)
		setupContentRoutes(v1, c)
	}

	return router
}

// ========================================
// IDENTITY ROUTES
// ========================================
func setupIdentityRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := middleware.Authenticate(c.JWTManager, c.UserService)

	identities := v1.Group("/identities")
	{
		// Public
		identities.POST("", c.UserHandler.Register)
		identities.POST("/login", c.UserHandler.Login)

		// Any authenticated identity
		identities.GET("", auth, c.UserHandler.ListUsers)
		identities.GET("/:id", auth, c.UserHandler.GetUser)
		identities.PUT("/:id", auth, c.UserHandler.UpdateUser)
		identities.DELETE("/:id", auth, c.UserHandler.DeleteUser)
	}
}

// ========================================
// CONTENT ROUTES
// ========================================
func setupContentRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := middleware.Authenticate(c.JWTManager, c.UserService)
	optionalAuth := middleware.OptionalAuthenticate(c.JWTManager, c.UserService)

	content := v1.Group("/content")
	{
		// Public, the caller's role narrows what is visible
		content.GET("", optionalAuth, c.ArticleHandler.ListArticles)
		content.GET("/:id", optionalAuth, c.ArticleHandler.GetArticle)
		content.POST("/:id/like", c.ArticleHandler.LikeArticle)

		// Authenticated, ownership is checked by the service
		content.POST("", auth, c.ArticleHandler.CreateArticle)
		content.PUT("/:id", auth, c.ArticleHandler.UpdateArticle)
		content.DELETE("/:id", auth, c.ArticleHandler.DeleteArticle)

		// Editors and admins
		content.GET("/stats", auth, middleware.RequirePrivileged(), c.ArticleHandler.GetStatistics)
	}
}

// ========================================
// HEALTH CHECK HANDLER
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus, cacheStatus := appCtx.HealthCheck(ctx)

		statusCode := http.StatusOK
		status := "healthy"
		if dbStatus != "ok" {
			statusCode = http.StatusServiceUnavailable
			status = "unhealthy"
		}

		services := gin.H{
			"database": dbStatus,
			"cache":    cacheStatus,
		}
		if appCtx.DB != nil {
			if stats, err := appCtx.DB.Stats(); err == nil {
				services["pool"] = stats
			}
		}

		c.JSON(statusCode, gin.H{
			"status":    status,
			"version":   appCtx.Config.App.Version,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"services":  services,
		})
	}
}
