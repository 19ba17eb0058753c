package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/conduit-api/internal/service"
)

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, log zerolog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())
	router.Use(identityMiddleware(services))

	// Handlers
	userHandler := NewUserHandler(services, log)
	articleHandler := NewArticleHandler(services, log)
	commentHandler := NewCommentHandler(services, log)

	// Health check
	router.GET("/health", healthCheck)

	api := router.Group("/api")
	{
		users := api.Group("/users")
		{
			users.POST("", userHandler.Register)
			users.POST("/login", userHandler.Login)
		}

		user := api.Group("/user", requireLogin())
		{
			user.GET("", userHandler.Current)
			user.PUT("", userHandler.Update)
		}

		profiles := api.Group("/profiles")
		{
			profiles.GET("/:username", userHandler.Profile)
			profiles.POST("/:username/follow", requireLogin(), userHandler.Follow)
			profiles.DELETE("/:username/follow", requireLogin(), userHandler.Unfollow)
		}

		articles := api.Group("/articles")
		{
			articles.GET("", articleHandler.List)
			articles.POST("", requireLogin(), articleHandler.Create)
			articles.GET("/feed", requireLogin(), articleHandler.Feed)
			articles.GET("/:slug", articleHandler.Get)
			articles.PUT("/:slug", requireLogin(), articleHandler.Update)
			articles.DELETE("/:slug", requireLogin(), articleHandler.Delete)
			articles.POST("/:slug/favorite", requireLogin(), articleHandler.Favorite)
			articles.DELETE("/:slug/favorite", requireLogin(), articleHandler.Unfavorite)
			articles.GET("/:slug/comments", commentHandler.List)
			articles.POST("/:slug/comments", requireLogin(), commentHandler.Create)
			articles.DELETE("/:slug/comments/:id", requireLogin(), commentHandler.Delete)
		}

		api.GET("/tags", articleHandler.Tags)
	}

	return router
}

// healthCheck returns the health status
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "conduit-api",
	})
}

// identityMiddleware resolves the optional authenticated user from the
// Authorization header. An invalid or expired token leaves the request
// anonymous rather than failing it; endpoints that require a login
// enforce that separately.
func identityMiddleware(services *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		authorization := c.GetHeader("Authorization")
		if authorization != "" {
			if user := services.Auth.Authenticate(c.Request.Context(), authorization); user != nil {
				c.Set(ctxUserKey, user)
				c.Set(ctxTokenKey, services.Auth.TokenFromHeader(authorization))
			}
		}
		c.Next()
	}
}

// requireLogin rejects requests the identity middleware left anonymous
func requireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentUser(c) == nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"errors": gin.H{"body": []string{"Must be logged in"}},
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Msg("Panic recovered")
				c.JSON(http.StatusInternalServerError, gin.H{
					"errors": gin.H{"body": []string{"Internal server error"}},
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// corsMiddleware handles CORS. Every response carries the permissive
// headers; browsers are not restricted.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
