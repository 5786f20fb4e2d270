package http

import (
	"github.com/gin-gonic/gin"
	"github.com/layer-3/x403auth/service"
)

// SetupRouter sets up the Gin router
func SetupRouter(authenticator *service.Authenticator) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	handlers := NewHandlers()

	api := router.Group("/api")
	{
		api.GET("/public", handlers.Public)
	}

	// Protected API routes
	protected := api.Group("")
	protected.Use(AuthMiddleware(authenticator))
	{
		protected.GET("/profile", handlers.Profile)
	}

	return router
}
