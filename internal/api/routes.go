package api

import "github.com/gin-gonic/gin"

// SetupRoutes registers the public widget routes.
func SetupRoutes(router *gin.Engine, handler *Handler) {
	apiGroup := router.Group("/api")
	{
		apiGroup.GET("/visitor-count", handler.VisitorCount)
		apiGroup.GET("/visitor-count/themes", handler.Themes)
		apiGroup.GET("/visitor-count/readme", handler.Readme)
	}
	router.GET("/visitor-count", handler.VisitorCount)
	router.GET("/healthz", handler.Health)
}
