package admin

import (
	"log/slog"

	"readmekit/internal/auth"
	"readmekit/internal/config"
	"readmekit/internal/counter"

	"github.com/gin-gonic/gin"
)

// SetupRoutes registers the read-only admin routes. Nothing is registered
// when no admin password is configured.
func SetupRoutes(router *gin.Engine, store counter.Store, cfg *config.Config, logger *slog.Logger) bool {
	if cfg.Admin.Password == "" {
		return false
	}
	handler := NewHandler(store, logger)

	adminGroup := router.Group("/admin")
	adminGroup.Use(auth.AdminAuthMiddleware(cfg.Admin.Password))
	{
		countersGroup := adminGroup.Group("/counters")
		{
			countersGroup.GET("", handler.ListCountersHandler)
			countersGroup.GET("/:key", handler.GetCounterHandler)
		}
	}
	return true
}
