package http

import (
	"category/extractor/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(RateLimitMiddleware(cfg.Server.RateLimitPerIP))

	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/extract", handler.Extract)
	router.POST("/extract", handler.Extract)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/extract", handler.Extract)
		v1.POST("/extract", handler.Extract)

		jobs := v1.Group("/jobs")
		{
			jobs.POST("", handler.SubmitJob)
			jobs.GET("/:id", handler.GetJob)
		}
	}

	return router
}
