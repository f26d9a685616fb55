package http

import (
	"github.com/gin-gonic/gin"
	"github.com/labelcheck/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(NewIPRateLimiter(cfg.RateLimit.PerIP)))
	{
		nutrients := v1.Group("/nutrients")
		{
			nutrients.POST("/extract", handler.ExtractNutrients)
			nutrients.POST("/thresholds", handler.CompareThresholds)
			nutrients.POST("/rda", handler.CalculateRDA)
			nutrients.POST("/analysis", handler.AnalyzeProduct)
		}

		products := v1.Group("/products")
		{
			products.POST("", handler.CreateProduct)
			products.GET("", handler.ListProducts)
			products.GET("/:id", handler.GetProduct)
			products.GET("/:id/analysis", handler.AnalyzeStoredProduct)
		}
	}

	return router
}
