package http

import (
	"github.com/gin-gonic/gin"

	"github.com/medshelf/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		prescriptions := v1.Group("/prescriptions")
		{
			// OCR and AI calls are expensive; rate limit per client IP
			prescriptions.POST("/analyze", RateLimitMiddleware(cfg.RateLimit.PerIP), handler.AnalyzePrescription)
		}

		medicines := v1.Group("/medicines")
		{
			medicines.POST("", handler.CreateMedicine)
			medicines.GET("", handler.ListMedicines)
			medicines.PUT("/:id", handler.UpdateMedicine)
			medicines.GET("/names", handler.MedicineNames)
			medicines.POST("/availability", handler.CheckAvailability)
		}

		diagnostics := v1.Group("/diagnostics")
		{
			diagnostics.GET("/ai", handler.Diagnostics)
		}
	}

	return router
}
