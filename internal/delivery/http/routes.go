package http

import (
	"github.com/gin-gonic/gin"
	"github.com/solarprices/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.HandleMethodNotAllowed = false

	// Global middleware. CORS runs before recovery so a 500 still carries
	// the CORS headers.
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(RecoveryMiddleware(handler.prices))

	router.GET("/health", handler.HealthCheck)
	router.GET("/prices", handler.GetPrices)

	preferences := router.Group("/preferences")
	{
		preferences.GET("/language", handler.GetLanguage)
		preferences.PUT("/language", handler.SetLanguage)
	}

	// Anything else gets the service descriptor
	router.GET("/", handler.Describe)
	router.NoRoute(handler.Describe)

	return router
}
