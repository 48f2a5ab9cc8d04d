package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"go.caltib.dev/caltib/internal/api"
)

// SetupRouter creates and configures the Gin router for the calendar API.
func SetupRouter(a *api.API, allowedOrigins []string) *gin.Engine {
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	if len(allowedOrigins) > 0 {
		corsConfig.AllowOrigins = allowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "OPTIONS"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	handler := NewHandler(a)

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		v1.GET("/engines", handler.ListEngines)
		v1.GET("/day", handler.GetDay)
		v1.GET("/gregorian", handler.GetGregorian)
		v1.GET("/new-year", handler.GetNewYearDay)
		v1.GET("/month", handler.GetMonthBounds)
		v1.GET("/explain", handler.GetExplain)
	}

	// Health check.
	router.GET("/healthz", handler.HealthCheck)

	return router
}
