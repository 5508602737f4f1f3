package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"energyplan/server/internal/metrics"
)

// NewRouter builds the engine with middleware and every route.
func NewRouter(handler *Handler, m *metrics.Metrics, origins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), AccessLog(handler.logger), m.Middleware())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, requestIDHeader)
	corsConfig.ExposeHeaders = []string{requestIDHeader}
	corsConfig.MaxAge = 12 * time.Hour
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
	}
	router.Use(cors.New(corsConfig))

	SetupRoutes(router, handler)
	if m != nil {
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}
	return router
}

func SetupRoutes(router *gin.Engine, handler *Handler) {
	api := router.Group("/api")
	{
		api.GET("/health", handler.Health)
		api.GET("/scenarios", handler.ListScenarios)
		api.GET("/areas", handler.ListAreas)
		api.GET("/buildings", handler.GetBuildings)
		api.GET("/extent", handler.GetExtent)
		api.POST("/selection", handler.PostSelection)
		api.POST("/overview", handler.PostOverview)
		api.POST("/scenarios/:name/report", handler.PostReport)
		api.POST("/scenarios/:name/compare", handler.PostCompare)
		api.POST("/scenarios/:name/chart", handler.PostChart)
	}
}
