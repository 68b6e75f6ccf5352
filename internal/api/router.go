package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"building-registry/config"
	"building-registry/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(h *Handler, cfg config.ServerConfig, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), mw.Logger(logger.Named("http")))

	perSec, burst := cfg.RateLimitPerSec, cfg.RateLimitBurst
	if perSec <= 0 {
		perSec = 20
	}
	if burst <= 0 {
		burst = 10
	}
	rateLimiter := mw.RateLimiter(mw.NewClientLimiter(rate.Limit(perSec), burst))

	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	caching := mw.Cache(cache.New(ttl, 2*ttl), ttl, h.registry.Loaded)

	r.GET("/healthz", h.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.Use(rateLimiter, caching)
	{
		api.GET("/lookups", h.GetLookups)

		buildings := api.Group("/buildings")
		buildings.GET("", h.GetBuildings)
		buildings.POST("", h.PostBuilding)
		buildings.DELETE("", h.ClearBuildings)
		buildings.GET("/search", h.SearchBuildings)
		buildings.GET("/export", h.ExportBuildings)
		buildings.POST("/import", h.ImportBuildings)
		buildings.POST("/filters/location", h.PostBuildingLocationFilter)
		buildings.POST("/filters/type", h.PostBuildingTypeFilter)
		buildings.POST("/filters/search", h.PostBuildingSearch)
		buildings.GET("/:id", h.GetBuilding)
		buildings.GET("/:id/properties", h.GetBuildingProperties)
		buildings.PUT("/:id", h.PutBuilding)
		buildings.DELETE("/:id", h.DeleteBuilding)

		properties := api.Group("/properties")
		properties.GET("", h.GetProperties)
		properties.POST("", h.PostProperty)
		properties.DELETE("", h.ClearProperties)
		properties.GET("/search", h.SearchPropertyBuildings)
		properties.GET("/export", h.ExportProperties)
		properties.POST("/import", h.ImportProperties)
		properties.GET("/building", h.GetSelectedBuilding)
		properties.POST("/filters/location", h.PostPropertyLocationFilter)
		properties.POST("/filters/type", h.PostPropertyTypeFilter)
		properties.POST("/filters/search", h.PostPropertySearch)
		properties.POST("/filters/building", h.PostPropertyBuildingFilter)
		properties.GET("/:id", h.GetProperty)
		properties.PUT("/:id", h.PutProperty)
		properties.DELETE("/:id", h.DeleteProperty)

		api.GET("/backup", h.GetBackup)
		api.POST("/backup/validate", h.ValidateBackup)
		api.POST("/backup/restore", h.RestoreBackup)
	}

	return r
}
