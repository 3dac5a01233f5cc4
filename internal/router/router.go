package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/pageza/recipe-share/backend/config"
	"github.com/pageza/recipe-share/backend/internal/api"
	"github.com/pageza/recipe-share/backend/internal/middleware"
)

// SetupRouter configures the middleware chain and the application routes.
// Metrics are registered on reg and served from /metrics; a nil reg gets a
// private registry.
func SetupRouter(cfg *config.Config, deps api.Dependencies, reg *prometheus.Registry) *gin.Engine {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	router := gin.New()

	router.Use(middleware.RequestID())
	if cfg.Environment != config.Test {
		router.Use(gin.Logger())
	}
	router.Use(middleware.Recovery())
	router.Use(middleware.NewMetrics(reg).Middleware())
	router.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	router.Use(middleware.GlobalRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
	router.NoRoute(middleware.NoRoute())

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))
	router.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json"))))

	api.RegisterRoutes(router, deps)

	return router
}
