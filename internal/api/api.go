package api

import (
	"github.com/gin-gonic/gin"

	"github.com/pageza/recipe-share/backend/internal/middleware"
	"github.com/pageza/recipe-share/backend/internal/service"
)

// Dependencies are the services the routes are built from. Images and the
// limiters are optional.
type Dependencies struct {
	Auth                service.IAuthService
	Recipes             service.IRecipeService
	Images              service.IImageService
	CreationLimiter     *middleware.RateLimiter
	ModificationLimiter *middleware.RateLimiter
	Readiness           map[string]Pinger
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, deps Dependencies) {
	router.GET("/health", HealthCheck)
	router.GET("/readyz", ReadinessCheck(deps.Readiness))

	v1 := router.Group("/api/v1")
	NewAuthHandler(deps.Auth).RegisterRoutes(v1)
	NewRecipeHandler(deps.Recipes, deps.Images, deps.Auth, deps.CreationLimiter, deps.ModificationLimiter).RegisterRoutes(v1)

	if deps.CreationLimiter != nil {
		RegisterRateLimitRoutes(v1, deps.Auth, deps.CreationLimiter)
	}
}
