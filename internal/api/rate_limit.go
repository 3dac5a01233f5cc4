package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipe-share/backend/internal/middleware"
	"github.com/pageza/recipe-share/backend/internal/types"
)

// RegisterRateLimitRoutes registers endpoints for checking rate limit status
func RegisterRateLimitRoutes(router *gin.RouterGroup, auth middleware.TokenValidator, creationLimiter *middleware.RateLimiter) {
	rateLimits := router.Group("/rate-limits")
	rateLimits.Use(middleware.AuthMiddleware(auth))
	rateLimits.GET("/recipe-creation", RecipeCreationQuota(creationLimiter))
}

// RecipeCreationQuota godoc
// @Summary Remaining recipe creations in the current window
// @Tags rate-limits
// @Produce json
// @Security BearerAuth
// @Success 200 {object} types.RateLimitResponse
// @Failure 503 {object} types.ErrorResponse
// @Router /api/v1/rate-limits/recipe-creation [get]
func RecipeCreationQuota(limiter *middleware.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}

		remaining, resetTime, err := limiter.GetRemainingRequests(c.Request.Context(), userID.String())
		if err != nil {
			log.Printf("[API] rate limit lookup failed: %v", err)
			abortWithError(c, http.StatusServiceUnavailable, "rate limit status unavailable")
			return
		}

		c.JSON(http.StatusOK, types.RateLimitResponse{
			Limit:     limiter.Config().Limit,
			Remaining: remaining,
			ResetAt:   resetTime.Unix(),
		})
	}
}
