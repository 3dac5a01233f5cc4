package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipe-share/backend/internal/middleware"
	"github.com/pageza/recipe-share/backend/internal/testhelpers"
)

func redisLimitedRouter(rl *middleware.RateLimiter, userID uuid.UUID, perRecipe bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	setUser := func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		c.Next()
	}
	limit := rl.RateLimitMiddleware()
	if perRecipe {
		limit = rl.PerRecipeRateLimitMiddleware()
	}
	r.POST("/recipes/:id", setUser, limit, func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func post(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, nil))
	return w
}

func TestRateLimiterWithRedis(t *testing.T) {
	client := testhelpers.SetupRedis(t)
	userID := uuid.New()

	rl := middleware.NewRateLimiter(client, middleware.RateLimitConfig{Window: time.Hour, Limit: 2, KeyPrefix: "test_create"})
	r := redisLimitedRouter(rl, userID, false)

	w := post(r, "/recipes/a")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusOK, post(r, "/recipes/b").Code)

	w = post(r, "/recipes/c")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	remaining, reset, err := rl.GetRemainingRequests(context.Background(), userID.String())
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)
	assert.True(t, reset.After(time.Now()))

	remaining, _, err = rl.GetRemainingRequests(context.Background(), uuid.NewString())
	require.NoError(t, err)
	assert.Equal(t, 2, remaining)
}

func TestPerRecipeRateLimiterWithRedis(t *testing.T) {
	client := testhelpers.SetupRedis(t)
	rl := middleware.NewRateLimiter(client, middleware.RateLimitConfig{Window: time.Hour, Limit: 1, KeyPrefix: "test_modify"})
	r := redisLimitedRouter(rl, uuid.New(), true)

	assert.Equal(t, http.StatusOK, post(r, "/recipes/a").Code)
	assert.Equal(t, http.StatusTooManyRequests, post(r, "/recipes/a").Code)
	// a different recipe has its own budget
	assert.Equal(t, http.StatusOK, post(r, "/recipes/b").Code)
}
