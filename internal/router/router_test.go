package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/recipe-share/backend/config"
	"github.com/pageza/recipe-share/backend/internal/api"
	"github.com/pageza/recipe-share/backend/internal/middleware"
	"github.com/pageza/recipe-share/backend/internal/mocks"
)

func testRouter(t *testing.T) (*gin.Engine, *mocks.MockRecipeService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	recipes := &mocks.MockRecipeService{}
	cfg := &config.Config{
		Environment:        config.Test,
		CORSAllowedOrigins: []string{"http://localhost:3000"},
	}
	deps := api.Dependencies{Auth: &mocks.MockAuthService{}, Recipes: recipes}
	return SetupRouter(cfg, deps, prometheus.NewRegistry()), recipes
}

func serve(r http.Handler, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestSetupRouterServesHealth(t *testing.T) {
	r, _ := testRouter(t)

	w := serve(r, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestSetupRouterWithoutCORSOrigins(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{Environment: config.Test}
	deps := api.Dependencies{Auth: &mocks.MockAuthService{}, Recipes: &mocks.MockRecipeService{}}

	var r *gin.Engine
	assert.NotPanics(t, func() { r = SetupRouter(cfg, deps, nil) })

	w := serve(r, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/metrics").Code)
}

func TestSetupRouterUnknownRoute(t *testing.T) {
	r, _ := testRouter(t)

	w := serve(r, http.MethodGet, "/api/v1/nope")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "error")
}

func TestSetupRouterExposesMetrics(t *testing.T) {
	r, recipes := testRouter(t)
	recipes.On("ListAll", mock.Anything, mock.Anything).Return(nil, nil).Once()

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/api/v1/recipes").Code)

	w := serve(r, http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "recipes_http_requests_total")
	assert.Contains(t, w.Body.String(), `route="/api/v1/recipes"`)
}

func TestSetupRouterCORSPreflight(t *testing.T) {
	r, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/recipes", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}
