package testhelpers

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/pageza/recipe-share/backend/config"
	"github.com/pageza/recipe-share/backend/internal/api"
	"github.com/pageza/recipe-share/backend/internal/database"
	"github.com/pageza/recipe-share/backend/internal/middleware"
	"github.com/pageza/recipe-share/backend/internal/router"
	"github.com/pageza/recipe-share/backend/internal/service"
)

// TestJWTSecret signs the tokens of servers started by NewTestAPI.
const TestJWTSecret = "test-secret"

// APIOptions adds optional dependencies to a test server.
type APIOptions struct {
	Images              service.IImageService
	CreationLimiter     *middleware.RateLimiter
	ModificationLimiter *middleware.RateLimiter
}

// NewTestAPI serves the full route table over db until the test ends.
func NewTestAPI(t *testing.T, db *gorm.DB, opts APIOptions) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Environment:        config.Test,
		JWTSecret:          TestJWTSecret,
		JWTTTL:             time.Hour,
		CORSAllowedOrigins: []string{"*"},
	}
	deps := api.Dependencies{
		Auth:                service.NewAuthService(db, cfg.JWTSecret, cfg.JWTTTL),
		Recipes:             service.NewRecipeService(db),
		Images:              opts.Images,
		CreationLimiter:     opts.CreationLimiter,
		ModificationLimiter: opts.ModificationLimiter,
		Readiness: map[string]api.Pinger{
			"database": func(ctx context.Context) error { return database.Ping(ctx, db) },
		},
	}

	srv := httptest.NewServer(router.SetupRouter(cfg, deps, prometheus.NewRegistry()))
	t.Cleanup(srv.Close)
	return srv
}
