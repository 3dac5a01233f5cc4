// @title Recipe Share API
// @version 1.0
// @description Recipe sharing backend: accounts, recipes, tags and likes.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"log"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pageza/recipe-share/backend/config"
	_ "github.com/pageza/recipe-share/backend/docs"
	"github.com/pageza/recipe-share/backend/internal/api"
	"github.com/pageza/recipe-share/backend/internal/database"
	"github.com/pageza/recipe-share/backend/internal/middleware"
	"github.com/pageza/recipe-share/backend/internal/server"
	"github.com/pageza/recipe-share/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg.LogSummary()

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	if err := database.RunMigrations(db, cfg.MigrationsDir); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	authService := service.NewAuthService(db, cfg.JWTSecret, cfg.JWTTTL)
	deps := api.Dependencies{
		Auth:    authService,
		Recipes: service.NewRecipeService(db),
		Readiness: map[string]api.Pinger{
			"database": func(ctx context.Context) error { return database.Ping(ctx, db) },
		},
	}

	if cfg.RedisEnabled() {
		redisClient, err := database.NewRedisClient(cfg)
		if err != nil {
			// recipe limits fail open, so a missing Redis is not fatal
			log.Printf("[Main] Redis unavailable, per-user rate limits disabled: %v", err)
		} else {
			defer redisClient.Close()
			deps.CreationLimiter = middleware.NewRecipeCreationRateLimiter(redisClient)
			deps.ModificationLimiter = middleware.NewRecipeModificationRateLimiter(redisClient)
			deps.Readiness["redis"] = redisPinger(redisClient)
		}
	}

	if cfg.StorageEnabled() {
		s3Config, err := config.NewS3Config(context.Background(), cfg)
		if err != nil {
			log.Fatalf("Failed to initialize image storage: %v", err)
		}
		deps.Images = service.NewImageService(s3Config)
	} else {
		log.Println("[Main] S3_BUCKET_NAME not set, image uploads disabled")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		dbStatsCollector(db),
	)

	srv := server.New(cfg, deps, reg)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func redisPinger(client *redis.Client) api.Pinger {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}

func dbStatsCollector(db *gorm.DB) prometheus.Collector {
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database handle: %v", err)
	}
	return collectors.NewDBStatsCollector(sqlDB, "recipes")
}
