package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CI", "ENV", "SERVER_HOST", "SERVER_PORT", "DB_DRIVER", "DB_HOST", "DB_PORT",
		"DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSL_MODE", "SQLITE_PATH", "MIGRATIONS_DIR",
		"REDIS_URL", "REDIS_HOST", "REDIS_PORT", "REDIS_PASSWORD", "REDIS_DB",
		"JWT_SECRET", "JWT_TTL", "CORS_ALLOWED_ORIGINS", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
		"S3_BUCKET_NAME", "AWS_REGION", "S3_PUBLIC_BASE_URL", "SHUTDOWN_TIMEOUT",
		"TEST_DB_PASSWORD", "TEST_JWT_SECRET", "TEST_REDIS_PASSWORD",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Setenv("SECRETS_DIR", t.TempDir())
}

func TestLoadConfigWithDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, Development, cfg.Environment)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "recipes.db", cfg.SQLitePath)
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.Equal(t, DefaultJWTSecret, cfg.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.RedisEnabled())
	assert.False(t, cfg.StorageEnabled())
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PASSWORD", "postgres")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_TTL", "1h")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("RATE_LIMIT_RPS", "2.5")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "host=db port=5432 user=postgres password=postgres dbname=recipes sslmode=disable", cfg.PostgresDSN())
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, time.Hour, cfg.JWTTTL)
	assert.True(t, cfg.RedisEnabled())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 2.5, cfg.RateLimitRPS)
}

func TestLoadConfigReadsSecretFiles(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("SECRETS_DIR", dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jwt_secret"), []byte("from-file\n"), 0o600))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.JWTSecret)
}

func TestLoadConfigRejectsBadDuration(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_TTL", "forever")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "JWT_TTL")
}

func TestValidateConfigProduction(t *testing.T) {
	cfg := &Config{
		Environment:     Production,
		ServerPort:      "8080",
		DBDriver:        "postgres",
		DBHost:          "db",
		DBName:          "recipes",
		DBUser:          "postgres",
		JWTSecret:       DefaultJWTSecret,
		JWTTTL:          time.Hour,
		ShutdownTimeout: time.Second,
	}

	err := ValidateConfig(cfg)
	require.Error(t, err)

	var fields []string
	for _, e := range err.(interface{ Unwrap() []error }).Unwrap() {
		var ve ValidationError
		require.True(t, errors.As(e, &ve))
		fields = append(fields, ve.Field)
	}
	assert.ElementsMatch(t, []string{"JWT_SECRET", "DB_PASSWORD"}, fields)

	cfg.JWTSecret = "a-real-secret"
	cfg.DBPassword = "pw"
	assert.NoError(t, ValidateConfig(cfg))
}

func TestValidateConfigUnknownDriver(t *testing.T) {
	cfg := &Config{
		ServerPort:      "80",
		DBDriver:        "mongo",
		JWTSecret:       "x",
		JWTTTL:          time.Hour,
		ShutdownTimeout: time.Second,
	}
	assert.ErrorContains(t, ValidateConfig(cfg), "DB_DRIVER")
}

func TestValidateConfigCORSOrigins(t *testing.T) {
	cfg := &Config{
		ServerPort:      "8080",
		DBDriver:        "sqlite",
		SQLitePath:      ":memory:",
		JWTSecret:       "x",
		JWTTTL:          time.Hour,
		ShutdownTimeout: time.Second,
	}
	assert.NoError(t, ValidateConfig(cfg), "no origins disables CORS")

	cfg.CORSAllowedOrigins = []string{"*"}
	assert.NoError(t, ValidateConfig(cfg))

	cfg.CORSAllowedOrigins = []string{"https://a.example", "localhost:3000"}
	assert.ErrorContains(t, ValidateConfig(cfg), "CORS_ALLOWED_ORIGINS")
}

func TestLoadConfigEmptyCORSOrigins(t *testing.T) {
	clearEnv(t)
	t.Setenv("CORS_ALLOWED_ORIGINS", ",")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Empty(t, cfg.CORSAllowedOrigins)
}

func TestGetEnvironment(t *testing.T) {
	clearEnv(t)
	assert.Equal(t, Development, GetEnvironment())

	t.Setenv("ENV", "production")
	assert.Equal(t, Production, GetEnvironment())

	t.Setenv("CI", "true")
	assert.Equal(t, CI, GetEnvironment())
}

func TestS3ObjectURL(t *testing.T) {
	s := &S3Config{BucketName: "bucket", Region: "eu-west-1"}
	assert.Equal(t, "https://bucket.s3.eu-west-1.amazonaws.com/recipes/a.png", s.ObjectURL("recipes/a.png"))

	s.PublicBaseURL = "https://cdn.example"
	assert.Equal(t, "https://cdn.example/recipes/a.png", s.ObjectURL("recipes/a.png"))
}
