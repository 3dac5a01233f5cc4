package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultJWTSecret is only acceptable outside production.
const DefaultJWTSecret = "dev-secret-change-me"

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerPort      string
	ServerHost      string
	ShutdownTimeout time.Duration

	// Database configuration
	DBDriver      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	SQLitePath    string
	MigrationsDir string

	// Redis configuration
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// JWT configuration
	JWTSecret string
	JWTTTL    time.Duration

	// HTTP edge
	CORSAllowedOrigins []string
	RateLimitRPS       float64
	RateLimitBurst     int

	// Image storage
	S3BucketName    string
	AWSRegion       string
	S3PublicBaseURL string
}

// LoadConfig creates a new Config instance from an optional .env file,
// environment variables and Docker secrets, then validates it.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	env := GetEnvironment()
	cfg := &Config{Environment: env}

	switch env {
	case CI:
		loadCISecrets(cfg)
	case Development, Test, Production:
		loadSecrets(cfg)
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	if err := loadSettings(cfg); err != nil {
		return nil, err
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func loadSettings(cfg *Config) error {
	defaultDriver := "sqlite"
	if cfg.Environment == Production || cfg.Environment == CI {
		defaultDriver = "postgres"
	}

	cfg.ServerHost = getEnv("SERVER_HOST", "0.0.0.0")
	cfg.ServerPort = getEnv("SERVER_PORT", "8080")
	cfg.DBDriver = strings.ToLower(getEnv("DB_DRIVER", defaultDriver))
	cfg.DBHost = getEnv("DB_HOST", "localhost")
	cfg.DBPort = getEnv("DB_PORT", "5432")
	cfg.DBUser = getEnv("DB_USER", "postgres")
	cfg.DBName = getEnv("DB_NAME", "recipes")
	cfg.DBSSLMode = getEnv("DB_SSL_MODE", "disable")
	cfg.SQLitePath = getEnv("SQLITE_PATH", "recipes.db")
	cfg.MigrationsDir = getEnv("MIGRATIONS_DIR", "migrations")
	cfg.RedisURL = getEnv("REDIS_URL", "")
	cfg.RedisHost = getEnv("REDIS_HOST", "")
	cfg.RedisPort = getEnv("REDIS_PORT", "6379")
	cfg.S3BucketName = getEnv("S3_BUCKET_NAME", "")
	cfg.AWSRegion = getEnv("AWS_REGION", "us-east-1")
	cfg.S3PublicBaseURL = strings.TrimRight(getEnv("S3_PUBLIC_BASE_URL", ""), "/")
	cfg.CORSAllowedOrigins = splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"))

	if cfg.JWTSecret == "" && cfg.Environment != Production {
		cfg.JWTSecret = DefaultJWTSecret
	}

	var err error
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return err
	}
	if cfg.RateLimitBurst, err = getInt("RATE_LIMIT_BURST", 50); err != nil {
		return err
	}
	if cfg.RateLimitRPS, err = getFloat("RATE_LIMIT_RPS", 20); err != nil {
		return err
	}
	if cfg.JWTTTL, err = getDuration("JWT_TTL", 24*time.Hour); err != nil {
		return err
	}
	if cfg.ShutdownTimeout, err = getDuration("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return err
	}
	return nil
}

// loadCISecrets reads secrets from the CI environment only.
func loadCISecrets(cfg *Config) {
	cfg.DBPassword = firstNonEmpty(os.Getenv("DB_PASSWORD"), os.Getenv("TEST_DB_PASSWORD"))
	cfg.JWTSecret = firstNonEmpty(os.Getenv("JWT_SECRET"), os.Getenv("TEST_JWT_SECRET"))
	cfg.RedisPassword = firstNonEmpty(os.Getenv("REDIS_PASSWORD"), os.Getenv("TEST_REDIS_PASSWORD"))
}

// loadSecrets prefers environment variables and falls back to Docker secrets.
func loadSecrets(cfg *Config) {
	cfg.DBPassword = firstNonEmpty(os.Getenv("DB_PASSWORD"), readSecret("db_password"))
	cfg.JWTSecret = firstNonEmpty(os.Getenv("JWT_SECRET"), readSecret("jwt_secret"))
	cfg.RedisPassword = firstNonEmpty(os.Getenv("REDIS_PASSWORD"), readSecret("redis_password"))
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// PostgresDSN builds the connection string for the postgres driver.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// RedisEnabled reports whether a Redis endpoint is configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

// StorageEnabled reports whether recipe images can be uploaded.
func (c *Config) StorageEnabled() bool {
	return c.S3BucketName != ""
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func getFloat(key string, fallback float64) (float64, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return f, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// LogSummary prints the non-secret settings at startup.
func (c *Config) LogSummary() {
	log.Printf("[Config] env=%s addr=%s db=%s redis=%t storage=%t cors=%v",
		c.Environment, c.Addr(), c.DBDriver, c.RedisEnabled(), c.StorageEnabled(), c.CORSAllowedOrigins)
}
