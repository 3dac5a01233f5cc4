package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks the configuration against the requirements of its
// environment and returns every violation joined into one error.
func ValidateConfig(cfg *Config) error {
	var errs []error
	fail := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg})
	}

	if port, err := strconv.Atoi(cfg.ServerPort); err != nil || port <= 0 || port > 65535 {
		fail("SERVER_PORT", "must be a port number")
	}

	switch cfg.DBDriver {
	case "postgres":
		if cfg.DBHost == "" {
			fail("DB_HOST", "is required for postgres")
		}
		if cfg.DBName == "" {
			fail("DB_NAME", "is required for postgres")
		}
		if cfg.DBUser == "" {
			fail("DB_USER", "is required for postgres")
		}
	case "sqlite":
		if cfg.SQLitePath == "" {
			fail("SQLITE_PATH", "is required for sqlite")
		}
	default:
		fail("DB_DRIVER", "must be postgres or sqlite")
	}

	if cfg.JWTSecret == "" {
		fail("JWT_SECRET", "is required")
	}
	if cfg.JWTTTL <= 0 {
		fail("JWT_TTL", "must be positive")
	}
	if cfg.RateLimitRPS < 0 {
		fail("RATE_LIMIT_RPS", "must not be negative")
	}
	if cfg.RateLimitBurst < 0 {
		fail("RATE_LIMIT_BURST", "must not be negative")
	}
	if cfg.ShutdownTimeout <= 0 {
		fail("SHUTDOWN_TIMEOUT", "must be positive")
	}
	for _, origin := range cfg.CORSAllowedOrigins {
		if origin != "*" && !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			fail("CORS_ALLOWED_ORIGINS", fmt.Sprintf("origin %q must be * or start with http:// or https://", origin))
		}
	}

	if cfg.Environment == Production {
		if cfg.JWTSecret == DefaultJWTSecret {
			fail("JWT_SECRET", "must not be the development default in production")
		}
		if cfg.DBDriver == "postgres" && cfg.DBPassword == "" {
			fail("DB_PASSWORD", "is required in production")
		}
	}

	return errors.Join(errs...)
}
