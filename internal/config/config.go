package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

type Config struct {
	Port     string
	LogLevel string

	DatabaseURL      string
	PostgresAddress  string
	PostgresPort     string
	PostgresDB       string
	PostgresUsername string
	PostgresPassword string
	PostgresSSLMode  string

	// RedisURL enables the request rate limiter when set. RedisOptions holds
	// it parsed and is nil when it is unset.
	RedisURL        string
	RedisOptions    *redis.Options
	RateLimitMax    int
	RateLimitWindow time.Duration

	// AuthJWTSecret enables bearer token identity when set.
	AuthJWTSecret string

	CORSOrigins     []string
	ShutdownTimeout time.Duration
}

func ProcessEnvironmentVariables() (*Config, error) {
	// A missing .env file is the normal case outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("godotenv.Load: %w", err)
	}

	// In all cases the default behavior should be for the docker compose setup
	env := Config{
		Port:             "5001",
		LogLevel:         "info",
		PostgresAddress:  "localhost",
		PostgresPort:     "5433",
		PostgresDB:       "postgres",
		PostgresUsername: "postgres",
		PostgresPassword: "testpassword",
		PostgresSSLMode:  "disable",
		RateLimitMax:     100,
		RateLimitWindow:  60 * time.Second,
		CORSOrigins:      []string{"*"},
		ShutdownTimeout:  10 * time.Second,
	}

	overrideString(&env.Port, "PORT")
	overrideString(&env.LogLevel, "LOG_LEVEL")
	overrideString(&env.DatabaseURL, "DATABASE_URL")
	overrideString(&env.PostgresAddress, "POSTGRES_ADDRESS")
	overrideString(&env.PostgresPort, "POSTGRES_PORT")
	overrideString(&env.PostgresDB, "POSTGRES_DB")
	overrideString(&env.PostgresUsername, "POSTGRES_USERNAME")
	overrideString(&env.PostgresPassword, "POSTGRES_PASSWORD")
	overrideString(&env.PostgresSSLMode, "POSTGRES_SSLMODE")
	overrideString(&env.RedisURL, "REDIS_URL")
	overrideString(&env.AuthJWTSecret, "AUTH_JWT_SECRET")

	if len(env.RedisURL) != 0 {
		redisOptions, err := redis.ParseURL(env.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("REDIS_URL: %w", err)
		}
		env.RedisOptions = redisOptions
	}

	if err := overrideInt(&env.RateLimitMax, "RATE_LIMIT_MAX"); err != nil {
		return nil, err
	}

	windowSeconds := int(env.RateLimitWindow / time.Second)
	if err := overrideInt(&windowSeconds, "RATE_LIMIT_WINDOW_SECONDS"); err != nil {
		return nil, err
	}
	env.RateLimitWindow = time.Duration(windowSeconds) * time.Second

	shutdownSeconds := int(env.ShutdownTimeout / time.Second)
	if err := overrideInt(&shutdownSeconds, "SHUTDOWN_TIMEOUT_SECONDS"); err != nil {
		return nil, err
	}
	env.ShutdownTimeout = time.Duration(shutdownSeconds) * time.Second

	if origins := os.Getenv("CORS_ORIGINS"); len(origins) != 0 {
		env.CORSOrigins = nil
		for _, origin := range strings.Split(origins, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				env.CORSOrigins = append(env.CORSOrigins, origin)
			}
		}
	}

	return &env, nil
}

// PostgresDSN returns DATABASE_URL when set, otherwise a URL built from the
// POSTGRES_* settings.
func (c *Config) PostgresDSN() string {
	if len(c.DatabaseURL) != 0 {
		return c.DatabaseURL
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.PostgresUsername, c.PostgresPassword),
		Host:     c.PostgresAddress + ":" + c.PostgresPort,
		Path:     "/" + c.PostgresDB,
		RawQuery: "sslmode=" + c.PostgresSSLMode,
	}
	return dsn.String()
}

func overrideString(target *string, key string) {
	if value := os.Getenv(key); len(value) != 0 {
		*target = value
	}
}

func overrideInt(target *int, key string) error {
	value := os.Getenv(key)
	if len(value) == 0 {
		return nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if parsed <= 0 {
		return fmt.Errorf("%s: must be positive, got %d", key, parsed)
	}

	*target = parsed
	return nil
}
