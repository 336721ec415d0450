package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the whole application configuration, populated from
// environment variables.
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Analytics AnalyticsConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret             string
	AccessTokenExpiry  int // minutes
	RefreshTokenExpiry int // hours
}

// AnalyticsConfig drives the buffered view tracker.
type AnalyticsConfig struct {
	BufferSize         int           // flush when the buffer reaches this many events
	FlushInterval      time.Duration // periodic flush regardless of size
	ForceFlushAttempts int           // flush attempts during shutdown drain
	ForceFlushDelay    time.Duration // wait between shutdown drain attempts
	CardCacheTTL       time.Duration // public card page cache
}

type RateLimitConfig struct {
	LoginAttempts  int64
	LoginWindow    time.Duration
	SignupAttempts int64
	SignupWindow   time.Duration
	ViewAttempts   int64
	ViewWindow     time.Duration
}

// Load reads config from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "BizCard API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "bizcard"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 25),
			MinConns: getEnvInt("DB_MIN_CONNS", 5),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:             getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
			AccessTokenExpiry:  getEnvInt("JWT_ACCESS_EXPIRY", 15),  // 15 minutes
			RefreshTokenExpiry: getEnvInt("JWT_REFRESH_EXPIRY", 72), // 3 days
		},
		Analytics: AnalyticsConfig{
			BufferSize:         getEnvInt("ANALYTICS_BUFFER_SIZE", 100),
			FlushInterval:      getEnvDuration("ANALYTICS_FLUSH_INTERVAL", 10*time.Second),
			ForceFlushAttempts: getEnvInt("ANALYTICS_FORCE_FLUSH_ATTEMPTS", 3),
			ForceFlushDelay:    getEnvDuration("ANALYTICS_FORCE_FLUSH_DELAY", time.Second),
			CardCacheTTL:       getEnvDuration("CARD_CACHE_TTL", 5*time.Minute),
		},
		RateLimit: RateLimitConfig{
			LoginAttempts:  int64(getEnvInt("RATE_LIMIT_LOGIN_ATTEMPTS", 5)),
			LoginWindow:    getEnvDuration("RATE_LIMIT_LOGIN_WINDOW", 15*time.Minute),
			SignupAttempts: int64(getEnvInt("RATE_LIMIT_SIGNUP_ATTEMPTS", 3)),
			SignupWindow:   getEnvDuration("RATE_LIMIT_SIGNUP_WINDOW", time.Hour),
			ViewAttempts:   int64(getEnvInt("RATE_LIMIT_VIEW_ATTEMPTS", 120)),
			ViewWindow:     getEnvDuration("RATE_LIMIT_VIEW_WINDOW", time.Minute),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.App.Environment == "production" && c.JWT.Secret == "your-secret-key-change-in-production" {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	if c.Analytics.BufferSize <= 0 {
		return fmt.Errorf("ANALYTICS_BUFFER_SIZE must be positive")
	}
	if c.Analytics.FlushInterval <= 0 {
		return fmt.Errorf("ANALYTICS_FLUSH_INTERVAL must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
