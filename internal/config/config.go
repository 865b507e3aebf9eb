package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const devAuthSecret = "dev-secret-change-me"

type Config struct {
	// Application
	AppEnv    string
	LogLevel  string
	LogFormat string
	Port      string

	// Storage
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	SQLitePath string
	MongoURI   string
	MongoDB    string

	// MigrateOnStart applies SQL migrations (or Mongo indexes) when the server boots.
	MigrateOnStart bool

	// Redis (empty host disables cache and rate limiting)
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	RabbitMQURL string

	// Auth
	AuthSecret   string
	AuthIssuer   string
	AuthAudience string

	// LLM
	GeminiAPIKey    string
	GeminiModel     string
	LLMTimeout      time.Duration
	InsightCacheTTL time.Duration

	// HTTP
	RateLimitPerMinute int
	CORSOrigins        []string

	StoreTimeout     time.Duration
	SnapshotCron     string
	TargetFocusHours float64
}

// Load reads the environment, after loading an optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:    getEnv("APP_ENV", "development"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
		Port:      getEnv("PORT", "8080"),

		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "lifeos_user"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "lifeos_db"),
		SQLitePath: getEnv("SQLITE_PATH", "lifeos.db"),
		MongoURI:   getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:    getEnv("MONGO_DB", "lifeos"),

		MigrateOnStart: getBoolEnv("MIGRATE_ON_START", true),

		RedisHost:     getEnv("REDIS_HOST", ""),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),

		RabbitMQURL: getEnv("RABBITMQ_URL", ""),

		AuthSecret:   getEnv("AUTH_SECRET", ""),
		AuthIssuer:   getEnv("AUTH_ISSUER", "lifeos"),
		AuthAudience: getEnv("AUTH_AUDIENCE", ""),

		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		LLMTimeout:      getDurationEnv("LLM_TIMEOUT", 15*time.Second),
		InsightCacheTTL: getDurationEnv("INSIGHT_CACHE_TTL", time.Hour),

		RateLimitPerMinute: getIntEnv("RATE_LIMIT_PER_MINUTE", 100),
		CORSOrigins:        getListEnv("CORS_ORIGINS", []string{"http://localhost:3000"}),

		StoreTimeout:     getDurationEnv("STORE_TIMEOUT", 5*time.Second),
		SnapshotCron:     getEnv("SNAPSHOT_CRON", "5 0 * * *"),
		TargetFocusHours: getFloatEnv("TARGET_FOCUS_HOURS", 6),
	}

	if cfg.AuthSecret == "" {
		if cfg.IsProduction() {
			return nil, errors.New("config: AUTH_SECRET is required in production")
		}
		cfg.AuthSecret = devAuthSecret
	}

	switch cfg.DBDriver {
	case "postgres", "sqlite", "mongo":
	default:
		return nil, fmt.Errorf("config: unsupported DB_DRIVER %q (postgres, sqlite or mongo)", cfg.DBDriver)
	}

	if cfg.TargetFocusHours <= 0 {
		return nil, fmt.Errorf("config: TARGET_FOCUS_HOURS must be positive, got %v", cfg.TargetFocusHours)
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// PostgresDSN builds the connection URL for the pgx driver.
func (c *Config) PostgresDSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

func (c *Config) RedisEnabled() bool {
	return c.RedisHost != ""
}

func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getListEnv splits a comma separated value, dropping blanks.
func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	list := []string{}
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			list = append(list, p)
		}
	}
	return list
}
