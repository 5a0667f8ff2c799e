package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Store backends accepted by STORE_DRIVER.
const (
	StoreSupabase = "supabase"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

type Config struct {
	Port        string
	APIKey      string
	FrontendURL string
	Environment string
	LogLevel    string
	// Persistence
	StoreDriver string
	SupabaseURL string
	SupabaseKey string
	DBUrl       string
	SQLitePath  string
	// Rate limiting (optional Redis backend)
	RedisURL           string
	RedisPassword      string
	RateLimitPerMinute int
	// Web UI
	WebPort       string
	APIBaseURL    string
	SessionSecret string
	CookieSecure  bool
}

func LoadConfig() (*Config, error) {
	// .env is optional; real deployments pass the environment directly
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		APIKey:      getEnv("API_KEY", ""),
		FrontendURL: strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:8501"), "/"),
		Environment: getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", StoreSupabase)),
		// PROJECT_URL and ANON_KEY are accepted as legacy names
		SupabaseURL: strings.TrimRight(getEnv("SUPABASE_URL", getEnv("PROJECT_URL", "")), "/"),
		SupabaseKey: getEnv("SUPABASE_KEY", getEnv("ANON_KEY", "")),
		DBUrl:       getEnv("DATABASE_URL", ""),
		SQLitePath:  getEnv("SQLITE_PATH", "jobtracker.db"),

		RedisURL:           getEnv("REDIS_URL", ""),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 120),

		WebPort:       getEnv("WEB_PORT", "8501"),
		APIBaseURL:    strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8080"), "/"),
		SessionSecret: getEnv("SESSION_SECRET", ""),
		CookieSecure:  getEnvBool("COOKIE_SECURE", false),
	}

	if cfg.APIKey == "" {
		log.Println("WARNING: API_KEY is missing. Protected endpoints will answer 500 until it is set.")
	}

	return cfg, nil
}

// Validate checks that the selected store backend has the settings it needs.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreSupabase:
		if c.SupabaseURL == "" || c.SupabaseKey == "" {
			return fmt.Errorf("store %q requires SUPABASE_URL and SUPABASE_KEY", c.StoreDriver)
		}
	case StorePostgres:
		if c.DBUrl == "" {
			return fmt.Errorf("store %q requires DATABASE_URL", c.StoreDriver)
		}
	case StoreSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("store %q requires SQLITE_PATH", c.StoreDriver)
		}
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.StoreDriver)
	}
	return nil
}

// IsProduction reports whether the process runs in release mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || os.Getenv("GIN_MODE") == "release"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}
