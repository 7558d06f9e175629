package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Env       string
	LogLevel  string
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	OTEL      OTELConfig
	Assistant AssistantConfig
	Ranking   RankingConfig
	CORS      CORSConfig
	Cache     CacheConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	// Namespace prefixes cache keys
	Namespace string
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// AssistantConfig holds settings for the chat assistant
type AssistantConfig struct {
	// FactsPath points at a guide facts JSON file. Empty uses the embedded table.
	FactsPath string
	// RandomSeed fixes flavor text. Zero means unseeded.
	RandomSeed uint64
}

// RankingConfig holds defaults for proximity queries
type RankingConfig struct {
	NearbyRadiusMeters float64
	TourLimit          int
	HistoryLimit       int
}

// CORSConfig holds allowed origins for browser clients
type CORSConfig struct {
	AllowedOrigins []string
}

// CacheConfig holds cache warming settings
type CacheConfig struct {
	// WarmInterval re-warms the POI cache periodically. Zero warms once at startup.
	WarmInterval time.Duration
}

// Load loads configuration from environment variables.
// A .env file in the working directory is applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "navina"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:      getEnv("REDIS_HOST", "localhost"),
			Port:      getEnvAsInt("REDIS_PORT", 6379),
			Password:  getEnv("REDIS_PASSWORD", ""),
			DB:        getEnvAsInt("REDIS_DB", 0),
			Namespace: getEnv("REDIS_NAMESPACE", "navina"),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "navina-travel-guide"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
		Assistant: AssistantConfig{
			FactsPath:  getEnv("GUIDE_FACTS_PATH", ""),
			RandomSeed: uint64(getEnvAsInt("ASSISTANT_RANDOM_SEED", 0)),
		},
		Ranking: RankingConfig{
			NearbyRadiusMeters: getEnvAsFloat("NEARBY_RADIUS_METERS", 2000),
			TourLimit:          getEnvAsInt("TOUR_RECOMMENDATION_LIMIT", 5),
			HistoryLimit:       getEnvAsInt("CONVERSATION_HISTORY_LIMIT", 10),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS", []string{"*"}),
		},
		Cache: CacheConfig{
			WarmInterval: getEnvAsDuration("CACHE_WARM_INTERVAL", 10*time.Minute),
		},
	}

	if cfg.Ranking.NearbyRadiusMeters < 0 {
		return nil, fmt.Errorf("NEARBY_RADIUS_METERS must be >= 0, got %v", cfg.Ranking.NearbyRadiusMeters)
	}
	if cfg.Ranking.TourLimit < 0 {
		return nil, fmt.Errorf("TOUR_RECOMMENDATION_LIMIT must be >= 0, got %d", cfg.Ranking.TourLimit)
	}

	return cfg, nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
