// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the storefront client
type Config struct {
	App     AppConfig
	Server  ServerConfig
	Backend BackendConfig
	Storage StorageConfig
	Images  ImageConfig
	Logging LoggingConfig
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string
	Version     string
	Environment string
	Debug       bool
}

// ServerConfig contains configuration for the local HTTP facade
type ServerConfig struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	AllowedOrigins []string
}

// BackendConfig points at the external marketplace API
type BackendConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
}

// StorageConfig selects and tunes the durable key-value store
type StorageConfig struct {
	// Backend is one of "file", "memory" or "redis"
	Backend      string
	FilePath     string
	QuotaBytes   int64
	RedisHost    string
	RedisPort    string
	RedisPass    string
	RedisDB      int
	PoolSize     int
	MinIdleConns int
}

// ImageConfig bounds locally stored images
type ImageConfig struct {
	ShopCoverMaxWidth int
	ProductMaxWidth   int
	JPEGQuality       int
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	config := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Piata din Dumbro"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
			Debug:       getEnvAsBool("APP_DEBUG", true),
		},
		Server: ServerConfig{
			Port:           getEnv("APP_PORT", "8080"),
			ReadTimeout:    getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:   getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:    getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173", "http://localhost:3000"}),
		},
		Backend: BackendConfig{
			BaseURL:        getEnv("MARKET_API_URL", "https://piata-dumbravita-api-production.up.railway.app"),
			RequestTimeout: getEnvAsDuration("MARKET_API_TIMEOUT", 15*time.Second),
		},
		Storage: StorageConfig{
			Backend:      getEnv("STORAGE_BACKEND", "file"),
			FilePath:     getEnv("STORAGE_FILE_PATH", "data/local_store.json"),
			QuotaBytes:   getEnvAsInt64("STORAGE_QUOTA_BYTES", 5*1024*1024),
			RedisHost:    getEnv("REDIS_HOST", "localhost"),
			RedisPort:    getEnv("REDIS_PORT", "6379"),
			RedisPass:    getEnv("REDIS_PASSWORD", ""),
			RedisDB:      getEnvAsInt("REDIS_DB", 0),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 5),
		},
		Images: ImageConfig{
			ShopCoverMaxWidth: getEnvAsInt("IMAGE_SHOP_MAX_WIDTH", 1200),
			ProductMaxWidth:   getEnvAsInt("IMAGE_PRODUCT_MAX_WIDTH", 800),
			JPEGQuality:       getEnvAsInt("IMAGE_JPEG_QUALITY", 80),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "debug"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("MARKET_API_URL is required")
	}

	switch c.Storage.Backend {
	case "file", "memory", "redis":
	default:
		return fmt.Errorf("STORAGE_BACKEND must be one of file, memory, redis (got %q)", c.Storage.Backend)
	}

	if c.Storage.Backend == "file" && c.Storage.FilePath == "" {
		return fmt.Errorf("STORAGE_FILE_PATH is required for the file backend")
	}
	if c.Storage.Backend == "redis" && c.Storage.RedisHost == "" {
		return fmt.Errorf("REDIS_HOST is required for the redis backend")
	}

	if c.Storage.QuotaBytes <= 0 {
		return fmt.Errorf("STORAGE_QUOTA_BYTES must be positive")
	}

	if c.Images.JPEGQuality < 1 || c.Images.JPEGQuality > 100 {
		return fmt.Errorf("IMAGE_JPEG_QUALITY must be between 1 and 100")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("APP_PORT is required")
	}

	return nil
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Storage.RedisHost, c.Storage.RedisPort)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}
