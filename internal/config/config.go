package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	GoEnv string `env:"GO_ENV" default:"development"`

	// Media server
	ServerURL   string        `env:"SERVER_URL" default:"http://localhost:8080"`
	AccessToken string        `env:"ACCESS_TOKEN"` // static api key for image/stream URLs
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" default:"10s"`

	// External metadata provider (TMDB-compatible)
	MetadataAPIURL string `env:"METADATA_API_URL" default:"https://api.themoviedb.org/3"`
	MetadataAPIKey string `env:"METADATA_API_KEY"`
	// Requests per second allowed against the metadata provider
	MetadataRateLimit int `env:"METADATA_RATE_LIMIT" default:"4"`

	// Playback
	MpvPath string `env:"MPV_PATH" default:"mpv"`

	// Development
	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Try to load .env file from the working directory
	err := godotenv.Load(".env")
	if err != nil {
		// If .env file doesn't exist, that's OK - we can still use system env vars
		_ = err
	}

	config := &Config{}

	if err := loadEnvString(&config.GoEnv, "GO_ENV", "development"); err != nil {
		return nil, err
	}

	// Media server
	if err := loadEnvString(&config.ServerURL, "SERVER_URL", "http://localhost:8080"); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.AccessToken, "ACCESS_TOKEN", ""); err != nil {
		return nil, err
	}
	if err := loadEnvDuration(&config.HTTPTimeout, "HTTP_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}

	// Metadata provider
	if err := loadEnvString(&config.MetadataAPIURL, "METADATA_API_URL", "https://api.themoviedb.org/3"); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.MetadataAPIKey, "METADATA_API_KEY", ""); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.MetadataRateLimit, "METADATA_RATE_LIMIT", 4); err != nil {
		return nil, err
	}

	// Playback
	if err := loadEnvString(&config.MpvPath, "MPV_PATH", "mpv"); err != nil {
		return nil, err
	}

	// Development
	if err := loadEnvString(&config.LogLevel, "LOG_LEVEL", "info"); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.LogFormat, "LOG_FORMAT", "text"); err != nil {
		return nil, err
	}

	return config, nil
}

// Helper functions for type conversion and validation
func loadEnvString(target *string, key, defaultValue string) error {
	if value := os.Getenv(key); value != "" {
		*target = value
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvInt(target *int, key string, defaultValue int) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvDuration(target *time.Duration, key string, defaultValue time.Duration) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

// Validate performs validation on the loaded configuration
func (c *Config) Validate() error {
	var errors []string

	if !strings.HasPrefix(c.ServerURL, "http://") && !strings.HasPrefix(c.ServerURL, "https://") {
		errors = append(errors, "SERVER_URL must start with http:// or https://")
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, c.LogLevel) {
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of: %s", strings.Join(validLogLevels, ", ")))
	}

	validLogFormats := []string{"text", "json"}
	if !contains(validLogFormats, c.LogFormat) {
		errors = append(errors, fmt.Sprintf("LOG_FORMAT must be one of: %s", strings.Join(validLogFormats, ", ")))
	}

	if c.MetadataRateLimit < 1 {
		errors = append(errors, "METADATA_RATE_LIMIT must be at least 1")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errors, "; "))
	}

	return nil
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// Helper function to check if slice contains a string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
