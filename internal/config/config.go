package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultAPIURL is the backend the campsite client talks to unless overridden
const DefaultAPIURL = "https://localhost:5151"

// Config holds all configuration for the application
type Config struct {
	// Backend API Configuration
	API APIConfig

	// Web frontend server configuration
	Server ServerConfig

	// Logging Configuration
	Logging LoggingConfig
}

// APIConfig holds the backend connection settings
type APIConfig struct {
	URL      string
	Timeout  time.Duration
	Insecure bool // Skip TLS verification (dev backend uses a self-signed certificate)
}

// ServerConfig holds web frontend settings
type ServerConfig struct {
	ListenAddr   string
	CORSOrigins  []string
	CookieSecure bool
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // json, console
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env files (fails silently if files don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	timeout, err := time.ParseDuration(getEnv("CAMPSITE_API_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid CAMPSITE_API_TIMEOUT: %w", err)
	}

	insecure, err := strconv.ParseBool(getEnv("CAMPSITE_API_INSECURE", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid CAMPSITE_API_INSECURE: %w", err)
	}

	cookieSecure, err := strconv.ParseBool(getEnv("COOKIE_SECURE", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid COOKIE_SECURE: %w", err)
	}

	return &Config{
		API: APIConfig{
			URL:      strings.TrimRight(getEnv("CAMPSITE_API_URL", DefaultAPIURL), "/"),
			Timeout:  timeout,
			Insecure: insecure,
		},
		Server: ServerConfig{
			ListenAddr:   getEnv("LISTEN_ADDR", ":8080"),
			CORSOrigins:  splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),
			CookieSecure: cookieSecure,
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
