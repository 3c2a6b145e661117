package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Gateway kinds selectable through GATEWAY.
const (
	GatewaySupabase = "supabase"
	GatewayDatabase = "database"
)

// Config holds application configuration
type Config struct {
	// Server
	Port string
	Env  string

	// Data gateway
	Gateway string

	// Managed backend
	SupabaseURL      string
	SupabaseAnonKey  string
	OAuthRedirectURL string
	RequestTimeout   time.Duration

	// Self-hosted sessions (GATEWAY=database)
	JWTSecret        string
	JWTExpirationDur time.Duration
}

// Load loads configuration from environment variables. It fails when the
// selected gateway is missing a required connection parameter.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Port:             getEnv("PORT", "8080"),
		Env:              getEnv("ENV", "development"),
		Gateway:          strings.ToLower(getEnv("GATEWAY", GatewaySupabase)),
		SupabaseURL:      strings.TrimRight(os.Getenv("SUPABASE_URL"), "/"),
		SupabaseAnonKey:  os.Getenv("SUPABASE_ANON_KEY"),
		OAuthRedirectURL: os.Getenv("OAUTH_REDIRECT_URL"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
	}

	switch config.Gateway {
	case GatewaySupabase:
		if config.SupabaseURL == "" {
			return nil, fmt.Errorf("SUPABASE_URL is required")
		}
		if config.SupabaseAnonKey == "" {
			return nil, fmt.Errorf("SUPABASE_ANON_KEY is required")
		}
	case GatewayDatabase:
		if config.JWTSecret == "" {
			return nil, fmt.Errorf("JWT_SECRET is required when GATEWAY=%s", GatewayDatabase)
		}
	default:
		return nil, fmt.Errorf("invalid GATEWAY %q: must be %s or %s", config.Gateway, GatewaySupabase, GatewayDatabase)
	}

	timeout, err := parseDuration("REQUEST_TIMEOUT", getEnv("REQUEST_TIMEOUT", "15s"))
	if err != nil {
		return nil, err
	}
	config.RequestTimeout = timeout

	expDur, err := parseDuration("JWT_EXPIRES_IN", getEnv("JWT_EXPIRES_IN", "1h"))
	if err != nil {
		return nil, err
	}
	config.JWTExpirationDur = expDur

	return config, nil
}

func parseDuration(key, s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %v", key, d)
	}
	return d, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
