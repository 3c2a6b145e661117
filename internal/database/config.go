package database

import (
	"fmt"
	"os"
	"strings"
)

// Supported DB_DRIVER values.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
)

// Config holds database configuration
type Config struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	// Path is the database file for the sqlite driver.
	Path string
}

// NewConfig reads the database configuration from the environment.
func NewConfig() (*Config, error) {
	cfg := &Config{
		Driver:   strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
		Host:     getEnv("DB_HOST", "localhost"),
		User:     getEnv("DB_USER", "fitr"),
		Password: getEnv("DB_PASSWORD", "fitr"),
		DBName:   getEnv("DB_NAME", "fitr"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
		Path:     getEnv("DB_PATH", "fitr.db"),
	}

	switch cfg.Driver {
	case DriverPostgres:
		cfg.Port = getEnv("DB_PORT", "5432")
	case DriverMySQL:
		cfg.Port = getEnv("DB_PORT", "3306")
	case DriverSQLite:
	default:
		return nil, fmt.Errorf("invalid DB_DRIVER %q: must be %s, %s or %s", cfg.Driver, DriverPostgres, DriverSQLite, DriverMySQL)
	}

	return cfg, nil
}

// DSN returns the driver-specific connection string
func (c *Config) DSN() string {
	switch c.Driver {
	case DriverMySQL:
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			c.User, c.Password, c.Host, c.Port, c.DBName)
	case DriverSQLite:
		return c.Path
	default:
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
	}
}

// MigrationURL returns the postgres URL golang-migrate connects with.
func (c *Config) MigrationURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}
