package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Port        string
	Environment string
	CORSOrigins string
	TablePrefix string
	// Storage
	DatabaseDriver string // postgres | sqlite
	DatabaseURL    string
	SQLitePath     string
	// Auth: JWKSURL wins over JWTSecret when both are set
	JWKSURL   string
	JWTSecret string
	// Event publishing (disabled when AMQPURL is empty)
	AMQPURL      string
	AMQPExchange string
	// Logging
	LogDir      string
	LogMaxFiles int
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:           getEnv("PORT", "8080"),
		Environment:    env,
		CORSOrigins:    getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix:    getTablePrefix(env),
		DatabaseDriver: getEnv("DATABASE_DRIVER", DriverSQLite),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		SQLitePath:     getEnv("SQLITE_PATH", "data/cabinets.db"),
		JWKSURL:        getEnv("JWKS_URL", ""),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		AMQPURL:        getEnv("AMQP_URL", ""),
		AMQPExchange:   getEnv("AMQP_EXCHANGE", "cabinets.events"),
		LogDir:         getEnv("LOG_DIR", ""),
		LogMaxFiles:    getEnvInt("LOG_MAX_FILES", 10),
	}
}

// Validate checks that the selected driver and verifier are configured
func (c *Config) Validate() error {
	if err := c.ValidateStorage(); err != nil {
		return err
	}

	if c.JWKSURL == "" && c.JWTSecret == "" {
		return fmt.Errorf("one of JWKS_URL or JWT_SECRET is required")
	}
	if c.JWKSURL == "" && c.Environment == "prod" {
		return fmt.Errorf("JWKS_URL is required in prod")
	}
	return nil
}

// ValidateStorage checks the database settings only
func (c *Config) ValidateStorage() error {
	switch c.DatabaseDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for driver %s", DriverPostgres)
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for driver %s", DriverSQLite)
		}
	default:
		return fmt.Errorf("unknown DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	return nil
}

// AllowedOrigins splits CORSOrigins on commas
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}
	return TablePrefixFor(env)
}

// TablePrefixFor returns the automatic table prefix of an environment
func TablePrefixFor(env string) string {
	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
