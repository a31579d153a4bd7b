// Package config loads process configuration from the environment.
// A .env file in the working directory is read first when present.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the settings shared by the server, CLI and tooling binaries.
type Config struct {
	Port           string
	DatabaseURL    string
	DBMaxConns     int32
	DBMinConns     int32
	JWTSecret      string
	AllowedOrigins string
	LogLevel       string
	LogFilePath    string
	RunMigrations  bool
	RequestTimeout time.Duration

	// BootstrapAdminUsername and BootstrapAdminPassword create the first admin
	// account on startup when both are set and the username is not taken yet.
	BootstrapAdminUsername string
	BootstrapAdminPassword string
}

// Load reads the environment into a Config. Missing required keys are
// reported together in a single error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:                   getEnvString("SERVER_PORT", "8080"),
		DatabaseURL:            os.Getenv("DATABASE_URL"),
		DBMaxConns:             int32(getEnvInt("DB_MAX_CONNS", 10)),
		DBMinConns:             int32(getEnvInt("DB_MIN_CONNS", 2)),
		JWTSecret:              os.Getenv("JWT_SECRET"),
		AllowedOrigins:         os.Getenv("ALLOWED_ORIGINS"),
		LogLevel:               getEnvString("LOG_LEVEL", "info"),
		LogFilePath:            os.Getenv("LOG_FILE_PATH"),
		RunMigrations:          getEnvBool("RUN_MIGRATIONS", true),
		RequestTimeout:         getEnvDuration("REQUEST_TIMEOUT", 15*time.Second),
		BootstrapAdminUsername: os.Getenv("BOOTSTRAP_ADMIN_USERNAME"),
		BootstrapAdminPassword: os.Getenv("BOOTSTRAP_ADMIN_PASSWORD"),
	}

	var missing []string
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return cfg, nil
}

// LoadDatabaseURL returns DATABASE_URL for tools that need nothing else.
func LoadDatabaseURL() (string, error) {
	_ = godotenv.Load()
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		return "", fmt.Errorf("DATABASE_URL environment variable not set")
	}
	return url, nil
}

func getEnvString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
		if i, err := strconv.Atoi(val); err == nil {
			return time.Duration(i) * time.Second
		}
	}
	return fallback
}
