// Package config provides application configuration through environment variables.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/allisson/go-env"
	"github.com/joho/godotenv"
)

// Role source kinds accepted by ROLE_SOURCE.
const (
	RoleSourceHTTP   = "http"
	RoleSourceStatic = "static"
)

// Config holds all application configuration.
type Config struct {
	// ServerHost is the host address the server will bind to.
	ServerHost string
	// ServerPort is the port number the server will listen on.
	ServerPort int

	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// AccessPolicyFile is an optional YAML policy document. Empty means the built-in policy.
	AccessPolicyFile string
	// GuardTimeout overrides the policy's route guard timeout when positive. Zero, the
	// default, keeps the policy's own value.
	GuardTimeout time.Duration
	// AccessDeniedRoute overrides the policy's access-denied route when not empty.
	AccessDeniedRoute string

	// RoleSource selects the AuthDataSource adapter ("http" or "static").
	RoleSource string
	// RoleSourceURL is the base URL of the HTTP role backend.
	RoleSourceURL string
	// RoleSourceTimeout bounds a single HTTP attempt against the role backend.
	RoleSourceTimeout time.Duration
	// RoleSourceMaxRetries is the number of retries after the first failed attempt.
	RoleSourceMaxRetries int
	// RoleSourceStaticFile is the YAML identity table used by the static role source.
	RoleSourceStaticFile string

	// RateLimitEnabled indicates whether per-session rate limiting is enabled.
	RateLimitEnabled bool
	// RateLimitRequestsPerSec is the number of requests allowed per second per session.
	RateLimitRequestsPerSec float64
	// RateLimitBurst is the burst size for per-session rate limiting.
	RateLimitBurst int

	// CORSEnabled indicates whether CORS is enabled.
	CORSEnabled bool
	// CORSAllowOrigins is a comma-separated list of allowed origins for CORS.
	CORSAllowOrigins string

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string
	// MetricsPort is the port number for the metrics server.
	MetricsPort int
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	// Try to load .env file recursively
	loadDotEnv()

	return &Config{
		// Server configuration
		ServerHost: env.GetString("SERVER_HOST", "0.0.0.0"),
		ServerPort: env.GetInt("SERVER_PORT", 8080),

		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// Access policy
		AccessPolicyFile:  env.GetString("ACCESS_POLICY_FILE", ""),
		GuardTimeout:      env.GetDuration("GUARD_TIMEOUT_SECONDS", 0, time.Second),
		AccessDeniedRoute: env.GetString("ACCESS_DENIED_ROUTE", ""),

		// Role source
		RoleSource:           env.GetString("ROLE_SOURCE", RoleSourceHTTP),
		RoleSourceURL:        env.GetString("ROLE_SOURCE_URL", "http://localhost:9000"),
		RoleSourceTimeout:    env.GetDuration("ROLE_SOURCE_TIMEOUT_SECONDS", 5, time.Second),
		RoleSourceMaxRetries: env.GetInt("ROLE_SOURCE_MAX_RETRIES", 3),
		RoleSourceStaticFile: env.GetString("ROLE_SOURCE_STATIC_FILE", ""),

		// Rate Limiting (per session)
		RateLimitEnabled:        env.GetBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequestsPerSec: env.GetFloat64("RATE_LIMIT_REQUESTS_PER_SEC", 10.0),
		RateLimitBurst:          env.GetInt("RATE_LIMIT_BURST", 20),

		// CORS
		CORSEnabled:      env.GetBool("CORS_ENABLED", false),
		CORSAllowOrigins: env.GetString("CORS_ALLOW_ORIGINS", ""),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "rolegate"),
		MetricsPort:      env.GetInt("METRICS_PORT", 8081),
	}
}

// GetGinMode returns the appropriate Gin mode based on log level.
func (c *Config) GetGinMode() string {
	switch c.LogLevel {
	case "debug":
		return "debug"
	default:
		return "release"
	}
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}
}
