package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		validate func(t *testing.T, cfg *Config)
	}{
		{
			name:    "load default configuration",
			envVars: map[string]string{},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "0.0.0.0", cfg.ServerHost)
				assert.Equal(t, 8080, cfg.ServerPort)
				assert.Equal(t, "info", cfg.LogLevel)
				assert.Empty(t, cfg.AccessPolicyFile)
				assert.Zero(t, cfg.GuardTimeout)
				assert.Empty(t, cfg.AccessDeniedRoute)
				assert.Equal(t, RoleSourceHTTP, cfg.RoleSource)
				assert.Equal(t, "http://localhost:9000", cfg.RoleSourceURL)
				assert.Equal(t, 5*time.Second, cfg.RoleSourceTimeout)
				assert.Equal(t, 3, cfg.RoleSourceMaxRetries)
				assert.True(t, cfg.RateLimitEnabled)
				assert.Equal(t, 10.0, cfg.RateLimitRequestsPerSec)
				assert.Equal(t, 20, cfg.RateLimitBurst)
				assert.False(t, cfg.CORSEnabled)
				assert.True(t, cfg.MetricsEnabled)
				assert.Equal(t, "rolegate", cfg.MetricsNamespace)
				assert.Equal(t, 8081, cfg.MetricsPort)
			},
		},
		{
			name: "load custom server configuration",
			envVars: map[string]string{
				"SERVER_HOST": "localhost",
				"SERVER_PORT": "9090",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "localhost", cfg.ServerHost)
				assert.Equal(t, 9090, cfg.ServerPort)
			},
		},
		{
			name: "load custom access policy configuration",
			envVars: map[string]string{
				"ACCESS_POLICY_FILE":    "/etc/rolegate/policy.yaml",
				"GUARD_TIMEOUT_SECONDS": "3",
				"ACCESS_DENIED_ROUTE":   "/forbidden",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/etc/rolegate/policy.yaml", cfg.AccessPolicyFile)
				assert.Equal(t, 3*time.Second, cfg.GuardTimeout)
				assert.Equal(t, "/forbidden", cfg.AccessDeniedRoute)
			},
		},
		{
			name: "load static role source configuration",
			envVars: map[string]string{
				"ROLE_SOURCE":             "static",
				"ROLE_SOURCE_STATIC_FILE": "identities.yaml",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, RoleSourceStatic, cfg.RoleSource)
				assert.Equal(t, "identities.yaml", cfg.RoleSourceStaticFile)
			},
		},
		{
			name: "load custom http role source configuration",
			envVars: map[string]string{
				"ROLE_SOURCE_URL":             "https://auth.clinic.example",
				"ROLE_SOURCE_TIMEOUT_SECONDS": "2",
				"ROLE_SOURCE_MAX_RETRIES":     "0",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "https://auth.clinic.example", cfg.RoleSourceURL)
				assert.Equal(t, 2*time.Second, cfg.RoleSourceTimeout)
				assert.Equal(t, 0, cfg.RoleSourceMaxRetries)
			},
		},
		{
			name: "load custom rate limit and cors configuration",
			envVars: map[string]string{
				"RATE_LIMIT_ENABLED":          "false",
				"RATE_LIMIT_REQUESTS_PER_SEC": "2.5",
				"RATE_LIMIT_BURST":            "4",
				"CORS_ENABLED":                "true",
				"CORS_ALLOW_ORIGINS":          "https://app.clinic.example",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.False(t, cfg.RateLimitEnabled)
				assert.Equal(t, 2.5, cfg.RateLimitRequestsPerSec)
				assert.Equal(t, 4, cfg.RateLimitBurst)
				assert.True(t, cfg.CORSEnabled)
				assert.Equal(t, "https://app.clinic.example", cfg.CORSAllowOrigins)
			},
		},
		{
			name: "load custom log level",
			envVars: map[string]string{
				"LOG_LEVEL": "debug",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "debug", cfg.LogLevel)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Clear environment
			os.Clearenv()

			for key, value := range tt.envVars {
				err := os.Setenv(key, value)
				require.NoError(t, err)
			}

			cfg := Load()

			tt.validate(t, cfg)
		})
	}
}

func TestLoad_DotEnvDiscoveredUpward(t *testing.T) {
	os.Clearenv()

	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".env"), []byte("SERVER_PORT=7070\n"), 0o600))

	t.Chdir(nested)

	cfg := Load()
	assert.Equal(t, 7070, cfg.ServerPort)
}

func TestConfig_GetGinMode(t *testing.T) {
	tests := []struct {
		logLevel string
		expected string
	}{
		{logLevel: "debug", expected: "debug"},
		{logLevel: "info", expected: "release"},
		{logLevel: "warn", expected: "release"},
		{logLevel: "error", expected: "release"},
		{logLevel: "unknown", expected: "release"},
	}

	for _, tt := range tests {
		t.Run(tt.logLevel, func(t *testing.T) {
			cfg := &Config{LogLevel: tt.logLevel}
			assert.Equal(t, tt.expected, cfg.GetGinMode())
		})
	}
}
