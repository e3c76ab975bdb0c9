package config

import (
	"os"
	"path/filepath"
	"testing"

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
				assert.Equal(t, "0.0.0.0", cfg.MetricsHost)
				assert.Equal(t, 9090, cfg.MetricsPort)
				assert.Equal(t, "info", cfg.LogLevel)
				assert.Equal(t, false, cfg.CORSEnabled)
				assert.Equal(t, "", cfg.CORSAllowOrigins)
				assert.Equal(t, ".llm-config", cfg.StorageDir)
				assert.Equal(t, filepath.Join(".llm-config", "cache"), cfg.CacheDir)
				assert.Equal(t, filepath.Join(".llm-config", "audit"), cfg.AuditDir)
				assert.Equal(t, 1000, cfg.CacheTier1Capacity)
				assert.Equal(t, 100.0, cfg.AuthenticatedRPS)
				assert.Equal(t, 10.0, cfg.UnauthenticatedRPS)
				assert.Equal(t, 20, cfg.RateLimitBurst)
				assert.Equal(t, 5, cfg.BanThreshold)
				assert.Equal(t, 300, cfg.BanDurationSeconds)
				assert.Equal(t, false, cfg.RequireTLS)
				assert.Equal(t, "", cfg.MinTLSVersion)
				assert.Equal(t, []string{}, cfg.IPBlocklist)
				assert.Equal(t, []string{}, cfg.EndpointBlocklist)
				assert.Equal(t, []string{}, cfg.EndpointAllowlist)
				assert.Equal(t, int64(1<<20), cfg.MaxRequestBodySize)
			},
		},
		{
			name: "load custom server configuration",
			envVars: map[string]string{
				"SERVER_HOST": "localhost",
				"SERVER_PORT": "9091",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "localhost", cfg.ServerHost)
				assert.Equal(t, 9091, cfg.ServerPort)
			},
		},
		{
			name: "load custom storage configuration",
			envVars: map[string]string{
				"LLM_CONFIG_STORAGE_DIR": "/data/configs",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/data/configs", cfg.StorageDir)
				assert.Equal(t, filepath.Join("/data/configs", "cache"), cfg.CacheDir)
				assert.Equal(t, filepath.Join("/data/configs", "audit"), cfg.AuditDir)
			},
		},
		{
			name: "load explicit cache and audit directories",
			envVars: map[string]string{
				"LLM_CONFIG_CACHE_DIR": "/var/cache/llm-config",
				"LLM_CONFIG_AUDIT_DIR": "/var/log/llm-config-audit",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/var/cache/llm-config", cfg.CacheDir)
				assert.Equal(t, "/var/log/llm-config-audit", cfg.AuditDir)
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
		{
			name: "load custom rate limit configuration",
			envVars: map[string]string{
				"LLM_CONFIG_AUTHENTICATED_RPS":   "200",
				"LLM_CONFIG_UNAUTHENTICATED_RPS": "5",
				"LLM_CONFIG_RATE_LIMIT_BURST":    "10",
				"LLM_CONFIG_BAN_THRESHOLD":       "3",
				"LLM_CONFIG_BAN_DURATION_SECONDS": "600",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 200.0, cfg.AuthenticatedRPS)
				assert.Equal(t, 5.0, cfg.UnauthenticatedRPS)
				assert.Equal(t, 10, cfg.RateLimitBurst)
				assert.Equal(t, 3, cfg.BanThreshold)
				assert.Equal(t, 600, cfg.BanDurationSeconds)
			},
		},
		{
			name: "load custom CORS configuration",
			envVars: map[string]string{
				"LLM_CONFIG_CORS_ENABLED":       "true",
				"LLM_CONFIG_CORS_ALLOW_ORIGINS": "https://example.com,https://app.example.com",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, true, cfg.CORSEnabled)
				assert.Equal(t, "https://example.com,https://app.example.com", cfg.CORSAllowOrigins)
			},
		},
		{
			name: "load custom metrics configuration",
			envVars: map[string]string{
				"LLM_CONFIG_METRICS_HOST": "127.0.0.1",
				"LLM_CONFIG_METRICS_PORT": "9999",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "127.0.0.1", cfg.MetricsHost)
				assert.Equal(t, 9999, cfg.MetricsPort)
			},
		},
		{
			name: "load custom TLS policy",
			envVars: map[string]string{
				"LLM_CONFIG_REQUIRE_TLS":       "true",
				"LLM_CONFIG_MIN_TLS_VERSION":   "1.2",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, true, cfg.RequireTLS)
				assert.Equal(t, "1.2", cfg.MinTLSVersion)
			},
		},
		{
			name: "load custom security policy lists",
			envVars: map[string]string{
				"LLM_CONFIG_IP_BLOCKLIST":          "10.0.0.1,10.0.0.2",
				"LLM_CONFIG_ENDPOINT_BLOCKLIST":    "/admin*",
				"LLM_CONFIG_ENDPOINT_ALLOWLIST":    "/api/v1/*",
				"LLM_CONFIG_MAX_REQUEST_BODY_SIZE": "2048",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, cfg.IPBlocklist)
				assert.Equal(t, []string{"/admin*"}, cfg.EndpointBlocklist)
				assert.Equal(t, []string{"/api/v1/*"}, cfg.EndpointAllowlist)
				assert.Equal(t, int64(2048), cfg.MaxRequestBodySize)
			},
		},
		{
			name: "load encryption key",
			envVars: map[string]string{
				"LLM_CONFIG_KEY": "MDEyMzQ1Njc4OTAxMjM0NTY3ODkwMTIzNDU2Nzg5MDE=",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 32, len(cfg.EncryptionKey))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
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

func TestGetGinMode(t *testing.T) {
	tests := []struct {
		logLevel string
		expected string
	}{
		{"debug", "debug"},
		{"info", "release"},
		{"warn", "release"},
		{"error", "release"},
		{"unknown", "release"},
		{"", "release"},
	}

	for _, tt := range tests {
		t.Run(tt.logLevel, func(t *testing.T) {
			cfg := &Config{LogLevel: tt.logLevel}
			assert.Equal(t, tt.expected, cfg.GetGinMode())
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "config_test")
	require.NoError(t, err)
	defer func() {
		_ = os.RemoveAll(tmpDir)
	}()

	err = os.WriteFile(filepath.Join(tmpDir, ".env"), []byte("TEST_ENV_VAR=found"), 0600)
	require.NoError(t, err)

	childDir := filepath.Join(tmpDir, "child", "grandchild")
	err = os.MkdirAll(childDir, 0700)
	require.NoError(t, err)

	oldCwd, err := os.Getwd()
	require.NoError(t, err)
	defer func() {
		_ = os.Chdir(oldCwd)
	}()

	err = os.Chdir(childDir)
	require.NoError(t, err)

	loadDotEnv()

	assert.Equal(t, "found", os.Getenv("TEST_ENV_VAR"))
	err = os.Unsetenv("TEST_ENV_VAR")
	require.NoError(t, err)
}
