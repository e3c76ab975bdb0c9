// Package config provides application configuration management through environment variables.
package config

import (
	"os"
	"path/filepath"

	"github.com/allisson/go-env"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// Server configuration
	ServerHost   string
	ServerPort   int
	MetricsHost  string
	MetricsPort  int

	// CORS (disabled by default; this API is server-to-server)
	CORSEnabled      bool
	CORSAllowOrigins string

	// Storage configuration
	StorageDir string
	CacheDir   string
	AuditDir   string

	// Cache configuration
	CacheTier1Capacity int

	// Encryption key, base64-decoded; empty when no key is configured.
	EncryptionKey []byte

	// Logging
	LogLevel string

	// Rate limiting
	AuthenticatedRPS   float64
	UnauthenticatedRPS float64
	RateLimitBurst     int
	BanThreshold       int
	BanDurationSeconds int

	// TLS policy
	RequireTLS    bool
	MinTLSVersion string

	// Security policy
	IPBlocklist        []string
	EndpointBlocklist  []string
	EndpointAllowlist  []string
	MaxRequestBodySize int64
}

// Load loads configuration from environment variables.
// It first attempts to load a .env file by searching recursively from the current directory
// up to the root directory. If no .env file is found, it continues with existing environment variables.
func Load() *Config {
	loadDotEnv()

	storageDir := env.GetString("LLM_CONFIG_STORAGE_DIR", ".llm-config")

	return &Config{
		ServerHost:  env.GetString("SERVER_HOST", "0.0.0.0"),
		ServerPort:  env.GetInt("SERVER_PORT", 8080),
		MetricsHost: env.GetString("LLM_CONFIG_METRICS_HOST", "0.0.0.0"),
		MetricsPort: env.GetInt("LLM_CONFIG_METRICS_PORT", 9090),

		CORSEnabled:      env.GetBool("LLM_CONFIG_CORS_ENABLED", false),
		CORSAllowOrigins: env.GetString("LLM_CONFIG_CORS_ALLOW_ORIGINS", ""),

		StorageDir: storageDir,
		CacheDir:   env.GetString("LLM_CONFIG_CACHE_DIR", filepath.Join(storageDir, "cache")),
		AuditDir:   env.GetString("LLM_CONFIG_AUDIT_DIR", filepath.Join(storageDir, "audit")),

		CacheTier1Capacity: env.GetInt("LLM_CONFIG_CACHE_CAPACITY", 1000),

		EncryptionKey: env.GetBase64ToBytes("LLM_CONFIG_KEY", []byte("")),

		LogLevel: env.GetString("LOG_LEVEL", "info"),

		AuthenticatedRPS:   float64(env.GetInt("LLM_CONFIG_AUTHENTICATED_RPS", 100)),
		UnauthenticatedRPS: float64(env.GetInt("LLM_CONFIG_UNAUTHENTICATED_RPS", 10)),
		RateLimitBurst:     env.GetInt("LLM_CONFIG_RATE_LIMIT_BURST", 20),
		BanThreshold:       env.GetInt("LLM_CONFIG_BAN_THRESHOLD", 5),
		BanDurationSeconds: env.GetInt("LLM_CONFIG_BAN_DURATION_SECONDS", 300),

		RequireTLS:    env.GetBool("LLM_CONFIG_REQUIRE_TLS", false),
		MinTLSVersion: env.GetString("LLM_CONFIG_MIN_TLS_VERSION", ""),

		IPBlocklist:        env.GetStringSlice("LLM_CONFIG_IP_BLOCKLIST", ",", []string{}),
		EndpointBlocklist:  env.GetStringSlice("LLM_CONFIG_ENDPOINT_BLOCKLIST", ",", []string{}),
		EndpointAllowlist:  env.GetStringSlice("LLM_CONFIG_ENDPOINT_ALLOWLIST", ",", []string{}),
		MaxRequestBodySize: int64(env.GetInt("LLM_CONFIG_MAX_REQUEST_BODY_SIZE", 1<<20)),
	}
}

// GetGinMode maps LogLevel to a gin mode: debug logging runs gin in debug
// mode, every other level runs it in release mode.
func (c *Config) GetGinMode() string {
	if c.LogLevel == "debug" {
		return "debug"
	}
	return "release"
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
			break
		}
		dir = parent
	}
}
