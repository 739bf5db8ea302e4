// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Source kinds accepted by SOURCE_KIND.
const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
	SourceS3       = "s3"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
	Source   SourceConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" envDefault:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" envDefault:"8080"`

	// ReadTimeout is the maximum duration for reading a request (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`

	// WriteTimeout is the maximum duration for writing a response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" envDefault:"60s"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" envDefault:"true"`

	// RequestsPerMinute is the limit per client IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" envDefault:"100"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" envDefault:"true"`

	// RequireAPIKey guards /api routes with the X-API-Key header (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" envDefault:"false"`

	// APIKeys is a comma-separated list of accepted keys
	APIKeys []string `env:"API_KEYS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" envDefault:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" envDefault:"text"`
}

// SourceConfig selects and configures the record source.
type SourceConfig struct {
	// Kind is one of file, postgres, s3 (default: file)
	Kind string `env:"SOURCE_KIND" envDefault:"file"`

	// Path is the default dataset: a file path, table name, or object key
	Path string `env:"SOURCE_PATH" envDefault:"data/jobs.csv"`

	// Root confines file reads to this directory (default: current directory)
	Root string `env:"SOURCE_ROOT" envDefault:"."`

	// Locale selects header translation for file datasets: "" or "br"
	Locale string `env:"SOURCE_LOCALE"`

	// AllowedPaths lists the tables or object keys clients may request for
	// postgres and s3 kinds, besides Path. Entries ending in "/" are prefixes
	AllowedPaths []string `env:"SOURCE_ALLOWED_PATHS"`

	// Encoding of CSV datasets: utf-8, latin1, windows-1252 (default: utf-8)
	Encoding string `env:"SOURCE_ENCODING" envDefault:"utf-8"`

	// DatabaseURL is the PostgreSQL connection string (postgres kind only)
	DatabaseURL string `env:"DATABASE_URL"`

	// DBMaxConns is the maximum number of pooled connections (default: 4)
	DBMaxConns int `env:"DB_MAX_CONNS" envDefault:"4"`

	// S3Bucket holds dataset objects (s3 kind only)
	S3Bucket string `env:"S3_BUCKET"`

	// S3Region is the bucket region (default: us-east-1)
	S3Region string `env:"S3_REGION" envDefault:"us-east-1"`

	// S3Endpoint overrides the endpoint for S3-compatible stores such as MinIO
	S3Endpoint string `env:"S3_ENDPOINT"`

	// S3AccessKeyID and S3SecretKey are static credentials; when empty the
	// default AWS credential chain is used
	S3AccessKeyID string `env:"S3_ACCESS_KEY_ID"`
	S3SecretKey   string `env:"S3_SECRET_KEY"`

	// S3ForcePathStyle is required by most S3-compatible stores
	S3ForcePathStyle bool `env:"S3_FORCE_PATH_STYLE" envDefault:"false"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
