package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Load reads configuration from environment variables.
// It applies defaults for unset values and validates the result.
// Returns an error if parsing or validation fails.
func Load() (*Config, error) {
	cfg, err := Parse()
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// Parse reads configuration from environment variables and applies defaults
// without validating. Tools that use only part of the configuration validate
// that part themselves.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}
	return cfg, nil
}

// MustLoad loads configuration and panics on error.
// Use this only in main() where early termination is desired.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT (%d) must be 1-65535", c.Server.Port))
	}
	if c.Server.ReadTimeout < 0 {
		errs = append(errs, "SERVER_READ_TIMEOUT must be non-negative")
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, "SERVER_SHUTDOWN_TIMEOUT must be positive")
	}
	if c.Server.RequestTimeout <= 0 {
		errs = append(errs, "SERVER_REQUEST_TIMEOUT must be positive")
	}

	// Rate limit validation
	if c.Rate.Enabled && c.Rate.RequestsPerMinute <= 0 {
		errs = append(errs, "RATE_LIMIT_REQUESTS_PER_MINUTE must be positive when rate limiting is enabled")
	}

	// Security validation
	if c.Security.RequireAPIKey && len(c.Security.APIKeys) == 0 {
		errs = append(errs, "REQUIRE_API_KEY is true but API_KEYS is empty; configure at least one API key or disable auth")
	}

	// Source validation
	if (c.Source.Kind == "" || strings.EqualFold(c.Source.Kind, SourceFile)) && c.Source.Root == "" {
		errs = append(errs, "SOURCE_ROOT is required when SOURCE_KIND=file")
	}
	errs = append(errs, c.Source.problems()...)

	// Logging validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// String returns a safe string representation of the config for logging.
// Credentials are masked.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString(fmt.Sprintf("Server: {Host: %q, Port: %d}, ", c.Server.Host, c.Server.Port))
	b.WriteString(fmt.Sprintf("Rate: {Enabled: %v, RequestsPerMinute: %d}, ",
		c.Rate.Enabled, c.Rate.RequestsPerMinute))
	b.WriteString(fmt.Sprintf("Security: {TrustedProxies: %v, RequireAPIKey: %v, APIKeys: %d configured}, ",
		c.Security.TrustedProxies, c.Security.RequireAPIKey, len(c.Security.APIKeys)))
	b.WriteString(fmt.Sprintf("Source: {Kind: %q, Path: %q, Root: %q, Locale: %q, AllowedPaths: %v, ",
		c.Source.Kind, c.Source.Path, c.Source.Root, c.Source.Locale, c.Source.AllowedPaths))
	b.WriteString(fmt.Sprintf("DatabaseURL: %s, S3Bucket: %q, S3SecretKey: %s}, ",
		mask(c.Source.DatabaseURL), c.Source.S3Bucket, mask(c.Source.S3SecretKey)))
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q}",
		c.Logging.Level, c.Logging.Format))
	b.WriteString("}")
	return b.String()
}

func mask(s string) string {
	if s == "" {
		return `""`
	}
	return "[MASKED]"
}

// Validate checks the source settings alone. An empty Kind means file and an
// empty Root leaves file reads unconfined.
func (s *SourceConfig) Validate() error {
	if errs := s.problems(); len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func (s *SourceConfig) problems() []string {
	var errs []string

	switch strings.ToLower(s.Kind) {
	case SourceFile, "":
	case SourcePostgres:
		if s.DatabaseURL == "" {
			errs = append(errs, "DATABASE_URL is required when SOURCE_KIND=postgres")
		}
		if s.DBMaxConns <= 0 {
			errs = append(errs, "DB_MAX_CONNS must be positive")
		}
	case SourceS3:
		if s.S3Bucket == "" {
			errs = append(errs, "S3_BUCKET is required when SOURCE_KIND=s3")
		}
		if s.S3Region == "" {
			errs = append(errs, "S3_REGION is required when SOURCE_KIND=s3")
		}
		if (s.S3AccessKeyID == "") != (s.S3SecretKey == "") {
			errs = append(errs, "S3_ACCESS_KEY_ID and S3_SECRET_KEY must be set together")
		}
	default:
		errs = append(errs, fmt.Sprintf("SOURCE_KIND (%q) must be one of: file, postgres, s3", s.Kind))
	}

	validLocales := map[string]bool{"": true, "br": true}
	if !validLocales[strings.ToLower(s.Locale)] {
		errs = append(errs, fmt.Sprintf("SOURCE_LOCALE (%q) must be empty or br", s.Locale))
	}

	validEncodings := map[string]bool{
		"": true, "utf-8": true, "utf8": true,
		"latin1": true, "iso-8859-1": true, "windows-1252": true, "cp1252": true,
	}
	if !validEncodings[strings.ToLower(s.Encoding)] {
		errs = append(errs, fmt.Sprintf("SOURCE_ENCODING (%q) must be one of: utf-8, latin1, windows-1252", s.Encoding))
	}

	return errs
}
