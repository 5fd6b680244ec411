package config

import (
	"log/slog"
	"os"
	"strings"
)

// EnvironmentProduction is the APP_ENV value of production deployments.
const EnvironmentProduction = "production"

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - auth.go: Authentication and admin gate configuration
//   - database.go: Database and session store configuration
//   - http.go: HTTP server and locale cookie configuration
//   - logging.go: Log level and format
//   - reaper.go: Stale booking request sweep
type AppConfig struct {
	// IsDev controls development mode behavior.
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// Environment names the deployment (development, staging, production).
	Environment string `env:"APP_ENV" envDefault:"development"`

	// Authentication configuration
	Auth AuthConfig

	// Database configuration
	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`

	// HTTP server configuration
	HTTP   HTTPConfig
	Locale LocaleConfig

	Log LogConfig

	// Background sweep over stale booking requests
	Reaper ReaperConfig `envPrefix:"REAPER_"`
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.Environment = strings.ToLower(strings.TrimSpace(c.Environment))
	c.HTTP.Sanitize()
	c.Locale.Sanitize()
	c.Auth.Sanitize()
	c.Log.Sanitize()
	c.Reaper.Sanitize()

	c.detectDevMode()
}

// IsProduction reports whether APP_ENV names a production deployment.
func (c *AppConfig) IsProduction() bool {
	return c.Environment == EnvironmentProduction
}

// DevBypassEnabled resolves ADMIN_DEV_BYPASS into the flag injected into the role gate.
// Only the literal values "1" and "true" enable it, and production refuses it
// with a warning.
func (c *AppConfig) DevBypassEnabled(logger *slog.Logger) bool {
	if !ParseDevBypass(c.Auth.AdminDevBypass) {
		return false
	}
	if c.IsProduction() {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Warn("ADMIN_DEV_BYPASS is set but ignored in production",
			"app_env", c.Environment)
		return false
	}
	return true
}

// ParseDevBypass reports whether raw is one of the values that enable the admin bypass.
func ParseDevBypass(raw string) bool {
	return raw == "1" || raw == "true"
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// This is called by Sanitize() to ensure IsDev is set correctly.
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}
