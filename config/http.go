package config

import (
	"strings"
	"time"

	"github.com/minbak/minbak-web/internal/i18n"
)

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// BaseURL is the base URL of the application (e.g., "https://minbak.example").
	BaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`

	// CookieDomain is the domain for session and locale cookies.
	// Leave empty to use the request domain.
	CookieDomain string `env:"APP_COOKIE_DOMAIN" envDefault:""`

	ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout   time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT"    envDefault:"15s"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	h.BaseURL = strings.TrimRight(strings.TrimSpace(h.BaseURL), "/")
	if h.ReadHeaderTimeout <= 0 {
		h.ReadHeaderTimeout = 10 * time.Second
	}
	if h.ShutdownTimeout <= 0 {
		h.ShutdownTimeout = 15 * time.Second
	}
}

// LocaleConfig names the cookie that carries the host locale preference.
type LocaleConfig struct {
	CookieName string `env:"HOST_LOCALE_COOKIE" envDefault:"host-locale"`
}

// Sanitize restores the default cookie name when it is blank.
func (l *LocaleConfig) Sanitize() {
	l.CookieName = strings.TrimSpace(l.CookieName)
	if l.CookieName == "" {
		l.CookieName = i18n.DefaultCookieName
	}
}
