package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModeOAuth uses OAuth/OIDC for authentication.
	AuthModeOAuth AuthMode = "oauth"
	// AuthModeMock uses mock/dev authentication (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "oauth", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: oauth, mock)", v)
	}
}

// OAuthConfig contains OAuth/OIDC configuration.
type OAuthConfig struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:8080/auth/callback"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email groups"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
	GroupsClaim  string `env:"GROUPS_CLAIM"  envDefault:"groups"`
}

// DevAuthConfig controls mock/dev authentication identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	UserID string   `env:"USER_ID" envDefault:"dev-user"`
	Email  string   `env:"EMAIL"   envDefault:"dev@example.com"`
	Name   string   `env:"NAME"    envDefault:"Dev Host"`
	Groups []string `env:"GROUPS"  envDefault:"hosts"           envSeparator:";"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which authentication provider backs /auth/login.
	// Email and password accounts are available in every mode.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"mock"`

	// OAuth configuration (used when Mode=oauth).
	OAuth OAuthConfig `envPrefix:"OAUTH_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// AdminGroup is the IdP group whose members are provisioned as administrators.
	AdminGroup string `env:"ADMIN_GROUP" envDefault:"minbak-admins"`

	// AdminDevBypass is kept raw; see AppConfig.DevBypassEnabled.
	AdminDevBypass string `env:"ADMIN_DEV_BYPASS"`

	// TokenSecret signs API bearer tokens. Bearer tokens are disabled when empty; a non-empty
	// secret shorter than 32 bytes fails startup.
	TokenSecret string        `env:"AUTH_TOKEN_SECRET"`
	TokenTTL    time.Duration `env:"AUTH_TOKEN_TTL"    envDefault:"1h"`
	SessionTTL  time.Duration `env:"AUTH_SESSION_TTL"  envDefault:"24h"`

	BcryptCost int `env:"AUTH_BCRYPT_COST" envDefault:"10"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	a.AdminGroup = strings.TrimSpace(a.AdminGroup)
	if a.TokenTTL <= 0 {
		a.TokenTTL = time.Hour
	}
	if a.SessionTTL <= 0 {
		a.SessionTTL = 24 * time.Hour
	}
}

// TokensEnabled reports whether bearer tokens can be issued and verified.
func (a *AuthConfig) TokensEnabled() bool { return a.TokenSecret != "" }
