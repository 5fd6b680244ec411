package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters and internal/data; orchestration in internal/service.

import (
	"context"
	"time"

	domainauth "github.com/minbak/minbak-web/internal/domain/auth"
)

// BeginInput carries inputs for initiating an auth flow.
type BeginInput struct {
	RedirectURL string
}

// AuthProvider initiates and completes an authentication flow against an IdP.
type AuthProvider interface {
	// Begin starts the login flow and returns the provider auth URL, an opaque state, and a nonce.
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)

	// Exchange completes the login flow, verifying state and nonce, and returns the authenticated principal.
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.Principal, error)
}

// ExchangeInput groups parameters for the code/token exchange.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// SessionStore persists and retrieves user sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// RoleMapper maps provider groups to the role a user is provisioned with.
type RoleMapper interface {
	Map(groups []string) domainauth.Role
}

// UserStore looks up user records for authorization.
// FindUserByID returns domainauth.ErrUserNotFound when no record exists.
type UserStore interface {
	FindUserByID(ctx context.Context, id string) (*domainauth.UserRecord, error)
}

// TokenIssuer mints bearer tokens for API clients.
type TokenIssuer interface {
	Issue(userID string, ttl time.Duration) (token string, expiresAt time.Time, err error)
}

// TokenVerifier validates a bearer token and returns the user id it was issued for.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}

// PasswordHasher hashes and compares account passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}
