package auth

// Package auth contains domain-level types for request identity, sessions and authorization.
// It is pure and free of framework/adapter concerns.

import (
	"errors"
	"time"
)

// Role represents an application's authorization role.
// Stored verbatim in the users table.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

var (
	// ErrUserNotFound is returned by user stores when no record matches.
	ErrUserNotFound = errors.New("user not found")
	// ErrSessionNotFound is returned by session stores for unknown or expired sessions.
	ErrSessionNotFound = errors.New("session not found")
)

// Principal is the authenticated person returned by an identity provider.
// Adapters map provider-specific claims into this shape.
type Principal struct {
	ExternalID string // stable provider identifier (e.g., sub)
	Name       string
	Email      string
	Groups     []string
	ExpiresAt  time.Time // absolute expiry from IdP token
}

// Session is the server-side record we persist for a signed-in user.
// ID is an opaque session identifier carried in the session cookie.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool { return now.After(s.ExpiresAt) }

// Identity is the per-request outcome of session resolution.
// An empty UserID is the anonymous marker.
type Identity struct {
	UserID string
}

// Anonymous returns the identity of a request without a valid session.
func Anonymous() Identity { return Identity{} }

// Anonymous reports whether no user is attached to the identity.
func (i Identity) Anonymous() bool { return i.UserID == "" }

// RequestCredentials are the raw credentials the HTTP layer extracts from a request.
// Either field may be empty.
type RequestCredentials struct {
	SessionID   string
	BearerToken string
}

// UserRecord is the projection of a user consulted for authorization.
type UserRecord struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}

// IsAdmin reports whether the record carries the admin role.
func (u UserRecord) IsAdmin() bool { return u.Role == RoleAdmin }

// AuthorizationDecision is the outcome of testing an Identity against the admin role.
// User is set only when IsAdmin is true.
type AuthorizationDecision struct {
	IsAdmin bool
	User    *UserRecord
}

// DevAdminRecord is the synthetic administrator substituted by the development bypass.
var DevAdminRecord = UserRecord{
	ID:    "dev-admin",
	Email: "dev-admin@localhost",
	Name:  "Dev Admin",
	Role:  RoleAdmin,
}
