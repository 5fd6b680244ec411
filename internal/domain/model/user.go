package model

import (
	"errors"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	domainauth "github.com/minbak/minbak-web/internal/domain/auth"
)

const (
	maxUserNameLen    = 100
	minPasswordLen    = 8
	maxPasswordLength = 72 // bcrypt input limit
)

// User is a persisted account. Hosts and guests are both plain users;
// administrators carry RoleAdmin.
type User struct {
	ID           string          `json:"id"         db:"id"`
	Email        string          `json:"email"      db:"email"`
	Name         string          `json:"name"       db:"name"`
	Role         domainauth.Role `json:"role"       db:"role"`
	PasswordHash *string         `json:"-"          db:"password_hash"`
	ExternalID   *string         `json:"-"          db:"external_id"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}

// Record projects the user onto the fields consulted for authorization.
func (u *User) Record() domainauth.UserRecord {
	return domainauth.UserRecord{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}

// PublicProfile is what any visitor may see about a user.
type PublicProfile struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Profile returns the public projection of the user.
func (u *User) Profile() PublicProfile {
	return PublicProfile{ID: u.ID, Name: u.Name}
}

// RegisterUserRequest creates a password account.
type RegisterUserRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// Validate normalizes and validates RegisterUserRequest.
func (r *RegisterUserRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Name = strings.TrimSpace(r.Name)
	if r.Email == "" {
		return errors.New("email is required")
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return errors.New("email is invalid")
	}
	if r.Name == "" {
		return errors.New("name is required")
	}
	if utf8.RuneCountInString(r.Name) > maxUserNameLen {
		return errors.New("name cannot exceed 100 characters")
	}
	if len(r.Password) < minPasswordLen {
		return errors.New("password must be at least 8 characters")
	}
	if len(r.Password) > maxPasswordLength {
		return errors.New("password cannot exceed 72 bytes")
	}
	return nil
}

// UpsertExternalUserRequest provisions or refreshes a user signed in through an identity provider.
// Role is applied only when the user is first created.
type UpsertExternalUserRequest struct {
	ExternalID string
	Email      string
	Name       string
	Role       domainauth.Role
}
