// Package devauth provides a config-driven AuthProvider for local development.
package devauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"time"

	domainauth "github.com/minbak/minbak-web/internal/domain/auth"
	"github.com/minbak/minbak-web/internal/ports"
)

const (
	defaultCallbackPath    = "/auth/callback"
	defaultSessionDuration = 8 * time.Hour
	tokenLength            = 24
)

// Config controls the dev auth provider behavior.
// ExternalID and Email are required.
type Config struct {
	ExternalID      string
	Email           string
	Name            string
	Groups          []string
	SessionDuration time.Duration // default 8h when zero
	CallbackPath    string        // default /auth/callback
}

// Provider implements ports.AuthProvider without an identity provider.
// Begin points the browser straight back at our callback with locally generated
// state and nonce; Exchange ignores the code and returns the configured principal.
type Provider struct {
	principal       domainauth.Principal
	sessionDuration time.Duration
	callbackPath    string
	now             func() time.Time
}

// NewProvider constructs a dev auth provider from Config.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.ExternalID == "" {
		return nil, errors.New("dev auth: ExternalID is required")
	}
	if cfg.Email == "" {
		return nil, errors.New("dev auth: Email is required")
	}
	name := cfg.Name
	if name == "" {
		name = cfg.Email
	}
	dur := cfg.SessionDuration
	if dur <= 0 {
		dur = defaultSessionDuration
	}
	callback := cfg.CallbackPath
	if callback == "" {
		callback = defaultCallbackPath
	}
	if _, err := url.Parse(callback); err != nil {
		return nil, fmt.Errorf("dev auth: invalid callback path: %w", err)
	}
	return &Provider{
		principal: domainauth.Principal{
			ExternalID: cfg.ExternalID,
			Email:      cfg.Email,
			Name:       name,
			Groups:     append([]string(nil), cfg.Groups...),
		},
		sessionDuration: dur,
		callbackPath:    callback,
		now:             time.Now,
	}, nil
}

// Begin returns our own callback URL carrying a dev code and fresh state.
// in.RedirectURL is the post-login destination kept by the handler, so it is not used here.
func (p *Provider) Begin(_ context.Context, _ ports.BeginInput) (string, string, string, error) {
	state, err := randomString(tokenLength)
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err := randomString(tokenLength)
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}

	u, err := url.Parse(p.callbackPath)
	if err != nil {
		return "", "", "", fmt.Errorf("parse callback path: %w", err)
	}
	q := u.Query()
	q.Set("code", "dev")
	q.Set("state", state)
	u.RawQuery = q.Encode()

	return u.String(), state, nonce, nil
}

// Exchange returns the configured principal with a fresh expiry.
// State and nonce are validated by the HTTP handler against its cookies.
func (p *Provider) Exchange(_ context.Context, in ports.ExchangeInput) (domainauth.Principal, error) {
	if in.Code == "" {
		return domainauth.Principal{}, errors.New("dev auth: code is required")
	}
	principal := p.principal
	principal.Groups = append([]string(nil), p.principal.Groups...)
	principal.ExpiresAt = p.now().Add(p.sessionDuration)
	return principal, nil
}

func randomString(n int) (string, error) {
	b := make([]byte, base64.RawURLEncoding.DecodedLen(n)+1)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b)[:n], nil
}
