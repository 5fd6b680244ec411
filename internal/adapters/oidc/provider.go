// Package oidc signs users in through an OpenID Connect provider.
package oidc

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	domainauth "github.com/minbak/minbak-web/internal/domain/auth"
	"github.com/minbak/minbak-web/internal/ports"
	"golang.org/x/oauth2"
)

const (
	defaultGroupsClaim = "groups"
	stateLength        = 32
)

// ProviderConfig holds configuration for the OIDC provider.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string // our /auth/callback URL registered with the IdP
	Scope        string
	DiscoveryURL string
	GroupsClaim  string       // claim carrying group names, default "groups"
	HTTPClient   *http.Client // Optional, defaults to a 30s-timeout client
}

// DiscoveryDocument is the subset of the discovery document served by test IdPs.
type DiscoveryDocument struct {
	Issuer                string `json:"issuer"`
	AuthorizationEndpoint string `json:"authorization_endpoint"`
	TokenEndpoint         string `json:"token_endpoint"`
	UserinfoEndpoint      string `json:"userinfo_endpoint"`
	JwksURI               string `json:"jwks_uri"`
}

// Provider implements ports.AuthProvider using the authorization code flow.
type Provider struct {
	config      *oauth2.Config
	httpClient  *http.Client
	groupsClaim string

	oidcProvider *gooidc.Provider
	verifier     *gooidc.IDTokenVerifier
}

// NewProvider fetches the discovery document and builds the provider.
func NewProvider(cfg ProviderConfig) (*Provider, error) {
	switch {
	case cfg.ClientID == "":
		return nil, errors.New("client ID is required")
	case cfg.ClientSecret == "":
		return nil, errors.New("client secret is required")
	case cfg.RedirectURL == "":
		return nil, errors.New("redirect URL is required")
	case cfg.DiscoveryURL == "":
		return nil, errors.New("discovery URL is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	groupsClaim := cfg.GroupsClaim
	if groupsClaim == "" {
		groupsClaim = defaultGroupsClaim
	}

	ctx := gooidc.ClientContext(context.Background(), httpClient)
	op, err := gooidc.NewProvider(ctx, issuerFromDiscoveryURL(cfg.DiscoveryURL))
	if err != nil {
		return nil, fmt.Errorf("oidc new provider: %w", err)
	}

	scopes := strings.Fields(cfg.Scope)
	if !slices.Contains(scopes, gooidc.ScopeOpenID) {
		scopes = append([]string{gooidc.ScopeOpenID}, scopes...)
	}

	return &Provider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       scopes,
			Endpoint:     op.Endpoint(),
		},
		httpClient:   httpClient,
		groupsClaim:  groupsClaim,
		oidcProvider: op,
		verifier:     op.Verifier(&gooidc.Config{ClientID: cfg.ClientID}),
	}, nil
}

func issuerFromDiscoveryURL(raw string) string {
	issuer := strings.TrimSuffix(raw, "/")
	issuer = strings.TrimSuffix(issuer, "/.well-known/openid-configuration")
	return strings.TrimSuffix(issuer, "/")
}

// Begin builds the IdP authorization URL with fresh state and nonce.
// in.RedirectURL is the post-login destination; it only has to be present.
func (p *Provider) Begin(_ context.Context, in ports.BeginInput) (string, string, string, error) {
	if in.RedirectURL == "" {
		return "", "", "", errors.New("redirect URL is required")
	}

	state, err := generateRandomString(stateLength)
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err := generateRandomString(stateLength)
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}

	authURL := p.config.AuthCodeURL(state, gooidc.Nonce(nonce))
	return authURL, state, nonce, nil
}

// Exchange redeems the code, verifies the ID token and its nonce,
// and fills missing claims from the userinfo endpoint.
func (p *Provider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Principal, error) {
	switch {
	case in.Code == "":
		return domainauth.Principal{}, errors.New("authorization code is required")
	case in.State == "":
		return domainauth.Principal{}, errors.New("state is required")
	case in.Nonce == "":
		return domainauth.Principal{}, errors.New("nonce is required")
	}

	ctx = gooidc.ClientContext(ctx, p.httpClient)
	token, err := p.config.Exchange(ctx, in.Code)
	if err != nil {
		return domainauth.Principal{}, fmt.Errorf("exchange code for token: %w", err)
	}

	rawID, err := idTokenFrom(token)
	if err != nil {
		return domainauth.Principal{}, err
	}
	idTok, err := p.verifier.Verify(ctx, rawID)
	if err != nil {
		return domainauth.Principal{}, fmt.Errorf("verify id_token: %w", err)
	}
	if idTok.Nonce != in.Nonce {
		return domainauth.Principal{}, errors.New("invalid nonce")
	}

	var raw map[string]any
	if claimsErr := idTok.Claims(&raw); claimsErr != nil {
		return domainauth.Principal{}, fmt.Errorf("parse id_token claims: %w", claimsErr)
	}
	c := p.parseClaims(raw)

	if c.email == "" || c.name == "" {
		if fillErr := p.fillFromUserInfo(ctx, token, &c); fillErr != nil {
			return domainauth.Principal{}, fmt.Errorf("get user info: %w", fillErr)
		}
	}
	if c.subject == "" {
		c.subject = idTok.Subject
	}
	if c.email == "" {
		return domainauth.Principal{}, errors.New("identity provider did not return an email")
	}

	expiresAt := idTok.Expiry
	if !token.Expiry.IsZero() {
		expiresAt = token.Expiry
	}

	return domainauth.Principal{
		ExternalID: c.subject,
		Email:      c.email,
		Name:       firstNonEmpty(c.name, c.email),
		Groups:     c.groups,
		ExpiresAt:  expiresAt,
	}, nil
}

type claims struct {
	subject string
	email   string
	name    string
	groups  []string
}

// parseClaims reads standard OIDC claims plus the configured groups claim.
func (p *Provider) parseClaims(raw map[string]any) claims {
	return claims{
		subject: stringClaim(raw, "sub"),
		email:   stringClaim(raw, "email"),
		name:    firstNonEmpty(stringClaim(raw, "name"), stringClaim(raw, "preferred_username")),
		groups:  stringsClaim(raw, p.groupsClaim),
	}
}

func (p *Provider) fillFromUserInfo(ctx context.Context, token *oauth2.Token, c *claims) error {
	ui, err := p.oidcProvider.UserInfo(ctx, oauth2.StaticTokenSource(token))
	if err != nil {
		return fmt.Errorf("fetch user info: %w", err)
	}
	var raw map[string]any
	if claimsErr := ui.Claims(&raw); claimsErr != nil {
		return fmt.Errorf("decode user info: %w", claimsErr)
	}
	mergeClaims(c, p.parseClaims(raw))
	return nil
}

// mergeClaims fills empty fields of dst from src.
func mergeClaims(dst *claims, src claims) {
	if dst.subject == "" {
		dst.subject = src.subject
	}
	if dst.email == "" {
		dst.email = src.email
	}
	if dst.name == "" {
		dst.name = src.name
	}
	if len(dst.groups) == 0 {
		dst.groups = src.groups
	}
}

func stringClaim(raw map[string]any, key string) string {
	s, _ := raw[key].(string)
	return strings.TrimSpace(s)
}

// stringsClaim accepts a JSON array of strings or a single space separated string.
func stringsClaim(raw map[string]any, key string) []string {
	switch v := raw[key].(type) {
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		return strings.Fields(v)
	default:
		return nil
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// generateRandomString returns a URL-safe random string of exactly length characters.
func generateRandomString(length int) (string, error) {
	if length <= 0 {
		return "", nil
	}
	b := make([]byte, base64.RawURLEncoding.DecodedLen(length)+1)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b)[:length], nil
}

// idTokenFrom extracts the id_token from the token response.
func idTokenFrom(tok *oauth2.Token) (string, error) {
	if tok == nil {
		return "", errors.New("nil token")
	}
	s, ok := tok.Extra("id_token").(string)
	if !ok || s == "" {
		return "", errors.New("missing id_token in token response")
	}
	return s, nil
}
