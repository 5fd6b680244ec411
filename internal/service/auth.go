package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minbak/minbak-web/internal/core"
	domainauth "github.com/minbak/minbak-web/internal/domain/auth"
	"github.com/minbak/minbak-web/internal/domain/model"
	apperrors "github.com/minbak/minbak-web/internal/errors"
	"github.com/minbak/minbak-web/internal/ports"
)

const (
	defaultSessionTTL = 24 * time.Hour
	defaultTokenTTL   = time.Hour
)

// AuthServiceOptions groups dependencies for AuthService.
// Provider may be nil when only password sign-in is offered; Tokens may be nil
// when bearer tokens are disabled.
type AuthServiceOptions struct {
	Provider   ports.AuthProvider
	Sessions   ports.SessionStore
	Roles      ports.RoleMapper
	Users      core.UserRepository
	Hasher     ports.PasswordHasher
	Tokens     ports.TokenIssuer
	SessionTTL time.Duration
	TokenTTL   time.Duration
}

// AuthService orchestrates sign-in flows by coordinating the identity provider,
// user provisioning, password checks and session persistence.
type AuthService struct {
	provider   ports.AuthProvider
	sessions   ports.SessionStore
	roles      ports.RoleMapper
	users      core.UserRepository
	hasher     ports.PasswordHasher
	tokens     ports.TokenIssuer
	sessionTTL time.Duration
	tokenTTL   time.Duration
	now        func() time.Time
}

var (
	errSessionExpired      = errors.New("session expired")
	errProviderUnavailable = errors.New("single sign-on is not configured")
	errTokensUnavailable   = errors.New("bearer tokens are not configured")
)

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	sessionTTL := opts.SessionTTL
	if sessionTTL <= 0 {
		sessionTTL = defaultSessionTTL
	}
	tokenTTL := opts.TokenTTL
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	return &AuthService{
		provider:   opts.Provider,
		sessions:   opts.Sessions,
		roles:      opts.Roles,
		users:      opts.Users,
		hasher:     opts.Hasher,
		tokens:     opts.Tokens,
		sessionTTL: sessionTTL,
		tokenTTL:   tokenTTL,
		now:        time.Now,
	}
}

// BeginLoginResult contains the result of beginning a login flow.
type BeginLoginResult struct {
	AuthURL string
	State   string
	Nonce   string
}

// BeginLogin initiates an authentication flow and returns the provider auth URL with state and nonce.
func (s *AuthService) BeginLogin(ctx context.Context, redirectURL string) (*BeginLoginResult, error) {
	if s.provider == nil {
		return nil, errProviderUnavailable
	}
	if redirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}

	authURL, state, nonce, err := s.provider.Begin(ctx, ports.BeginInput{RedirectURL: redirectURL})
	if err != nil {
		return nil, fmt.Errorf("begin auth flow: %w", err)
	}

	return &BeginLoginResult{AuthURL: authURL, State: state, Nonce: nonce}, nil
}

// CompleteLoginInput groups parameters for completing a login flow.
type CompleteLoginInput struct {
	Code  string
	State string
	Nonce string
}

// LoginResult contains the session created by a successful sign-in.
type LoginResult struct {
	Session domainauth.Session
	User    *model.User
}

// CompleteLogin exchanges the code for a principal, provisions the user and persists a session.
// The provider groups only decide the role of a user created by this login.
func (s *AuthService) CompleteLogin(ctx context.Context, input CompleteLoginInput) (*LoginResult, error) {
	if s.provider == nil {
		return nil, errProviderUnavailable
	}
	if input.Code == "" {
		return nil, errors.New("authorization code is required")
	}
	if input.State == "" {
		return nil, errors.New("state parameter is required")
	}
	if input.Nonce == "" {
		return nil, errors.New("nonce parameter is required")
	}

	principal, err := s.provider.Exchange(ctx, ports.ExchangeInput(input))
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	role := domainauth.RoleUser
	if s.roles != nil {
		role = s.roles.Map(principal.Groups)
	}

	user, err := s.users.UpsertExternal(ctx, model.UpsertExternalUserRequest{
		ExternalID: principal.ExternalID,
		Email:      strings.ToLower(strings.TrimSpace(principal.Email)),
		Name:       principal.Name,
		Role:       role,
	})
	if err != nil {
		return nil, fmt.Errorf("provision user: %w", err)
	}

	return s.startSession(ctx, user, principal.ExpiresAt)
}

// PasswordLogin signs a password account in.
// Unknown emails and wrong passwords are indistinguishable to the caller.
func (s *AuthService) PasswordLogin(ctx context.Context, email, password string) (*LoginResult, error) {
	if s.hasher == nil {
		return nil, errors.New("password sign-in is not configured")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, model.ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainauth.ErrUserNotFound) {
			return nil, model.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user.PasswordHash == nil || *user.PasswordHash == "" {
		return nil, model.ErrInvalidCredentials
	}
	if cmpErr := s.hasher.Compare(*user.PasswordHash, password); cmpErr != nil {
		return nil, model.ErrInvalidCredentials
	}

	return s.startSession(ctx, user, time.Time{})
}

// Register creates a password account with the user role and signs it in.
func (s *AuthService) Register(ctx context.Context, req *model.RegisterUserRequest) (*LoginResult, error) {
	if s.hasher == nil {
		return nil, errors.New("password sign-up is not configured")
	}
	if req == nil {
		return nil, apperrors.Validation("request body is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Invalid(err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user, err := s.users.CreateWithPassword(ctx, req, hash)
	if err != nil {
		return nil, err
	}

	return s.startSession(ctx, user, time.Time{})
}

// GetSession retrieves a live session by ID.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, errors.New("session ID is required")
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if session.Expired(s.now()) {
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return nil, errors.Join(errSessionExpired, fmt.Errorf("delete session: %w", deleteErr))
		}
		return nil, errSessionExpired
	}

	return &session, nil
}

// Logout removes a session.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil // Nothing to logout
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}

// IssuedToken is a bearer token for API clients.
type IssuedToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IssueToken mints a bearer token for an already authenticated user.
func (s *AuthService) IssueToken(_ context.Context, userID string) (*IssuedToken, error) {
	if s.tokens == nil {
		return nil, errTokensUnavailable
	}
	if userID == "" {
		return nil, errors.New("user ID is required")
	}
	tok, exp, err := s.tokens.Issue(userID, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &IssuedToken{Token: tok, ExpiresAt: exp}, nil
}

// startSession persists a session for user. A non-zero providerExpiry caps the session lifetime.
func (s *AuthService) startSession(ctx context.Context, user *model.User, providerExpiry time.Time) (*LoginResult, error) {
	expiresAt := s.now().Add(s.sessionTTL)
	if !providerExpiry.IsZero() && providerExpiry.Before(expiresAt) {
		expiresAt = providerExpiry
	}

	session := domainauth.Session{
		ID:        generateSessionID(),
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.Name,
		ExpiresAt: expiresAt,
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	return &LoginResult{Session: session, User: user}, nil
}

// generateSessionID creates a random session ID.
func generateSessionID() string {
	return uuid.New().String()
}
