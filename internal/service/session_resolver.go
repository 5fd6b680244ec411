package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	domainauth "github.com/minbak/minbak-web/internal/domain/auth"
	"github.com/minbak/minbak-web/internal/ports"
)

// SessionResolverOptions groups dependencies for SessionResolver.
// Tokens may be nil, in which case bearer tokens are ignored.
type SessionResolverOptions struct {
	Sessions ports.SessionStore
	Tokens   ports.TokenVerifier
	Logger   *slog.Logger
	Now      func() time.Time
}

// SessionResolver classifies request credentials into an Identity.
// It never fails: every problem with the credentials yields the anonymous identity.
type SessionResolver struct {
	sessions ports.SessionStore
	tokens   ports.TokenVerifier
	logger   *slog.Logger
	now      func() time.Time
}

// NewSessionResolver constructs a SessionResolver.
func NewSessionResolver(opts SessionResolverOptions) *SessionResolver {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &SessionResolver{
		sessions: opts.Sessions,
		tokens:   opts.Tokens,
		logger:   logger.With("component", "session_resolver"),
		now:      now,
	}
}

// Resolve returns the identity carried by creds.
// A session cookie takes precedence over a bearer token.
func (r *SessionResolver) Resolve(ctx context.Context, creds domainauth.RequestCredentials) domainauth.Identity {
	if creds.SessionID != "" && r.sessions != nil {
		if id, ok := r.fromSession(ctx, creds.SessionID); ok {
			return id
		}
	}
	if creds.BearerToken != "" && r.tokens != nil {
		userID, err := r.tokens.Verify(creds.BearerToken)
		if err == nil && userID != "" {
			return domainauth.Identity{UserID: userID}
		}
	}
	return domainauth.Anonymous()
}

func (r *SessionResolver) fromSession(ctx context.Context, sessionID string) (domainauth.Identity, bool) {
	sess, err := r.sessions.Get(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, domainauth.ErrSessionNotFound) {
			r.logger.WarnContext(ctx, "session lookup failed", "error", err)
		}
		return domainauth.Identity{}, false
	}
	if sess.UserID == "" || sess.Expired(r.now()) {
		return domainauth.Identity{}, false
	}
	return domainauth.Identity{UserID: sess.UserID}, true
}
