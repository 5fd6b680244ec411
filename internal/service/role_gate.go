package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	domainauth "github.com/minbak/minbak-web/internal/domain/auth"
	"github.com/minbak/minbak-web/internal/ports"
)

// RoleGateOptions groups dependencies for RoleGate.
//
// DevBypass makes every identity, including anonymous ones, an administrator
// backed by domainauth.DevAdminRecord. It is resolved once from configuration
// (see config.AppConfig.DevBypassEnabled) and must stay false outside local development.
type RoleGateOptions struct {
	Users     ports.UserStore
	DevBypass bool
	Logger    *slog.Logger // Optional
}

// RoleGate decides whether a request identity carries the admin role.
type RoleGate struct {
	users     ports.UserStore
	devBypass bool
	logger    *slog.Logger
}

// NewRoleGate constructs a RoleGate.
func NewRoleGate(opts RoleGateOptions) *RoleGate {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &RoleGate{
		users:     opts.Users,
		devBypass: opts.DevBypass,
		logger:    logger.With("component", "role_gate"),
	}
}

// DevBypass reports whether the gate was built with the development bypass.
func (g *RoleGate) DevBypass() bool { return g.devBypass }

// IsAdmin returns the authorization decision for id.
// The user store is consulted at most once; lookup failures other than
// not-found are returned to the caller unchanged in meaning.
func (g *RoleGate) IsAdmin(ctx context.Context, id domainauth.Identity) (domainauth.AuthorizationDecision, error) {
	if g.devBypass {
		g.logger.DebugContext(ctx, "dev bypass granted admin", "user_id", id.UserID)
		rec := domainauth.DevAdminRecord
		return domainauth.AuthorizationDecision{IsAdmin: true, User: &rec}, nil
	}
	if id.Anonymous() {
		return domainauth.AuthorizationDecision{}, nil
	}
	if g.users == nil {
		return domainauth.AuthorizationDecision{}, errors.New("role gate: user store not configured")
	}

	rec, err := g.users.FindUserByID(ctx, id.UserID)
	if err != nil {
		if errors.Is(err, domainauth.ErrUserNotFound) {
			return domainauth.AuthorizationDecision{}, nil
		}
		return domainauth.AuthorizationDecision{}, fmt.Errorf("lookup user: %w", err)
	}
	if rec == nil || !rec.IsAdmin() {
		return domainauth.AuthorizationDecision{}, nil
	}
	return domainauth.AuthorizationDecision{IsAdmin: true, User: rec}, nil
}
