package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/minbak/minbak-web/config"
	"github.com/minbak/minbak-web/internal/adapters/authroles"
	"github.com/minbak/minbak-web/internal/adapters/devauth"
	"github.com/minbak/minbak-web/internal/adapters/jwtauth"
	"github.com/minbak/minbak-web/internal/adapters/oidc"
	"github.com/minbak/minbak-web/internal/adapters/password"
	redisadapter "github.com/minbak/minbak-web/internal/adapters/redis"
	"github.com/minbak/minbak-web/internal/core"
	"github.com/minbak/minbak-web/internal/ports"
	"github.com/minbak/minbak-web/internal/service"
)

// AuthConfig contains dependencies for the authentication components.
type AuthConfig struct {
	Auth        config.AuthConfig
	RedisPrefix string
	RedisClient redis.UniversalClient
	Users       AuthUserStore
	DevBypass   bool
	Logger      *slog.Logger
}

// AuthUserStore is what the auth components need from the user repository.
type AuthUserStore interface {
	core.UserRepository
	ports.UserStore
}

// AuthComponents bundles the sign-in service with the per-request identity and admin checks.
type AuthComponents struct {
	Service  *service.AuthService
	Resolver *service.SessionResolver
	Gate     *service.RoleGate
}

// BuildAuth wires the session store, identity provider, token manager and role gate.
func BuildAuth(cfg AuthConfig) (AuthComponents, error) {
	if cfg.RedisClient == nil {
		return AuthComponents{}, errors.New("auth: redis client not configured")
	}
	if cfg.Users == nil {
		return AuthComponents{}, errors.New("auth: user store not configured")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sessions := redisadapter.NewSessionStoreWithOptions(redisadapter.SessionStoreOptions{
		Client: cfg.RedisClient,
		Prefix: cfg.RedisPrefix,
	})

	provider, err := buildProvider(cfg.Auth)
	if err != nil {
		return AuthComponents{}, err
	}

	opts := service.AuthServiceOptions{
		Provider:   provider,
		Sessions:   sessions,
		Roles:      authroles.StaticRoleMapper{AdminGroup: cfg.Auth.AdminGroup},
		Users:      cfg.Users,
		Hasher:     password.NewBcryptHasher(cfg.Auth.BcryptCost),
		SessionTTL: cfg.Auth.SessionTTL,
		TokenTTL:   cfg.Auth.TokenTTL,
	}
	resolverOpts := service.SessionResolverOptions{
		Sessions: sessions,
		Logger:   logger,
	}

	if cfg.Auth.TokensEnabled() {
		tokens, tokErr := jwtauth.NewManager(jwtauth.Config{Secret: cfg.Auth.TokenSecret})
		if tokErr != nil {
			return AuthComponents{}, fmt.Errorf("auth: %w", tokErr)
		}
		opts.Tokens = tokens
		resolverOpts.Tokens = tokens
	} else {
		logger.Info("bearer tokens disabled: AUTH_TOKEN_SECRET not set")
	}

	if cfg.DevBypass {
		logger.Warn("admin dev bypass enabled: every request is treated as an administrator")
	}

	gate := service.NewRoleGate(service.RoleGateOptions{
		Users:     cfg.Users,
		DevBypass: cfg.DevBypass,
		Logger:    logger,
	})
	return AuthComponents{
		Service:  service.NewAuthService(opts),
		Resolver: service.NewSessionResolver(resolverOpts),
		Gate:     gate,
	}, nil
}

//nolint:ireturn // the provider is selected by auth mode at runtime.
func buildProvider(cfg config.AuthConfig) (ports.AuthProvider, error) {
	switch cfg.Mode {
	case config.AuthModeMock:
		prov, err := devauth.NewProvider(devauth.Config{
			ExternalID:      cfg.DevAuth.UserID,
			Email:           cfg.DevAuth.Email,
			Name:            cfg.DevAuth.Name,
			Groups:          cfg.DevAuth.Groups,
			SessionDuration: cfg.SessionTTL,
		})
		if err != nil {
			return nil, fmt.Errorf("create dev auth provider: %w", err)
		}
		return prov, nil

	case config.AuthModeOAuth:
		oauth := cfg.OAuth
		prov, err := oidc.NewProvider(oidc.ProviderConfig{
			ClientID:     oauth.ClientID,
			ClientSecret: oauth.ClientSecret,
			RedirectURL:  oauth.RedirectURL,
			Scope:        oauth.Scope,
			DiscoveryURL: oauth.DiscoveryURL,
			GroupsClaim:  oauth.GroupsClaim,
		})
		if err != nil {
			return nil, fmt.Errorf("create OIDC provider: %w", err)
		}
		return prov, nil

	default:
		return nil, fmt.Errorf("unsupported auth mode %q", cfg.Mode)
	}
}
