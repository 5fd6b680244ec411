package httpx

import (
	"context"

	domainauth "github.com/minbak/minbak-web/internal/domain/auth"
	"github.com/minbak/minbak-web/internal/i18n"
)

// Unexported context key types avoid collisions across packages.
// Centralized in this file so all handlers/middleware use the same keys.
type (
	identityKey struct{}
	adminKey    struct{}
	localeKey   struct{}
)

// SetIdentityInContext returns a child context that carries the resolved identity.
func SetIdentityInContext(ctx context.Context, id domainauth.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the identity resolved for the request.
// Requests that never went through identity middleware are anonymous.
func IdentityFromContext(ctx context.Context) domainauth.Identity {
	if id, ok := ctx.Value(identityKey{}).(domainauth.Identity); ok {
		return id
	}
	return domainauth.Anonymous()
}

// SetAdminInContext stores the administrator record granted by RequireAdmin.
// If rec is nil, the original ctx is returned unchanged.
func SetAdminInContext(ctx context.Context, rec *domainauth.UserRecord) context.Context {
	if rec == nil {
		return ctx
	}
	return context.WithValue(ctx, adminKey{}, rec)
}

// AdminFromContext returns the administrator record and a boolean indicating presence.
func AdminFromContext(ctx context.Context) (*domainauth.UserRecord, bool) {
	rec, ok := ctx.Value(adminKey{}).(*domainauth.UserRecord)
	return rec, ok && rec != nil
}

// SetLocaleInContext returns a child context carrying the display locale.
func SetLocaleInContext(ctx context.Context, loc i18n.Locale) context.Context {
	return context.WithValue(ctx, localeKey{}, loc)
}

// LocaleFromContext returns the display locale, defaulting to the primary locale.
func LocaleFromContext(ctx context.Context) i18n.Locale {
	if loc, ok := ctx.Value(localeKey{}).(i18n.Locale); ok {
		return loc
	}
	return i18n.Primary
}
