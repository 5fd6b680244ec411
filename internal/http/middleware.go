package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"runtime/debug"
	"strings"
	"time"

	domainauth "github.com/minbak/minbak-web/internal/domain/auth"
	"github.com/minbak/minbak-web/internal/i18n"
)

// SessionCookieName carries the opaque session ID.
const SessionCookieName = "session_id"

// IdentityResolver classifies request credentials into an Identity.
type IdentityResolver interface {
	Resolve(ctx context.Context, creds domainauth.RequestCredentials) domainauth.Identity
}

// AdminGate decides whether an identity carries the admin role.
type AdminGate interface {
	IsAdmin(ctx context.Context, id domainauth.Identity) (domainauth.AuthorizationDecision, error)
}

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &respWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			logger.InfoContext(r.Context(), "http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// Locale returns a middleware that reads the locale cookie on every request
// and stores the resulting locale in the request context.
func Locale(cookieName string) func(http.Handler) http.Handler {
	if cookieName == "" {
		cookieName = i18n.DefaultCookieName
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.Join(r.Header.Values("Cookie"), "; ")
			loc := i18n.FromCookieHeaderNamed(raw, cookieName)
			next.ServeHTTP(w, r.WithContext(SetLocaleInContext(r.Context(), loc)))
		})
	}
}

// credentialsFromRequest extracts the session cookie and bearer token, either of which may be empty.
func credentialsFromRequest(r *http.Request) domainauth.RequestCredentials {
	var creds domainauth.RequestCredentials
	if c, err := r.Cookie(SessionCookieName); err == nil {
		creds.SessionID = c.Value
	}
	if scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " "); ok &&
		strings.EqualFold(scheme, "Bearer") {
		creds.BearerToken = strings.TrimSpace(token)
	}
	return creds
}

// resolveIdentity returns the identity already in context, resolving it when absent.
func resolveIdentity(r *http.Request, resolver IdentityResolver) (*http.Request, domainauth.Identity) {
	if id, ok := r.Context().Value(identityKey{}).(domainauth.Identity); ok {
		return r, id
	}
	id := resolver.Resolve(r.Context(), credentialsFromRequest(r))
	return r.WithContext(SetIdentityInContext(r.Context(), id)), id
}

// ResolveIdentity returns a middleware that attaches the request identity to the context.
// Anonymous requests continue unchanged.
func ResolveIdentity(resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r, _ = resolveIdentity(r, resolver)
			next.ServeHTTP(w, r)
		})
	}
}

// RequireHost returns a middleware that requires a signed-in user.
// For API requests: returns 401 JSON response if not authenticated.
// For browser requests: redirects to the login page.
func RequireHost(resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r, id := resolveIdentity(r, resolver)
			if id.Anonymous() {
				if IsBrowserRequest(r) {
					redirectToLogin(w, r)
					return
				}
				WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "authentication_required"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin returns a middleware that requires the admin role.
// A failed role lookup is answered with 500; a negative decision with 403.
func RequireAdmin(resolver IdentityResolver, gate AdminGate, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r, id := resolveIdentity(r, resolver)
			dec, err := gate.IsAdmin(r.Context(), id)
			if err != nil {
				logger.ErrorContext(r.Context(), "admin check failed",
					slog.String("path", r.URL.Path),
					slog.Any("error", err))
				WriteError(w, ErrorParams{
					Code:    http.StatusInternalServerError,
					ErrCode: "internal_error",
					Err:     errors.New("internal server error"),
				})
				return
			}
			if !dec.IsAdmin {
				if IsBrowserRequest(r) {
					http.Error(w, "Forbidden", http.StatusForbidden)
					return
				}
				WriteError(w, ErrorParams{
					Code:    http.StatusForbidden,
					ErrCode: "forbidden",
					Err:     errors.New("Forbidden"), //nolint:staticcheck // literal response message
				})
				return
			}
			next.ServeHTTP(w, r.WithContext(SetAdminInContext(r.Context(), dec.User)))
		})
	}
}

// IsBrowserRequest reports whether the request expects HTML rather than JSON.
// API routes are never browser requests.
func IsBrowserRequest(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return false
	}
	accept := r.Header.Get("Accept")
	if accept == "" {
		return true
	}
	return strings.Contains(accept, "text/html")
}

// redirectToLogin redirects browser requests to the login page with the current URL as redirect_uri.
func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	loginURL := "/auth/login?redirect_uri=" + url.QueryEscape(safeRedirectPath(r.URL.RequestURI()))
	http.Redirect(w, r, loginURL, http.StatusSeeOther)
}
