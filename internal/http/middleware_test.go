package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/minbak/minbak-web/internal/domain/auth"
	"github.com/minbak/minbak-web/internal/i18n"
	authmocks "github.com/minbak/minbak-web/internal/mocks/auth"
	"github.com/minbak/minbak-web/internal/service"
)

type fixedResolver struct {
	id    domainauth.Identity
	calls int
}

func (f *fixedResolver) Resolve(context.Context, domainauth.RequestCredentials) domainauth.Identity {
	f.calls++
	return f.id
}

type failingGate struct{}

func (failingGate) IsAdmin(context.Context, domainauth.Identity) (domainauth.AuthorizationDecision, error) {
	return domainauth.AuthorizationDecision{}, errors.New("connection refused")
}

func okHandler(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestIsBrowserRequest(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		accept string
		want   bool
	}{
		{name: "api path", path: "/api/listings", accept: "text/html", want: false},
		{name: "no accept header", path: "/host", want: true},
		{name: "html accept", path: "/host", accept: "text/html,application/xhtml+xml", want: true},
		{name: "json accept", path: "/host", accept: "application/json", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			assert.Equal(t, tt.want, IsBrowserRequest(req))
		})
	}
}

func TestLocaleMiddleware(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		want    i18n.Locale
	}{
		{name: "no cookie", want: i18n.Primary},
		{name: "alternate", headers: []string{"host-locale=ja"}, want: i18n.Alternate},
		{name: "unknown value", headers: []string{"host-locale=fr"}, want: i18n.Primary},
		{name: "prefix name does not match", headers: []string{"x-host-locale=ja"}, want: i18n.Primary},
		{name: "second header line", headers: []string{"session_id=abc", "host-locale=ja"}, want: i18n.Alternate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got i18n.Locale
			h := Locale(i18n.DefaultCookieName)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				got = LocaleFromContext(r.Context())
			}))
			req := httptest.NewRequest(http.MethodGet, "/host", nil)
			for _, v := range tt.headers {
				req.Header.Add("Cookie", v)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveIdentity_BearerAndSession(t *testing.T) {
	sessions := authmocks.NewMemorySessionStore()
	resolver := service.NewSessionResolver(service.SessionResolverOptions{
		Sessions: sessions,
		Tokens:   authmocks.StaticTokens{},
		Logger:   discardLogger(),
	})

	var got domainauth.Identity
	h := ResolveIdentity(resolver)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = IdentityFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer tok-"+hostUserID)
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, hostUserID, got.UserID)

	req = httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "unknown"})
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.True(t, got.Anonymous())
}

func TestRequireHost(t *testing.T) {
	t.Run("anonymous api request gets 401", func(t *testing.T) {
		h := RequireHost(&fixedResolver{})(http.HandlerFunc(okHandler))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/host/listings", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "authentication_required", decodeBody(t, rec)["error"])
	})

	t.Run("anonymous browser request is redirected to login", func(t *testing.T) {
		h := RequireHost(&fixedResolver{})(http.HandlerFunc(okHandler))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/host?tab=bookings", nil))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/auth/login?redirect_uri=%2Fhost%3Ftab%3Dbookings", rec.Header().Get("Location"))
	})

	t.Run("signed-in request passes", func(t *testing.T) {
		h := RequireHost(&fixedResolver{id: domainauth.Identity{UserID: hostUserID}})(http.HandlerFunc(okHandler))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/host/listings", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("identity already in context is reused", func(t *testing.T) {
		resolver := &fixedResolver{id: domainauth.Identity{UserID: hostUserID}}
		h := ResolveIdentity(resolver)(RequireHost(resolver)(http.HandlerFunc(okHandler)))
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/me", nil))
		assert.Equal(t, 1, resolver.calls)
	})
}

func TestRequireAdmin(t *testing.T) {
	store := authmocks.NewMemoryUserStore(
		domainauth.UserRecord{ID: hostUserID, Role: domainauth.RoleUser},
		domainauth.UserRecord{ID: adminUserID, Email: "admin@example.com", Role: domainauth.RoleAdmin},
	)
	gate := service.NewRoleGate(service.RoleGateOptions{Users: store})

	t.Run("non-admin api request gets 403 json", func(t *testing.T) {
		h := RequireAdmin(&fixedResolver{id: domainauth.Identity{UserID: hostUserID}}, gate, discardLogger())(
			http.HandlerFunc(okHandler))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/listings", nil))

		assert.Equal(t, http.StatusForbidden, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "forbidden", body["error"])
		assert.Equal(t, "Forbidden", body["message"])
	})

	t.Run("anonymous browser request gets plain 403", func(t *testing.T) {
		h := RequireAdmin(&fixedResolver{}, gate, discardLogger())(http.HandlerFunc(okHandler))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "Forbidden")
	})

	t.Run("lookup failure gets 500", func(t *testing.T) {
		h := RequireAdmin(&fixedResolver{id: domainauth.Identity{UserID: adminUserID}}, failingGate{}, discardLogger())(
			http.HandlerFunc(okHandler))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/listings", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "internal_error", decodeBody(t, rec)["error"])
	})

	t.Run("admin passes with record in context", func(t *testing.T) {
		var rec *domainauth.UserRecord
		h := RequireAdmin(&fixedResolver{id: domainauth.Identity{UserID: adminUserID}}, gate, discardLogger())(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				rec, _ = AdminFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			}))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/admin/listings", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, rec)
		assert.Equal(t, adminUserID, rec.ID)
	})

	t.Run("dev bypass admits anonymous requests as the dev admin", func(t *testing.T) {
		bypass := service.NewRoleGate(service.RoleGateOptions{Users: store, DevBypass: true})
		var rec *domainauth.UserRecord
		h := RequireAdmin(&fixedResolver{}, bypass, discardLogger())(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				rec, _ = AdminFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			}))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/admin/listings", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, rec)
		assert.Equal(t, domainauth.DevAdminRecord, *rec)
	})
}

func TestRecover(t *testing.T) {
	h := Recover(discardLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
