package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func csrfEcho() http.Handler {
	return CSRFProtection(CSRFOptions{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(CSRFToken(r.Context())))
	}))
}

func TestCSRFProtection_IssuesToken(t *testing.T) {
	rec := serve(csrfEcho(), httptest.NewRequest(http.MethodGet, "/host", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	c := findCookie(rec, CSRFCookieName)
	require.NotNil(t, c)
	assert.NotEmpty(t, c.Value)
	assert.Equal(t, c.Value, rec.Body.String())
	assert.False(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
	assert.False(t, c.Secure)
}

func TestCSRFProtection_KeepsExistingCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/host", nil)
	req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: testCSRFToken})

	rec := serve(csrfEcho(), req)

	assert.Nil(t, findCookie(rec, CSRFCookieName))
	assert.Equal(t, testCSRFToken, rec.Body.String())
}

func TestCSRFProtection_SecureBehindProxy(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/host", nil)
	req.Header.Set("X-Forwarded-Proto", "http, HTTPS")

	c := findCookie(serve(csrfEcho(), req), CSRFCookieName)

	require.NotNil(t, c)
	assert.True(t, c.Secure)
}

func TestCSRFProtection_UnsafeMethods(t *testing.T) {
	tests := []struct {
		name   string
		cookie string
		header string
		form   string
		want   int
	}{
		{name: "no cookie", header: testCSRFToken, want: http.StatusForbidden},
		{name: "no token", cookie: testCSRFToken, want: http.StatusForbidden},
		{name: "header token", cookie: testCSRFToken, header: testCSRFToken, want: http.StatusOK},
		{name: "form token", cookie: testCSRFToken, form: "csrf_token=" + testCSRFToken, want: http.StatusOK},
		{name: "header mismatch", cookie: testCSRFToken, header: "other", want: http.StatusForbidden},
		{name: "form mismatch", cookie: testCSRFToken, form: "csrf_token=other", want: http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newFormRequest(http.MethodPost, "/host/locale", tt.form)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set(CSRFHeaderName, tt.header)
			}

			rec := serve(csrfEcho(), req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestCSRFProtection_IgnoresFieldInJSONBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Content-Type", "application/json")
	req.URL.RawQuery = "csrf_token=" + testCSRFToken
	req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: testCSRFToken})

	rec := serve(csrfEcho(), req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
