package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/minbak/minbak-web/internal/domain/auth"
	"github.com/minbak/minbak-web/internal/domain/model"
)

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestAuth_PasswordLogin(t *testing.T) {
	f := newRouterFixture(t)
	hash := "plain:s3cret-pass"
	f.users.EXPECT().GetByEmail(gomock.Any(), "host@example.com").
		Return(&model.User{ID: hostUserID, Email: "host@example.com", Name: "Host", PasswordHash: &hash}, nil)

	rec := f.do(http.MethodPost, "/auth/password", reqOpts{body: `{"email":"Host@Example.com","password":"s3cret-pass"}`})

	require.Equal(t, http.StatusOK, rec.Code)
	c := findCookie(rec, SessionCookieName)
	require.NotNil(t, c)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, 1, f.sessions.Len())
}

func TestAuth_PasswordLogin_WrongPassword(t *testing.T) {
	f := newRouterFixture(t)
	hash := "plain:right"
	f.users.EXPECT().GetByEmail(gomock.Any(), "host@example.com").
		Return(&model.User{ID: hostUserID, PasswordHash: &hash}, nil)

	rec := f.do(http.MethodPost, "/auth/password", reqOpts{body: `{"email":"host@example.com","password":"wrong"}`})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, findCookie(rec, SessionCookieName))
	assert.Equal(t, 0, f.sessions.Len())
}

func TestAuth_Register_Validation(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(http.MethodPost, "/auth/register", reqOpts{body: `{"email":"","name":"x","password":"longenough"}`})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation_failed", decodeBody(t, rec)["error"])
}

func TestAuth_LoginAndCallback(t *testing.T) {
	f := newRouterFixture(t)

	login := f.do(http.MethodGet, "/auth/login?redirect_uri=/host/bookings", reqOpts{})
	require.Equal(t, http.StatusFound, login.Code)
	assert.Equal(t, "https://mock-idp/auth", login.Header().Get("Location"))

	state := findCookie(login, oauthStateCookie)
	nonce := findCookie(login, oauthNonceCookie)
	next := findCookie(login, postLoginCookie)
	require.NotNil(t, state)
	require.NotNil(t, nonce)
	require.NotNil(t, next)
	assert.Equal(t, "/host/bookings", next.Value)

	f.users.EXPECT().UpsertExternal(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, req model.UpsertExternalUserRequest) (*model.User, error) {
			assert.Equal(t, domainauth.RoleUser, req.Role)
			return &model.User{ID: hostUserID, Email: req.Email, Name: req.Name, Role: domainauth.RoleUser}, nil
		})

	cb := f.do(http.MethodGet, "/auth/callback?code=abc&state="+state.Value, reqOpts{
		cookies: []*http.Cookie{state, nonce, next},
	})
	require.Equal(t, http.StatusFound, cb.Code)
	assert.Equal(t, "/host/bookings", cb.Header().Get("Location"))
	require.NotNil(t, findCookie(cb, SessionCookieName))
	assert.Equal(t, 1, f.sessions.Len())
}

func TestAuth_CallbackRejectsStateMismatch(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(http.MethodGet, "/auth/callback?code=abc&state=forged", reqOpts{
		cookies: []*http.Cookie{
			{Name: oauthStateCookie, Value: "state-1"},
			{Name: oauthNonceCookie, Value: "nonce-1"},
		},
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_state", decodeBody(t, rec)["error"])
}

func TestAuth_LoginRejectsOffsiteRedirect(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(http.MethodGet, "/auth/login?redirect_uri=https://evil.example/x", reqOpts{})

	require.Equal(t, http.StatusFound, rec.Code)
	c := findCookie(rec, postLoginCookie)
	require.NotNil(t, c)
	assert.Equal(t, "/", c.Value)
}

func TestAuth_StatusAndLogout(t *testing.T) {
	f := newRouterFixture(t)
	cookie := f.signIn(t, hostUserID)

	rec := f.do(http.MethodGet, "/auth/status", reqOpts{cookies: []*http.Cookie{cookie}})
	require.Equal(t, http.StatusOK, rec.Code)
	var status map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, true, status["authenticated"])

	out := f.do(http.MethodPost, "/auth/logout", reqOpts{cookies: []*http.Cookie{cookie}, accept: "application/json", csrf: true})
	require.Equal(t, http.StatusOK, out.Code)
	assert.Equal(t, 0, f.sessions.Len())

	rec = f.do(http.MethodGet, "/auth/status", reqOpts{cookies: []*http.Cookie{cookie}})
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, false, status["authenticated"])
}

func TestAuth_Token(t *testing.T) {
	f := newRouterFixture(t)

	anon := f.do(http.MethodPost, "/auth/token", reqOpts{accept: "application/json"})
	assert.Equal(t, http.StatusUnauthorized, anon.Code)

	rec := f.do(http.MethodPost, "/auth/token", reqOpts{cookies: []*http.Cookie{f.signIn(t, hostUserID)}})
	require.Equal(t, http.StatusOK, rec.Code)
	var tok map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tok))
	assert.Equal(t, "tok-"+hostUserID, tok["token"])
}
