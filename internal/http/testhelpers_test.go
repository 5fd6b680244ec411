package httpx

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/minbak/minbak-web/internal/domain/auth"
	"github.com/minbak/minbak-web/internal/i18n"
	"github.com/minbak/minbak-web/internal/mocks"
	authmocks "github.com/minbak/minbak-web/internal/mocks/auth"
	"github.com/minbak/minbak-web/internal/service"
)

const (
	hostUserID  = "11111111-1111-1111-1111-111111111111"
	guestUserID = "22222222-2222-2222-2222-222222222222"
	adminUserID = "33333333-3333-3333-3333-333333333333"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// routerFixture wires the real services over gomock repositories and in-memory auth doubles.
type routerFixture struct {
	handler  http.Handler
	users    *mocks.MockUserRepository
	listings *mocks.MockListingRepository
	bookings *mocks.MockBookingRepository
	messages *mocks.MockMessageRepository
	sessions *authmocks.MemorySessionStore
	store    *authmocks.MemoryUserStore
}

type fixtureOption func(*RouterServices)

func withDevBypass(store *authmocks.MemoryUserStore) fixtureOption {
	return func(s *RouterServices) {
		s.Gate = service.NewRoleGate(service.RoleGateOptions{Users: store, DevBypass: true})
	}
}

func newRouterFixture(t *testing.T, opts ...fixtureOption) *routerFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &routerFixture{
		users:    mocks.NewMockUserRepository(ctrl),
		listings: mocks.NewMockListingRepository(ctrl),
		bookings: mocks.NewMockBookingRepository(ctrl),
		messages: mocks.NewMockMessageRepository(ctrl),
		sessions: authmocks.NewMemorySessionStore(),
		store: authmocks.NewMemoryUserStore(
			domainauth.UserRecord{ID: hostUserID, Email: "host@example.com", Name: "Host", Role: domainauth.RoleUser},
			domainauth.UserRecord{ID: guestUserID, Email: "guest@example.com", Name: "Guest", Role: domainauth.RoleUser},
			domainauth.UserRecord{ID: adminUserID, Email: "admin@example.com", Name: "Admin", Role: domainauth.RoleAdmin},
		),
	}

	tr, err := i18n.LoadDefault()
	require.NoError(t, err)

	logger := discardLogger()
	services := RouterServices{
		Auth: service.NewAuthService(service.AuthServiceOptions{
			Provider: authmocks.NewMockAuthProvider(),
			Sessions: f.sessions,
			Roles:    authmocks.StaticRoleMapper{AdminGroup: "admins"},
			Users:    f.users,
			Hasher:   authmocks.PlainHasher{},
			Tokens:   authmocks.StaticTokens{},
		}),
		Resolver: service.NewSessionResolver(service.SessionResolverOptions{
			Sessions: f.sessions,
			Tokens:   authmocks.StaticTokens{},
			Logger:   logger,
		}),
		Gate:     service.NewRoleGate(service.RoleGateOptions{Users: f.store}),
		Listings: service.NewListingService(service.ListingServiceOptions{Repo: f.listings, Logger: logger}),
		Bookings: service.NewBookingService(service.BookingServiceOptions{Repo: f.bookings, Logger: logger}),
		Messages: service.NewMessageService(service.MessageServiceOptions{Messages: f.messages, Bookings: f.bookings}),
		Users:    service.NewUserService(service.UserServiceOptions{Repo: f.users}),

		Translator:   tr,
		LocaleCookie: i18n.DefaultCookieName,
		Logger:       logger,
	}
	for _, opt := range opts {
		opt(&services)
	}

	f.handler, err = NewRouter(services)
	require.NoError(t, err)
	return f
}

// signIn stores a live session for userID and returns its cookie.
func (f *routerFixture) signIn(t *testing.T, userID string) *http.Cookie {
	t.Helper()
	sid := "sess-" + userID
	require.NoError(t, f.sessions.Save(context.Background(), domainauth.Session{
		ID:        sid,
		UserID:    userID,
		ExpiresAt: time.Now().Add(time.Hour),
	}))
	return &http.Cookie{Name: SessionCookieName, Value: sid}
}

const testCSRFToken = "csrf-test-token"

type reqOpts struct {
	body    string
	cookies []*http.Cookie
	accept  string
	// csrf sends a matching csrf_token cookie and X-Csrf-Token header.
	csrf bool
}

func (f *routerFixture) do(method, target string, o reqOpts) *httptest.ResponseRecorder {
	var body io.Reader
	if o.body != "" {
		body = strings.NewReader(o.body)
	}
	req := httptest.NewRequest(method, target, body)
	if o.body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if o.accept != "" {
		req.Header.Set("Accept", o.accept)
	}
	for _, c := range o.cookies {
		req.AddCookie(c)
	}
	if o.csrf {
		req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: testCSRFToken})
		req.Header.Set(CSRFHeaderName, testCSRFToken)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func newFormRequest(method, target, form string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
