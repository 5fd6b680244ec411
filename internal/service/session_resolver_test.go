package service

import (
	"context"
	"errors"
	"testing"
	"time"

	domainauth "github.com/minbak/minbak-web/internal/domain/auth"
	authmocks "github.com/minbak/minbak-web/internal/mocks/auth"
	"github.com/minbak/minbak-web/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(t *testing.T) (*SessionResolver, *authmocks.MemorySessionStore) {
	t.Helper()
	store := authmocks.NewMemorySessionStore()
	now := testutil.TestTime()
	require.NoError(t, store.Save(context.Background(), domainauth.Session{
		ID: "live", UserID: "u1", ExpiresAt: now.Add(time.Hour),
	}))
	require.NoError(t, store.Save(context.Background(), domainauth.Session{
		ID: "stale", UserID: "u2", ExpiresAt: now.Add(-time.Second),
	}))
	r := NewSessionResolver(SessionResolverOptions{
		Sessions: store,
		Tokens:   authmocks.StaticTokens{},
		Now:      testutil.FixedTimeFunc(now),
	})
	return r, store
}

func TestSessionResolver_Resolve(t *testing.T) {
	r, _ := newTestResolver(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		creds domainauth.RequestCredentials
		want  domainauth.Identity
	}{
		{"no credentials", domainauth.RequestCredentials{}, domainauth.Anonymous()},
		{"live session", domainauth.RequestCredentials{SessionID: "live"}, domainauth.Identity{UserID: "u1"}},
		{"unknown session", domainauth.RequestCredentials{SessionID: "nope"}, domainauth.Anonymous()},
		{"expired session", domainauth.RequestCredentials{SessionID: "stale"}, domainauth.Anonymous()},
		{"bearer token", domainauth.RequestCredentials{BearerToken: "tok-u9"}, domainauth.Identity{UserID: "u9"}},
		{"bad bearer token", domainauth.RequestCredentials{BearerToken: "junk"}, domainauth.Anonymous()},
		{
			"session wins over token",
			domainauth.RequestCredentials{SessionID: "live", BearerToken: "tok-u9"},
			domainauth.Identity{UserID: "u1"},
		},
		{
			"token used when session is stale",
			domainauth.RequestCredentials{SessionID: "stale", BearerToken: "tok-u9"},
			domainauth.Identity{UserID: "u9"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Resolve(ctx, tt.creds)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, r.Resolve(ctx, tt.creds), "resolution is repeatable")
		})
	}
}

func TestSessionResolver_StoreFailureIsAnonymous(t *testing.T) {
	r := NewSessionResolver(SessionResolverOptions{
		Sessions: &mockSessionStore{getFunc: func(context.Context, string) (domainauth.Session, error) {
			return domainauth.Session{}, errors.New("redis down")
		}},
	})

	got := r.Resolve(context.Background(), domainauth.RequestCredentials{SessionID: "live"})
	assert.True(t, got.Anonymous())
}

func TestSessionResolver_NoTokenVerifier(t *testing.T) {
	r := NewSessionResolver(SessionResolverOptions{Sessions: authmocks.NewMemorySessionStore()})

	got := r.Resolve(context.Background(), domainauth.RequestCredentials{BearerToken: "tok-u1"})
	assert.True(t, got.Anonymous())
}
