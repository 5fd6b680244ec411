package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	domainauth "github.com/minbak/minbak-web/internal/domain/auth"
	"github.com/minbak/minbak-web/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.AuthProvider   = (*MockAuthProvider)(nil)
	_ ports.SessionStore   = (*MemorySessionStore)(nil)
	_ ports.RoleMapper     = (*StaticRoleMapper)(nil)
	_ ports.UserStore      = (*MemoryUserStore)(nil)
	_ ports.TokenIssuer    = (*StaticTokens)(nil)
	_ ports.TokenVerifier  = (*StaticTokens)(nil)
	_ ports.PasswordHasher = PlainHasher{}
)

// ErrNotFound is returned by the session double for unknown IDs.
var ErrNotFound = domainauth.ErrSessionNotFound

// MockAuthProvider simulates an IdP for tests with deterministic state/nonce handling.
type MockAuthProvider struct {
	BeginFunc    func(ctx context.Context, in ports.BeginInput) (authURL, state, nonce string, err error)
	ExchangeFunc func(ctx context.Context, in ports.ExchangeInput) (domainauth.Principal, error)

	AuthURL     string
	StatePrefix string
	NoncePrefix string
	DefaultUser domainauth.Principal

	mu        sync.Mutex
	callCount int
}

// NewMockAuthProvider creates a MockAuthProvider with sensible defaults.
func NewMockAuthProvider() *MockAuthProvider {
	return &MockAuthProvider{
		AuthURL:     "https://mock-idp/auth",
		StatePrefix: "state",
		NoncePrefix: "nonce",
		DefaultUser: defaultPrincipal(),
	}
}

func defaultPrincipal() domainauth.Principal {
	return domainauth.Principal{
		ExternalID: "mock-user-1",
		Name:       "Mock User",
		Email:      "mock.user@example.com",
		Groups:     []string{"hosts"},
	}
}

func (m *MockAuthProvider) Begin(ctx context.Context, in ports.BeginInput) (string, string, string, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx, in)
	}

	m.mu.Lock()
	m.callCount++
	n := m.callCount
	m.mu.Unlock()

	authURL := m.AuthURL
	if authURL == "" {
		authURL = "https://mock-idp/auth"
	}
	statePrefix := m.StatePrefix
	if statePrefix == "" {
		statePrefix = "state"
	}
	noncePrefix := m.NoncePrefix
	if noncePrefix == "" {
		noncePrefix = "nonce"
	}

	return authURL, fmt.Sprintf("%s-%d", statePrefix, n), fmt.Sprintf("%s-%d", noncePrefix, n), nil
}

func (m *MockAuthProvider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Principal, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, in)
	}

	p := m.DefaultUser
	if p.ExternalID == "" {
		p = defaultPrincipal()
	}
	p.ExpiresAt = time.Now().Add(time.Hour)
	return p, nil
}

// MemorySessionStore is an in-memory session store for unit tests.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]domainauth.Session
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]domainauth.Session)}
}

func (m *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = sess
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok {
		return domainauth.Session{}, ErrNotFound
	}
	return sess, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Len reports how many sessions are stored.
func (m *MemorySessionStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// StaticRoleMapper grants RoleAdmin to members of AdminGroup.
type StaticRoleMapper struct {
	AdminGroup string
}

func (m StaticRoleMapper) Map(groups []string) domainauth.Role {
	for _, g := range groups {
		if m.AdminGroup != "" && g == m.AdminGroup {
			return domainauth.RoleAdmin
		}
	}
	return domainauth.RoleUser
}

// MemoryUserStore serves user records from a map and counts lookups.
type MemoryUserStore struct {
	mu      sync.Mutex
	Records map[string]domainauth.UserRecord
	Err     error
	Calls   int
}

// NewMemoryUserStore creates a store holding recs keyed by ID.
func NewMemoryUserStore(recs ...domainauth.UserRecord) *MemoryUserStore {
	s := &MemoryUserStore{Records: make(map[string]domainauth.UserRecord, len(recs))}
	for _, r := range recs {
		s.Records[r.ID] = r
	}
	return s
}

func (s *MemoryUserStore) FindUserByID(_ context.Context, id string) (*domainauth.UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	if s.Err != nil {
		return nil, s.Err
	}
	rec, ok := s.Records[id]
	if !ok {
		return nil, domainauth.ErrUserNotFound
	}
	return &rec, nil
}

// StaticTokens issues "tok-<userID>" tokens and verifies them back.
type StaticTokens struct{}

func (StaticTokens) Issue(userID string, ttl time.Duration) (string, time.Time, error) {
	return "tok-" + userID, time.Now().Add(ttl), nil
}

func (StaticTokens) Verify(token string) (string, error) {
	userID, ok := strings.CutPrefix(token, "tok-")
	if !ok || userID == "" {
		return "", errors.New("invalid token")
	}
	return userID, nil
}

// PlainHasher stores passwords with a fixed prefix. Never use outside tests.
type PlainHasher struct{}

func (PlainHasher) Hash(password string) (string, error) { return "plain:" + password, nil }

func (PlainHasher) Compare(hash, password string) error {
	if hash != "plain:"+password {
		return errors.New("password mismatch")
	}
	return nil
}
