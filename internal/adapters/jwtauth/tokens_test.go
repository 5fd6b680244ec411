package jwtauth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/minbak/minbak-web/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

var (
	_ ports.TokenIssuer   = (*Manager)(nil)
	_ ports.TokenVerifier = (*Manager)(nil)
)

func newTestManager(t *testing.T, now func() time.Time) *Manager {
	t.Helper()
	m, err := NewManager(Config{Secret: testSecret, Now: now})
	require.NoError(t, err)
	return m
}

func TestManager_IssueAndVerify(t *testing.T) {
	m := newTestManager(t, nil)

	tok, exp, err := m.Issue("user-1", time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 2*time.Second)

	sub, err := m.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", sub)
}

func TestManager_VerifyExpired(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	m := newTestManager(t, func() time.Time { return now })

	tok, _, err := m.Issue("user-1", time.Minute)
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = m.Verify(tok)
	require.ErrorIs(t, err, ErrInvalidToken)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestManager_VerifyRejects(t *testing.T) {
	m := newTestManager(t, nil)

	other, err := NewManager(Config{Secret: "ffffffffffffffffffffffffffffffff"})
	require.NoError(t, err)
	foreign, _, err := other.Issue("user-1", time.Hour)
	require.NoError(t, err)

	wrongAudience, err := NewManager(Config{Secret: testSecret, Audience: "someone-else"})
	require.NoError(t, err)
	otherAud, _, err := wrongAudience.Issue("user-1", time.Hour)
	require.NoError(t, err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "user-1",
		Issuer:    defaultIssuer,
		Audience:  jwt.ClaimStrings{defaultAudience},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, tok := range map[string]string{
		"empty":          "",
		"garbage":        "not-a-jwt",
		"other secret":   foreign,
		"other audience": otherAud,
		"alg none":       noneAlg,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := m.Verify(tok)
			require.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestManager_IssueValidation(t *testing.T) {
	m := newTestManager(t, nil)

	_, _, err := m.Issue("", time.Hour)
	require.Error(t, err)

	_, _, err = m.Issue("user-1", 0)
	require.Error(t, err)
}

func TestNewManager_ShortSecret(t *testing.T) {
	_, err := NewManager(Config{Secret: "short"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 32 bytes")
}
