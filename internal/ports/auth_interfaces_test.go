package ports_test

import (
	"testing"

	mocks "github.com/minbak/minbak-web/internal/mocks/auth"
	"github.com/minbak/minbak-web/internal/ports"
)

// This test only verifies that our mocks conform to the ports at compile time.
func TestMocksImplementPorts(t *testing.T) {
	t.Helper()

	var _ ports.AuthProvider = (*mocks.MockAuthProvider)(nil)
	var _ ports.SessionStore = (*mocks.MemorySessionStore)(nil)
	var _ ports.RoleMapper = (*mocks.StaticRoleMapper)(nil)
	var _ ports.UserStore = (*mocks.MemoryUserStore)(nil)
	var _ ports.TokenIssuer = (*mocks.StaticTokens)(nil)
	var _ ports.TokenVerifier = (*mocks.StaticTokens)(nil)
	var _ ports.PasswordHasher = (*mocks.PlainHasher)(nil)
}
