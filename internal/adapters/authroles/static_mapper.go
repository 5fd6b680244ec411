// Package authroles maps identity provider groups to minbak roles.
package authroles

import (
	"strings"

	domainauth "github.com/minbak/minbak-web/internal/domain/auth"
)

// StaticRoleMapper grants RoleAdmin to members of AdminGroup; everyone else is RoleUser.
// Group names compare case-insensitively.
type StaticRoleMapper struct {
	AdminGroup string
}

// Map returns the role for a set of provider groups.
func (m StaticRoleMapper) Map(groups []string) domainauth.Role {
	admin := strings.TrimSpace(m.AdminGroup)
	if admin == "" {
		return domainauth.RoleUser
	}
	for _, g := range groups {
		if strings.EqualFold(strings.TrimSpace(g), admin) {
			return domainauth.RoleAdmin
		}
	}
	return domainauth.RoleUser
}
