package authz

import "strings"

// Role names that unconditionally bypass permission checks. Compared
// case-insensitively against the principal's role list.
var superUserRoles = []string{"owner", "superadmin"}

// Principal is the strict value type every decision is computed
// against. Role and permission shape variations from the identity
// store are normalized here, at the boundary, so the matcher never
// branches on input shape.
type Principal struct {
	ID          int64
	Roles       []string
	Permissions []string
	SuperUser   bool
}

// NewPrincipal builds a Principal from raw identity-store output. The
// granted slugs are normalized exactly once per construction; the
// super-user flag is derived from the role names and from a literal
// "*" grant so downstream checks only consult the flag.
func NewPrincipal(id int64, roles []string, granted []string) Principal {
	cleaned := make([]string, 0, len(roles))
	for _, role := range roles {
		role = strings.TrimSpace(role)
		if role != "" {
			cleaned = append(cleaned, role)
		}
	}
	normalized := Normalize(granted)
	return Principal{
		ID:          id,
		Roles:       cleaned,
		Permissions: normalized,
		SuperUser:   isSuperUser(cleaned, normalized),
	}
}

func isSuperUser(roles []string, granted []string) bool {
	for _, role := range roles {
		for _, super := range superUserRoles {
			if strings.EqualFold(role, super) {
				return true
			}
		}
	}
	for _, slug := range granted {
		if slug == WildcardAll {
			return true
		}
	}
	return false
}
