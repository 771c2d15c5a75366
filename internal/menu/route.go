package menu

import (
	"strings"

	"github.com/gridstone-erp/gridstone-erp/internal/authz"
)

// AccessDeniedRoute is the terminal landing route for principals with
// no reachable navigation target.
const AccessDeniedRoute = "/access-denied"

// FirstAllowedRoute walks the unfiltered registry depth-first, left to
// right, re-checking permissions per node, and returns the first leaf
// path the matcher allows. First found wins; exhaustion yields the
// access-denied sentinel. This runs after login and after any
// permission change to pick where to land the principal.
func FirstAllowedRoute(nodes []Node, m *authz.Matcher) string {
	if path := firstAllowed(nodes, m); path != "" {
		return path
	}
	return AccessDeniedRoute
}

func firstAllowed(nodes []Node, m *authz.Matcher) string {
	for _, node := range nodes {
		if len(node.Children) > 0 {
			if path := firstAllowed(node.Children, m); path != "" {
				return path
			}
			continue
		}
		path := strings.TrimSpace(node.Path)
		if path == "" {
			continue
		}
		if m.HasAny(node.RequiredPermissions...) {
			return path
		}
	}
	return ""
}

// FirstPathFromMenu returns the first leaf path of an already-filtered
// tree without re-checking permissions. Callers that have computed
// visibility use this to avoid a second traversal; handing it an
// unfiltered registry defeats the authorization check.
func FirstPathFromMenu(nodes []Node) string {
	for _, node := range nodes {
		if len(node.Children) > 0 {
			if path := FirstPathFromMenu(node.Children); path != AccessDeniedRoute {
				return path
			}
			continue
		}
		if path := strings.TrimSpace(node.Path); path != "" {
			return path
		}
	}
	return AccessDeniedRoute
}
