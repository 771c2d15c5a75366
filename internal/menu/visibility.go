package menu

import (
	"strings"

	"github.com/gridstone-erp/gridstone-erp/internal/authz"
)

// VisibleTree prunes a registry tree to the nodes reachable with the
// matcher's grants. Containers survive only when at least one child
// survives; a container emptied by pruning is dropped, while a node
// that never declared children is a leaf and stands on its own check.
// Registry order is preserved, the input is never mutated, and the
// function is idempotent: filtering a filtered tree is a no-op.
func VisibleTree(nodes []Node, m *authz.Matcher) []Node {
	visible := make([]Node, 0, len(nodes))
	for _, node := range nodes {
		if node.Children != nil {
			children := VisibleTree(node.Children, m)
			if len(children) == 0 {
				continue
			}
			pruned := node
			pruned.Children = children
			visible = append(visible, pruned)
			continue
		}
		if strings.TrimSpace(node.Path) == "" {
			continue
		}
		if m.HasAny(node.RequiredPermissions...) {
			visible = append(visible, node)
		}
	}
	return visible
}

// VisibleSettingsTabs filters the settings tab registry by the
// matcher's grants, preserving registry order.
func VisibleSettingsTabs(tabs []SettingsTab, m *authz.Matcher) []SettingsTab {
	visible := make([]SettingsTab, 0, len(tabs))
	for _, tab := range tabs {
		if m.HasAny(tab.RequiredPermissions...) {
			visible = append(visible, tab)
		}
	}
	return visible
}
