package decision

import (
	"github.com/gridstone-erp/gridstone-erp/internal/authz"
	"github.com/gridstone-erp/gridstone-erp/internal/menu"
)

// PreviewResult is what a principal holding exactly the given grants
// would see: the pruned menu, visible settings tabs, landing route and
// the locked-out flag.
type PreviewResult struct {
	VisibleMenuItems    []menu.Node        `json:"visibleMenuItems"`
	VisibleSettingsTabs []menu.SettingsTab `json:"visibleSettingsTabs"`
	LandingRoute        string             `json:"landingRoute"`
	AccessDenied        bool               `json:"accessDenied"`
}

// Preview runs the live engines against a hypothetical permission set.
// Not a separate algorithm: the same visibility and route code runs
// with substituted input, so role-simulation tooling sees byte-for-byte
// what a real principal with those grants would see.
func Preview(permissions []string, menuDefinitions []menu.Node) PreviewResult {
	matcher := authz.MatcherForSlugs(permissions)
	visible := menu.VisibleTree(menuDefinitions, matcher)
	return PreviewResult{
		VisibleMenuItems:    visible,
		VisibleSettingsTabs: menu.VisibleSettingsTabs(menu.SettingsTabs(), matcher),
		LandingRoute:        menu.FirstAllowedRoute(menuDefinitions, matcher),
		AccessDenied:        len(visible) == 0,
	}
}
