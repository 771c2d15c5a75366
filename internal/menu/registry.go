// Package menu holds the declarative navigation registries and the
// engines that prune them by a principal's permissions. The registries
// are pure data, loaded once at boot and never mutated; changing their
// shape is a contract change, not an implementation detail.
package menu

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gridstone-erp/gridstone-erp/internal/authz"
	"github.com/gridstone-erp/gridstone-erp/internal/shared"
)

// Node is one navigation entry. A nil Children slice marks a leaf; a
// non-nil (possibly empty) slice marks a container whose visibility
// follows from its children. Leaves without a Path are never valid
// navigation targets.
type Node struct {
	ID                  string   `json:"id"`
	Label               string   `json:"label"`
	Path                string   `json:"path,omitempty"`
	RequiredPermissions []string `json:"requiredPermissions,omitempty"`
	Children            []Node   `json:"children,omitempty"`
	Tab                 string   `json:"tab,omitempty"`
	SubTab              string   `json:"subTab,omitempty"`
}

// SettingsTab gates one tab of the settings surface.
type SettingsTab struct {
	Key                 string   `json:"key"`
	Label               string   `json:"label"`
	RequiredPermissions []string `json:"requiredPermissions,omitempty"`
}

// PlatformMenu returns the platform administration navigation tree.
func PlatformMenu() []Node {
	return []Node{
		{ID: "dashboard", Label: "Dashboard", Path: "/admin/dashboard", RequiredPermissions: []string{shared.PermDashboardView}},
		{ID: "tenants", Label: "Tenants", Path: "/admin/tenants", RequiredPermissions: []string{shared.PermTenantsView}},
		{ID: "users", Label: "Users", Path: "/admin/users", RequiredPermissions: []string{shared.PermUsersView}},
		{ID: "roles", Label: "Roles", Path: "/admin/roles", RequiredPermissions: []string{shared.PermRolesView}},
		{ID: "billing", Label: "Billing", Children: []Node{
			{ID: "invoices", Label: "Invoices", Path: "/admin/billing/invoices", RequiredPermissions: []string{shared.PermInvoicesView}},
			{ID: "plans", Label: "Plans", Path: "/admin/billing/plans", RequiredPermissions: []string{shared.PermPlansView}},
		}},
		{ID: "files", Label: "Files", Path: "/admin/files", RequiredPermissions: []string{shared.PermFilesView}},
		{ID: "settings", Label: "Settings", Path: "/admin/settings", Tab: "general", RequiredPermissions: []string{shared.PermSettingsAccess}},
	}
}

// TenantMenu returns the tenant workspace navigation tree.
func TenantMenu() []Node {
	return []Node{
		{ID: "tenant-dashboard", Label: "Dashboard", Path: "/t/dashboard", RequiredPermissions: []string{shared.PermTenantDashboardView}},
		{ID: "tenant-members", Label: "Members", Path: "/t/members", RequiredPermissions: []string{shared.PermTenantMembersView}},
		{ID: "tenant-files", Label: "Files", Path: "/t/files", RequiredPermissions: []string{shared.PermTenantFilesView}},
		{ID: "tenant-billing", Label: "Billing", Path: "/t/billing", RequiredPermissions: []string{shared.PermTenantBillingView}},
		{ID: "tenant-settings", Label: "Settings", Path: "/t/settings", Tab: "general", SubTab: "profile", RequiredPermissions: []string{shared.PermTenantSettingsAccess}},
	}
}

// SettingsTabs returns the settings tab registry.
func SettingsTabs() []SettingsTab {
	return []SettingsTab{
		{Key: "general", Label: "General", RequiredPermissions: []string{shared.PermSettingsGeneralView}},
		{Key: "security", Label: "Security", RequiredPermissions: []string{shared.PermSettingsSecurityView}},
		{Key: "notifications", Label: "Notifications", RequiredPermissions: []string{shared.PermSettingsNotificationsView}},
		{Key: "integrations", Label: "Integrations", RequiredPermissions: []string{shared.PermSettingsIntegrationsView}},
	}
}

// Validate walks a registry tree checking structural rules: node IDs
// present and unique, leaves carry a navigable path, and every
// required-permission entry is a well-formed slug or recognized
// wildcard. All violations are reported, joined into a single error.
func Validate(nodes []Node) error {
	seen := make(map[string]struct{})
	var problems []error
	walkValidate(nodes, seen, &problems)
	return errors.Join(problems...)
}

func walkValidate(nodes []Node, seen map[string]struct{}, problems *[]error) {
	for _, node := range nodes {
		if node.ID == "" {
			*problems = append(*problems, fmt.Errorf("menu: node %q missing id", node.Label))
		} else if _, dup := seen[node.ID]; dup {
			*problems = append(*problems, fmt.Errorf("menu: duplicate node id %q", node.ID))
		} else {
			seen[node.ID] = struct{}{}
		}
		if node.Children == nil && strings.TrimSpace(node.Path) == "" {
			*problems = append(*problems, fmt.Errorf("menu: leaf %q has no path", node.ID))
		}
		for _, slug := range node.RequiredPermissions {
			if !authz.WellFormed(slug) {
				*problems = append(*problems, fmt.Errorf("menu: node %q has malformed permission %q", node.ID, slug))
			}
		}
		walkValidate(node.Children, seen, problems)
	}
}
