package menu

import (
	"reflect"
	"testing"

	"github.com/gridstone-erp/gridstone-erp/internal/authz"
)

func testTree() []Node {
	return []Node{
		{ID: "dashboard", Label: "Dashboard", Path: "/admin/dashboard", RequiredPermissions: []string{"system.dashboard.read"}},
		{ID: "users", Label: "Users", Path: "/admin/users", RequiredPermissions: []string{"system.users.read"}},
		{ID: "billing", Label: "Billing", Children: []Node{
			{ID: "invoices", Label: "Invoices", Path: "/admin/billing/invoices", RequiredPermissions: []string{"system.billing.invoices.read"}},
			{ID: "plans", Label: "Plans", Path: "/admin/billing/plans", RequiredPermissions: []string{"system.billing.plans.read"}},
		}},
		{ID: "help", Label: "Help", Path: "/help"},
	}
}

func TestVisibleTreeZeroPermissions(t *testing.T) {
	m := authz.MatcherForSlugs(nil)
	got := VisibleTree([]Node{
		{ID: "users", Path: "/admin/users", RequiredPermissions: []string{"system.users.read"}},
	}, m)
	if len(got) != 0 {
		t.Fatalf("expected empty tree, got %v", got)
	}
}

func TestVisibleTreeSingleLeafPermission(t *testing.T) {
	registry := []Node{
		{ID: "dashboard", Path: "/admin/dashboard", RequiredPermissions: []string{"system.dashboard.read"}},
		{ID: "users", Path: "/admin/users", RequiredPermissions: []string{"system.users.read"}},
	}
	m := authz.MatcherForSlugs([]string{"system.users.read"})
	got := VisibleTree(registry, m)
	if len(got) != 1 || got[0].ID != "users" {
		t.Fatalf("expected only users node, got %v", got)
	}
}

func TestVisibleTreeDropsEmptiedContainer(t *testing.T) {
	m := authz.MatcherForSlugs([]string{"system.users.read"})
	got := VisibleTree(testTree(), m)
	for _, node := range got {
		if node.ID == "billing" {
			t.Fatalf("billing container should be dropped when no child survives")
		}
	}
}

func TestVisibleTreeKeepsContainerWithSurvivingChild(t *testing.T) {
	m := authz.MatcherForSlugs([]string{"system.billing.invoices.read"})
	got := VisibleTree(testTree(), m)
	if len(got) != 2 {
		t.Fatalf("expected billing and help, got %v", got)
	}
	if got[0].ID != "billing" || len(got[0].Children) != 1 || got[0].Children[0].ID != "invoices" {
		t.Fatalf("billing container should keep only invoices child: %v", got[0])
	}
}

func TestVisibleTreeUngatedLeafAlwaysVisible(t *testing.T) {
	m := authz.MatcherForSlugs(nil)
	got := VisibleTree(testTree(), m)
	if len(got) != 1 || got[0].ID != "help" {
		t.Fatalf("help leaf without requirements should be visible: %v", got)
	}
}

func TestVisibleTreeLeafWithoutPathDropped(t *testing.T) {
	m := authz.MatcherForSlugs([]string{"x.read"})
	got := VisibleTree([]Node{{ID: "ghost", RequiredPermissions: []string{"x.read"}}}, m)
	if len(got) != 0 {
		t.Fatalf("leaf without path must be dropped: %v", got)
	}
}

func TestVisibleTreeScheduledEmptyContainerDropped(t *testing.T) {
	// Children declared but empty: a container with zero visible
	// children right now, not a leaf.
	m := authz.MatcherForSlugs([]string{"*"})
	got := VisibleTree([]Node{{ID: "empty", Path: "/empty", Children: []Node{}}}, m)
	if len(got) != 0 {
		t.Fatalf("declared-empty container must be dropped: %v", got)
	}
}

func TestVisibleTreeIdempotent(t *testing.T) {
	m := authz.MatcherForSlugs([]string{"system.billing.invoices.read", "system.users.read"})
	once := VisibleTree(testTree(), m)
	twice := VisibleTree(once, m)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("visibility pruning not idempotent: %v vs %v", once, twice)
	}
}

func TestVisibleTreePreservesOrder(t *testing.T) {
	m := authz.MatcherForSlugs([]string{"system.users.read", "system.dashboard.read"})
	got := VisibleTree(testTree(), m)
	if len(got) != 3 || got[0].ID != "dashboard" || got[1].ID != "users" || got[2].ID != "help" {
		t.Fatalf("registry order must be preserved: %v", got)
	}
}

func TestVisibleTreeOperationImpliesAccess(t *testing.T) {
	registry := []Node{{ID: "settings", Path: "/admin/settings", RequiredPermissions: []string{"system.settings.access"}}}
	m := authz.MatcherForSlugs([]string{"system.settings.general.read"})
	got := VisibleTree(registry, m)
	if len(got) != 1 {
		t.Fatalf("normalized operation grant should unlock settings node: %v", got)
	}
}

func TestVisibleSettingsTabs(t *testing.T) {
	m := authz.MatcherForSlugs([]string{"system.settings.security.read"})
	got := VisibleSettingsTabs(SettingsTabs(), m)
	if len(got) != 1 || got[0].Key != "security" {
		t.Fatalf("expected only security tab, got %v", got)
	}
}
