package pagestate

import (
	"errors"
	"testing"

	"github.com/gridstone-erp/gridstone-erp/internal/authz"
)

func mustRegistry(t *testing.T) *Registry {
	t.Helper()
	registry, err := Default()
	if err != nil {
		t.Fatalf("default registry: %v", err)
	}
	return registry
}

func TestResolveZeroPermissions(t *testing.T) {
	registry := mustRegistry(t)
	state, err := registry.Resolve("Z_USERS", authz.MatcherForSlugs(nil))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if state.Authorized {
		t.Fatalf("expected unauthorized")
	}
	if state.PageKey != "Z_USERS" {
		t.Fatalf("page key: got %q", state.PageKey)
	}
	if len(state.Sections) != 0 || len(state.Actions) != 0 {
		t.Fatalf("denied page must carry empty maps: %+v", state)
	}
	if got := state.Classification(); got != ClassUnauthorized {
		t.Fatalf("classification: got %s", got)
	}
}

func TestResolveUnknownPageFailsClosed(t *testing.T) {
	registry := mustRegistry(t)
	state, err := registry.Resolve("Z_NOPE", authz.MatcherForSlugs([]string{"*"}))
	if !errors.Is(err, ErrUnknownPage) {
		t.Fatalf("expected ErrUnknownPage, got %v", err)
	}
	if state.Authorized || len(state.Sections) != 0 || len(state.Actions) != 0 {
		t.Fatalf("unknown page must fail closed: %+v", state)
	}
}

func TestResolveSectionsAndActions(t *testing.T) {
	registry := mustRegistry(t)
	m := authz.MatcherForSlugs([]string{
		"system.users.read",
		"system.users.create",
		"system.roles.read",
	})
	state, err := registry.Resolve("Z_USERS", m)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !state.Authorized {
		t.Fatalf("expected authorized")
	}
	if !state.Sections["profile"] || !state.Sections["roles"] {
		t.Fatalf("expected profile and roles sections visible: %v", state.Sections)
	}
	if state.Sections["sessions"] {
		t.Fatalf("sessions section should be hidden: %v", state.Sections)
	}
	if !state.Actions["GS_USERS_CREATE"] {
		t.Fatalf("expected GS_USERS_CREATE enabled: %v", state.Actions)
	}
	if state.Actions["GS_USERS_DELETE"] {
		t.Fatalf("expected GS_USERS_DELETE disabled: %v", state.Actions)
	}
	if got := state.Classification(); got != ClassAuthorizedPartial {
		t.Fatalf("classification: got %s", got)
	}
}

func TestResolveOwnerBypass(t *testing.T) {
	registry := mustRegistry(t)
	m := authz.NewMatcher(authz.NewPrincipal(1, []string{"Owner"}, nil))
	state, err := registry.Resolve("Z_SETTINGS", m)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !state.Authorized {
		t.Fatalf("owner must be authorized everywhere")
	}
	for key, visible := range state.Sections {
		if !visible {
			t.Fatalf("owner should see section %s", key)
		}
	}
	for key, enabled := range state.Actions {
		if !enabled {
			t.Fatalf("owner should have action %s", key)
		}
	}
	if got := state.Classification(); got != ClassAuthorizedFull {
		t.Fatalf("classification: got %s", got)
	}
}

func TestResolvePrefixWildcard(t *testing.T) {
	registry := mustRegistry(t)
	m := authz.MatcherForSlugs([]string{"system.billing:*"})
	state, err := registry.Resolve("Z_BILLING_INVOICES", m)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !state.Authorized {
		t.Fatalf("prefix wildcard should authorize billing invoices page")
	}
	if !state.Actions["GS_INVOICES_VOID"] {
		t.Fatalf("prefix wildcard should enable invoice actions: %v", state.Actions)
	}
}

func TestResolveSettingsSecurityUpdateAction(t *testing.T) {
	registry := mustRegistry(t)
	m := authz.MatcherForSlugs([]string{
		"system.settings.access",
		"system.settings.security.read",
		"system.settings.security.update",
	})
	state, err := registry.Resolve("Z_SETTINGS", m)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !state.Sections["security"] {
		t.Fatalf("expected security section visible: %v", state.Sections)
	}
	if !state.Actions["GS_SETTINGS_UPDATE_SECURITY"] {
		t.Fatalf("expected GS_SETTINGS_UPDATE_SECURITY enabled: %v", state.Actions)
	}
	if state.Actions["GS_SETTINGS_UPDATE"] {
		t.Fatalf("general settings update should stay disabled: %v", state.Actions)
	}
}

func TestResolvePageWithoutSections(t *testing.T) {
	registry := mustRegistry(t)
	state, err := registry.Resolve("Z_DASHBOARD", authz.MatcherForSlugs([]string{"system.dashboard.read"}))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got := state.Classification(); got != ClassAuthorizedNoSections {
		t.Fatalf("classification: got %s", got)
	}
}

func TestActionKeyFormat(t *testing.T) {
	if got := ActionKey("users", "create"); got != "GS_USERS_CREATE" {
		t.Fatalf("action key format frozen: got %q", got)
	}
	if got := ActionKey("invoices", "void"); got != "GS_INVOICES_VOID" {
		t.Fatalf("action key format frozen: got %q", got)
	}
}
