// Package pagestate implements the authorization-object model: a
// declarative table mapping page keys to required permissions, and the
// resolver that turns a principal's grants into per-page state.
package pagestate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/gridstone-erp/gridstone-erp/internal/authz"
	"github.com/gridstone-erp/gridstone-erp/internal/shared"
)

// Scopes partition authorization objects between the platform
// administration surface and the tenant workspace.
const (
	ScopePlatform = "platform"
	ScopeTenant   = "tenant"
)

// Section gates one region of a page behind its own permissions.
type Section struct {
	Key                 string   `validate:"required"`
	RequiredPermissions []string `validate:"required,min=1"`
}

// AuthorizationObject is the access gate for one logical page: the
// minimum read permission plus optional per-section gates.
type AuthorizationObject struct {
	PageKey        string `validate:"required"`
	EntityKey      string `validate:"required"`
	Scope          string `validate:"required,oneof=platform tenant"`
	ReadPermission string `validate:"required"`
	Sections       []Section
}

// ActionMapping binds one UI action of an entity to the permission
// slug enabling it.
type ActionMapping struct {
	EntityKey  string `validate:"required"`
	Scope      string `validate:"required,oneof=platform tenant"`
	Action     string `validate:"required"`
	Permission string `validate:"required"`
}

// ActionKey renders the frozen wire-format identifier for one action,
// e.g. ActionKey("users", "create") == "GS_USERS_CREATE". UI consumers
// key on this string; do not change the format.
func ActionKey(entityKey, action string) string {
	return "GS_" + strings.ToUpper(entityKey) + "_" + strings.ToUpper(action)
}

type entityScope struct {
	entity string
	scope  string
}

// Registry is the immutable, validated-at-load table of authorization
// objects and action mappings. Built once at boot; lookups afterwards
// are plain map access with no locking.
type Registry struct {
	pages   map[string]AuthorizationObject
	actions map[entityScope][]ActionMapping
}

// NewRegistry validates and indexes the declarative tables. All
// violations are collected and reported together so a bad deploy
// surfaces every problem at once: struct-level rules via validator,
// slug well-formedness, duplicate page keys, and the consistency check
// that every action mapping's entity belongs to at least one page.
func NewRegistry(pages []AuthorizationObject, actions []ActionMapping) (*Registry, error) {
	validate := validator.New()
	var problems []error

	indexed := make(map[string]AuthorizationObject, len(pages))
	entities := make(map[entityScope]struct{}, len(pages))
	for _, page := range pages {
		if err := validate.Struct(page); err != nil {
			problems = append(problems, fmt.Errorf("pagestate: page %q: %w", page.PageKey, err))
			continue
		}
		if _, dup := indexed[page.PageKey]; dup {
			problems = append(problems, fmt.Errorf("pagestate: duplicate page key %q", page.PageKey))
			continue
		}
		if !authz.WellFormed(page.ReadPermission) {
			problems = append(problems, fmt.Errorf("pagestate: page %q has malformed read permission %q", page.PageKey, page.ReadPermission))
		}
		for _, section := range page.Sections {
			for _, slug := range section.RequiredPermissions {
				if !authz.WellFormed(slug) {
					problems = append(problems, fmt.Errorf("pagestate: page %q section %q has malformed permission %q", page.PageKey, section.Key, slug))
				}
			}
		}
		indexed[page.PageKey] = page
		entities[entityScope{page.EntityKey, page.Scope}] = struct{}{}
	}

	mapped := make(map[entityScope][]ActionMapping, len(actions))
	for _, mapping := range actions {
		if err := validate.Struct(mapping); err != nil {
			problems = append(problems, fmt.Errorf("pagestate: action %s/%s: %w", mapping.EntityKey, mapping.Action, err))
			continue
		}
		key := entityScope{mapping.EntityKey, mapping.Scope}
		if _, ok := entities[key]; !ok {
			problems = append(problems, fmt.Errorf("pagestate: action mapping %s/%s references unknown entity %q in scope %q", mapping.EntityKey, mapping.Action, mapping.EntityKey, mapping.Scope))
			continue
		}
		if !authz.WellFormed(mapping.Permission) {
			problems = append(problems, fmt.Errorf("pagestate: action %s has malformed permission %q", ActionKey(mapping.EntityKey, mapping.Action), mapping.Permission))
		}
		mapped[key] = append(mapped[key], mapping)
	}

	if err := errors.Join(problems...); err != nil {
		return nil, err
	}
	return &Registry{pages: indexed, actions: mapped}, nil
}

// Contains reports whether a page key exists in the registry.
func (r *Registry) Contains(pageKey string) bool {
	_, ok := r.pages[pageKey]
	return ok
}

// VerifyPageKeys confirms every referenced page key exists.
func (r *Registry) VerifyPageKeys(pageKeys ...string) error {
	var problems []error
	for _, key := range pageKeys {
		if !r.Contains(key) {
			problems = append(problems, fmt.Errorf("pagestate: guard references unknown page key %q", key))
		}
	}
	return errors.Join(problems...)
}

// Default returns the compiled registry for the GridStone surfaces.
func Default() (*Registry, error) {
	return NewRegistry(defaultPages(), defaultActions())
}

func defaultPages() []AuthorizationObject {
	return []AuthorizationObject{
		{PageKey: "Z_DASHBOARD", EntityKey: "dashboard", Scope: ScopePlatform, ReadPermission: shared.PermDashboardView},
		{PageKey: "Z_TENANTS", EntityKey: "tenants", Scope: ScopePlatform, ReadPermission: shared.PermTenantsView, Sections: []Section{
			{Key: "profile", RequiredPermissions: []string{shared.PermTenantsView}},
			{Key: "billing", RequiredPermissions: []string{shared.PermInvoicesView, shared.PermPlansView}},
		}},
		{PageKey: "Z_USERS", EntityKey: "users", Scope: ScopePlatform, ReadPermission: shared.PermUsersView, Sections: []Section{
			{Key: "profile", RequiredPermissions: []string{shared.PermUsersView}},
			{Key: "roles", RequiredPermissions: []string{shared.PermRolesView}},
			{Key: "sessions", RequiredPermissions: []string{shared.PermUsersSessionsView}},
		}},
		{PageKey: "Z_ROLES", EntityKey: "roles", Scope: ScopePlatform, ReadPermission: shared.PermRolesView, Sections: []Section{
			{Key: "permissions", RequiredPermissions: []string{shared.PermRolesView}},
			{Key: "members", RequiredPermissions: []string{shared.PermRolesAssign}},
		}},
		{PageKey: "Z_BILLING_INVOICES", EntityKey: "invoices", Scope: ScopePlatform, ReadPermission: shared.PermInvoicesView},
		{PageKey: "Z_BILLING_PLANS", EntityKey: "plans", Scope: ScopePlatform, ReadPermission: shared.PermPlansView},
		{PageKey: "Z_FILES", EntityKey: "files", Scope: ScopePlatform, ReadPermission: shared.PermFilesView},
		{PageKey: "Z_SETTINGS", EntityKey: "settings", Scope: ScopePlatform, ReadPermission: shared.PermSettingsAccess, Sections: []Section{
			{Key: "general", RequiredPermissions: []string{shared.PermSettingsGeneralView}},
			{Key: "security", RequiredPermissions: []string{shared.PermSettingsSecurityView}},
			{Key: "notifications", RequiredPermissions: []string{shared.PermSettingsNotificationsView}},
			{Key: "integrations", RequiredPermissions: []string{shared.PermSettingsIntegrationsView}},
		}},
		{PageKey: "Z_TENANT_DASHBOARD", EntityKey: "dashboard", Scope: ScopeTenant, ReadPermission: shared.PermTenantDashboardView},
		{PageKey: "Z_TENANT_MEMBERS", EntityKey: "members", Scope: ScopeTenant, ReadPermission: shared.PermTenantMembersView},
		{PageKey: "Z_TENANT_FILES", EntityKey: "files", Scope: ScopeTenant, ReadPermission: shared.PermTenantFilesView},
		{PageKey: "Z_TENANT_SETTINGS", EntityKey: "settings", Scope: ScopeTenant, ReadPermission: shared.PermTenantSettingsAccess, Sections: []Section{
			{Key: "general", RequiredPermissions: []string{shared.PermTenantSettingsGeneral}},
		}},
	}
}

func defaultActions() []ActionMapping {
	return []ActionMapping{
		{EntityKey: "tenants", Scope: ScopePlatform, Action: "create", Permission: shared.PermTenantsCreate},
		{EntityKey: "tenants", Scope: ScopePlatform, Action: "update", Permission: shared.PermTenantsUpdate},
		{EntityKey: "tenants", Scope: ScopePlatform, Action: "suspend", Permission: shared.PermTenantsSuspend},
		{EntityKey: "tenants", Scope: ScopePlatform, Action: "delete", Permission: shared.PermTenantsDelete},

		{EntityKey: "users", Scope: ScopePlatform, Action: "create", Permission: shared.PermUsersCreate},
		{EntityKey: "users", Scope: ScopePlatform, Action: "update", Permission: shared.PermUsersUpdate},
		{EntityKey: "users", Scope: ScopePlatform, Action: "delete", Permission: shared.PermUsersDelete},
		{EntityKey: "users", Scope: ScopePlatform, Action: "export", Permission: shared.PermUsersExport},

		{EntityKey: "roles", Scope: ScopePlatform, Action: "create", Permission: shared.PermRolesCreate},
		{EntityKey: "roles", Scope: ScopePlatform, Action: "update", Permission: shared.PermRolesUpdate},
		{EntityKey: "roles", Scope: ScopePlatform, Action: "delete", Permission: shared.PermRolesDelete},
		{EntityKey: "roles", Scope: ScopePlatform, Action: "assign", Permission: shared.PermRolesAssign},

		{EntityKey: "invoices", Scope: ScopePlatform, Action: "create", Permission: shared.PermInvoicesCreate},
		{EntityKey: "invoices", Scope: ScopePlatform, Action: "void", Permission: shared.PermInvoicesVoid},
		{EntityKey: "invoices", Scope: ScopePlatform, Action: "export", Permission: shared.PermInvoicesExport},

		{EntityKey: "plans", Scope: ScopePlatform, Action: "update", Permission: shared.PermPlansUpdate},

		{EntityKey: "files", Scope: ScopePlatform, Action: "upload", Permission: shared.PermFilesUpload},
		{EntityKey: "files", Scope: ScopePlatform, Action: "download", Permission: shared.PermFilesDownload},
		{EntityKey: "files", Scope: ScopePlatform, Action: "delete", Permission: shared.PermFilesDelete},

		{EntityKey: "settings", Scope: ScopePlatform, Action: "update", Permission: shared.PermSettingsGeneralUpdate},
		{EntityKey: "settings", Scope: ScopePlatform, Action: "update_security", Permission: shared.PermSettingsSecurityUpdate},

		{EntityKey: "members", Scope: ScopeTenant, Action: "invite", Permission: shared.PermTenantMembersInvite},
		{EntityKey: "members", Scope: ScopeTenant, Action: "remove", Permission: shared.PermTenantMembersRemove},

		{EntityKey: "files", Scope: ScopeTenant, Action: "upload", Permission: shared.PermTenantFilesUpload},
	}
}
