package shared

// Permission slugs for the platform administration surface. Hardcoded
// slug strings outside this file are forbidden: registries and guards
// reference these constants so a rename stays a one-line change.
const (
	PermDashboardView = "system.dashboard.read"

	PermTenantsView    = "system.tenants.read"
	PermTenantsCreate  = "system.tenants.create"
	PermTenantsUpdate  = "system.tenants.update"
	PermTenantsSuspend = "system.tenants.suspend"
	PermTenantsDelete  = "system.tenants.delete"

	PermUsersView         = "system.users.read"
	PermUsersCreate       = "system.users.create"
	PermUsersUpdate       = "system.users.update"
	PermUsersDelete       = "system.users.delete"
	PermUsersExport       = "system.users.export"
	PermUsersSessionsView = "system.users.sessions.read"

	PermRolesView   = "system.roles.read"
	PermRolesCreate = "system.roles.create"
	PermRolesUpdate = "system.roles.update"
	PermRolesDelete = "system.roles.delete"
	PermRolesAssign = "system.roles.assign"

	PermInvoicesView   = "system.billing.invoices.read"
	PermInvoicesCreate = "system.billing.invoices.create"
	PermInvoicesVoid   = "system.billing.invoices.void"
	PermInvoicesExport = "system.billing.invoices.export"

	PermPlansView   = "system.billing.plans.read"
	PermPlansUpdate = "system.billing.plans.update"

	PermFilesView     = "system.files.read"
	PermFilesUpload   = "system.files.upload"
	PermFilesDownload = "system.files.download"
	PermFilesDelete   = "system.files.delete"

	PermSettingsAccess            = "system.settings.access"
	PermSettingsGeneralView       = "system.settings.general.read"
	PermSettingsGeneralUpdate     = "system.settings.general.update"
	PermSettingsSecurityView      = "system.settings.security.read"
	PermSettingsSecurityUpdate    = "system.settings.security.update"
	PermSettingsNotificationsView = "system.settings.notifications.read"
	PermSettingsIntegrationsView  = "system.settings.integrations.read"
)

// Permission slugs for the tenant workspace surface.
const (
	PermTenantDashboardView = "tenant.dashboard.read"

	PermTenantMembersView   = "tenant.members.read"
	PermTenantMembersInvite = "tenant.members.invite"
	PermTenantMembersRemove = "tenant.members.remove"

	PermTenantFilesView   = "tenant.files.read"
	PermTenantFilesUpload = "tenant.files.upload"

	PermTenantBillingView     = "tenant.billing.read"
	PermTenantSettingsAccess  = "tenant.settings.access"
	PermTenantSettingsGeneral = "tenant.settings.general.read"
)
