package decision

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridstone-erp/gridstone-erp/internal/authz"
	"github.com/gridstone-erp/gridstone-erp/internal/menu"
)

func TestPreviewZeroPermissions(t *testing.T) {
	result := Preview(nil, menu.PlatformMenu())
	assert.Empty(t, result.VisibleMenuItems)
	assert.Empty(t, result.VisibleSettingsTabs)
	assert.Equal(t, menu.AccessDeniedRoute, result.LandingRoute)
	assert.True(t, result.AccessDenied)
}

func TestPreviewSingleGrant(t *testing.T) {
	result := Preview([]string{"system.users.read"}, menu.PlatformMenu())
	require.Len(t, result.VisibleMenuItems, 1)
	assert.Equal(t, "users", result.VisibleMenuItems[0].ID)
	assert.Equal(t, "/admin/users", result.LandingRoute)
	assert.False(t, result.AccessDenied)
}

func TestPreviewSettingsTabs(t *testing.T) {
	result := Preview([]string{"system.settings.general.read", "system.settings.security.read"}, menu.PlatformMenu())
	require.Len(t, result.VisibleSettingsTabs, 2)
	assert.Equal(t, "general", result.VisibleSettingsTabs[0].Key)
	assert.Equal(t, "security", result.VisibleSettingsTabs[1].Key)
}

// The preview engine must not be a parallel implementation: for any
// grant set it answers exactly what the live service answers for a
// principal holding those grants.
func TestPreviewMatchesLiveEngine(t *testing.T) {
	grants := []string{"system.billing.invoices.read", "system.files.read"}
	source := &stubSource{principals: map[int64]authz.Principal{
		1: authz.NewPrincipal(1, nil, grants),
	}}
	svc := newTestService(t, source, false)

	live, err := svc.VisibleMenu(context.Background(), 1, MenuPlatform)
	require.NoError(t, err)
	liveRoute, err := svc.FirstRoute(context.Background(), 1)
	require.NoError(t, err)

	preview := Preview(grants, menu.PlatformMenu())
	assert.Equal(t, live, preview.VisibleMenuItems)
	assert.Equal(t, liveRoute, preview.LandingRoute)
}
