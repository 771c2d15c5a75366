package decision

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridstone-erp/gridstone-erp/internal/authz"
	"github.com/gridstone-erp/gridstone-erp/internal/menu"
	"github.com/gridstone-erp/gridstone-erp/internal/pagestate"
	_ "github.com/gridstone-erp/gridstone-erp/testing"
)

type stubSource struct {
	principals map[int64]authz.Principal
	err        error
	loads      int
}

func (s *stubSource) Principal(_ context.Context, userID int64) (authz.Principal, error) {
	s.loads++
	if s.err != nil {
		return authz.Principal{}, s.err
	}
	return s.principals[userID], nil
}

func newTestService(t *testing.T, source *stubSource, withCache bool) *Service {
	t.Helper()
	registry, err := pagestate.Default()
	require.NoError(t, err)
	cfg := Config{
		Source:   source,
		Registry: registry,
		Logger:   slog.Default(),
		CacheTTL: time.Minute,
	}
	if withCache {
		mr := miniredis.RunT(t)
		cfg.Cache = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	}
	return NewService(cfg)
}

func principalWith(perms ...string) authz.Principal {
	return authz.NewPrincipal(1, nil, perms)
}

func TestPageStateResolvesFresh(t *testing.T) {
	source := &stubSource{principals: map[int64]authz.Principal{
		1: principalWith("system.users.read", "system.users.create"),
	}}
	svc := newTestService(t, source, false)

	state, err := svc.PageState(context.Background(), 1, "Z_USERS")
	require.NoError(t, err)
	assert.True(t, state.Authorized)
	assert.True(t, state.Actions["GS_USERS_CREATE"])
	assert.False(t, state.Actions["GS_USERS_DELETE"])
}

func TestPageStateCachesResult(t *testing.T) {
	source := &stubSource{principals: map[int64]authz.Principal{
		1: principalWith("system.users.read"),
	}}
	svc := newTestService(t, source, true)

	first, err := svc.PageState(context.Background(), 1, "Z_USERS")
	require.NoError(t, err)
	second, err := svc.PageState(context.Background(), 1, "Z_USERS")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, source.loads, "second lookup must be served from cache")
}

func TestPageStateCacheIsPerPrincipal(t *testing.T) {
	source := &stubSource{principals: map[int64]authz.Principal{
		1: principalWith("system.users.read"),
		2: {},
	}}
	svc := newTestService(t, source, true)

	allowed, err := svc.PageState(context.Background(), 1, "Z_USERS")
	require.NoError(t, err)
	denied, err := svc.PageState(context.Background(), 2, "Z_USERS")
	require.NoError(t, err)

	assert.True(t, allowed.Authorized)
	assert.False(t, denied.Authorized)
}

func TestInvalidateDropsCachedStates(t *testing.T) {
	source := &stubSource{principals: map[int64]authz.Principal{
		1: principalWith("system.users.read"),
	}}
	svc := newTestService(t, source, true)

	_, err := svc.PageState(context.Background(), 1, "Z_USERS")
	require.NoError(t, err)
	require.Equal(t, 1, source.loads)

	require.NoError(t, svc.Invalidate(context.Background(), 1))

	_, err = svc.PageState(context.Background(), 1, "Z_USERS")
	require.NoError(t, err)
	assert.Equal(t, 2, source.loads, "invalidation must force a fresh resolution")
}

func TestPageStateUnknownPageFailsClosed(t *testing.T) {
	source := &stubSource{principals: map[int64]authz.Principal{
		1: principalWith("*"),
	}}
	svc := newTestService(t, source, true)

	state, err := svc.PageState(context.Background(), 1, "Z_MISSING")
	require.ErrorIs(t, err, pagestate.ErrUnknownPage)
	assert.False(t, state.Authorized)
	assert.Empty(t, state.Sections)
	assert.Empty(t, state.Actions)

	// Config errors are never cached.
	_, err = svc.PageState(context.Background(), 1, "Z_MISSING")
	require.ErrorIs(t, err, pagestate.ErrUnknownPage)
	assert.Equal(t, 2, source.loads)
}

func TestPageStatePropagatesSourceError(t *testing.T) {
	source := &stubSource{err: errors.New("identity store down")}
	svc := newTestService(t, source, false)

	_, err := svc.PageState(context.Background(), 1, "Z_USERS")
	require.Error(t, err)
}

func TestFirstRouteFallsBackToTenantMenu(t *testing.T) {
	source := &stubSource{principals: map[int64]authz.Principal{
		1: principalWith("tenant.files.read"),
	}}
	svc := newTestService(t, source, false)

	route, err := svc.FirstRoute(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "/t/files", route)
}

func TestFirstRouteAccessDenied(t *testing.T) {
	source := &stubSource{principals: map[int64]authz.Principal{1: {}}}
	svc := newTestService(t, source, false)

	route, err := svc.FirstRoute(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, menu.AccessDeniedRoute, route)
}

func TestVisibleMenuScopes(t *testing.T) {
	source := &stubSource{principals: map[int64]authz.Principal{
		1: principalWith("system.users.read", "tenant.members.read"),
	}}
	svc := newTestService(t, source, false)

	platform, err := svc.VisibleMenu(context.Background(), 1, MenuPlatform)
	require.NoError(t, err)
	require.Len(t, platform, 1)
	assert.Equal(t, "users", platform[0].ID)

	tenant, err := svc.VisibleMenu(context.Background(), 1, MenuTenant)
	require.NoError(t, err)
	require.Len(t, tenant, 1)
	assert.Equal(t, "tenant-members", tenant[0].ID)

	_, err = svc.VisibleMenu(context.Background(), 1, "bogus")
	require.ErrorIs(t, err, ErrUnknownMenu)
}

func TestEffectivePermissionsAreNormalized(t *testing.T) {
	source := &stubSource{principals: map[int64]authz.Principal{
		1: principalWith("system.settings.general.read"),
	}}
	svc := newTestService(t, source, false)

	perms, err := svc.EffectivePermissions(context.Background(), 1)
	require.NoError(t, err)
	assert.Contains(t, perms, "system.settings.access")
	assert.Contains(t, perms, "system.access")
}
