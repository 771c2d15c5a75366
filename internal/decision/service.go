// Package decision exposes the Decision Center to transport: it loads
// principals from the identity store, runs the pure engines, and adds
// the caller-side concerns the engines stay unaware of (TTL caching,
// request collapsing, metrics).
package decision

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/gridstone-erp/gridstone-erp/internal/authz"
	"github.com/gridstone-erp/gridstone-erp/internal/identity"
	"github.com/gridstone-erp/gridstone-erp/internal/menu"
	"github.com/gridstone-erp/gridstone-erp/internal/observability"
	"github.com/gridstone-erp/gridstone-erp/internal/pagestate"
)

// Menu scopes accepted by the menu and first-route endpoints.
const (
	MenuPlatform = "platform"
	MenuTenant   = "tenant"
)

// ErrUnknownMenu indicates a menu scope outside platform/tenant.
var ErrUnknownMenu = errors.New("decision: unknown menu scope")

const cacheKeyPrefix = "decision:page:"

// Config collects Service dependencies. Cache is optional; without it
// every call resolves fresh.
type Config struct {
	Source   identity.PrincipalSource
	Registry *pagestate.Registry
	Cache    *redis.Client
	CacheTTL time.Duration
	Logger   *slog.Logger
	Metrics  *observability.Metrics
}

// Service orchestrates decision requests for live principals.
type Service struct {
	source   identity.PrincipalSource
	registry *pagestate.Registry
	cache    *redis.Client
	ttl      time.Duration
	logger   *slog.Logger
	metrics  *observability.Metrics
	group    singleflight.Group
}

// NewService constructs a Service.
func NewService(cfg Config) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Service{
		source:   cfg.Source,
		registry: cfg.Registry,
		cache:    cfg.Cache,
		ttl:      ttl,
		logger:   logger,
		metrics:  cfg.Metrics,
	}
}

// Matcher loads the principal and indexes its grants. Normalization
// happens exactly once, inside the principal constructor.
func (s *Service) Matcher(ctx context.Context, userID int64) (*authz.Matcher, error) {
	principal, err := s.source.Principal(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("decision: load principal %d: %w", userID, err)
	}
	return authz.NewMatcher(principal), nil
}

// PageState resolves the page state for a live principal, consulting
// the TTL cache first. Concurrent identical lookups collapse into one
// resolution. Configuration errors (unknown page key) are logged,
// counted, never cached, and returned alongside the fail-closed state.
func (s *Service) PageState(ctx context.Context, userID int64, pageKey string) (pagestate.State, error) {
	key := cacheKey(userID, pageKey)
	if s.cache != nil {
		payload, err := s.cache.Get(ctx, key).Bytes()
		if err == nil {
			var state pagestate.State
			if err := json.Unmarshal(payload, &state); err == nil {
				s.metrics.ObserveCache(observability.CacheHit)
				return state, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn("decision cache get", slog.Any("error", err))
		}
		s.metrics.ObserveCache(observability.CacheMiss)
	}

	result, err, _ := s.group.Do(key, func() (any, error) {
		matcher, err := s.Matcher(ctx, userID)
		if err != nil {
			return pagestate.State{}, err
		}
		state, err := s.registry.Resolve(pageKey, matcher)
		if err != nil {
			return state, err
		}
		if s.cache != nil {
			if payload, err := json.Marshal(state); err == nil {
				if err := s.cache.Set(ctx, key, payload, s.ttl).Err(); err != nil {
					s.logger.Warn("decision cache set", slog.Any("error", err))
				}
			}
		}
		return state, nil
	})
	state, _ := result.(pagestate.State)
	switch {
	case errors.Is(err, pagestate.ErrUnknownPage):
		s.logger.Error("decision registry miss", slog.String("page", pageKey), slog.Int64("user", userID))
		s.metrics.ObserveDecision(pageKey, observability.OutcomeConfigError)
		return state, err
	case err != nil:
		return state, err
	case state.Authorized:
		s.metrics.ObserveDecision(pageKey, observability.OutcomeAllowed)
	default:
		s.metrics.ObserveDecision(pageKey, observability.OutcomeDenied)
	}
	return state, nil
}

// VisibleMenu prunes the requested registry for a live principal.
func (s *Service) VisibleMenu(ctx context.Context, userID int64, scope string) ([]menu.Node, error) {
	registry, err := menuForScope(scope)
	if err != nil {
		return nil, err
	}
	matcher, err := s.Matcher(ctx, userID)
	if err != nil {
		return nil, err
	}
	return menu.VisibleTree(registry, matcher), nil
}

// FirstRoute computes the landing route for a live principal,
// considering the platform menu first and falling back to the tenant
// menu before the access-denied sentinel.
func (s *Service) FirstRoute(ctx context.Context, userID int64) (string, error) {
	matcher, err := s.Matcher(ctx, userID)
	if err != nil {
		return "", err
	}
	if route := menu.FirstAllowedRoute(menu.PlatformMenu(), matcher); route != menu.AccessDeniedRoute {
		return route, nil
	}
	return menu.FirstAllowedRoute(menu.TenantMenu(), matcher), nil
}

// EffectivePermissions returns the normalized permission set for a
// live principal, for admin inspection.
func (s *Service) EffectivePermissions(ctx context.Context, userID int64) ([]string, error) {
	principal, err := s.source.Principal(ctx, userID)
	if err != nil {
		return nil, err
	}
	return principal.Permissions, nil
}

// Invalidate drops every cached page state for the user. Callers must
// invoke this on role or permission mutation, impersonation start and
// stop, and logout; until then cached decisions may serve stale.
func (s *Service) Invalidate(ctx context.Context, userID int64) error {
	if s.cache == nil {
		return nil
	}
	pattern := fmt.Sprintf("%s%d:*", cacheKeyPrefix, userID)
	var cursor uint64
	for {
		keys, next, err := s.cache.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return fmt.Errorf("decision: scan cache: %w", err)
		}
		if len(keys) > 0 {
			if err := s.cache.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("decision: delete cache keys: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

func cacheKey(userID int64, pageKey string) string {
	return fmt.Sprintf("%s%d:%s", cacheKeyPrefix, userID, pageKey)
}

func menuForScope(scope string) ([]menu.Node, error) {
	switch scope {
	case MenuPlatform, "":
		return menu.PlatformMenu(), nil
	case MenuTenant:
		return menu.TenantMenu(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMenu, scope)
	}
}
