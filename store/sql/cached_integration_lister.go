package sqlstore

import (
	"context"
	"fmt"
	"strings"

	repositorycache "github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-wearables/core"
)

const integrationListCacheKeyPrefix = "go-wearables::integrations::v1"

// IntegrationSource is what the cache wraps: a host that can both list and
// toggle integrations.
type IntegrationSource interface {
	core.HostAPI
	core.IntegrationLister
}

// CachedIntegrationLister serves ListIntegrations from a go-repository-cache
// service and drops the cached list whenever a toggle goes through it.
type CachedIntegrationLister struct {
	base     IntegrationSource
	cache    repositorycache.CacheService
	cacheKey string
}

func NewCachedIntegrationLister(
	base IntegrationSource,
	cacheService repositorycache.CacheService,
	namespace string,
) (*CachedIntegrationLister, error) {
	if base == nil {
		return nil, fmt.Errorf("sqlstore: base integration source is required")
	}
	if cacheService == nil {
		return nil, fmt.Errorf("sqlstore: integration cache service is required")
	}
	return &CachedIntegrationLister{
		base:     base,
		cache:    cacheService,
		cacheKey: IntegrationListCacheKey(namespace),
	}, nil
}

// IntegrationListCacheKey returns go-wearables::integrations::v1::<namespace>,
// with "default" for an empty namespace.
func IntegrationListCacheKey(namespace string) string {
	namespace = strings.TrimSpace(namespace)
	if namespace == "" {
		namespace = "default"
	}
	return integrationListCacheKeyPrefix + "::" + namespace
}

func (c *CachedIntegrationLister) ListIntegrations(ctx context.Context) ([]core.WearableIntegration, error) {
	if c == nil || c.base == nil || c.cache == nil {
		return nil, fmt.Errorf("sqlstore: cached integration lister is not configured")
	}
	list, err := repositorycache.GetOrFetch(ctx, c.cache, c.cacheKey, func(ctx context.Context) ([]core.WearableIntegration, error) {
		fetched, fetchErr := c.base.ListIntegrations(ctx)
		if fetchErr != nil {
			return nil, fetchErr
		}
		return cloneIntegrations(fetched), nil
	})
	if err != nil {
		return nil, err
	}
	return cloneIntegrations(list), nil
}

func (c *CachedIntegrationLister) ToggleIntegration(ctx context.Context, providerID string, enabled bool) (core.ToggleResult, error) {
	if c == nil || c.base == nil || c.cache == nil {
		return core.ToggleResult{}, fmt.Errorf("sqlstore: cached integration lister is not configured")
	}
	result, err := c.base.ToggleIntegration(ctx, providerID, enabled)
	if invalidateErr := c.Invalidate(ctx); err == nil && invalidateErr != nil {
		return result, invalidateErr
	}
	return result, err
}

func (c *CachedIntegrationLister) ToggleBackgroundSync(
	ctx context.Context,
	integration core.WearableIntegration,
	enabled bool,
) (core.WearableIntegration, error) {
	if c == nil || c.base == nil || c.cache == nil {
		return core.WearableIntegration{}, fmt.Errorf("sqlstore: cached integration lister is not configured")
	}
	updated, err := c.base.ToggleBackgroundSync(ctx, integration, enabled)
	if invalidateErr := c.Invalidate(ctx); err == nil && invalidateErr != nil {
		return updated, invalidateErr
	}
	return updated, err
}

// Invalidate drops the cached list so the next read hits the base source.
func (c *CachedIntegrationLister) Invalidate(ctx context.Context) error {
	if c == nil || c.cache == nil {
		return nil
	}
	return c.cache.Delete(ctx, c.cacheKey)
}

func cloneIntegrations(list []core.WearableIntegration) []core.WearableIntegration {
	if list == nil {
		return nil
	}
	out := make([]core.WearableIntegration, 0, len(list))
	for _, item := range list {
		out = append(out, item.Clone())
	}
	return out
}
