package cache

import (
	"context"
	"time"

	"github.com/messhall/backend/internal/domain/mess"
	"github.com/messhall/backend/internal/infrastructure/telemetry"
)

// InstrumentedMenuCache wraps a menu cache and counts lookups by hit or
// miss. Failed lookups are not counted; the wrapped result is returned
// unchanged either way.
type InstrumentedMenuCache struct {
	inner   mess.MenuCache
	metrics *telemetry.MessMetrics
}

// NewInstrumentedMenuCache wraps the given cache with lookup metrics
func NewInstrumentedMenuCache(inner mess.MenuCache, metrics *telemetry.MessMetrics) *InstrumentedMenuCache {
	return &InstrumentedMenuCache{
		inner:   inner,
		metrics: metrics,
	}
}

// Get reads from the wrapped cache and records the lookup outcome
func (c *InstrumentedMenuCache) Get(ctx context.Context, day string) ([]*mess.MenuEntry, error) {
	entries, err := c.inner.Get(ctx, day)
	if err == nil {
		result := telemetry.CacheResultMiss
		if entries != nil {
			result = telemetry.CacheResultHit
		}
		c.metrics.RecordMenuCacheLookup(ctx, result)
	}
	return entries, err
}

// Set delegates to the wrapped cache
func (c *InstrumentedMenuCache) Set(ctx context.Context, day string, entries []*mess.MenuEntry, ttl time.Duration) error {
	return c.inner.Set(ctx, day, entries, ttl)
}

// InvalidateAll delegates to the wrapped cache
func (c *InstrumentedMenuCache) InvalidateAll(ctx context.Context) error {
	return c.inner.InvalidateAll(ctx)
}

// Close closes the wrapped cache
func (c *InstrumentedMenuCache) Close() error {
	return c.inner.Close()
}

var _ mess.MenuCache = (*InstrumentedMenuCache)(nil)
