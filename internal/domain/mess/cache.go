package mess

import (
	"context"
	"time"
)

// MenuCache caches menu entries keyed by weekday name. The menu changes
// rarely relative to how often students read it, so day lookups are
// served from cache and invalidated wholesale on any menu write.
//
// Get returns (nil, nil) on a cache miss.
type MenuCache interface {
	Get(ctx context.Context, day string) ([]*MenuEntry, error)
	Set(ctx context.Context, day string, entries []*MenuEntry, ttl time.Duration) error
	InvalidateAll(ctx context.Context) error
	Close() error
}
