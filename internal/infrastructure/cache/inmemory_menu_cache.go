package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/messhall/backend/internal/domain/mess"
	"go.uber.org/zap"
)

const defaultCleanupInterval = 30 * time.Second

// InMemoryMenuCache implements mess.MenuCache using in-memory storage.
// Suitable for single-instance deployments or as a fallback when Redis
// is unavailable.
type InMemoryMenuCache struct {
	days    sync.Map // map[string]*menuCacheEntry
	logger  *zap.Logger
	stopCh  chan struct{}
	stopped int32

	// Stats for monitoring
	hits   int64
	misses int64
}

// menuCacheEntry wraps a cached day with its expiration time
type menuCacheEntry struct {
	entries   []*mess.MenuEntry
	expiresAt time.Time
}

func (e *menuCacheEntry) isExpired() bool {
	return time.Now().After(e.expiresAt)
}

// InMemoryMenuCacheOption is a functional option for configuring the cache
type InMemoryMenuCacheOption func(*InMemoryMenuCache)

// WithInMemoryLogger sets the logger for the cache
func WithInMemoryLogger(logger *zap.Logger) InMemoryMenuCacheOption {
	return func(c *InMemoryMenuCache) {
		c.logger = logger
	}
}

// NewInMemoryMenuCache creates a new in-memory menu cache
func NewInMemoryMenuCache(opts ...InMemoryMenuCacheOption) *InMemoryMenuCache {
	cache := &InMemoryMenuCache{
		logger: zap.NewNop(),
		stopCh: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(cache)
	}

	go cache.cleanupExpired()

	return cache
}

// Get retrieves a day's menu. A miss returns (nil, nil); a cached empty
// day returns an empty non-nil slice.
func (c *InMemoryMenuCache) Get(ctx context.Context, day string) ([]*mess.MenuEntry, error) {
	if value, ok := c.days.Load(day); ok {
		entry := value.(*menuCacheEntry)
		if !entry.isExpired() {
			atomic.AddInt64(&c.hits, 1)
			c.logger.Debug("Cache hit for menu day", zap.String("day", day))
			return entry.entries, nil
		}
		// Expired, remove from cache
		c.days.Delete(day)
	}

	atomic.AddInt64(&c.misses, 1)
	c.logger.Debug("Cache miss for menu day", zap.String("day", day))
	return nil, nil
}

// Set stores a day's menu
func (c *InMemoryMenuCache) Set(ctx context.Context, day string, entries []*mess.MenuEntry, ttl time.Duration) error {
	if entries == nil {
		entries = []*mess.MenuEntry{}
	}

	c.days.Store(day, &menuCacheEntry{
		entries:   entries,
		expiresAt: time.Now().Add(ttl),
	})

	c.logger.Debug("Cached menu day",
		zap.String("day", day),
		zap.Int("entries", len(entries)),
		zap.Duration("ttl", ttl))
	return nil
}

// InvalidateAll removes every cached day
func (c *InMemoryMenuCache) InvalidateAll(ctx context.Context) error {
	c.days.Range(func(key, _ any) bool {
		c.days.Delete(key)
		return true
	})

	c.logger.Info("Invalidated menu cache")
	return nil
}

// Close stops the cleanup goroutine
func (c *InMemoryMenuCache) Close() error {
	if atomic.CompareAndSwapInt32(&c.stopped, 0, 1) {
		close(c.stopCh)
	}
	return nil
}

// GetStats returns cache statistics
func (c *InMemoryMenuCache) GetStats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}

// Count returns the number of cached days
func (c *InMemoryMenuCache) Count() int {
	count := 0
	c.days.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}

// cleanupExpired periodically removes expired entries from the cache
func (c *InMemoryMenuCache) cleanupExpired() {
	ticker := time.NewTicker(defaultCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.doCleanup()
		}
	}
}

func (c *InMemoryMenuCache) doCleanup() {
	removed := 0
	c.days.Range(func(key, value any) bool {
		entry := value.(*menuCacheEntry)
		if entry.isExpired() {
			c.days.Delete(key)
			removed++
		}
		return true
	})

	if removed > 0 {
		c.logger.Debug("Cleaned up expired menu cache entries", zap.Int("removed", removed))
	}
}

var _ mess.MenuCache = (*InMemoryMenuCache)(nil)
