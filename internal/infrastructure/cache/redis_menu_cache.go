package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/messhall/backend/internal/domain/mess"
	"github.com/messhall/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	menuKeyPrefix        = "menu:day:"
	defaultScanBatchSize = 100
)

// cachedMenuEntry is the Redis wire form of a menu entry. Domain events
// never round-trip through the cache.
type cachedMenuEntry struct {
	ID        uuid.UUID        `json:"id"`
	Day       string           `json:"day"`
	Meal      string           `json:"meal"`
	Item      string           `json:"item"`
	FoodType  string           `json:"food_type"`
	Cost      *decimal.Decimal `json:"cost,omitempty"`
	Version   int              `json:"version"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func toCachedEntries(entries []*mess.MenuEntry) []cachedMenuEntry {
	cached := make([]cachedMenuEntry, 0, len(entries))
	for _, entry := range entries {
		cached = append(cached, cachedMenuEntry{
			ID:        entry.ID,
			Day:       entry.Day,
			Meal:      entry.Meal,
			Item:      entry.Item,
			FoodType:  entry.FoodType,
			Cost:      entry.Cost,
			Version:   entry.Version,
			CreatedAt: entry.CreatedAt,
			UpdatedAt: entry.UpdatedAt,
		})
	}
	return cached
}

func fromCachedEntries(cached []cachedMenuEntry) []*mess.MenuEntry {
	entries := make([]*mess.MenuEntry, 0, len(cached))
	for _, c := range cached {
		entry := &mess.MenuEntry{
			Day:      c.Day,
			Meal:     c.Meal,
			Item:     c.Item,
			FoodType: c.FoodType,
			Cost:     c.Cost,
		}
		entry.ID = c.ID
		entry.Version = c.Version
		entry.CreatedAt = c.CreatedAt
		entry.UpdatedAt = c.UpdatedAt
		entries = append(entries, entry)
	}
	return entries
}

// RedisMenuCache implements mess.MenuCache using Redis. One key per
// weekday holds the JSON-encoded entry list for that day.
type RedisMenuCache struct {
	client     *redis.Client
	ownsClient bool // true if we created the client and should close it
	logger     *zap.Logger
}

// RedisMenuCacheOption is a functional option for configuring the cache
type RedisMenuCacheOption func(*RedisMenuCache)

// WithCacheLogger sets the logger for the cache
func WithCacheLogger(logger *zap.Logger) RedisMenuCacheOption {
	return func(c *RedisMenuCache) {
		c.logger = logger
	}
}

// NewRedisMenuCache creates a new Redis-based menu cache
func NewRedisMenuCache(cfg config.RedisConfig, opts ...RedisMenuCacheOption) (*RedisMenuCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	cache := &RedisMenuCache{
		client:     client,
		ownsClient: true,
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache, nil
}

// NewRedisMenuCacheWithClient creates a cache with an existing Redis client.
// The caller retains ownership of the client and is responsible for closing it.
func NewRedisMenuCacheWithClient(client *redis.Client, opts ...RedisMenuCacheOption) *RedisMenuCache {
	cache := &RedisMenuCache{
		client:     client,
		ownsClient: false,
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache
}

func (c *RedisMenuCache) dayKey(day string) string {
	return menuKeyPrefix + day
}

// Get retrieves a day's menu from cache. A miss returns (nil, nil); an
// empty slice is a valid hit meaning the day has no entries.
func (c *RedisMenuCache) Get(ctx context.Context, day string) ([]*mess.MenuEntry, error) {
	cacheKey := c.dayKey(day)

	data, err := c.client.Get(ctx, cacheKey).Bytes()
	if err == redis.Nil {
		c.logger.Debug("Cache miss for menu day", zap.String("day", day))
		return nil, nil
	}
	if err != nil {
		c.logger.Error("Failed to get menu from cache",
			zap.String("day", day),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get menu from cache: %w", err)
	}

	var cached []cachedMenuEntry
	if err := json.Unmarshal(data, &cached); err != nil {
		c.logger.Error("Failed to unmarshal cached menu",
			zap.String("day", day),
			zap.Error(err))
		// Delete corrupted cache entry
		_ = c.client.Del(ctx, cacheKey)
		return nil, fmt.Errorf("failed to unmarshal menu: %w", err)
	}

	c.logger.Debug("Cache hit for menu day", zap.String("day", day))
	return fromCachedEntries(cached), nil
}

// Set stores a day's menu in cache
func (c *RedisMenuCache) Set(ctx context.Context, day string, entries []*mess.MenuEntry, ttl time.Duration) error {
	cacheKey := c.dayKey(day)

	data, err := json.Marshal(toCachedEntries(entries))
	if err != nil {
		c.logger.Error("Failed to marshal menu for cache",
			zap.String("day", day),
			zap.Error(err))
		return fmt.Errorf("failed to marshal menu: %w", err)
	}

	if err := c.client.Set(ctx, cacheKey, data, ttl).Err(); err != nil {
		c.logger.Error("Failed to set menu in cache",
			zap.String("day", day),
			zap.Error(err))
		return fmt.Errorf("failed to set menu in cache: %w", err)
	}

	c.logger.Debug("Cached menu day",
		zap.String("day", day),
		zap.Int("entries", len(entries)),
		zap.Duration("ttl", ttl))
	return nil
}

// InvalidateAll removes every cached day. Uses SCAN rather than KEYS to
// avoid blocking Redis.
func (c *RedisMenuCache) InvalidateAll(ctx context.Context) error {
	var cursor uint64
	var deletedCount int64

	for {
		var keys []string
		var err error
		keys, cursor, err = c.client.Scan(ctx, cursor, menuKeyPrefix+"*", defaultScanBatchSize).Result()
		if err != nil {
			c.logger.Error("Failed to scan menu cache keys", zap.Error(err))
			return fmt.Errorf("failed to scan cache keys: %w", err)
		}

		if len(keys) > 0 {
			deleted, err := c.client.Del(ctx, keys...).Result()
			if err != nil {
				c.logger.Error("Failed to delete menu cache keys", zap.Error(err))
				return fmt.Errorf("failed to delete cache keys: %w", err)
			}
			deletedCount += deleted
		}

		if cursor == 0 {
			break
		}
	}

	c.logger.Info("Invalidated menu cache", zap.Int64("deleted_count", deletedCount))
	return nil
}

// Close releases any resources held by the cache
func (c *RedisMenuCache) Close() error {
	if c.ownsClient {
		return c.client.Close()
	}
	return nil
}

// GetClient returns the underlying Redis client (for testing/monitoring)
func (c *RedisMenuCache) GetClient() *redis.Client {
	return c.client
}

var _ mess.MenuCache = (*RedisMenuCache)(nil)
