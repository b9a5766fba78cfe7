package cache

import (
	"fmt"

	"github.com/messhall/backend/internal/domain/mess"
	"github.com/messhall/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// MenuCacheFactory creates menu caches based on configuration
type MenuCacheFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// MenuCacheFactoryOption is a functional option for configuring the factory
type MenuCacheFactoryOption func(*MenuCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) MenuCacheFactoryOption {
	return func(f *MenuCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory
// cache when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) MenuCacheFactoryOption {
	return func(f *MenuCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewMenuCacheFactory creates a new factory
func NewMenuCacheFactory(cfg config.RedisConfig, opts ...MenuCacheFactoryOption) *MenuCacheFactory {
	f := &MenuCacheFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateRedisCache creates a Redis-backed menu cache
func (f *MenuCacheFactory) CreateRedisCache() (mess.MenuCache, error) {
	cache, err := NewRedisMenuCache(f.redisConfig, WithCacheLogger(f.logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis menu cache: %w", err)
	}
	return cache, nil
}

// CreateInMemoryCache creates an in-memory menu cache. In-memory caches
// do not share state across process instances, so multi-instance
// deployments may serve briefly stale menus after a write.
func (f *MenuCacheFactory) CreateInMemoryCache() mess.MenuCache {
	return NewInMemoryMenuCache(WithInMemoryLogger(f.logger))
}

// CreateCache tries Redis first and falls back to in-memory when Redis
// is unavailable and fallback is allowed
func (f *MenuCacheFactory) CreateCache() (mess.MenuCache, error) {
	cache, err := f.CreateRedisCache()
	if err == nil {
		f.logger.Info("using Redis menu cache")
		return cache, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for menu cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory menu cache",
		zap.Error(err))
	return f.CreateInMemoryCache(), nil
}
