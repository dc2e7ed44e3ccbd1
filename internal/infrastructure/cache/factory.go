package cache

import (
	"fmt"
	"io"
	"strings"

	"github.com/promoerp/backend/internal/application/vendorcatalog"
	"github.com/promoerp/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Cache backends
const (
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// ClosableCache is a result cache that owns resources
type ClosableCache interface {
	vendorcatalog.ResultCache
	io.Closer
}

// CatalogCacheFactory creates result caches based on configuration
type CatalogCacheFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// CatalogCacheFactoryOption is a functional option for configuring the factory
type CatalogCacheFactoryOption func(*CatalogCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) CatalogCacheFactoryOption {
	return func(f *CatalogCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis falls back to
// the in-memory cache. Default is true.
func WithInMemoryFallback(allow bool) CatalogCacheFactoryOption {
	return func(f *CatalogCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewCatalogCacheFactory creates a new factory
func NewCatalogCacheFactory(cfg config.RedisConfig, opts ...CatalogCacheFactoryOption) *CatalogCacheFactory {
	f := &CatalogCacheFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateRedisCache creates a Redis-backed cache
func (f *CatalogCacheFactory) CreateRedisCache() (ClosableCache, error) {
	c, err := NewRedisCatalogCache(RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis catalog cache: %w", err)
	}
	return c, nil
}

// CreateInMemoryCache creates an in-memory cache. Entries are not shared
// across process instances.
func (f *CatalogCacheFactory) CreateInMemoryCache() ClosableCache {
	return NewInMemoryCatalogCache()
}

// CreateCache creates the cache for backend. Redis is tried first for the
// redis backend and, when fallback is allowed, replaced by the in-memory
// cache if unreachable.
func (f *CatalogCacheFactory) CreateCache(backend string) (ClosableCache, error) {
	switch strings.ToLower(backend) {
	case BackendMemory:
		f.logger.Info("Using in-memory catalog cache")
		return f.CreateInMemoryCache(), nil
	case BackendRedis, "":
	default:
		return nil, fmt.Errorf("unknown catalog cache backend %q", backend)
	}

	c, err := f.CreateRedisCache()
	if err == nil {
		f.logger.Info("Using Redis catalog cache")
		return c, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for catalog cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory catalog cache. "+
		"Cached results will not be shared between instances.",
		zap.Error(err),
	)
	return f.CreateInMemoryCache(), nil
}
