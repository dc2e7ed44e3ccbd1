package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/promoerp/backend/internal/application/vendorcatalog"
	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces catalog entries in a shared Redis database
const DefaultKeyPrefix = "vendorcatalog:"

// RedisCatalogCache implements vendorcatalog.ResultCache using Redis.
// Entries are shared by every instance pointing at the same database.
type RedisCatalogCache struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host        string
	Port        int
	Password    string
	DB          int
	DialTimeout time.Duration
}

// NewRedisCatalogCache connects to Redis and verifies the connection
func NewRedisCatalogCache(cfg RedisConfig) (*RedisCatalogCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisCatalogCacheWithClient(client, DefaultKeyPrefix), nil
}

// NewRedisCatalogCacheWithClient creates a cache on an existing client
func NewRedisCatalogCacheWithClient(client *redis.Client, keyPrefix string) *RedisCatalogCache {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	return &RedisCatalogCache{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Get returns the cached products for key. A missing key is a miss, not an error.
func (c *RedisCatalogCache) Get(ctx context.Context, key string) ([]vendorcatalog.ProductResponse, bool, error) {
	data, err := c.client.Get(ctx, c.keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read catalog cache: %w", err)
	}

	var products []vendorcatalog.ProductResponse
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, false, fmt.Errorf("failed to decode catalog cache entry: %w", err)
	}
	return products, true, nil
}

// Set stores products under key with the given TTL
func (c *RedisCatalogCache) Set(ctx context.Context, key string, products []vendorcatalog.ProductResponse, ttl time.Duration) error {
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("failed to encode catalog cache entry: %w", err)
	}
	if err := c.client.Set(ctx, c.keyPrefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write catalog cache: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisCatalogCache) Close() error {
	return c.client.Close()
}

// GetClient returns the underlying Redis client (for testing/monitoring)
func (c *RedisCatalogCache) GetClient() *redis.Client {
	return c.client
}

var _ vendorcatalog.ResultCache = (*RedisCatalogCache)(nil)
