package cache

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/promoerp/backend/internal/application/vendorcatalog"
)

// DefaultCleanupInterval is how often expired entries are swept
const DefaultCleanupInterval = 5 * time.Minute

type entry struct {
	products  []vendorcatalog.ProductResponse
	expiresAt time.Time
}

// InMemoryCatalogCache implements vendorcatalog.ResultCache with a TTL map.
// Suitable for single-instance deployments and tests.
type InMemoryCatalogCache struct {
	mu        sync.RWMutex
	entries   map[string]entry
	now       func() time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryCatalogCache creates the cache and starts its cleanup goroutine.
// Call Close to stop it.
func NewInMemoryCatalogCache() *InMemoryCatalogCache {
	return newInMemoryCatalogCache(DefaultCleanupInterval, time.Now)
}

func newInMemoryCatalogCache(cleanupInterval time.Duration, now func() time.Time) *InMemoryCatalogCache {
	c := &InMemoryCatalogCache{
		entries:  make(map[string]entry),
		now:      now,
		stopChan: make(chan struct{}),
	}

	c.wg.Add(1)
	go c.cleanupLoop(cleanupInterval)

	return c
}

// Get returns a copy of the cached products for key
func (c *InMemoryCatalogCache) Get(_ context.Context, key string) ([]vendorcatalog.ProductResponse, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, exists := c.entries[key]
	if !exists || !c.now().Before(e.expiresAt) {
		return nil, false, nil
	}
	return cloneProducts(e.products), true, nil
}

// Set stores a copy of products under key. A non-positive TTL stores nothing.
func (c *InMemoryCatalogCache) Set(_ context.Context, key string, products []vendorcatalog.ProductResponse, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{
		products:  cloneProducts(products),
		expiresAt: c.now().Add(ttl),
	}
	return nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (c *InMemoryCatalogCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopChan)
		c.wg.Wait()
	})
	return nil
}

// Size returns the number of entries, expired or not (for testing/monitoring)
func (c *InMemoryCatalogCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *InMemoryCatalogCache) cleanupLoop(interval time.Duration) {
	defer c.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

func (c *InMemoryCatalogCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}

// cloneProducts copies the slice and each product's color and size lists
func cloneProducts(products []vendorcatalog.ProductResponse) []vendorcatalog.ProductResponse {
	out := make([]vendorcatalog.ProductResponse, len(products))
	for i, p := range products {
		p.Colors = slices.Clone(p.Colors)
		p.Sizes = slices.Clone(p.Sizes)
		out[i] = p
	}
	return out
}

var _ vendorcatalog.ResultCache = (*InMemoryCatalogCache)(nil)
