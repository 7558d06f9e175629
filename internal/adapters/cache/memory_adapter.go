package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/navina/travelguide/internal/domain/providers"
)

// MemoryAdapter implements CacheProvider in process memory. It backs the
// cached repositories when Redis is not reachable.
type MemoryAdapter struct {
	cache *gocache.Cache
}

// NewMemoryAdapter creates an in-process cache. Entries without an explicit
// expiration live for defaultExpiration; expired entries are purged every
// cleanupInterval.
func NewMemoryAdapter(defaultExpiration, cleanupInterval time.Duration) providers.CacheProvider {
	return &MemoryAdapter{
		cache: gocache.New(defaultExpiration, cleanupInterval),
	}
}

// Get retrieves a value from cache
func (a *MemoryAdapter) Get(_ context.Context, key string) ([]byte, error) {
	value, found := a.cache.Get(key)
	if !found {
		return nil, providers.ErrCacheMiss
	}
	data, ok := value.([]byte)
	if !ok {
		return nil, providers.ErrCacheMiss
	}
	return data, nil
}

// Set stores a copy of value. A non-positive expiration uses the default.
func (a *MemoryAdapter) Set(_ context.Context, key string, value []byte, expirationSeconds int) error {
	expiration := gocache.DefaultExpiration
	if expirationSeconds > 0 {
		expiration = time.Duration(expirationSeconds) * time.Second
	}
	a.cache.Set(key, append([]byte(nil), value...), expiration)
	return nil
}

// Delete removes a value from cache
func (a *MemoryAdapter) Delete(_ context.Context, key string) error {
	a.cache.Delete(key)
	return nil
}

// Exists checks if a key exists in cache
func (a *MemoryAdapter) Exists(_ context.Context, key string) (bool, error) {
	_, found := a.cache.Get(key)
	return found, nil
}
