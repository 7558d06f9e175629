package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/navina/travelguide/internal/domain/providers"
	redisclient "github.com/navina/travelguide/internal/infrastructure/clients/redis"
)

// DefaultNamespace prefixes every key the guide writes to a shared Redis
const DefaultNamespace = "navina"

// RedisAdapter is a CacheProvider backed by Redis. Keys are namespaced so
// the cache can share a database with the event bus and other services.
type RedisAdapter struct {
	client    *redisclient.Client
	namespace string
}

// NewRedisAdapter creates a Redis cache adapter. An empty namespace uses
// DefaultNamespace.
func NewRedisAdapter(client *redisclient.Client, namespace string) providers.CacheProvider {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &RedisAdapter{
		client:    client,
		namespace: namespace,
	}
}

func (a *RedisAdapter) key(k string) string {
	return a.namespace + ":" + k
}

// Get returns ErrCacheMiss for absent or expired keys
func (a *RedisAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	result, err := a.client.Client().Get(ctx, a.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, providers.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s from cache: %w", key, err)
	}
	return result, nil
}

// Set stores value for expirationSeconds. Zero keeps the key without expiry.
func (a *RedisAdapter) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	if expirationSeconds < 0 {
		return fmt.Errorf("expiration must be >= 0, got %d", expirationSeconds)
	}
	expiration := time.Duration(expirationSeconds) * time.Second
	if err := a.client.Client().Set(ctx, a.key(key), value, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set %s in cache: %w", key, err)
	}
	return nil
}

func (a *RedisAdapter) Delete(ctx context.Context, key string) error {
	if err := a.client.Client().Del(ctx, a.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete %s from cache: %w", key, err)
	}
	return nil
}

func (a *RedisAdapter) Exists(ctx context.Context, key string) (bool, error) {
	n, err := a.client.Client().Exists(ctx, a.key(key)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check %s in cache: %w", key, err)
	}
	return n > 0, nil
}
