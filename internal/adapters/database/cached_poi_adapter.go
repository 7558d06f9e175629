package database

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/navina/travelguide/internal/domain/entities"
	"github.com/navina/travelguide/internal/domain/providers"
	"github.com/navina/travelguide/internal/domain/repositories"
	"github.com/navina/travelguide/internal/infrastructure/observability"
)

// CachedPOIAdapter wraps a POIRepository with read-through caching
type CachedPOIAdapter struct {
	adapter repositories.POIRepository
	cache   providers.CacheProvider
	metrics *observability.Metrics
}

// NewCachedPOIAdapter creates a new cached POI adapter. metrics may be nil.
func NewCachedPOIAdapter(adapter repositories.POIRepository, cache providers.CacheProvider, metrics *observability.Metrics) repositories.POIRepository {
	return &CachedPOIAdapter{
		adapter: adapter,
		cache:   cache,
		metrics: metrics,
	}
}

// Cache TTLs (in seconds)
const (
	poiByIDTTL    = 300
	activePOIsTTL = 120
)

const activePOIsCacheKey = "pois:active"

func poiCacheKey(id string) string {
	return fmt.Sprintf("poi:%s", id)
}

// Create stores the POI and drops the cached active list
func (a *CachedPOIAdapter) Create(ctx context.Context, poi *entities.POI) error {
	if err := a.adapter.Create(ctx, poi); err != nil {
		return err
	}
	if err := a.cache.Delete(ctx, activePOIsCacheKey); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("failed to invalidate active poi cache")
	}
	return nil
}

// GetByID retrieves a POI by ID with caching
func (a *CachedPOIAdapter) GetByID(ctx context.Context, id string) (*entities.POI, error) {
	cacheKey := poiCacheKey(id)

	var poi entities.POI
	if a.readCache(ctx, cacheKey, &poi) {
		return &poi, nil
	}

	fetched, err := a.adapter.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	a.writeCache(ctx, cacheKey, fetched, poiByIDTTL)
	return fetched, nil
}

// GetByIDs serves cached POIs and fetches only the missing ones
func (a *CachedPOIAdapter) GetByIDs(ctx context.Context, ids []string) ([]*entities.POI, error) {
	if len(ids) == 0 {
		return []*entities.POI{}, nil
	}

	pois := make([]*entities.POI, 0, len(ids))
	missing := make([]string, 0)
	for _, id := range ids {
		var poi entities.POI
		if a.readCache(ctx, poiCacheKey(id), &poi) {
			pois = append(pois, &poi)
			continue
		}
		missing = append(missing, id)
	}

	if len(missing) == 0 {
		return pois, nil
	}

	fetched, err := a.adapter.GetByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}
	for _, poi := range fetched {
		a.writeCache(ctx, poiCacheKey(poi.ID), poi, poiByIDTTL)
	}
	return append(pois, fetched...), nil
}

// ListActive retrieves every active POI with caching
func (a *CachedPOIAdapter) ListActive(ctx context.Context) ([]*entities.POI, error) {
	var pois []*entities.POI
	if a.readCache(ctx, activePOIsCacheKey, &pois) {
		return pois, nil
	}

	fetched, err := a.adapter.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	a.writeCache(ctx, activePOIsCacheKey, fetched, activePOIsTTL)
	return fetched, nil
}

func (a *CachedPOIAdapter) readCache(ctx context.Context, key string, dst interface{}) bool {
	prefix, _, _ := strings.Cut(key, ":")
	cached, err := a.cache.Get(ctx, key)
	if err != nil {
		observability.RecordCacheMiss(ctx, a.metrics, prefix)
		return false
	}
	observability.RecordCacheHit(ctx, a.metrics, prefix)
	if err := json.Unmarshal(cached, dst); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("cache_key", key).Msg("failed to unmarshal cached value")
		return false
	}
	return true
}

func (a *CachedPOIAdapter) writeCache(ctx context.Context, key string, value interface{}, ttl int) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := a.cache.Set(ctx, key, data, ttl); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("cache_key", key).Msg("failed to cache value")
	}
}
