package services

import (
	"context"
	"fmt"
	"time"

	"github.com/navina/travelguide/internal/domain/repositories"
	"github.com/navina/travelguide/internal/infrastructure/observability"
)

// CacheWarmingService preloads the POI read paths that map views hit first
type CacheWarmingService struct {
	poiRepo repositories.POIRepository
}

// NewCacheWarmingService creates a new cache warming service. poiRepo is
// expected to be the cached decorator so reads populate the cache.
func NewCacheWarmingService(poiRepo repositories.POIRepository) *CacheWarmingService {
	return &CacheWarmingService{poiRepo: poiRepo}
}

// WarmCache reads the active POI set and every active POI by ID.
// It returns the number of POIs warmed.
func (s *CacheWarmingService) WarmCache(ctx context.Context) (int, error) {
	logger := observability.LoggerFromContext(ctx)

	pois, err := s.poiRepo.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to warm active pois: %w", err)
	}

	ids := make([]string, 0, len(pois))
	for _, poi := range pois {
		ids = append(ids, poi.ID)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	warmed, err := s.poiRepo.GetByIDs(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to warm pois by id: %w", err)
	}

	logger.Debug().Int("pois", len(warmed)).Msg("cache warmed")
	return len(warmed), nil
}

// StartPeriodicWarming warms once, then again every interval until ctx is done
func (s *CacheWarmingService) StartPeriodicWarming(ctx context.Context, interval time.Duration) {
	logger := observability.LoggerFromContext(ctx)

	if _, err := s.WarmCache(ctx); err != nil {
		logger.Warn().Err(err).Msg("initial cache warming failed")
	}
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				logger.Info().Msg("stopping cache warming")
				return
			case <-ticker.C:
				if _, err := s.WarmCache(ctx); err != nil {
					logger.Warn().Err(err).Msg("periodic cache warming failed")
				}
			}
		}
	}()
	logger.Info().Dur("interval", interval).Msg("started periodic cache warming")
}
