package services

import (
	"context"
	"fmt"

	"github.com/navina/travelguide/internal/domain/entities"
	"github.com/navina/travelguide/internal/domain/repositories"
	apperrors "github.com/navina/travelguide/pkg/errors"
)

// POIService handles business logic for points of interest
type POIService struct {
	repo          repositories.POIRepository
	defaultRadius float64
}

// NewPOIService creates a new POI service. defaultRadius applies to nearby
// queries that do not name a radius.
func NewPOIService(repo repositories.POIRepository, defaultRadius float64) *POIService {
	return &POIService{
		repo:          repo,
		defaultRadius: defaultRadius,
	}
}

// GetPOI retrieves a POI by ID
func (s *POIService) GetPOI(ctx context.Context, id string) (*entities.POI, error) {
	if id == "" {
		return nil, apperrors.NewValidationError("poi id is required")
	}
	return s.repo.GetByID(ctx, id)
}

// GetPOIsByIDs retrieves the POIs with the given IDs in request order.
// Unknown IDs are skipped.
func (s *POIService) GetPOIsByIDs(ctx context.Context, ids []string) ([]*entities.POI, error) {
	if len(ids) == 0 {
		return []*entities.POI{}, nil
	}

	pois, err := s.repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*entities.POI, len(pois))
	for _, p := range pois {
		byID[p.ID] = p
	}
	ordered := make([]*entities.POI, 0, len(pois))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok && !seen[id] {
			ordered = append(ordered, p)
			seen[id] = true
		}
	}
	return ordered, nil
}

// NearbyPOIs returns active POIs within radius meters of origin, closest
// first. A nil radius uses the configured default.
func (s *POIService) NearbyPOIs(ctx context.Context, origin entities.GeoPoint, radius *float64) ([]RankedResult[*entities.POI], error) {
	r := s.defaultRadius
	if radius != nil {
		r = *radius
	}
	if !origin.Valid() {
		return nil, invalidOrigin(origin)
	}
	if r < 0 {
		return nil, apperrors.NewInvalidArgumentError(fmt.Sprintf("radius must be >= 0, got %v", r))
	}

	candidates, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return RankNearby(origin, candidates, r)
}
