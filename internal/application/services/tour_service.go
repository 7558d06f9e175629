package services

import (
	"context"
	"fmt"

	"github.com/navina/travelguide/internal/domain/entities"
	"github.com/navina/travelguide/internal/domain/repositories"
	apperrors "github.com/navina/travelguide/pkg/errors"
)

// TourService handles tour lookup and language-based recommendations
type TourService struct {
	repo         repositories.TourRepository
	userRepo     repositories.UserRepository
	defaultLimit int
}

// NewTourService creates a new tour service
func NewTourService(repo repositories.TourRepository, userRepo repositories.UserRepository, defaultLimit int) *TourService {
	return &TourService{
		repo:         repo,
		userRepo:     userRepo,
		defaultLimit: defaultLimit,
	}
}

// GetTour retrieves a tour by ID
func (s *TourService) GetTour(ctx context.Context, id string) (*entities.Tour, error) {
	if id == "" {
		return nil, apperrors.NewValidationError("tour id is required")
	}
	return s.repo.GetByID(ctx, id)
}

// GetToursByIDs retrieves multiple tours. Unknown IDs are skipped.
func (s *TourService) GetToursByIDs(ctx context.Context, ids []string) ([]*entities.Tour, error) {
	if len(ids) == 0 {
		return []*entities.Tour{}, nil
	}
	return s.repo.GetByIDs(ctx, ids)
}

// RecommendTours returns active tours offered in any of languages, closest
// starting point first. A nil limit uses the configured default.
func (s *TourService) RecommendTours(ctx context.Context, languages []string, origin *entities.GeoPoint, limit *int) ([]RankedResult[*entities.Tour], error) {
	n := s.defaultLimit
	if limit != nil {
		n = *limit
	}
	if n < 0 {
		return nil, apperrors.NewInvalidArgumentError(fmt.Sprintf("limit must be >= 0, got %d", n))
	}
	if origin != nil && !origin.Valid() {
		return nil, invalidOrigin(*origin)
	}
	if len(languages) == 0 {
		return nil, apperrors.NewValidationError("at least one language is required")
	}

	candidates, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return RankByLanguage(candidates, languages, origin, n)
}

// RecommendToursForUser recommends tours in the user's preferred languages
func (s *TourService) RecommendToursForUser(ctx context.Context, userID string, origin *entities.GeoPoint, limit *int) ([]RankedResult[*entities.Tour], error) {
	if userID == "" {
		return nil, apperrors.NewValidationError("user id is required")
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	languages := user.Preferences.Languages
	if len(languages) == 0 {
		languages = entities.DefaultLanguages
	}
	return s.RecommendTours(ctx, languages, origin, limit)
}
