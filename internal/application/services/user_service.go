package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/navina/travelguide/internal/domain/entities"
	"github.com/navina/travelguide/internal/domain/repositories"
	apperrors "github.com/navina/travelguide/pkg/errors"
)

// UserService handles user profiles and travel preferences
type UserService struct {
	repo repositories.UserRepository
}

// NewUserService creates a new user service
func NewUserService(repo repositories.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// CreateUser stores a new user. Missing preference fields get their
// defaults and list fields start empty.
func (s *UserService) CreateUser(ctx context.Context, user *entities.User) (*entities.User, error) {
	if user == nil {
		return nil, apperrors.NewValidationError("user is required")
	}
	if err := validatePreferences(user.Preferences); err != nil {
		return nil, err
	}

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.Preferences = withPreferenceDefaults(user.Preferences)
	if user.SavedTours == nil {
		user.SavedTours = []string{}
	}
	if user.SavedPOIs == nil {
		user.SavedPOIs = []string{}
	}
	if user.History.CompletedTours == nil {
		user.History.CompletedTours = []string{}
	}
	if user.History.VisitedPOIs == nil {
		user.History.VisitedPOIs = []string{}
	}

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUser retrieves a user by ID
func (s *UserService) GetUser(ctx context.Context, id string) (*entities.User, error) {
	if id == "" {
		return nil, apperrors.NewValidationError("user id is required")
	}
	return s.repo.GetByID(ctx, id)
}

// UpdatePreferences replaces a user's preferences and returns the updated user
func (s *UserService) UpdatePreferences(ctx context.Context, id string, prefs entities.Preferences) (*entities.User, error) {
	if id == "" {
		return nil, apperrors.NewValidationError("user id is required")
	}
	if err := validatePreferences(prefs); err != nil {
		return nil, err
	}

	if err := s.repo.UpdatePreferences(ctx, id, withPreferenceDefaults(prefs)); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func validatePreferences(p entities.Preferences) error {
	if p.MaxDistance < 0 {
		return apperrors.NewValidationError("max_distance must be >= 0")
	}
	return nil
}

func withPreferenceDefaults(p entities.Preferences) entities.Preferences {
	defaults := entities.DefaultPreferences()
	if len(p.Languages) == 0 {
		p.Languages = defaults.Languages
	}
	if p.Interests == nil {
		p.Interests = defaults.Interests
	}
	if p.Pace == "" {
		p.Pace = defaults.Pace
	}
	if p.MaxDistance == 0 {
		p.MaxDistance = defaults.MaxDistance
	}
	return p
}
