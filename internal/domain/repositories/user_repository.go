package repositories

import (
	"context"

	"github.com/navina/travelguide/internal/domain/entities"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id string) (*entities.User, error)
	UpdatePreferences(ctx context.Context, id string, prefs entities.Preferences) error
}
