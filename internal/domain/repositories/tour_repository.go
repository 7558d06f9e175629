package repositories

import (
	"context"

	"github.com/navina/travelguide/internal/domain/entities"
)

// TourRepository defines the interface for tour data operations
type TourRepository interface {
	// Create creates a new tour
	Create(ctx context.Context, tour *entities.Tour) error

	// GetByID retrieves a tour by ID
	GetByID(ctx context.Context, id string) (*entities.Tour, error)

	// GetByIDs retrieves multiple tours by their IDs. Unknown IDs are skipped.
	GetByIDs(ctx context.Context, ids []string) ([]*entities.Tour, error)

	// ListActive retrieves every active tour
	ListActive(ctx context.Context) ([]*entities.Tour, error)
}
