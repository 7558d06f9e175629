package repositories

import (
	"context"

	"github.com/navina/travelguide/internal/domain/entities"
)

// POIRepository defines the interface for point-of-interest data operations
type POIRepository interface {
	// Create creates a new POI
	Create(ctx context.Context, poi *entities.POI) error

	// GetByID retrieves a POI by ID
	GetByID(ctx context.Context, id string) (*entities.POI, error)

	// GetByIDs retrieves multiple POIs by their IDs. Unknown IDs are skipped.
	GetByIDs(ctx context.Context, ids []string) ([]*entities.POI, error)

	// ListActive retrieves every active POI, the candidate set for proximity search
	ListActive(ctx context.Context) ([]*entities.POI, error)
}
