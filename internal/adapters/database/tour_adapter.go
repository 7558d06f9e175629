package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"

	"github.com/navina/travelguide/internal/domain/entities"
	"github.com/navina/travelguide/internal/domain/repositories"
	"github.com/navina/travelguide/internal/infrastructure/clients/postgres"
	apperrors "github.com/navina/travelguide/pkg/errors"
)

var tourColumns = []interface{}{
	"id", "name", "description", "languages", "poi_ids", "interests",
	"start_latitude", "start_longitude", "duration_minutes", "is_active",
	"created_at", "updated_at",
}

// TourAdapter implements TourRepository
type TourAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewTourAdapter creates a new tour adapter
func NewTourAdapter(client *postgres.Client) repositories.TourRepository {
	return &TourAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new tour
func (a *TourAdapter) Create(ctx context.Context, tour *entities.Tour) error {
	lat, lon := nullableCoordinates(tour.StartCoordinates)
	record := goqu.Record{
		"id":               tour.ID,
		"name":             tour.Name,
		"description":      tour.Description,
		"languages":        pq.Array(nonNil(tour.Languages)),
		"poi_ids":          pq.Array(nonNil(tour.POIIDs)),
		"interests":        pq.Array(nonNil(tour.Interests)),
		"start_latitude":   lat,
		"start_longitude":  lon,
		"duration_minutes": tour.DurationMinutes,
		"is_active":        tour.IsActive,
		"created_at":       tour.CreatedAt,
		"updated_at":       tour.UpdatedAt,
	}

	query, args, err := a.db.Insert("tours").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create tour", err)
	}
	return nil
}

// GetByID retrieves a tour by ID
func (a *TourAdapter) GetByID(ctx context.Context, id string) (*entities.Tour, error) {
	query, args, err := a.db.Select(tourColumns...).
		From("tours").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	tour, err := scanTour(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("tour with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get tour", err)
	}
	return tour, nil
}

// GetByIDs retrieves the tours with the given IDs. Unknown IDs are skipped.
func (a *TourAdapter) GetByIDs(ctx context.Context, ids []string) ([]*entities.Tour, error) {
	if len(ids) == 0 {
		return []*entities.Tour{}, nil
	}

	query, args, err := a.db.Select(tourColumns...).
		From("tours").
		Where(goqu.Ex{"id": ids}).
		Order(goqu.I("id").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}
	return a.query(ctx, query, args)
}

// ListActive retrieves every active tour in ID order
func (a *TourAdapter) ListActive(ctx context.Context) ([]*entities.Tour, error) {
	query, args, err := a.db.Select(tourColumns...).
		From("tours").
		Where(goqu.Ex{"is_active": true}).
		Order(goqu.I("id").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}
	return a.query(ctx, query, args)
}

func (a *TourAdapter) query(ctx context.Context, query string, args []interface{}) ([]*entities.Tour, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list tours", err)
	}
	defer rows.Close()

	tours := []*entities.Tour{}
	for rows.Next() {
		tour, err := scanTour(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan tour", err)
		}
		tours = append(tours, tour)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate tours", err)
	}
	return tours, nil
}

func scanTour(row rowScanner) (*entities.Tour, error) {
	tour := &entities.Tour{}
	var lat, lon sql.NullFloat64

	err := row.Scan(
		&tour.ID,
		&tour.Name,
		&tour.Description,
		pq.Array(&tour.Languages),
		pq.Array(&tour.POIIDs),
		pq.Array(&tour.Interests),
		&lat,
		&lon,
		&tour.DurationMinutes,
		&tour.IsActive,
		&tour.CreatedAt,
		&tour.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	tour.StartCoordinates = coordinatesFrom(lat, lon)
	return tour, nil
}
