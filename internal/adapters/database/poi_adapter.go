package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/lib/pq"

	"github.com/navina/travelguide/internal/domain/entities"
	"github.com/navina/travelguide/internal/domain/repositories"
	"github.com/navina/travelguide/internal/infrastructure/clients/postgres"
	apperrors "github.com/navina/travelguide/pkg/errors"
)

var poiColumns = []interface{}{
	"id", "name", "description", "category", "latitude", "longitude",
	"crowd_level", "best_time", "tags", "is_active", "created_at", "updated_at",
}

// POIAdapter implements POIRepository
type POIAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewPOIAdapter creates a new POI adapter
func NewPOIAdapter(client *postgres.Client) repositories.POIRepository {
	return &POIAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new POI
func (a *POIAdapter) Create(ctx context.Context, poi *entities.POI) error {
	lat, lon := nullableCoordinates(poi.Coordinates)
	record := goqu.Record{
		"id":          poi.ID,
		"name":        poi.Name,
		"description": poi.Description,
		"category":    poi.Category,
		"latitude":    lat,
		"longitude":   lon,
		"crowd_level": poi.CrowdLevel,
		"best_time":   poi.BestTime,
		"tags":        pq.Array(nonNil(poi.Tags)),
		"is_active":   poi.IsActive,
		"created_at":  poi.CreatedAt,
		"updated_at":  poi.UpdatedAt,
	}

	query, args, err := a.db.Insert("pois").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create poi", err)
	}
	return nil
}

// GetByID retrieves a POI by ID
func (a *POIAdapter) GetByID(ctx context.Context, id string) (*entities.POI, error) {
	query, args, err := a.db.Select(poiColumns...).
		From("pois").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	poi, err := scanPOI(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("poi with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get poi", err)
	}
	return poi, nil
}

// GetByIDs retrieves the POIs with the given IDs. Unknown IDs are skipped.
func (a *POIAdapter) GetByIDs(ctx context.Context, ids []string) ([]*entities.POI, error) {
	if len(ids) == 0 {
		return []*entities.POI{}, nil
	}

	query, args, err := a.db.Select(poiColumns...).
		From("pois").
		Where(goqu.Ex{"id": ids}).
		Order(goqu.I("id").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}
	return a.query(ctx, query, args)
}

// ListActive retrieves every active POI in ID order
func (a *POIAdapter) ListActive(ctx context.Context) ([]*entities.POI, error) {
	query, args, err := a.db.Select(poiColumns...).
		From("pois").
		Where(goqu.Ex{"is_active": true}).
		Order(goqu.I("id").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}
	return a.query(ctx, query, args)
}

func (a *POIAdapter) query(ctx context.Context, query string, args []interface{}) ([]*entities.POI, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list pois", err)
	}
	defer rows.Close()

	pois := []*entities.POI{}
	for rows.Next() {
		poi, err := scanPOI(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan poi", err)
		}
		pois = append(pois, poi)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate pois", err)
	}
	return pois, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPOI(row rowScanner) (*entities.POI, error) {
	poi := &entities.POI{}
	var lat, lon sql.NullFloat64
	var bestTime sql.NullString

	err := row.Scan(
		&poi.ID,
		&poi.Name,
		&poi.Description,
		&poi.Category,
		&lat,
		&lon,
		&poi.CrowdLevel,
		&bestTime,
		pq.Array(&poi.Tags),
		&poi.IsActive,
		&poi.CreatedAt,
		&poi.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	poi.Coordinates = coordinatesFrom(lat, lon)
	poi.BestTime = bestTime.String
	return poi, nil
}

// nullableCoordinates stores a missing point as two NULLs
func nullableCoordinates(p *entities.GeoPoint) (sql.NullFloat64, sql.NullFloat64) {
	if p == nil {
		return sql.NullFloat64{}, sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: p.Latitude, Valid: true}, sql.NullFloat64{Float64: p.Longitude, Valid: true}
}

func coordinatesFrom(lat, lon sql.NullFloat64) *entities.GeoPoint {
	if !lat.Valid || !lon.Valid {
		return nil
	}
	return &entities.GeoPoint{Latitude: lat.Float64, Longitude: lon.Float64}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
