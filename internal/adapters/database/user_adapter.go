package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"

	"github.com/navina/travelguide/internal/domain/entities"
	"github.com/navina/travelguide/internal/domain/repositories"
	"github.com/navina/travelguide/internal/infrastructure/clients/postgres"
	apperrors "github.com/navina/travelguide/pkg/errors"
)

// UserAdapter implements UserRepository. Preferences, saved lists and
// history are stored as JSONB documents.
type UserAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewUserAdapter creates a new user adapter
func NewUserAdapter(client *postgres.Client) repositories.UserRepository {
	return &UserAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new user
func (a *UserAdapter) Create(ctx context.Context, user *entities.User) error {
	prefs, err := json.Marshal(user.Preferences)
	if err != nil {
		return apperrors.NewInternalError("failed to encode preferences", err)
	}
	savedTours, _ := json.Marshal(nonNil(user.SavedTours))
	savedPOIs, _ := json.Marshal(nonNil(user.SavedPOIs))
	history, err := json.Marshal(user.History)
	if err != nil {
		return apperrors.NewInternalError("failed to encode history", err)
	}

	record := goqu.Record{
		"id":           user.ID,
		"display_name": user.DisplayName,
		"email":        sql.NullString{String: user.Email, Valid: user.Email != ""},
		"preferences":  string(prefs),
		"saved_tours":  string(savedTours),
		"saved_pois":   string(savedPOIs),
		"history":      string(history),
		"created_at":   user.CreatedAt,
		"updated_at":   user.UpdatedAt,
	}

	query, args, err := a.db.Insert("users").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewValidationError("a user with this email already exists")
		}
		return apperrors.NewInternalError("failed to create user", err)
	}
	return nil
}

// uniqueViolation is the Postgres SQLSTATE for a unique constraint failure
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// GetByID retrieves a user by ID
func (a *UserAdapter) GetByID(ctx context.Context, id string) (*entities.User, error) {
	query, args, err := a.db.Select(
		"id", "display_name", "email", "preferences", "saved_tours",
		"saved_pois", "history", "created_at", "updated_at",
	).From("users").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	user := &entities.User{}
	var email sql.NullString
	var prefs, savedTours, savedPOIs, history []byte

	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&user.ID,
		&user.DisplayName,
		&email,
		&prefs,
		&savedTours,
		&savedPOIs,
		&history,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("user with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get user", err)
	}

	user.Email = email.String
	if err := decodeJSONB(prefs, &user.Preferences); err != nil {
		return nil, apperrors.NewInternalError("failed to decode preferences", err)
	}
	if err := decodeJSONB(savedTours, &user.SavedTours); err != nil {
		return nil, apperrors.NewInternalError("failed to decode saved tours", err)
	}
	if err := decodeJSONB(savedPOIs, &user.SavedPOIs); err != nil {
		return nil, apperrors.NewInternalError("failed to decode saved pois", err)
	}
	if err := decodeJSONB(history, &user.History); err != nil {
		return nil, apperrors.NewInternalError("failed to decode history", err)
	}
	return user, nil
}

// UpdatePreferences replaces a user's preferences document
func (a *UserAdapter) UpdatePreferences(ctx context.Context, id string, prefs entities.Preferences) error {
	data, err := json.Marshal(prefs)
	if err != nil {
		return apperrors.NewInternalError("failed to encode preferences", err)
	}

	query, args, err := a.db.Update("users").
		Set(goqu.Record{
			"preferences": string(data),
			"updated_at":  time.Now(),
		}).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update preferences", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("user with id %s not found", id))
	}
	return nil
}

// decodeJSONB leaves dst untouched for NULL columns
func decodeJSONB(data []byte, dst interface{}) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, dst)
}
