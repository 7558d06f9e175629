package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/navina/travelguide/internal/domain/entities"
	"github.com/navina/travelguide/internal/infrastructure/observability"
	apperrors "github.com/navina/travelguide/pkg/errors"
)

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithAppError maps an application error onto an HTTP status.
// Internal details are logged, never returned.
func respondWithAppError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		observability.LoggerFromContext(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		respondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	switch appErr.Type {
	case apperrors.ErrorTypeValidation, apperrors.ErrorTypeInvalidArgument:
		respondWithError(w, http.StatusBadRequest, appErr.Message)
	case apperrors.ErrorTypeNotFound:
		respondWithError(w, http.StatusNotFound, appErr.Message)
	default:
		observability.LoggerFromContext(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		respondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperrors.NewValidationError(fmt.Sprintf("invalid request body: %v", err))
	}
	return nil
}

// splitList parses a comma separated query value, dropping empty items
func splitList(value string) []string {
	items := []string{}
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func parseOptionalFloat(value, name string) (*float64, error) {
	if value == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid %s parameter", name))
	}
	return &f, nil
}

func parseOptionalInt(value, name string) (*int, error) {
	if value == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid %s parameter", name))
	}
	return &n, nil
}

// parseOrigin reads lat/lon query parameters. Both or neither must be set.
func parseOrigin(r *http.Request) (*entities.GeoPoint, error) {
	query := r.URL.Query()
	lat, err := parseOptionalFloat(query.Get("lat"), "lat")
	if err != nil {
		return nil, err
	}
	lon, err := parseOptionalFloat(query.Get("lon"), "lon")
	if err != nil {
		return nil, err
	}
	if lat == nil && lon == nil {
		return nil, nil
	}
	if lat == nil || lon == nil {
		return nil, apperrors.NewValidationError("lat and lon must be provided together")
	}
	return &entities.GeoPoint{Latitude: *lat, Longitude: *lon}, nil
}
