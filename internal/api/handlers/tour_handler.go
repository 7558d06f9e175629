package handlers

import (
	"net/http"

	"github.com/navina/travelguide/internal/application/services"
	"github.com/navina/travelguide/internal/domain/entities"
)

// TourHandler handles tour HTTP requests
type TourHandler struct {
	tours *services.TourService
}

// NewTourHandler creates a new tour handler
func NewTourHandler(tours *services.TourService) *TourHandler {
	return &TourHandler{tours: tours}
}

// GetTour handles GET /api/tours/{id}
func (h *TourHandler) GetTour(w http.ResponseWriter, r *http.Request) {
	tour, err := h.tours.GetTour(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, tour)
}

// RecommendTours handles GET /api/tours/recommended?languages=&user_id=&lat=&lon=&limit=
//
// Explicit languages win over the stored preferences of user_id.
func (h *TourHandler) RecommendTours(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	origin, err := parseOrigin(r)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	limit, err := parseOptionalInt(query.Get("limit"), "limit")
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	languages := splitList(query.Get("languages"))
	userID := query.Get("user_id")

	var ranked []services.RankedResult[*entities.Tour]
	if len(languages) == 0 && userID != "" {
		ranked, err = h.tours.RecommendToursForUser(r.Context(), userID, origin, limit)
	} else {
		ranked, err = h.tours.RecommendTours(r.Context(), languages, origin, limit)
	}
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"tours": ranked,
		"count": len(ranked),
	})
}
