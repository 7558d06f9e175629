package handlers

import (
	"net/http"

	"github.com/navina/travelguide/internal/application/services"
	"github.com/navina/travelguide/internal/domain/entities"
	apperrors "github.com/navina/travelguide/pkg/errors"
)

// POIHandler handles point-of-interest HTTP requests
type POIHandler struct {
	pois *services.POIService
}

// NewPOIHandler creates a new POI handler
func NewPOIHandler(pois *services.POIService) *POIHandler {
	return &POIHandler{pois: pois}
}

// poiMarker is a POI as drawn on the map, with its crowd colour band
type poiMarker struct {
	*entities.POI
	CrowdIndicator entities.CrowdIndicator `json:"crowd_indicator"`
}

func markerFor(p *entities.POI) poiMarker {
	return poiMarker{POI: p, CrowdIndicator: p.CrowdIndicator()}
}

// GetPOI handles GET /api/pois/{id}
func (h *POIHandler) GetPOI(w http.ResponseWriter, r *http.Request) {
	poi, err := h.pois.GetPOI(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, markerFor(poi))
}

// ListPOIs handles GET /api/pois?ids=a,b
func (h *POIHandler) ListPOIs(w http.ResponseWriter, r *http.Request) {
	ids := splitList(r.URL.Query().Get("ids"))
	if len(ids) == 0 {
		respondWithAppError(w, r, apperrors.NewValidationError("ids parameter is required"))
		return
	}

	pois, err := h.pois.GetPOIsByIDs(r.Context(), ids)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	markers := make([]poiMarker, 0, len(pois))
	for _, p := range pois {
		markers = append(markers, markerFor(p))
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"pois":  markers,
		"count": len(markers),
	})
}

// nearbyPOI is one proximity search hit
type nearbyPOI struct {
	poiMarker
	DistanceMeters float64 `json:"distance_meters"`
}

// NearbyPOIs handles GET /api/pois/nearby?lat=&lon=&radius=
func (h *POIHandler) NearbyPOIs(w http.ResponseWriter, r *http.Request) {
	origin, err := parseOrigin(r)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if origin == nil {
		respondWithAppError(w, r, apperrors.NewValidationError("lat and lon are required"))
		return
	}
	radius, err := parseOptionalFloat(r.URL.Query().Get("radius"), "radius")
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	ranked, err := h.pois.NearbyPOIs(r.Context(), *origin, radius)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	results := make([]nearbyPOI, 0, len(ranked))
	for _, rr := range ranked {
		results = append(results, nearbyPOI{poiMarker: markerFor(rr.Item), DistanceMeters: rr.DistanceMeters})
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"pois":  results,
		"count": len(results),
	})
}
