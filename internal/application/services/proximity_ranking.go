package services

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/navina/travelguide/internal/domain/entities"
	apperrors "github.com/navina/travelguide/pkg/errors"
)

// Candidate is anything that can be ranked by distance
type Candidate interface {
	CandidateID() string
	// Location returns false when the record has no usable coordinates
	Location() (entities.GeoPoint, bool)
}

// LanguageTagged is a candidate offered in a set of languages
type LanguageTagged interface {
	Candidate
	LanguageTags() []string
}

// RankedResult is a candidate plus its distance from the query origin.
// Distances depend on the origin and are never stored on the candidate.
type RankedResult[T Candidate] struct {
	Item           T       `json:"item"`
	DistanceMeters float64 `json:"distance_meters"`
	HasDistance    bool    `json:"-"`
}

// MarshalJSON omits the distance when none could be computed
func (r RankedResult[T]) MarshalJSON() ([]byte, error) {
	out := struct {
		Item           T        `json:"item"`
		DistanceMeters *float64 `json:"distance_meters,omitempty"`
	}{Item: r.Item}
	if r.HasDistance {
		d := r.DistanceMeters
		out.DistanceMeters = &d
	}
	return json.Marshal(out)
}

// Distance returns the great-circle distance between a and b in meters
func Distance(a, b entities.GeoPoint) float64 {
	return a.DistanceTo(b)
}

// RankNearby keeps candidates within radiusMeters of origin, closest first.
// Equal distances keep input order. Candidates without valid coordinates
// are left out.
func RankNearby[T Candidate](origin entities.GeoPoint, candidates []T, radiusMeters float64) ([]RankedResult[T], error) {
	if !origin.Valid() {
		return nil, invalidOrigin(origin)
	}
	if math.IsNaN(radiusMeters) || radiusMeters < 0 {
		return nil, apperrors.NewInvalidArgumentError(fmt.Sprintf("radius must be >= 0, got %v", radiusMeters))
	}

	results := make([]RankedResult[T], 0, len(candidates))
	for _, c := range candidates {
		loc, ok := c.Location()
		if !ok {
			continue
		}
		d := Distance(origin, loc)
		if d <= radiusMeters {
			results = append(results, RankedResult[T]{Item: c, DistanceMeters: d, HasDistance: true})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].DistanceMeters < results[j].DistanceMeters
	})
	return results, nil
}

// RankByLanguage keeps candidates offered in at least one of languages and
// orders them by distance from origin. Without an origin, or for
// candidates without coordinates, the distance counts as infinite and
// those entries sort last in input order. At most limit results are
// returned.
func RankByLanguage[T LanguageTagged](candidates []T, languages []string, origin *entities.GeoPoint, limit int) ([]RankedResult[T], error) {
	if limit < 0 {
		return nil, apperrors.NewInvalidArgumentError(fmt.Sprintf("limit must be >= 0, got %d", limit))
	}
	if origin != nil && !origin.Valid() {
		return nil, invalidOrigin(*origin)
	}
	if limit == 0 {
		return []RankedResult[T]{}, nil
	}

	wanted := make(map[string]struct{}, len(languages))
	for _, lang := range languages {
		wanted[lang] = struct{}{}
	}

	results := make([]RankedResult[T], 0, len(candidates))
	for _, c := range candidates {
		if !offersAny(c.LanguageTags(), wanted) {
			continue
		}
		result := RankedResult[T]{Item: c, DistanceMeters: math.Inf(1)}
		if origin != nil {
			if loc, ok := c.Location(); ok {
				result.DistanceMeters = Distance(*origin, loc)
				result.HasDistance = true
			}
		}
		results = append(results, result)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].DistanceMeters < results[j].DistanceMeters
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func offersAny(tags []string, wanted map[string]struct{}) bool {
	for _, tag := range tags {
		if _, ok := wanted[tag]; ok {
			return true
		}
	}
	return false
}

func invalidOrigin(p entities.GeoPoint) error {
	return apperrors.NewInvalidArgumentError(fmt.Sprintf("invalid origin (%v, %v)", p.Latitude, p.Longitude))
}
