package entities

import "time"

// Tour represents a guided tour offered in one or more languages
type Tour struct {
	ID               string    `json:"id" db:"id"`
	Name             string    `json:"name" db:"name"`
	Description      string    `json:"description" db:"description"`
	Languages        []string  `json:"languages" db:"languages"`
	POIIDs           []string  `json:"poi_ids" db:"poi_ids"`
	Interests        []string  `json:"interests,omitempty" db:"interests"`
	StartCoordinates *GeoPoint `json:"start_coordinates,omitempty" db:"-"`
	DurationMinutes  int       `json:"duration_minutes" db:"duration_minutes"`
	IsActive         bool      `json:"is_active" db:"is_active"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// CandidateID implements the ranking candidate contract
func (t *Tour) CandidateID() string {
	return t.ID
}

// Location returns the tour starting point when it is present and valid
func (t *Tour) Location() (GeoPoint, bool) {
	if t == nil || t.StartCoordinates == nil || !t.StartCoordinates.Valid() {
		return GeoPoint{}, false
	}
	return *t.StartCoordinates, true
}

// LanguageTags returns the languages the tour is offered in
func (t *Tour) LanguageTags() []string {
	return t.Languages
}
