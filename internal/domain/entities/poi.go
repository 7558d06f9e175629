package entities

import "time"

// CrowdIndicator buckets a 1-10 crowd level for map markers
type CrowdIndicator string

const (
	CrowdLow      CrowdIndicator = "low"
	CrowdModerate CrowdIndicator = "moderate"
	CrowdHigh     CrowdIndicator = "high"
)

// POI represents a visitable point of interest
type POI struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Category    string    `json:"category" db:"category"`
	Coordinates *GeoPoint `json:"coordinates,omitempty" db:"-"`
	CrowdLevel  int       `json:"crowd_level" db:"crowd_level"`
	BestTime    string    `json:"best_time,omitempty" db:"best_time"`
	Tags        []string  `json:"tags,omitempty" db:"tags"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// CandidateID implements the ranking candidate contract
func (p *POI) CandidateID() string {
	return p.ID
}

// Location returns the POI coordinates when they are present and valid
func (p *POI) Location() (GeoPoint, bool) {
	if p == nil || p.Coordinates == nil || !p.Coordinates.Valid() {
		return GeoPoint{}, false
	}
	return *p.Coordinates, true
}

// CrowdIndicator maps the crowd level onto the marker colour bands
func (p *POI) CrowdIndicator() CrowdIndicator {
	return CrowdIndicatorFor(p.CrowdLevel)
}

// CrowdIndicatorFor maps a 1-10 crowd level onto low/moderate/high
func CrowdIndicatorFor(level int) CrowdIndicator {
	switch {
	case level <= 3:
		return CrowdLow
	case level <= 6:
		return CrowdModerate
	default:
		return CrowdHigh
	}
}
