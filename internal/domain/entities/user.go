package entities

import "time"

// Default preference values for new users
const (
	DefaultPace        = "moderate"
	DefaultMaxDistance = 5000
)

// DefaultLanguages is the language preference applied to new users
var DefaultLanguages = []string{"English"}

// User represents an app user and their travel preferences
type User struct {
	ID          string      `json:"id" db:"id"`
	DisplayName string      `json:"display_name" db:"display_name"`
	Email       string      `json:"email,omitempty" db:"email"`
	Preferences Preferences `json:"preferences" db:"preferences"`
	SavedTours  []string    `json:"saved_tours" db:"saved_tours"`
	SavedPOIs   []string    `json:"saved_pois" db:"saved_pois"`
	History     UserHistory `json:"history" db:"history"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" db:"updated_at"`
}

// Preferences holds what the guide should favour for a user
type Preferences struct {
	Languages     []string `json:"languages"`
	Interests     []string `json:"interests"`
	Pace          string   `json:"pace"`
	Accessibility bool     `json:"accessibility"`
	MaxDistance   float64  `json:"max_distance"`
}

// UserHistory records what a user has already done
type UserHistory struct {
	CompletedTours []string `json:"completed_tours"`
	VisitedPOIs    []string `json:"visited_pois"`
}

// DefaultPreferences returns the preferences applied when a user supplies none
func DefaultPreferences() Preferences {
	return Preferences{
		Languages:   append([]string(nil), DefaultLanguages...),
		Interests:   []string{},
		Pace:        DefaultPace,
		MaxDistance: DefaultMaxDistance,
	}
}
