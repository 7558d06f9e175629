package entities

import "time"

// Sender identifies who wrote a message
type Sender string

const (
	SenderUser   Sender = "user"
	SenderSystem Sender = "system"
)

// WelcomeMessage opens every new conversation
const WelcomeMessage = "Hello! I'm Navina, your personal travel guide. How can I help you today?"

// Conversation is a chat transcript plus its conversational memory
type Conversation struct {
	ID        string              `json:"id" db:"id"`
	UserID    string              `json:"user_id" db:"user_id"`
	Messages  []Message           `json:"messages" db:"-"`
	Context   ConversationContext `json:"context" db:"context"`
	CreatedAt time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt time.Time           `json:"updated_at" db:"updated_at"`
}

// Message is a single turn in a conversation
type Message struct {
	ID           string    `json:"id" db:"id"`
	Sender       Sender    `json:"sender" db:"sender"`
	Content      string    `json:"content" db:"content"`
	RelatedPOIs  []string  `json:"related_pois,omitempty" db:"related_pois"`
	RelatedTours []string  `json:"related_tours,omitempty" db:"related_tours"`
	Timestamp    time.Time `json:"timestamp" db:"created_at"`
}

// ConversationContext carries references from earlier turns. Values are
// never changed in place; Merge returns the updated copy.
type ConversationContext struct {
	LastPOI      string    `json:"lastPOI,omitempty"`
	CurrentPOI   string    `json:"currentPOI,omitempty"`
	ActiveTour   string    `json:"activeTour,omitempty"`
	UserLocation *GeoPoint `json:"userLocation,omitempty"`
}

// IsEmpty reports whether no field is set
func (c ConversationContext) IsEmpty() bool {
	return c.LastPOI == "" && c.CurrentPOI == "" && c.ActiveTour == "" && c.UserLocation == nil
}

// Merge returns a copy of c with every non-empty field of patch applied
func (c ConversationContext) Merge(patch ConversationContext) ConversationContext {
	merged := c
	if patch.LastPOI != "" {
		merged.LastPOI = patch.LastPOI
	}
	if patch.CurrentPOI != "" {
		merged.CurrentPOI = patch.CurrentPOI
	}
	if patch.ActiveTour != "" {
		merged.ActiveTour = patch.ActiveTour
	}
	if patch.UserLocation != nil {
		loc := *patch.UserLocation
		merged.UserLocation = &loc
	} else if c.UserLocation != nil {
		loc := *c.UserLocation
		merged.UserLocation = &loc
	}
	return merged
}
