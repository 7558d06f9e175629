// Package assistant implements the rule-based guide that answers chat
// messages. Classification is a pure function of the utterance, the
// conversation context and static fact tables.
package assistant

import "github.com/navina/travelguide/internal/domain/entities"

// Intent names the response branch chosen for an utterance
type Intent string

const (
	IntentGreeting       Intent = "greeting"
	IntentCrowds         Intent = "crowds"
	IntentTours          Intent = "tours"
	IntentPlaceInfo      Intent = "place_info"
	IntentRecommendation Intent = "recommendation"
	IntentDirections     Intent = "directions"
	IntentWeather        Intent = "weather"
	IntentFood           Intent = "food"
	IntentHistory        Intent = "history"
	IntentFallback       Intent = "fallback"
)

// Timeframe is the single time-of-day bucket mentioned in an utterance
type Timeframe string

const (
	TimeframeNone      Timeframe = ""
	TimeframeMorning   Timeframe = "morning"
	TimeframeAfternoon Timeframe = "afternoon"
	TimeframeEvening   Timeframe = "evening"
)

// ExtractedEntities holds the keyword matches found in one utterance
type ExtractedEntities struct {
	Locations []string  `json:"locations"`
	Interests []string  `json:"interests"`
	Timeframe Timeframe `json:"timeframe,omitempty"`
}

// IntentResponse is the reply produced for one turn. ContextPatch is a
// partial context for the caller to merge; it is empty unless the reply
// described a specific place.
type IntentResponse struct {
	Intent       Intent                       `json:"intent"`
	Content      string                       `json:"content"`
	RelatedPOIs  []string                     `json:"related_pois"`
	RelatedTours []string                     `json:"related_tours"`
	ContextPatch entities.ConversationContext `json:"context_patch"`
}
