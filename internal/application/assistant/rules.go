package assistant

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// turn is everything a rule may look at for one utterance
type turn struct {
	text     string
	entities ExtractedEntities
	lastPOI  string
}

// intentRule pairs a predicate with the handler that answers when it matches.
// Rules are evaluated in order and the first match wins.
type intentRule struct {
	intent  Intent
	matches func(t turn) bool
	respond func(c *Classifier, t turn) IntentResponse
}

var (
	crowdPOIs    = []string{"acropolis001", "agora001", "plaka001"}
	defaultTours = []string{"athens_history_001", "athens_culture_001", "athens_food_001", "athens_art_001"}
)

func defaultRules() []intentRule {
	return []intentRule{
		{
			intent: IntentGreeting,
			// "hi" must be followed by a space unless it is the whole utterance
			matches: func(t turn) bool { return t.text == "hi" || containsAny(t.text, "hello", "hi ", "hey") },
			respond: (*Classifier).greet,
		},
		{
			intent:  IntentCrowds,
			matches: func(t turn) bool { return containsAny(t.text, "crowd", "busy", "wait time") },
			respond: (*Classifier).crowds,
		},
		{
			intent:  IntentTours,
			matches: func(t turn) bool { return containsAny(t.text, "tour", "guide") },
			respond: (*Classifier).tours,
		},
		{
			intent:  IntentPlaceInfo,
			matches: func(t turn) bool { return len(t.entities.Locations) > 0 },
			respond: (*Classifier).placeInfo,
		},
		{
			intent:  IntentRecommendation,
			matches: func(t turn) bool { return containsAny(t.text, "recommend", "suggest", "what should") },
			respond: (*Classifier).recommend,
		},
		{
			intent: IntentDirections,
			matches: func(t turn) bool {
				return strings.Contains(t.text, "how") && containsAny(t.text, "get", "go")
			},
			respond: (*Classifier).directions,
		},
		{
			intent:  IntentWeather,
			matches: func(t turn) bool { return containsAny(t.text, "weather", "temperature", "rain") },
			respond: (*Classifier).weatherReport,
		},
		{
			intent:  IntentFood,
			matches: func(t turn) bool { return containsAny(t.text, "food", "eat", "restaurant", "cafe") },
			respond: (*Classifier).food,
		},
		{
			intent:  IntentHistory,
			matches: func(t turn) bool { return containsAny(t.text, "history", "tell me about") },
			respond: (*Classifier).history,
		},
	}
}

func (c *Classifier) greet(turn) IntentResponse {
	return reply(IntentGreeting, "Hello! I'm your personal travel guide for Athens. I can help you discover historical sites, find interesting tours, or provide information about local attractions. What are you interested in exploring today?")
}

func (c *Classifier) crowds(turn) IntentResponse {
	resp := reply(IntentCrowds, fmt.Sprintf(
		"Based on current data, here are the crowd levels at popular attractions:\n\n"+
			"- Acropolis: %s (%s)\n- Ancient Agora: %s (%s)\n- Plaka District: %s (best in the evening)\n\n"+
			"Would you like me to suggest a less crowded route?",
		c.crowdLevel(), recommendedTime("acropolis"),
		c.crowdLevel(), recommendedTime("agora"),
		c.crowdLevel(),
	))
	resp.RelatedPOIs = append(resp.RelatedPOIs, crowdPOIs...)
	return resp
}

func (c *Classifier) tours(t turn) IntentResponse {
	if len(t.entities.Interests) > 0 {
		interest := t.entities.Interests[0]
		resp := reply(IntentTours, fmt.Sprintf(
			"I have several %s-focused tours that might interest you. The \"Athens %s Explorer\" is a popular 3-hour tour covering the main %s sites in central Athens. Would you like more details about this tour?",
			interest, capitalize(interest), interest,
		))
		resp.RelatedTours = append(resp.RelatedTours, fmt.Sprintf("athens_%s_001", interest))
		return resp
	}

	resp := reply(IntentTours, "I can recommend several tours based on your interests. We have historical tours exploring ancient ruins, cultural tours featuring local traditions, food tours with authentic Greek cuisine, and art tours showcasing museums and galleries. What type of experience are you looking for?")
	resp.RelatedTours = append(resp.RelatedTours, defaultTours...)
	return resp
}

func (c *Classifier) placeInfo(t turn) IntentResponse {
	fact := c.facts.LookupPOI(t.entities.Locations[0])
	resp := reply(IntentPlaceInfo, fmt.Sprintf(
		"%s\n\nCurrent crowd level: %s\nBest time to visit: %s\n\nWould you like directions or more detailed information?",
		fact.Description, c.crowdLevel(), fact.BestTime,
	))
	resp.RelatedPOIs = append(resp.RelatedPOIs, fact.ID)
	resp.ContextPatch.LastPOI = fact.ID
	return resp
}

func (c *Classifier) recommend(t turn) IntentResponse {
	switch {
	case t.entities.Timeframe != TimeframeNone:
		return reply(IntentRecommendation, fmt.Sprintf(
			"For a %s activity, I'd recommend %s. Would you like more information about this?",
			t.entities.Timeframe, recommendationForTime(t.entities.Timeframe),
		))
	case len(t.entities.Interests) > 0:
		interest := t.entities.Interests[0]
		return reply(IntentRecommendation, fmt.Sprintf(
			"If you're interested in %s, I'd recommend visiting %s. Would you like to know more about this place?",
			interest, recommendationForInterest(interest),
		))
	default:
		return reply(IntentRecommendation, "I'd be happy to make some recommendations! Are you interested in historical sites, cultural experiences, local cuisine, or perhaps something off the beaten path?")
	}
}

func (c *Classifier) directions(t turn) IntentResponse {
	if t.lastPOI != "" {
		fact := c.facts.ResolvePOIRef(t.lastPOI)
		resp := reply(IntentDirections, fmt.Sprintf(
			"To get to the %s, you can take the metro to %s station and walk about 10 minutes. Alternatively, bus routes 040 and 230 stop nearby. Would you like me to show you the route on the map?",
			fact.Name, c.metroStation(),
		))
		resp.RelatedPOIs = append(resp.RelatedPOIs, fact.ID)
		return resp
	}

	if len(t.entities.Locations) > 0 {
		location := t.entities.Locations[0]
		resp := reply(IntentDirections, fmt.Sprintf(
			"To reach the %s, take the metro to %s station. It's about a %d minute walk from there. Would you like me to show you the route?",
			capitalize(location), c.metroStation(), c.walkMinutes(),
		))
		resp.RelatedPOIs = append(resp.RelatedPOIs, c.facts.LookupPOI(location).ID)
		return resp
	}

	return reply(IntentDirections, "I can help you with directions! Which place are you trying to reach?")
}

func (c *Classifier) weatherReport(turn) IntentResponse {
	return reply(IntentWeather, fmt.Sprintf(
		"The current weather in Athens is %s. For today, the forecast shows %s. Would you like me to recommend activities suitable for this weather?",
		c.weather(), c.forecast(),
	))
}

func (c *Classifier) food(turn) IntentResponse {
	return reply(IntentFood, "If you're looking for food, I can recommend several options:\n\n"+
		"1. Traditional Taverna in Plaka - authentic Greek dishes in a charming setting\n"+
		"2. Modern Fusion Restaurant near Syntagma - creative takes on Mediterranean cuisine\n"+
		"3. Street Food near Monastiraki - quick and delicious local specialties\n\n"+
		"Do any of these interest you? I can provide more details or directions.")
}

func (c *Classifier) history(t turn) IntentResponse {
	if len(t.entities.Locations) > 0 {
		location := t.entities.Locations[0]
		resp := reply(IntentHistory, c.facts.LookupHistory(location))
		resp.RelatedPOIs = append(resp.RelatedPOIs, c.facts.LookupPOI(location).ID)
		return resp
	}
	return reply(IntentHistory, "Athens has a rich history spanning over 3,400 years, making it one of the oldest cities in the world. The city is dominated by the Acropolis, a hilltop citadel topped with ancient buildings like the Parthenon temple. Athens was the heart of Ancient Greece, a powerful civilization and empire that established democracy, Western philosophy, literature, and drama. Would you like to know more about a specific historical period or monument?")
}

const fallbackContent = "I'm here to help with your Athens travel experience! You can ask me about specific attractions, tour recommendations, directions, or local tips. What would you like to explore?"

func fallback() IntentResponse {
	return reply(IntentFallback, fallbackContent)
}

func reply(intent Intent, content string) IntentResponse {
	return IntentResponse{
		Intent:       intent,
		Content:      content,
		RelatedPOIs:  []string{},
		RelatedTours: []string{},
	}
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
