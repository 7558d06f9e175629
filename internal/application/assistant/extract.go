package assistant

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Vocabularies are scanned in declaration order; matches keep that order.
var (
	locationKeywords = []string{
		"acropolis", "parthenon", "temple", "museum", "agora",
		"plaka", "monastiraki", "syntagma", "athens", "greece",
	}

	interestKeywords = []string{
		"history", "architecture", "food", "art", "shopping",
		"culture", "local", "ancient", "modern", "photography",
	}
)

var timeframeRules = []struct {
	timeframe Timeframe
	keywords  []string
}{
	{TimeframeMorning, []string{"morning", "breakfast"}},
	{TimeframeAfternoon, []string{"afternoon", "lunch"}},
	{TimeframeEvening, []string{"evening", "dinner", "night"}},
}

// normalize folds compatibility forms (fullwidth letters, ligatures),
// then lowercases and trims an utterance
func normalize(utterance string) string {
	return strings.TrimSpace(strings.ToLower(norm.NFKC.String(utterance)))
}

// ExtractEntities scans normalized text for location and interest keywords
// and the first matching timeframe.
func ExtractEntities(text string) ExtractedEntities {
	return ExtractedEntities{
		Locations: matchVocabulary(text, locationKeywords),
		Interests: matchVocabulary(text, interestKeywords),
		Timeframe: detectTimeframe(text),
	}
}

func matchVocabulary(text string, vocabulary []string) []string {
	matches := []string{}
	for _, keyword := range vocabulary {
		if strings.Contains(text, keyword) {
			matches = append(matches, keyword)
		}
	}
	return matches
}

func detectTimeframe(text string) Timeframe {
	for _, rule := range timeframeRules {
		if containsAny(text, rule.keywords...) {
			return rule.timeframe
		}
	}
	return TimeframeNone
}

func containsAny(text string, needles ...string) bool {
	for _, needle := range needles {
		if strings.Contains(text, needle) {
			return true
		}
	}
	return false
}
