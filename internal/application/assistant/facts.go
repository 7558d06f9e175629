package assistant

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

//go:embed data/guide_facts.json
var defaultFactsJSON []byte

// POIFact is the canned description of a place the guide knows about
type POIFact struct {
	Key         string `json:"key"`
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	BestTime    string `json:"best_time"`
}

// HistoryFact is the canned history text for a place key
type HistoryFact struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// GuideFacts holds the static lookup tables. Entries are kept in file
// order because lookups return the first key contained in the query.
type GuideFacts struct {
	POIs           []POIFact     `json:"pois"`
	DefaultPOI     POIFact       `json:"default_poi"`
	History        []HistoryFact `json:"history"`
	DefaultHistory string        `json:"default_history"`
}

// DefaultFacts returns the tables shipped with the binary
func DefaultFacts() *GuideFacts {
	facts, err := ParseFacts(defaultFactsJSON)
	if err != nil {
		panic(fmt.Sprintf("embedded guide facts are invalid: %v", err))
	}
	return facts
}

// LoadFacts reads guide facts from a JSON file. An empty path yields the
// embedded defaults.
func LoadFacts(path string) (*GuideFacts, error) {
	if path == "" {
		return DefaultFacts(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read guide facts: %w", err)
	}
	return ParseFacts(data)
}

// ParseFacts decodes and validates a guide facts document
func ParseFacts(data []byte) (*GuideFacts, error) {
	var facts GuideFacts
	if err := json.Unmarshal(data, &facts); err != nil {
		return nil, fmt.Errorf("failed to decode guide facts: %w", err)
	}

	for i := range facts.POIs {
		facts.POIs[i].Key = strings.ToLower(strings.TrimSpace(facts.POIs[i].Key))
		if facts.POIs[i].Key == "" || facts.POIs[i].ID == "" {
			return nil, fmt.Errorf("poi fact %d: key and id are required", i)
		}
	}
	for i := range facts.History {
		facts.History[i].Key = strings.ToLower(strings.TrimSpace(facts.History[i].Key))
		if facts.History[i].Key == "" {
			return nil, fmt.Errorf("history fact %d: key is required", i)
		}
	}
	if facts.DefaultPOI.ID == "" {
		return nil, fmt.Errorf("default_poi.id is required")
	}
	if facts.DefaultHistory == "" {
		return nil, fmt.Errorf("default_history is required")
	}

	return &facts, nil
}

// LookupPOI returns the first fact whose key is contained in location,
// falling back to the default fact.
func (f *GuideFacts) LookupPOI(location string) POIFact {
	for _, fact := range f.POIs {
		if strings.Contains(location, fact.Key) {
			return fact
		}
	}
	return f.DefaultPOI
}

// ResolvePOIRef resolves a stored POI reference: an exact fact ID first,
// then the same containment lookup as LookupPOI.
func (f *GuideFacts) ResolvePOIRef(ref string) POIFact {
	for _, fact := range f.POIs {
		if fact.ID == ref {
			return fact
		}
	}
	if f.DefaultPOI.ID == ref {
		return f.DefaultPOI
	}
	return f.LookupPOI(strings.ToLower(ref))
}

// LookupHistory returns the history text for the first key contained in
// location, falling back to the default text.
func (f *GuideFacts) LookupHistory(location string) string {
	for _, fact := range f.History {
		if strings.Contains(location, fact.Key) {
			return fact.Text
		}
	}
	return f.DefaultHistory
}
