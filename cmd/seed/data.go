package main

import (
	"fmt"
	"time"

	"github.com/navina/travelguide/internal/application/assistant"
	"github.com/navina/travelguide/internal/domain/entities"
)

type poiSeed struct {
	category   string
	lat, lon   float64
	crowdLevel int
	tags       []string
}

// poiSeeds adds map data to the places the guide knows about
var poiSeeds = map[string]poiSeed{
	"acropolis001":   {"historical_site", 37.9715, 23.7268, 8, []string{"history", "ancient", "architecture", "photography"}},
	"parthenon001":   {"historical_site", 37.9715, 23.7266, 9, []string{"history", "ancient", "architecture"}},
	"agora001":       {"historical_site", 37.9755, 23.7212, 4, []string{"history", "ancient", "culture"}},
	"plaka001":       {"neighborhood", 37.9692, 23.7276, 6, []string{"food", "shopping", "local", "culture"}},
	"zeus001":        {"historical_site", 37.9693, 23.7331, 3, []string{"history", "ancient", "photography"}},
	"museum001":      {"museum", 37.9684, 23.7285, 5, []string{"history", "art", "modern"}},
	"monastiraki001": {"market", 37.9761, 23.7255, 7, []string{"shopping", "local", "food"}},
	"syntagma001":    {"square", 37.9755, 23.7348, 6, []string{"culture", "modern", "photography"}},
}

func seedPOIs(facts *assistant.GuideFacts, now time.Time) ([]*entities.POI, error) {
	pois := make([]*entities.POI, 0, len(facts.POIs))
	for _, fact := range facts.POIs {
		seed, ok := poiSeeds[fact.ID]
		if !ok {
			return nil, fmt.Errorf("no map data for %s", fact.ID)
		}
		pois = append(pois, &entities.POI{
			ID:          fact.ID,
			Name:        fact.Name,
			Description: fact.Description,
			Category:    seed.category,
			Coordinates: &entities.GeoPoint{Latitude: seed.lat, Longitude: seed.lon},
			CrowdLevel:  seed.crowdLevel,
			BestTime:    fact.BestTime,
			Tags:        seed.tags,
			IsActive:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}
	return pois, nil
}

func seedTours(now time.Time) []*entities.Tour {
	tour := func(interest, name, description string, languages, pois []string, minutes int) *entities.Tour {
		return &entities.Tour{
			ID:              fmt.Sprintf("athens_%s_001", interest),
			Name:            name,
			Description:     description,
			Languages:       languages,
			POIIDs:          pois,
			Interests:       []string{interest},
			DurationMinutes: minutes,
			IsActive:        true,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
	}

	tours := []*entities.Tour{
		tour("history", "Athens History Explorer", "The Acropolis, the Ancient Agora and the Temple of Olympian Zeus in one morning.",
			[]string{"English", "Greek", "French"}, []string{"acropolis001", "parthenon001", "agora001", "zeus001"}, 180),
		tour("culture", "Athens Culture Explorer", "Living traditions from Plaka to Syntagma, ending at the changing of the guard.",
			[]string{"English", "Greek"}, []string{"plaka001", "agora001", "syntagma001"}, 150),
		tour("food", "Athens Food Explorer", "Tavernas, bakeries and street food through Plaka and Monastiraki.",
			[]string{"English", "Spanish"}, []string{"plaka001", "monastiraki001"}, 180),
		tour("art", "Athens Art Explorer", "Sculpture at the Acropolis Museum and galleries in the old town.",
			[]string{"English", "Italian"}, []string{"museum001", "plaka001"}, 150),
		tour("architecture", "Athens Architecture Explorer", "Classical orders from the Parthenon to neoclassical Syntagma.",
			[]string{"English", "German"}, []string{"parthenon001", "zeus001", "syntagma001"}, 180),
		tour("shopping", "Athens Shopping Explorer", "Flea market finds and local crafts.",
			[]string{"English"}, []string{"monastiraki001", "plaka001"}, 120),
		tour("local", "Athens Local Explorer", "Neighbourhood walks the way Athenians take them.",
			[]string{"Greek", "English"}, []string{"plaka001", "monastiraki001"}, 120),
		tour("ancient", "Athens Ancient Explorer", "Every major ancient site in central Athens.",
			[]string{"English", "French", "German"}, []string{"acropolis001", "agora001", "zeus001"}, 240),
		tour("modern", "Athens Modern Explorer", "The Acropolis Museum and the modern city centre.",
			[]string{"English"}, []string{"museum001", "syntagma001"}, 120),
		tour("photography", "Athens Photography Explorer", "Golden hour viewpoints over the Acropolis.",
			[]string{"English", "Japanese"}, []string{"zeus001", "acropolis001", "plaka001"}, 180),
	}
	return tours
}

// tourStarts places each tour at its first stop
func tourStarts(tours []*entities.Tour, pois []*entities.POI) error {
	byID := make(map[string]*entities.POI, len(pois))
	for _, p := range pois {
		byID[p.ID] = p
	}
	for _, t := range tours {
		for _, id := range t.POIIDs {
			if _, ok := byID[id]; !ok {
				return fmt.Errorf("tour %s references unknown poi %s", t.ID, id)
			}
		}
		if len(t.POIIDs) > 0 {
			start := *byID[t.POIIDs[0]].Coordinates
			t.StartCoordinates = &start
		}
	}
	return nil
}
