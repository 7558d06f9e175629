package assistant

import (
	"math/rand/v2"
	"sync"
)

// RandomSource picks flavor text. Implementations must be safe for
// concurrent use.
type RandomSource interface {
	// IntN returns a value in [0, n)
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int {
	return rand.IntN(n)
}

// NewSeededSource returns a deterministic source for reproducible replies
func NewSeededSource(seed uint64) RandomSource {
	return &seededSource{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

type seededSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func (s *seededSource) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}

var (
	crowdLevels = []string{"Low (2/10)", "Moderate (5/10)", "High (8/10)"}

	metroStations = []string{"Acropolis", "Syntagma", "Monastiraki", "Thissio"}

	weatherConditions = []string{
		"sunny and warm at 28°C",
		"partly cloudy at 25°C",
		"clear skies at 27°C",
		"a bit windy at 24°C",
	}

	forecasts = []string{
		"continued sunshine throughout the day",
		"some clouds in the afternoon but no rain expected",
		"temperatures cooling slightly in the evening",
		"perfect conditions for outdoor exploration",
	}

	recommendationsByInterest = map[string]string{
		"history":      "the Ancient Agora, where you can walk in the footsteps of Socrates and Plato",
		"architecture": "the Parthenon, a masterpiece of Doric architecture",
		"food":         "the Central Market and surrounding tavernas for authentic Greek cuisine",
		"art":          "the Benaki Museum, featuring Greek art from prehistoric to modern times",
		"shopping":     "Ermou Street and Monastiraki Flea Market for everything from boutiques to antiques",
		"culture":      "the Stavros Niarchos Foundation Cultural Center, a modern architectural landmark",
		"local":        "the neighborhood of Exarchia, known for its vibrant street art and alternative scene",
		"ancient":      "the Temple of Olympian Zeus, one of the largest temples of the ancient world",
		"modern":       "the National Museum of Contemporary Art, showcasing cutting-edge Greek artists",
		"photography":  "Lycabettus Hill, offering panoramic views of the city perfect for photography",
	}

	recommendationsByTime = map[Timeframe]string{
		TimeframeMorning:   "visiting the Acropolis before the crowds and heat build up",
		TimeframeAfternoon: "exploring the air-conditioned National Archaeological Museum",
		TimeframeEvening:   "taking a stroll through the illuminated Plaka district and enjoying dinner at a rooftop restaurant with Acropolis views",
	}
)

const defaultInterestRecommendation = "the Athens Walking Tour, which gives you a great overview of the city"

func pick(src RandomSource, options []string) string {
	return options[src.IntN(len(options))]
}

func (c *Classifier) crowdLevel() string {
	return pick(c.random, crowdLevels)
}

func (c *Classifier) metroStation() string {
	return pick(c.random, metroStations)
}

func (c *Classifier) weather() string {
	return pick(c.random, weatherConditions)
}

func (c *Classifier) forecast() string {
	return pick(c.random, forecasts)
}

// walkMinutes returns a walking time between 5 and 14 minutes
func (c *Classifier) walkMinutes() int {
	return c.random.IntN(10) + 5
}

func recommendedTime(place string) string {
	switch place {
	case "acropolis":
		return "best before 10am or after 4pm"
	case "agora":
		return "generally uncrowded in the afternoon"
	default:
		return "usually fine any time"
	}
}

func recommendationForInterest(interest string) string {
	if rec, ok := recommendationsByInterest[interest]; ok {
		return rec
	}
	return defaultInterestRecommendation
}

func recommendationForTime(tf Timeframe) string {
	if rec, ok := recommendationsByTime[tf]; ok {
		return rec
	}
	return recommendationsByTime[TimeframeEvening]
}
