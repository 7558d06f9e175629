package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConversationContext_MergeDoesNotMutate(t *testing.T) {
	base := ConversationContext{LastPOI: "agora001", ActiveTour: "athens_history_001"}
	patch := ConversationContext{LastPOI: "acropolis001"}

	merged := base.Merge(patch)

	assert.Equal(t, "acropolis001", merged.LastPOI)
	assert.Equal(t, "athens_history_001", merged.ActiveTour)
	assert.Equal(t, "agora001", base.LastPOI)
}

func TestConversationContext_MergeEmptyPatchKeepsValues(t *testing.T) {
	loc := &GeoPoint{Latitude: 37.97, Longitude: 23.72}
	base := ConversationContext{CurrentPOI: "plaka001", UserLocation: loc}

	merged := base.Merge(ConversationContext{})

	assert.Equal(t, base.CurrentPOI, merged.CurrentPOI)
	assert.Equal(t, *loc, *merged.UserLocation)
	assert.NotSame(t, loc, merged.UserLocation)
}

func TestConversationContext_IsEmpty(t *testing.T) {
	assert.True(t, ConversationContext{}.IsEmpty())
	assert.False(t, ConversationContext{LastPOI: "x"}.IsEmpty())
	assert.False(t, ConversationContext{UserLocation: &GeoPoint{}}.IsEmpty())
}

func TestCrowdIndicatorFor(t *testing.T) {
	assert.Equal(t, CrowdLow, CrowdIndicatorFor(1))
	assert.Equal(t, CrowdLow, CrowdIndicatorFor(3))
	assert.Equal(t, CrowdModerate, CrowdIndicatorFor(4))
	assert.Equal(t, CrowdModerate, CrowdIndicatorFor(6))
	assert.Equal(t, CrowdHigh, CrowdIndicatorFor(7))
	assert.Equal(t, CrowdHigh, CrowdIndicatorFor(10))
}

func TestPOI_LocationRejectsInvalidCoordinates(t *testing.T) {
	poi := &POI{ID: "bad", Coordinates: &GeoPoint{Latitude: 123, Longitude: 0}}
	_, ok := poi.Location()
	assert.False(t, ok)

	missing := &POI{ID: "missing"}
	_, ok = missing.Location()
	assert.False(t, ok)

	good := &POI{ID: "acropolis001", Coordinates: &GeoPoint{Latitude: 37.9715, Longitude: 23.7268}}
	loc, ok := good.Location()
	assert.True(t, ok)
	assert.Equal(t, 37.9715, loc.Latitude)
}
