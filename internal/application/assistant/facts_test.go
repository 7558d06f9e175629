package assistant

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultFacts_KeepsDeclarationOrder(t *testing.T) {
	facts := DefaultFacts()

	keys := make([]string, 0, len(facts.POIs))
	for _, f := range facts.POIs {
		keys = append(keys, f.Key)
	}
	assert.Equal(t, []string{"acropolis", "parthenon", "agora", "plaka", "temple", "museum", "monastiraki", "syntagma"}, keys)
	assert.Equal(t, "athens001", facts.DefaultPOI.ID)
}

func TestLookupPOI_FirstContainedKeyWins(t *testing.T) {
	facts := DefaultFacts()

	assert.Equal(t, "acropolis001", facts.LookupPOI("acropolis museum").ID)
	assert.Equal(t, "museum001", facts.LookupPOI("museum").ID)
	assert.Equal(t, "athens001", facts.LookupPOI("lycabettus").ID)
}

func TestResolvePOIRef(t *testing.T) {
	facts := DefaultFacts()

	assert.Equal(t, "Temple of Olympian Zeus", facts.ResolvePOIRef("zeus001").Name)
	assert.Equal(t, "Athens", facts.ResolvePOIRef("athens001").Name)
	assert.Equal(t, "Plaka District", facts.ResolvePOIRef("Plaka-walk").Name)
}

func TestLookupHistory_DefaultText(t *testing.T) {
	facts := DefaultFacts()

	assert.Contains(t, facts.LookupHistory("agora"), "heart of public life in Athens")
	assert.Equal(t, facts.DefaultHistory, facts.LookupHistory("syntagma"))
}

func TestLoadFacts_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "facts.json")
	doc := `{
		"pois": [
			{"key": " Lycabettus ", "id": "lyc001", "name": "Lycabettus Hill", "description": "A limestone hill.", "best_time": "Sunset"},
			{"key": "hill", "id": "hill001", "name": "Some Hill", "description": "A hill.", "best_time": "Any"}
		],
		"default_poi": {"key": "athens", "id": "athens001", "name": "Athens", "description": "The capital.", "best_time": "Spring"},
		"history": [{"key": "lycabettus", "text": "Legend says Athena dropped it."}],
		"default_history": "Old city."
	}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	facts, err := LoadFacts(path)
	require.NoError(t, err)

	assert.Equal(t, "lycabettus", facts.POIs[0].Key)
	assert.Equal(t, "lyc001", facts.LookupPOI("lycabettus hill").ID)
	assert.Equal(t, "Legend says Athena dropped it.", facts.LookupHistory("lycabettus"))
}

func TestLoadFacts_Errors(t *testing.T) {
	_, err := LoadFacts(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = ParseFacts([]byte(`{"pois": [{"key": "", "id": "x"}], "default_poi": {"id": "d"}, "default_history": "h"}`))
	assert.Error(t, err)

	_, err = ParseFacts([]byte(`{"pois": [], "default_history": "h"}`))
	assert.Error(t, err)

	_, err = ParseFacts([]byte(`not json`))
	assert.Error(t, err)
}

func TestLoadFacts_EmptyPathUsesEmbedded(t *testing.T) {
	facts, err := LoadFacts("")
	require.NoError(t, err)
	assert.Len(t, facts.POIs, 8)
	assert.Len(t, facts.History, 4)
}
