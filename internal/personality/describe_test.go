package personality

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testStructure = []DomainDefinition{
	{
		Domain:           "E",
		Title:            "Extraversion",
		ShortDescription: "Sociability and energy.",
		Facets: []FacetDefinition{
			{Title: "Friendliness", Text: "Warmth toward others."},
			{Title: "Gregariousness", Text: "Enjoyment of groups."},
		},
		Results: []ResultText{
			{Score: CategoryHigh, Text: "You are outgoing."},
			{Score: CategoryNeutral, Text: "You are balanced."},
			{Score: CategoryLow, Text: "You are reserved."},
		},
	},
}

func TestDescribe(t *testing.T) {
	results := Results{
		"E": {
			Score: 9, Count: 2, Result: CategoryHigh,
			Facets: map[string]FacetResult{
				"1": {Score: 5, Count: 1, Result: CategoryHigh},
				"2": {Score: 4, Count: 1, Result: CategoryNeutral},
			},
		},
	}

	text := Describe(results, testStructure)
	require.Contains(t, text, "E")

	e := text["E"]
	assert.Equal(t, "Extraversion", e.Title)
	assert.Equal(t, "You are outgoing.", e.ResultText)
	assert.Equal(t, CategoryHigh, e.Result)
	require.Len(t, e.Facets, 2)
	assert.Equal(t, "Friendliness", e.Facets[1].Title)
	assert.Equal(t, CategoryHigh, e.Facets[1].Result)
	assert.Equal(t, CategoryNeutral, e.Facets[2].Result)
}

func TestDescribeSkipsUnknownDomain(t *testing.T) {
	results := Results{
		"X": {Score: 5, Count: 1, Result: CategoryHigh, Facets: map[string]FacetResult{}},
	}
	assert.Empty(t, Describe(results, testStructure))
}

func TestDescribeSkipsFacetOutOfRange(t *testing.T) {
	results := Results{
		"E": {
			Score: 5, Count: 1, Result: CategoryHigh,
			Facets: map[string]FacetResult{
				"0":   {Result: CategoryHigh},
				"3":   {Result: CategoryHigh},
				"abc": {Result: CategoryHigh},
				"1":   {Result: CategoryLow},
			},
		},
	}

	text := Describe(results, testStructure)
	require.Contains(t, text, "E")
	require.Len(t, text["E"].Facets, 1)
	assert.Equal(t, CategoryLow, text["E"].Facets[1].Result)
}

func TestLoadDefinitions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.json")
	payload := `[{"domain":"E","title":"Extraversion","shortDescription":"d","facets":[{"title":"f","text":"t"}],"results":[{"score":"high","text":"r"}]}]`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	defs, err := LoadDefinitions(path)
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, "E", defs[0].Domain)
	assert.Equal(t, CategoryHigh, defs[0].Results[0].Score)
}

func TestLoadDefinitionsMissingFile(t *testing.T) {
	_, err := LoadDefinitions(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}
