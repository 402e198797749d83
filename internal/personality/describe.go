package personality

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// FacetDefinition describes one facet within a domain definition.
type FacetDefinition struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// ResultText is the descriptive text for one category of a domain.
type ResultText struct {
	Score Category `json:"score"`
	Text  string   `json:"text"`
}

// DomainDefinition is the static questionnaire definition for one domain.
// Facets are ordered; facet codes in results index into them 1-based.
type DomainDefinition struct {
	Domain           string            `json:"domain"`
	Title            string            `json:"title"`
	ShortDescription string            `json:"shortDescription"`
	Facets           []FacetDefinition `json:"facets"`
	Results          []ResultText      `json:"results"`
}

type FacetText struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Result      Category `json:"result"`
}

type DomainText struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	ResultText  string            `json:"result_text"`
	Result      Category          `json:"result"`
	Facets      map[int]FacetText `json:"facets"`
}

// TextResults maps domain code to its human-readable description.
type TextResults map[string]DomainText

// LoadDefinitions reads the questionnaire definition from a JSON file.
// Loaded once at startup and treated as read-only configuration.
func LoadDefinitions(path string) ([]DomainDefinition, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read questionnaire definition: %w", err)
	}
	var defs []DomainDefinition
	if err := json.Unmarshal(raw, &defs); err != nil {
		return nil, fmt.Errorf("failed to parse questionnaire definition: %w", err)
	}
	return defs, nil
}

// Describe joins aggregated results with the static definition. Domain codes
// absent from the definition and facet codes outside the facet list are
// silently skipped.
func Describe(results Results, structure []DomainDefinition) TextResults {
	byCode := make(map[string]DomainDefinition, len(structure))
	for _, def := range structure {
		byCode[def.Domain] = def
	}

	text := make(TextResults)
	for code, dr := range results {
		def, ok := byCode[code]
		if !ok {
			continue
		}

		var resultText string
		for _, rt := range def.Results {
			if rt.Score == dr.Result {
				resultText = rt.Text
				break
			}
		}

		facets := make(map[int]FacetText)
		for facetCode, fr := range dr.Facets {
			idx, err := strconv.Atoi(facetCode)
			if err != nil || idx < 1 || idx > len(def.Facets) {
				continue
			}
			fd := def.Facets[idx-1]
			facets[idx] = FacetText{
				Title:       fd.Title,
				Description: fd.Text,
				Result:      fr.Result,
			}
		}

		text[code] = DomainText{
			Title:       def.Title,
			Description: def.ShortDescription,
			ResultText:  resultText,
			Result:      dr.Result,
			Facets:      facets,
		}
	}

	return text
}
