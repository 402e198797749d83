package compat

import "github.com/campuslink24/campuslink-backend/internal/personality"

type flagMode int

const (
	modeBothHigh flagMode = iota
	modeBothLow
	modeSimilar
)

// flagPair compares one facet pair across both users. Facet keys are
// domain letter + facet code, e.g. "E2".
type flagPair struct {
	facetA string
	facetB string
	weight float64
	mode   flagMode
}

// flagTable is the fixed trait heuristic table. Facet codes follow the
// IPIP-NEO numbering within each Big Five domain.
var flagTable = []flagPair{
	{"E1", "E2", 1.0, modeBothHigh},  // friendliness, gregariousness
	{"A3", "A4", 1.0, modeBothHigh},  // altruism, cooperation
	{"C2", "C4", 0.75, modeBothHigh}, // orderliness, achievement-striving
	{"N1", "N6", 0.5, modeBothLow},   // anxiety, vulnerability
	{"O4", "O5", 0.75, modeSimilar},  // adventurousness, intellect
	{"E5", "E4", 0.5, modeSimilar},   // excitement-seeking, activity level
}

// Facet raw scores range over [4, 20] (four 1-5 questions per facet).
const (
	facetRawMin = 4.0
	facetRawMax = 20.0
)

// FlagScore evaluates the trait-flag table over two users' aggregated
// results. Entries with any missing facet are skipped; a user with no
// results at all yields the neutral score 0.
func FlagScore(resultsA, resultsB personality.Results) float64 {
	if len(resultsA) == 0 || len(resultsB) == 0 {
		return 0
	}

	var total float64
	for _, pair := range flagTable {
		a1, ok1 := normalizedFacet(resultsA, pair.facetA)
		a2, ok2 := normalizedFacet(resultsB, pair.facetA)
		b1, ok3 := normalizedFacet(resultsA, pair.facetB)
		b2, ok4 := normalizedFacet(resultsB, pair.facetB)
		if !ok1 || !ok2 || !ok3 || !ok4 {
			continue
		}
		total += pair.weight * (pair.mode.value(a1, a2) + pair.mode.value(b1, b2))
	}
	return total / 2
}

func (m flagMode) value(x, y float64) float64 {
	switch m {
	case modeBothHigh:
		return (x + y) / 2
	case modeBothLow:
		return ((1 - x) + (1 - y)) / 2
	default: // modeSimilar
		diff := (1 - x) - (1 - y)
		if diff < 0 {
			diff = -diff
		}
		return diff
	}
}

// normalizedFacet looks up a facet by "<domain><facet>" key and maps its raw
// sum onto [0,1], clamping scores outside the nominal range (a facet with
// fewer than four answers sums below the nominal minimum).
func normalizedFacet(results personality.Results, key string) (float64, bool) {
	if len(key) < 2 {
		return 0, false
	}
	dr, ok := results[key[:1]]
	if !ok {
		return 0, false
	}
	fr, ok := dr.Facets[key[1:]]
	if !ok {
		return 0, false
	}
	norm := (fr.Score - facetRawMin) / (facetRawMax - facetRawMin)
	if norm < 0 {
		norm = 0
	}
	if norm > 1 {
		norm = 1
	}
	return norm, true
}
