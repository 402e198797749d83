// Package personality implements the questionnaire scoring core: answer
// aggregation into domain/facet results and joining those results with the
// static questionnaire definition.
package personality

import "github.com/campuslink24/campuslink-backend/internal/domain"

type Category string

const (
	CategoryHigh    Category = "high"
	CategoryNeutral Category = "neutral"
	CategoryLow     Category = "low"
)

// Answer is a single scored answer. Score has already had reverse scoring
// applied; Facet is empty when the question carries none.
type Answer struct {
	Domain string
	Facet  string
	Score  float64
}

type FacetResult struct {
	Score  float64  `json:"score"`
	Count  int      `json:"count"`
	Result Category `json:"result"`
}

type DomainResult struct {
	Score  float64                `json:"score"`
	Count  int                    `json:"count"`
	Result Category               `json:"result"`
	Facets map[string]FacetResult `json:"facet"`
}

// Results maps domain code to its aggregated result.
type Results map[string]DomainResult

// Aggregate sums answers per domain and per facet and assigns categories.
// It is pure and order-independent; domains or facets with no answers do
// not appear in the output.
func Aggregate(answers []Answer) Results {
	results := make(Results)

	for _, a := range answers {
		dr, ok := results[a.Domain]
		if !ok {
			dr = DomainResult{Result: CategoryNeutral, Facets: make(map[string]FacetResult)}
		}
		dr.Score += a.Score
		dr.Count++

		if a.Facet != "" {
			fr := dr.Facets[a.Facet]
			fr.Score += a.Score
			fr.Count++
			dr.Facets[a.Facet] = fr
		}
		results[a.Domain] = dr
	}

	for code, dr := range results {
		dr.Result = categorize(dr.Score, dr.Count)
		for facet, fr := range dr.Facets {
			fr.Result = categorize(fr.Score, fr.Count)
			dr.Facets[facet] = fr
		}
		results[code] = dr
	}

	return results
}

// categorize maps an average score to a category. Boundaries are exclusive:
// an average of exactly 3.5 or 2.5 is neutral.
func categorize(score float64, count int) Category {
	avg := score / float64(count)
	if avg > 3.5 {
		return CategoryHigh
	}
	if avg < 2.5 {
		return CategoryLow
	}
	return CategoryNeutral
}

// ReverseScore maps a 1-5 answer to its reverse-scaled value.
func ReverseScore(score int) float64 {
	return float64(6 - score)
}

// ScoreAnswers converts stored answers into scoring input, applying reverse
// scaling for reverse-keyed questions. Answers whose question is missing
// from the map are skipped.
func ScoreAnswers(answers []domain.PersonalityAnswer, questions map[int]domain.PersonalityQuestion) []Answer {
	scored := make([]Answer, 0, len(answers))
	for _, a := range answers {
		q, ok := questions[a.QuestionID]
		if !ok {
			continue
		}
		score := float64(a.Score)
		if q.ReverseScale {
			score = ReverseScore(a.Score)
		}
		scored = append(scored, Answer{Domain: q.Domain, Facet: q.Facet, Score: score})
	}
	return scored
}
