package service

import (
	"sort"

	"github.com/shopidream/aorit-sub000/model"
)

// MatcherWeights tune the scoring formula. Defaults mirror the historical
// constants (0.5/0.3/0.2) but are a configuration surface.
type MatcherWeights struct {
	Category   float64
	Industry   float64
	Complexity float64
}

// Matcher scores templates against a quote's derived criteria. Matching is
// pure and deterministic; it never mutates usage counters.
type Matcher struct {
	weights MatcherWeights
}

func NewMatcher(weights MatcherWeights) *Matcher {
	if weights.Category == 0 && weights.Industry == 0 && weights.Complexity == 0 {
		weights = MatcherWeights{Category: 0.5, Industry: 0.3, Complexity: 0.2}
	}
	return &Matcher{weights: weights}
}

// Match returns ranked results for every relevant template scoring above
// zero. Standard templates outside the requested service type are excluded
// from the pool, not merely down-ranked; flexible templates stay in across
// categories at half the category credit. An empty pool yields an empty
// result set.
func (m *Matcher) Match(criteria model.QuoteCriteria, pool []model.ClauseTemplate) []model.MatchResult {
	type scored struct {
		result     model.MatchResult
		usageCount int64
	}

	weightSum := m.weights.Category + m.weights.Industry + m.weights.Complexity

	var candidates []scored
	for _, t := range pool {
		if !relevant(&t, criteria.ServiceType) {
			continue
		}

		score := m.weights.Category*categoryScore(&t, criteria.ServiceType) +
			m.weights.Industry*industryScore(t.Industry, criteria.Industry) +
			m.weights.Complexity*complexityScore(t.Complexity, criteria.Complexity)
		score /= weightSum

		if score <= 0 {
			continue
		}

		candidates = append(candidates, scored{
			result: model.MatchResult{
				TemplateID: t.ID,
				Title:      t.Title,
				MatchScore: score,
			},
			usageCount: t.UsageCount,
		})
	}

	// Ties broken by usage count descending, then id ascending, so the same
	// inputs always rank the same way.
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].result.MatchScore != candidates[j].result.MatchScore {
			return candidates[i].result.MatchScore > candidates[j].result.MatchScore
		}
		if candidates[i].usageCount != candidates[j].usageCount {
			return candidates[i].usageCount > candidates[j].usageCount
		}
		return candidates[i].result.TemplateID < candidates[j].result.TemplateID
	})

	results := make([]model.MatchResult, len(candidates))
	for i, c := range candidates {
		results[i] = c.result
	}
	return results
}

// relevant keeps a template in the pool when its category matches the
// requested service type, or when the template is marked flexible.
func relevant(t *model.ClauseTemplate, serviceType string) bool {
	return t.Category == serviceType || t.Type == model.TemplateTypeFlexible
}

func categoryScore(t *model.ClauseTemplate, serviceType string) float64 {
	if t.Category == serviceType {
		return 1.0
	}
	// In the pool only via the flexible type
	return 0.5
}

func industryScore(templateIndustry, quoteIndustry string) float64 {
	if templateIndustry == quoteIndustry {
		return 1.0
	}
	if templateIndustry == model.IndustryGeneral || quoteIndustry == model.IndustryGeneral {
		return 0.5
	}
	return 0
}

var complexityRank = map[string]int{
	model.ComplexitySimple:   0,
	model.ComplexityStandard: 1,
	model.ComplexityComplex:  2,
}

func complexityScore(templateComplexity, quoteComplexity string) float64 {
	ti, ok1 := complexityRank[templateComplexity]
	qi, ok2 := complexityRank[quoteComplexity]
	if !ok1 || !ok2 {
		return 0
	}
	switch diff := ti - qi; {
	case diff == 0:
		return 1.0
	case diff == 1 || diff == -1:
		return 0.5
	default:
		return 0
	}
}
