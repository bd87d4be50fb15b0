package service

import (
	"math"
	"testing"

	"github.com/shopidream/aorit-sub000/model"
)

func testPool() []model.ClauseTemplate {
	return []model.ClauseTemplate{
		{ID: "t1", Title: "웹 개발 대금", Category: "web_development", Type: model.TemplateTypeStandard, Industry: "it", Complexity: model.ComplexityStandard},
		{ID: "t2", Title: "범용 비밀 유지", Category: "design", Type: model.TemplateTypeFlexible, Industry: model.IndustryGeneral, Complexity: model.ComplexitySimple},
		{ID: "t3", Title: "디자인 검수", Category: "design", Type: model.TemplateTypeStandard, Industry: "it", Complexity: model.ComplexityStandard},
		{ID: "t4", Title: "마케팅 정산", Category: "marketing", Type: model.TemplateTypeStandard, Industry: "retail", Complexity: model.ComplexityComplex},
		{ID: "t5", Title: "컨설팅 손해배상", Category: "consulting", Type: model.TemplateTypeStandard, Industry: "finance", Complexity: model.ComplexitySimple},
	}
}

func TestMatchExcludesOtherServiceTypes(t *testing.T) {
	m := NewMatcher(MatcherWeights{})
	results := m.Match(model.QuoteCriteria{
		ServiceType: "web_development",
		Industry:    "it",
		Complexity:  model.ComplexityStandard,
	}, testPool())

	// t1 matches directly, t2 via the flexible type; t3, t4, t5 are out of pool
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].TemplateID != "t1" {
		t.Errorf("Expected t1 ranked first, got %s", results[0].TemplateID)
	}
	if results[1].TemplateID != "t2" {
		t.Errorf("Expected t2 ranked second, got %s", results[1].TemplateID)
	}
}

func TestMatchScoreBounds(t *testing.T) {
	m := NewMatcher(MatcherWeights{})
	results := m.Match(model.QuoteCriteria{
		ServiceType: "web_development",
		Industry:    "it",
		Complexity:  model.ComplexityStandard,
	}, testPool())

	for _, r := range results {
		if r.MatchScore <= 0 || r.MatchScore > 1 {
			t.Errorf("Score for %s outside (0,1]: %f", r.TemplateID, r.MatchScore)
		}
	}

	// Perfect match on all three dimensions scores 1.0
	if results[0].MatchScore != 1.0 {
		t.Errorf("Expected perfect score for t1, got %f", results[0].MatchScore)
	}
}

func TestMatchTieBreaking(t *testing.T) {
	pool := []model.ClauseTemplate{
		{ID: "b", Title: "B", Category: "design", Type: model.TemplateTypeStandard, Industry: "it", Complexity: model.ComplexitySimple, UsageCount: 3},
		{ID: "a", Title: "A", Category: "design", Type: model.TemplateTypeStandard, Industry: "it", Complexity: model.ComplexitySimple, UsageCount: 3},
		{ID: "c", Title: "C", Category: "design", Type: model.TemplateTypeStandard, Industry: "it", Complexity: model.ComplexitySimple, UsageCount: 7},
	}

	m := NewMatcher(MatcherWeights{})
	criteria := model.QuoteCriteria{ServiceType: "design", Industry: "it", Complexity: model.ComplexitySimple}

	results := m.Match(criteria, pool)
	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}

	// Equal scores: usage count descending, then id ascending
	expected := []string{"c", "a", "b"}
	for i, id := range expected {
		if results[i].TemplateID != id {
			t.Errorf("Position %d: expected %s, got %s", i, id, results[i].TemplateID)
		}
	}

	// Same inputs always rank the same way
	again := m.Match(criteria, pool)
	for i := range results {
		if results[i] != again[i] {
			t.Fatalf("Ranking changed between identical calls at position %d", i)
		}
	}
}

func TestMatchFlexibleTemplateCrossesCategories(t *testing.T) {
	pool := []model.ClauseTemplate{
		{ID: "exact", Category: "design", Type: model.TemplateTypeStandard, Industry: "it", Complexity: model.ComplexityStandard},
		{ID: "flex", Category: "marketing", Type: model.TemplateTypeFlexible, Industry: "it", Complexity: model.ComplexityStandard},
		{ID: "rigid", Category: "marketing", Type: model.TemplateTypeStandard, Industry: "it", Complexity: model.ComplexityStandard},
	}

	m := NewMatcher(MatcherWeights{})
	results := m.Match(model.QuoteCriteria{ServiceType: "design", Industry: "it", Complexity: model.ComplexityStandard}, pool)

	// A flexible template joins the pool across categories at half the
	// category credit; a standard template from another category never does
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].TemplateID != "exact" || results[0].MatchScore != 1.0 {
		t.Errorf("Expected exact-category template first with score 1.0, got %s (%f)", results[0].TemplateID, results[0].MatchScore)
	}
	if results[1].TemplateID != "flex" {
		t.Fatalf("Expected flexible template second, got %s", results[1].TemplateID)
	}
	// 0.5*0.5 + 0.3*1.0 + 0.2*1.0 = 0.75
	if math.Abs(results[1].MatchScore-0.75) > 1e-9 {
		t.Errorf("Expected score 0.75 for the flexible template, got %f", results[1].MatchScore)
	}
}

func TestMatchAdjacentComplexity(t *testing.T) {
	m := NewMatcher(MatcherWeights{})
	pool := []model.ClauseTemplate{
		{ID: "x", Category: "design", Type: model.TemplateTypeStandard, Industry: "it", Complexity: model.ComplexityComplex},
	}

	results := m.Match(model.QuoteCriteria{ServiceType: "design", Industry: "it", Complexity: model.ComplexityStandard}, pool)
	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}

	// 0.5*1.0 + 0.3*1.0 + 0.2*0.5 = 0.9
	if results[0].MatchScore != 0.9 {
		t.Errorf("Expected score 0.9 for adjacent complexity, got %f", results[0].MatchScore)
	}
}

func TestMatchEmptyPool(t *testing.T) {
	m := NewMatcher(MatcherWeights{})
	results := m.Match(model.QuoteCriteria{ServiceType: "design"}, nil)
	if len(results) != 0 {
		t.Errorf("Expected empty result set, got %d", len(results))
	}
}
