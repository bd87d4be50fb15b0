package model

// QuoteCriteria is derived from a quote's service catalog entries and drives
// template matching.
type QuoteCriteria struct {
	ServiceType string `json:"service_type"` // maps to template category
	Industry    string `json:"industry"`
	Complexity  string `json:"complexity"` // simple, standard, complex
}

// MatchResult ranks one template against a quote. Used only for ranking,
// never persisted.
type MatchResult struct {
	TemplateID string  `json:"template_id"`
	Title      string  `json:"title"`
	MatchScore float64 `json:"match_score"` // 0.0-1.0
}
