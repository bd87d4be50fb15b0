package model

import (
	"regexp"
	"time"
)

// ClauseTemplate is an approved, reusable clause. Content may contain
// {{variableName}} placeholders; every placeholder appearing in Content must
// be declared in Variables.
type ClauseTemplate struct {
	ID         string    `json:"id" gorm:"primaryKey;size:36"`
	Title      string    `json:"title"`
	Content    string    `json:"content" gorm:"type:text"`
	Category   string    `json:"category" gorm:"index"`
	Type       string    `json:"type"`       // standard, flexible
	Industry   string    `json:"industry"`   // "general" matches broadly
	Complexity string    `json:"complexity"` // simple, standard, complex
	Variables  []string  `json:"variables,omitempty" gorm:"serializer:json"`
	Tags       []string  `json:"tags,omitempty" gorm:"serializer:json"`
	UsageCount int64     `json:"usage_count"`
	Confidence float64   `json:"confidence"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Template type constants
const (
	TemplateTypeStandard = "standard"
	TemplateTypeFlexible = "flexible"
)

// Complexity levels, ordered simple < standard < complex
const (
	ComplexitySimple   = "simple"
	ComplexityStandard = "standard"
	ComplexityComplex  = "complex"
)

// IndustryGeneral gets partial credit against any industry during matching.
const IndustryGeneral = "general"

var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_]+)\s*\}\}`)

// Placeholders returns the distinct placeholder names in content, in first
// appearance order.
func Placeholders(content string) []string {
	matches := placeholderPattern.FindAllStringSubmatch(content, -1)
	seen := make(map[string]bool, len(matches))
	var names []string
	for _, m := range matches {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

// SubstitutePlaceholders replaces every placeholder token in content with its
// value from vars. Tokens with no entry are left untouched; callers that must
// not emit literal placeholders check Placeholders against vars first.
func SubstitutePlaceholders(content string, vars map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(content, func(token string) string {
		name := placeholderPattern.FindStringSubmatch(token)[1]
		if value, ok := vars[name]; ok {
			return value
		}
		return token
	})
}

// UndeclaredPlaceholders returns placeholders used in Content but missing
// from Variables. Empty result means the template satisfies the variable
// invariant.
func (t *ClauseTemplate) UndeclaredPlaceholders() []string {
	declared := make(map[string]bool, len(t.Variables))
	for _, v := range t.Variables {
		declared[v] = true
	}
	var missing []string
	for _, name := range Placeholders(t.Content) {
		if !declared[name] {
			missing = append(missing, name)
		}
	}
	return missing
}
