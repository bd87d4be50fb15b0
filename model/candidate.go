package model

import (
	"time"
)

// ClauseCandidate is an unreviewed clause awaiting approval or rejection.
// Status transitions are monotonic: once approved or rejected the record is
// immutable except for audit metadata. Confidence is owned by the external
// classifier and never mutated after creation.
type ClauseCandidate struct {
	ID               string    `json:"id" gorm:"primaryKey;size:36"`
	Title            string    `json:"title"`
	Content          string    `json:"content" gorm:"type:text"`
	ContractCategory string    `json:"contract_category"` // coarse contract type, e.g. "용역/프로젝트"
	ClauseCategory   string    `json:"clause_category"`   // fine-grained function, e.g. "대금 지급 조건"
	Confidence       float64   `json:"confidence"`
	Status           string    `json:"status" gorm:"index"` // pending, approved, rejected
	SourceContract   string    `json:"source_contract,omitempty"`
	Tags             []string  `json:"tags,omitempty" gorm:"serializer:json"`
	ReviewNote       string    `json:"review_note,omitempty"`
	Risk             *RiskInfo `json:"risk,omitempty" gorm:"serializer:json"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// RiskInfo is an advisory annotation from the AI collaborator. Composition
// never depends on it.
type RiskInfo struct {
	RiskLevel       int      `json:"risk_level"` // 1-10
	Issues          []string `json:"issues,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// Candidate status constants
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// NeutralRisk is the documented fallback annotation applied when the
// collaborator call fails.
func NeutralRisk() *RiskInfo {
	return &RiskInfo{RiskLevel: 5}
}
