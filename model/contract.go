package model

import (
	"time"
)

// Contract is a composed document. Created once per generation request and
// never regenerated in place; edits produce a new contract.
type Contract struct {
	ID               string            `json:"id" gorm:"primaryKey;size:36"`
	Jurisdiction     string            `json:"jurisdiction" gorm:"index"`
	StructureVersion int               `json:"structure_version"`
	Source           string            `json:"source"` // template, upload, ai
	Header           ContractHeader    `json:"header" gorm:"serializer:json"`
	Sections         []ContractSection `json:"sections" gorm:"serializer:json"`
	Signature        SignatureBlock    `json:"signature" gorm:"serializer:json"`
	SectionCount     int               `json:"section_count"`
	Warnings         []string          `json:"warnings,omitempty" gorm:"serializer:json"`
	ArchiveObject    string            `json:"archive_object,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
}

// Contract source constants
const (
	SourceTemplate = "template"
	SourceUpload   = "upload"
	SourceAI       = "ai"
)

// ContractHeader carries the party and date data rendered above the clauses.
type ContractHeader struct {
	Title        string `json:"title"`
	ClientName   string `json:"client_name"`
	ProviderName string `json:"provider_name"`
	ContractDate string `json:"contract_date"`
}

// ContractSection is one numbered clause in the final document. Number is
// assigned sequentially at composition time ("제1조", "제2조", ...) independent
// of any original numbering.
type ContractSection struct {
	SlotID   string `json:"slot_id"`
	Number   string `json:"number"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	ClauseID string `json:"clause_id,omitempty"`
}

// SignatureBlock closes the document. Signature events themselves are
// appended elsewhere; the block only names the signing parties.
type SignatureBlock struct {
	ClientName   string `json:"client_name"`
	ProviderName string `json:"provider_name"`
	SignDate     string `json:"sign_date"`
}
