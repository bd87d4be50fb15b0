package model

import (
	"time"
)

// AuditEntry records who did what to which record, and why. Every candidate
// transition and every category registry mutation appends one.
type AuditEntry struct {
	ID         uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	EntityType string    `json:"entity_type" gorm:"index"` // candidate, template, category, contract
	EntityID   string    `json:"entity_id" gorm:"index"`
	Action     string    `json:"action"`
	Actor      string    `json:"actor"`
	Reason     string    `json:"reason,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Category is one registry entry. Position fixes the registry's ordering.
type Category struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name" gorm:"uniqueIndex"`
	Kind      string    `json:"kind" gorm:"index"` // contract, clause
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// Category kind constants
const (
	CategoryKindContract = "contract"
	CategoryKindClause   = "clause"
)
