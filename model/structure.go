package model

import (
	"time"
)

// ContractStructure is the jurisdiction-specific ordered schema of section
// slots a composed contract fills. Exactly one structure is active per
// jurisdiction at a time; composition records the version it used.
type ContractStructure struct {
	ID           string        `json:"id" gorm:"primaryKey;size:36"`
	Jurisdiction string        `json:"jurisdiction" gorm:"index"`
	Version      int           `json:"version"`
	Active       bool          `json:"active"`
	Slots        []SectionSlot `json:"slots" gorm:"serializer:json"`
	CreatedAt    time.Time     `json:"created_at"`
}

// SectionSlot accepts clauses whose category is in Categories. A slot marked
// CatchAll receives clauses no other slot accepts, so nothing is dropped.
type SectionSlot struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Categories []string `json:"categories"`
	Required   bool     `json:"required"`
	CatchAll   bool     `json:"catch_all,omitempty"`
}

// Accepts reports whether the slot's category set contains category.
func (s *SectionSlot) Accepts(category string) bool {
	for _, c := range s.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// CatchAllSlot returns the structure's catch-all slot, or nil if it has none.
func (cs *ContractStructure) CatchAllSlot() *SectionSlot {
	for i := range cs.Slots {
		if cs.Slots[i].CatchAll {
			return &cs.Slots[i]
		}
	}
	return nil
}
