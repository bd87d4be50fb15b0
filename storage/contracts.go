package storage

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/shopidream/aorit-sub000/model"
	"github.com/shopidream/aorit-sub000/pkg/apperr"
)

// ContractStore persists composed contracts. Documents are write-once; there
// is deliberately no update method.
type ContractStore struct {
	db *gorm.DB
}

func NewContractStore(db *gorm.DB) *ContractStore {
	return &ContractStore{db: db}
}

func (s *ContractStore) Create(ctx context.Context, c *model.Contract) error {
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("failed to save contract: %w", err)
	}
	return nil
}

func (s *ContractStore) Get(ctx context.Context, id string) (*model.Contract, error) {
	var c model.Contract
	if err := s.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("contract " + id + " not found")
		}
		return nil, fmt.Errorf("failed to load contract: %w", err)
	}
	return &c, nil
}

// ContractSummary is the list view: header data without the clause bodies.
type ContractSummary struct {
	ID           string `json:"id"`
	Jurisdiction string `json:"jurisdiction"`
	Source       string `json:"source"`
	Title        string `json:"title"`
	SectionCount int    `json:"section_count"`
	CreatedAt    string `json:"created_at"`
}

func (s *ContractStore) List(ctx context.Context) ([]model.Contract, error) {
	var contracts []model.Contract
	err := s.db.WithContext(ctx).
		Order("created_at desc").Order("id asc").
		Find(&contracts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}
	return contracts, nil
}
