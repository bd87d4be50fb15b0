package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/shopidream/aorit-sub000/model"
	"github.com/shopidream/aorit-sub000/pkg/apperr"
)

// CategoryStore persists the ordered category registry.
type CategoryStore struct {
	db *gorm.DB
}

func NewCategoryStore(db *gorm.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

// List returns the registry for a kind in declared order.
func (s *CategoryStore) List(ctx context.Context, kind string) ([]model.Category, error) {
	tx := s.db.WithContext(ctx).Model(&model.Category{})
	if kind != "" {
		tx = tx.Where("kind = ?", kind)
	}

	var categories []model.Category
	if err := tx.Order("position asc").Order("id asc").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// Add appends a category at the end of the registry order. Duplicate names
// are a validation error.
func (s *CategoryStore) Add(ctx context.Context, name, kind string) (*model.Category, error) {
	var existing model.Category
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&existing).Error
	if err == nil {
		return nil, apperr.Validation("category %q already exists", name)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check category: %w", err)
	}

	var maxPosition int
	err = s.db.WithContext(ctx).Model(&model.Category{}).
		Where("kind = ?", kind).
		Select("coalesce(max(position), 0)").Scan(&maxPosition).Error
	if err != nil {
		return nil, fmt.Errorf("failed to read category order: %w", err)
	}

	c := &model.Category{
		Name:      name,
		Kind:      kind,
		Position:  maxPosition + 1,
		CreatedAt: time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, fmt.Errorf("failed to add category: %w", err)
	}
	return c, nil
}

// AuditStore appends and reads the audit trail.
type AuditStore struct {
	db *gorm.DB
}

func NewAuditStore(db *gorm.DB) *AuditStore {
	return &AuditStore{db: db}
}

func (s *AuditStore) Append(ctx context.Context, entry *model.AuditEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	return nil
}

func (s *AuditStore) ForEntity(ctx context.Context, entityType, entityID string) ([]model.AuditEntry, error) {
	var entries []model.AuditEntry
	err := s.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("id asc").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load audit trail: %w", err)
	}
	return entries, nil
}
