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

// TemplateStore persists approved clause templates.
type TemplateStore struct {
	db *gorm.DB
}

func NewTemplateStore(db *gorm.DB) *TemplateStore {
	return &TemplateStore{db: db}
}

func (s *TemplateStore) Create(ctx context.Context, t *model.ClauseTemplate) error {
	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("failed to create template: %w", err)
	}
	return nil
}

func (s *TemplateStore) Update(ctx context.Context, t *model.ClauseTemplate) error {
	t.UpdatedAt = time.Now()
	// Struct-based update: the json serializer for variables and tags only
	// runs on struct fields, not on values passed through a map
	res := s.db.WithContext(ctx).Model(&model.ClauseTemplate{ID: t.ID}).
		Select("title", "content", "category", "type", "industry", "complexity", "variables", "tags", "confidence", "updated_at").
		Updates(t)
	if res.Error != nil {
		return fmt.Errorf("failed to update template: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("template " + t.ID + " not found")
	}
	return nil
}

func (s *TemplateStore) Get(ctx context.Context, id string) (*model.ClauseTemplate, error) {
	var t model.ClauseTemplate
	if err := s.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("template " + id + " not found")
		}
		return nil, fmt.Errorf("failed to load template: %w", err)
	}
	return &t, nil
}

// List returns templates, optionally filtered by category, ordered by id for
// stable output.
func (s *TemplateStore) List(ctx context.Context, category string) ([]model.ClauseTemplate, error) {
	tx := s.db.WithContext(ctx).Model(&model.ClauseTemplate{})
	if category != "" {
		tx = tx.Where("category = ?", category)
	}

	var templates []model.ClauseTemplate
	if err := tx.Order("id asc").Find(&templates).Error; err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return templates, nil
}

// IncrementUsage bumps usage_count for every template actually selected into
// a generated contract.
func (s *TemplateStore) IncrementUsage(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).Model(&model.ClauseTemplate{}).
		Where("id IN ?", ids).
		Update("usage_count", gorm.Expr("usage_count + 1")).Error
	if err != nil {
		return fmt.Errorf("failed to increment template usage: %w", err)
	}
	return nil
}

// FindByTitleAndCategory is used by promotion to avoid duplicating a template
// for a re-promoted clause body.
func (s *TemplateStore) FindByTitleAndCategory(ctx context.Context, title, category string) (*model.ClauseTemplate, error) {
	var t model.ClauseTemplate
	err := s.db.WithContext(ctx).
		Where("title = ? AND category = ?", title, category).
		Order("id asc").
		First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up template: %w", err)
	}
	return &t, nil
}
