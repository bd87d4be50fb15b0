package service

import (
	"context"
	"sync"

	"github.com/shopidream/aorit-sub000/model"
	"github.com/shopidream/aorit-sub000/pkg/apperr"
	"github.com/shopidream/aorit-sub000/pkg/logger"
	"github.com/shopidream/aorit-sub000/storage"
)

// CategoryRegistry is the persisted, versioned list of valid categories.
// Readers get snapshots from the store; mutation is serialized because it
// affects validation state used by all subsequent template edits.
type CategoryRegistry struct {
	store *storage.CategoryStore
	audit *storage.AuditStore
	mu    sync.Mutex // single writer
}

func NewCategoryRegistry(store *storage.CategoryStore, audit *storage.AuditStore) *CategoryRegistry {
	return &CategoryRegistry{store: store, audit: audit}
}

// Seed loads the configured clause categories on first boot. A non-empty
// registry is left untouched; later additions go through Add.
func (r *CategoryRegistry) Seed(ctx context.Context, names []string) error {
	existing, err := r.store.List(ctx, model.CategoryKindClause)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, name := range names {
		if _, err := r.store.Add(ctx, name, model.CategoryKindClause); err != nil {
			return err
		}
	}
	if _, err := r.store.Add(ctx, FallbackCategory, model.CategoryKindClause); err != nil {
		// Config may already list the fallback category
		if !apperr.IsKind(err, apperr.KindValidation) {
			return err
		}
	}
	logger.Info(ctx, "category registry seeded", "count", len(names))
	return nil
}

// List returns the current registry snapshot for a kind.
func (r *CategoryRegistry) List(ctx context.Context, kind string) ([]model.Category, error) {
	return r.store.List(ctx, kind)
}

// Add appends a new category. The operation is explicit and audited, never a
// side effect of some other write.
func (r *CategoryRegistry) Add(ctx context.Context, name, kind, actor string) (*model.Category, error) {
	if name == "" {
		return nil, apperr.Validation("category name is required")
	}
	if kind != model.CategoryKindContract && kind != model.CategoryKindClause {
		return nil, apperr.Validation("unknown category kind %q", kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	c, err := r.store.Add(ctx, name, kind)
	if err != nil {
		return nil, err
	}

	if err := r.audit.Append(ctx, &model.AuditEntry{
		EntityType: "category",
		EntityID:   name,
		Action:     "add",
		Actor:      actor,
	}); err != nil {
		return nil, err
	}

	logger.Info(ctx, "category added", "name", name, "kind", kind, "actor", actor)
	return c, nil
}

// ValidClauseCategory reports whether name is in the current clause registry.
func (r *CategoryRegistry) ValidClauseCategory(ctx context.Context, name string) bool {
	categories, err := r.store.List(ctx, model.CategoryKindClause)
	if err != nil {
		return false
	}
	for _, c := range categories {
		if c.Name == name {
			return true
		}
	}
	return false
}
