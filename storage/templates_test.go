package storage

import (
	"context"
	"testing"
	"time"

	"github.com/shopidream/aorit-sub000/model"
	"github.com/shopidream/aorit-sub000/pkg/apperr"
)

func TestTemplateUpdatePersistsSerializedFields(t *testing.T) {
	store := NewTemplateStore(newTestDB(t))
	ctx := context.Background()

	now := time.Now()
	err := store.Create(ctx, &model.ClauseTemplate{
		ID:        "tpl-1",
		Title:     "대금 지급",
		Content:   "총 {{total_amount}}을 지급한다.",
		Category:  "대금 지급 조건",
		Variables: []string{"total_amount"},
		Tags:      []string{"지급"},
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("Failed to create template: %v", err)
	}

	err = store.Update(ctx, &model.ClauseTemplate{
		ID:        "tpl-1",
		Title:     "대금 지급",
		Content:   "총 {{total_amount}}을 {{due_date}}까지 지급한다.",
		Category:  "대금 지급 조건",
		Variables: []string{"total_amount", "due_date"},
		Tags:      []string{"지급", "기한"},
	})
	if err != nil {
		t.Fatalf("Failed to update template: %v", err)
	}

	stored, err := store.Get(ctx, "tpl-1")
	if err != nil {
		t.Fatalf("Failed to load template: %v", err)
	}
	if len(stored.Variables) != 2 || stored.Variables[1] != "due_date" {
		t.Errorf("Expected updated variables to round-trip, got %v", stored.Variables)
	}
	if len(stored.Tags) != 2 || stored.Tags[1] != "기한" {
		t.Errorf("Expected updated tags to round-trip, got %v", stored.Tags)
	}
	if stored.Content != "총 {{total_amount}}을 {{due_date}}까지 지급한다." {
		t.Errorf("Expected updated content, got %q", stored.Content)
	}
}

func TestTemplateUpdateMissingRow(t *testing.T) {
	store := NewTemplateStore(newTestDB(t))

	err := store.Update(context.Background(), &model.ClauseTemplate{
		ID:       "no-such-id",
		Title:    "제목",
		Content:  "내용",
		Category: "기타 조항",
	})
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("Expected not-found error, got %v", err)
	}
}
