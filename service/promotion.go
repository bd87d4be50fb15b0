package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/shopidream/aorit-sub000/model"
	"github.com/shopidream/aorit-sub000/pkg/apperr"
	"github.com/shopidream/aorit-sub000/pkg/logger"
	"github.com/shopidream/aorit-sub000/storage"
)

// PromotionService runs the candidate state machine: pending → approved via
// auto-promotion or bulk approve, pending → rejected via manual reject. There
// is no transition out of approved or rejected.
type PromotionService struct {
	candidates *storage.CandidateStore
	templates  *storage.TemplateStore
	audit      *storage.AuditStore
	registry   *CategoryRegistry
	threshold  float64
}

func NewPromotionService(
	candidates *storage.CandidateStore,
	templates *storage.TemplateStore,
	audit *storage.AuditStore,
	registry *CategoryRegistry,
	threshold float64,
) *PromotionService {
	return &PromotionService{
		candidates: candidates,
		templates:  templates,
		audit:      audit,
		registry:   registry,
		threshold:  threshold,
	}
}

// IngestItem is one clause offered to the review queue, from upload or AI
// extraction.
type IngestItem struct {
	Title            string   `json:"title"`
	Content          string   `json:"content"`
	ContractCategory string   `json:"contract_category"`
	ClauseCategory   string   `json:"clause_category"`
	Confidence       float64  `json:"confidence"`
	SourceContract   string   `json:"source_contract"`
	Tags             []string `json:"tags"`
}

// IngestResult reports one item's outcome; a bad item never fails the batch.
type IngestResult struct {
	Index int    `json:"index"`
	ID    string `json:"id,omitempty"`
	Error string `json:"error,omitempty"`
}

// TransitionResult reports one candidate's outcome in a bulk operation.
type TransitionResult struct {
	ID    string `json:"id"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Ingest inserts candidates with status pending. Validation failures are
// reported per item.
func (p *PromotionService) Ingest(ctx context.Context, items []IngestItem) []IngestResult {
	results := make([]IngestResult, 0, len(items))

	for i, item := range items {
		if err := validateIngestItem(item); err != nil {
			results = append(results, IngestResult{Index: i, Error: err.Error()})
			continue
		}

		now := time.Now()
		candidate := &model.ClauseCandidate{
			ID:               uuid.New().String(),
			Title:            item.Title,
			Content:          item.Content,
			ContractCategory: item.ContractCategory,
			ClauseCategory:   item.ClauseCategory,
			Confidence:       item.Confidence,
			Status:           model.StatusPending,
			SourceContract:   item.SourceContract,
			Tags:             item.Tags,
			CreatedAt:        now,
			UpdatedAt:        now,
		}

		if err := p.candidates.Insert(ctx, candidate); err != nil {
			results = append(results, IngestResult{Index: i, Error: err.Error()})
			continue
		}

		candidatesIngestedCounter.Inc()
		results = append(results, IngestResult{Index: i, ID: candidate.ID})
	}

	return results
}

func validateIngestItem(item IngestItem) error {
	if item.Content == "" {
		return apperr.Validation("content is empty")
	}
	if item.Confidence < 0 || item.Confidence > 1 {
		return apperr.Validation("confidence %.2f outside [0,1]", item.Confidence)
	}
	return nil
}

// AutoPromote approves every pending candidate at or above the confidence
// threshold and materializes a template for each. Re-running when no new
// high-confidence pending candidates exist is a no-op: the sweep only ever
// sees status=pending rows, and the transition is a compare-and-swap.
func (p *PromotionService) AutoPromote(ctx context.Context, actor string) (int, error) {
	pending, err := p.candidates.PendingAtOrAbove(ctx, p.threshold)
	if err != nil {
		return 0, err
	}

	promoted := 0
	for _, candidate := range pending {
		category := p.resolveCategory(ctx, &candidate, "")

		ok, err := p.candidates.TransitionFromPending(ctx, candidate.ID, model.StatusApproved, "", category)
		if err != nil {
			return promoted, err
		}
		if !ok {
			// Lost a race with a concurrent reviewer action; their transition stands
			continue
		}

		if err := p.materializeTemplate(ctx, &candidate, category, actor); err != nil {
			return promoted, err
		}

		if err := p.audit.Append(ctx, &model.AuditEntry{
			EntityType: "candidate",
			EntityID:   candidate.ID,
			Action:     "auto_promote",
			Actor:      actor,
			Reason:     "confidence above threshold",
		}); err != nil {
			return promoted, err
		}

		promoted++
	}

	if promoted > 0 {
		logger.Info(ctx, "auto-promotion sweep completed", "promoted", promoted, "threshold", p.threshold)
	}
	return promoted, nil
}

// BulkApprove applies category overrides and approves each id. Override and
// transition land in one conditional update per id, so a partial failure
// never leaves a candidate with an overridden category but unapproved status.
// Ids not currently pending are skipped and reported, not treated as a hard
// failure.
func (p *PromotionService) BulkApprove(ctx context.Context, ids []string, overrides map[string]string, actor string) []TransitionResult {
	results := make([]TransitionResult, 0, len(ids))

	for _, id := range ids {
		override := overrides[id]

		ok, err := p.candidates.TransitionFromPending(ctx, id, model.StatusApproved, "", override)
		if err != nil {
			results = append(results, TransitionResult{ID: id, Error: err.Error()})
			continue
		}
		if !ok {
			results = append(results, TransitionResult{ID: id, Error: apperr.InvalidState(id, "candidate is not pending").Error()})
			continue
		}

		candidate, err := p.candidates.Get(ctx, id)
		if err != nil {
			results = append(results, TransitionResult{ID: id, Error: err.Error()})
			continue
		}

		category := p.resolveCategory(ctx, candidate, override)
		if err := p.materializeTemplate(ctx, candidate, category, actor); err != nil {
			results = append(results, TransitionResult{ID: id, Error: err.Error()})
			continue
		}

		if err := p.audit.Append(ctx, &model.AuditEntry{
			EntityType: "candidate",
			EntityID:   id,
			Action:     "approve",
			Actor:      actor,
		}); err != nil {
			results = append(results, TransitionResult{ID: id, Error: err.Error()})
			continue
		}

		results = append(results, TransitionResult{ID: id, OK: true})
	}

	return results
}

// Reject transitions ids to rejected, storing the reason in the review note.
// The reason is mandatory; per-id failures are reported without touching the
// record.
func (p *PromotionService) Reject(ctx context.Context, ids []string, reason, actor string) ([]TransitionResult, error) {
	if reason == "" {
		return nil, apperr.Validation("rejection reason is required")
	}

	results := make([]TransitionResult, 0, len(ids))
	for _, id := range ids {
		ok, err := p.candidates.TransitionFromPending(ctx, id, model.StatusRejected, reason, "")
		if err != nil {
			results = append(results, TransitionResult{ID: id, Error: err.Error()})
			continue
		}
		if !ok {
			results = append(results, TransitionResult{ID: id, Error: apperr.InvalidState(id, "candidate is not pending").Error()})
			continue
		}

		if err := p.audit.Append(ctx, &model.AuditEntry{
			EntityType: "candidate",
			EntityID:   id,
			Action:     "reject",
			Actor:      actor,
			Reason:     reason,
		}); err != nil {
			results = append(results, TransitionResult{ID: id, Error: err.Error()})
			continue
		}

		results = append(results, TransitionResult{ID: id, OK: true})
	}

	return results, nil
}

// resolveCategory picks the template category: reviewer override first, then
// the candidate's own category when the registry knows it, then the keyword
// heuristic.
func (p *PromotionService) resolveCategory(ctx context.Context, candidate *model.ClauseCandidate, override string) string {
	if override != "" {
		return override
	}
	if candidate.ClauseCategory != "" && p.registry.ValidClauseCategory(ctx, candidate.ClauseCategory) {
		return candidate.ClauseCategory
	}
	return ClassifyCategory(candidate.Title, candidate.Content)
}

// materializeTemplate creates the reusable template for an approved
// candidate, or refreshes an existing one with the same title and category.
func (p *PromotionService) materializeTemplate(ctx context.Context, candidate *model.ClauseCandidate, category, actor string) error {
	existing, err := p.templates.FindByTitleAndCategory(ctx, candidate.Title, category)
	if err != nil {
		return err
	}

	if existing != nil {
		existing.Content = candidate.Content
		existing.Confidence = candidate.Confidence
		existing.Variables = model.Placeholders(candidate.Content)
		return p.templates.Update(ctx, existing)
	}

	now := time.Now()
	tmpl := &model.ClauseTemplate{
		ID:         uuid.New().String(),
		Title:      candidate.Title,
		Content:    candidate.Content,
		Category:   category,
		Type:       model.TemplateTypeStandard,
		Industry:   model.IndustryGeneral,
		Complexity: model.ComplexityStandard,
		Variables:  model.Placeholders(candidate.Content),
		Tags:       candidate.Tags,
		Confidence: candidate.Confidence,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := p.templates.Create(ctx, tmpl); err != nil {
		return err
	}

	templatesCreatedCounter.Inc()

	return p.audit.Append(ctx, &model.AuditEntry{
		EntityType: "template",
		EntityID:   tmpl.ID,
		Action:     "create",
		Actor:      actor,
		Reason:     "promoted from candidate " + candidate.ID,
	})
}
