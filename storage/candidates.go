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

// CandidateStore persists clause candidates.
type CandidateStore struct {
	db *gorm.DB
}

func NewCandidateStore(db *gorm.DB) *CandidateStore {
	return &CandidateStore{db: db}
}

// CandidateQuery describes a filtered, paginated candidate listing.
type CandidateQuery struct {
	Category      string
	Status        string
	MinConfidence *float64
	Search        string
	SortBy        string // created_at, confidence, title
	Order         string // asc, desc
	Page          int
	Limit         int
}

// CandidateStats aggregates the review queue for the dashboard.
type CandidateStats struct {
	Total         int64            `json:"total"`
	ByStatus      map[string]int64 `json:"by_status"`
	ByCategory    map[string]int64 `json:"by_category"`
	AvgConfidence float64          `json:"avg_confidence"`
}

var candidateSortColumns = map[string]string{
	"created_at": "created_at",
	"confidence": "confidence",
	"title":      "title",
}

func (s *CandidateStore) Insert(ctx context.Context, c *model.ClauseCandidate) error {
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("failed to insert candidate: %w", err)
	}
	return nil
}

func (s *CandidateStore) Get(ctx context.Context, id string) (*model.ClauseCandidate, error) {
	var c model.ClauseCandidate
	if err := s.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("candidate " + id + " not found")
		}
		return nil, fmt.Errorf("failed to load candidate: %w", err)
	}
	return &c, nil
}

// Query returns a stable page of candidates. Ties on the sort column are
// broken by id ascending so repeated calls paginate deterministically.
func (s *CandidateStore) Query(ctx context.Context, q CandidateQuery) ([]model.ClauseCandidate, int64, error) {
	tx := s.db.WithContext(ctx).Model(&model.ClauseCandidate{})

	if q.Category != "" {
		tx = tx.Where("clause_category = ?", q.Category)
	}
	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}
	if q.MinConfidence != nil {
		tx = tx.Where("confidence >= ?", *q.MinConfidence)
	}
	if q.Search != "" {
		like := "%" + q.Search + "%"
		tx = tx.Where("title LIKE ? OR content LIKE ?", like, like)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count candidates: %w", err)
	}

	column, ok := candidateSortColumns[q.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "desc"
	if q.Order == "asc" {
		direction = "asc"
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = 20
	}

	var candidates []model.ClauseCandidate
	err := tx.Order(column + " " + direction).Order("id asc").
		Offset((page - 1) * limit).Limit(limit).
		Find(&candidates).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query candidates: %w", err)
	}

	return candidates, total, nil
}

// PendingAtOrAbove returns all pending candidates meeting the confidence
// threshold, ordered by id for a deterministic promotion sweep.
func (s *CandidateStore) PendingAtOrAbove(ctx context.Context, threshold float64) ([]model.ClauseCandidate, error) {
	var candidates []model.ClauseCandidate
	err := s.db.WithContext(ctx).
		Where("status = ? AND confidence >= ?", model.StatusPending, threshold).
		Order("id asc").
		Find(&candidates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query pending candidates: %w", err)
	}
	return candidates, nil
}

// TransitionFromPending moves a candidate out of pending with a conditional
// update. Returns false when the candidate was not pending, so a concurrent
// transition can never double-apply.
func (s *CandidateStore) TransitionFromPending(ctx context.Context, id, status, reviewNote, categoryOverride string) (bool, error) {
	updates := map[string]any{
		"status":     status,
		"updated_at": time.Now(),
	}
	if reviewNote != "" {
		updates["review_note"] = reviewNote
	}
	if categoryOverride != "" {
		updates["clause_category"] = categoryOverride
	}

	res := s.db.WithContext(ctx).Model(&model.ClauseCandidate{}).
		Where("id = ? AND status = ?", id, model.StatusPending).
		Updates(updates)
	if res.Error != nil {
		return false, fmt.Errorf("failed to transition candidate %s: %w", id, res.Error)
	}
	return res.RowsAffected == 1, nil
}

// AttachRisk stores an advisory risk annotation. Allowed in any status: risk
// data is audit metadata, not part of the monotonic state machine.
func (s *CandidateStore) AttachRisk(ctx context.Context, id string, risk *model.RiskInfo) error {
	// Struct-based update so the json serializer runs for the risk column
	res := s.db.WithContext(ctx).Model(&model.ClauseCandidate{ID: id}).
		Select("risk", "updated_at").
		Updates(&model.ClauseCandidate{Risk: risk, UpdatedAt: time.Now()})
	if res.Error != nil {
		return fmt.Errorf("failed to attach risk annotation: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("candidate " + id + " not found")
	}
	return nil
}

func (s *CandidateStore) Stats(ctx context.Context) (*CandidateStats, error) {
	stats := &CandidateStats{
		ByStatus:   make(map[string]int64),
		ByCategory: make(map[string]int64),
	}

	type statusRow struct {
		Status string
		N      int64
	}
	var statusRows []statusRow
	err := s.db.WithContext(ctx).Model(&model.ClauseCandidate{}).
		Select("status, count(*) as n").Group("status").Scan(&statusRows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate status counts: %w", err)
	}
	for _, r := range statusRows {
		stats.ByStatus[r.Status] = r.N
		stats.Total += r.N
	}

	type categoryRow struct {
		ClauseCategory string
		N              int64
	}
	var categoryRows []categoryRow
	err = s.db.WithContext(ctx).Model(&model.ClauseCandidate{}).
		Select("clause_category, count(*) as n").Group("clause_category").Scan(&categoryRows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate category counts: %w", err)
	}
	for _, r := range categoryRows {
		stats.ByCategory[r.ClauseCategory] = r.N
	}

	if stats.Total > 0 {
		var avg float64
		err = s.db.WithContext(ctx).Model(&model.ClauseCandidate{}).
			Select("avg(confidence)").Scan(&avg).Error
		if err != nil {
			return nil, fmt.Errorf("failed to average confidence: %w", err)
		}
		stats.AvgConfidence = avg
	}

	return stats, nil
}
