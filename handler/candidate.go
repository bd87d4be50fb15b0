package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shopidream/aorit-sub000/middleware"
	"github.com/shopidream/aorit-sub000/service"
	"github.com/shopidream/aorit-sub000/storage"
)

type CandidateHandler struct {
	promotion  *service.PromotionService
	extractor  *service.ExtractorService
	candidates *storage.CandidateStore
}

func NewCandidateHandler(
	promotion *service.PromotionService,
	extractor *service.ExtractorService,
	candidates *storage.CandidateStore,
) *CandidateHandler {
	return &CandidateHandler{
		promotion:  promotion,
		extractor:  extractor,
		candidates: candidates,
	}
}

type IngestRequest struct {
	Items []service.IngestItem `json:"items" binding:"required"`
}

// Ingest adds a batch of clauses to the review queue
func (h *CandidateHandler) Ingest(c *gin.Context) {
	var req IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	results := h.promotion.Ingest(c.Request.Context(), req.Items)
	c.JSON(http.StatusOK, gin.H{"results": results})
}

type ExtractRequest struct {
	Documents      []string `json:"documents" binding:"required"`
	SourceContract string   `json:"source_contract"`
}

// Extract runs the collaborator over raw documents and queues the clauses it
// finds. Documents are processed in fixed-size batches with an inter-batch
// delay; a failed batch fails the request.
func (h *CandidateHandler) Extract(c *gin.Context) {
	var req ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if len(req.Documents) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No documents provided"})
		return
	}

	extracted, err := h.extractor.ExtractAll(c.Request.Context(), req.Documents)
	if err != nil {
		respondError(c, err)
		return
	}

	var items []service.IngestItem
	for _, clauses := range extracted {
		for _, clause := range clauses {
			items = append(items, service.IngestItem{
				Title:          clause.Title,
				Content:        clause.Content,
				ClauseCategory: clause.Category,
				Confidence:     clause.Confidence,
				SourceContract: req.SourceContract,
			})
		}
	}

	results := h.promotion.Ingest(c.Request.Context(), items)
	c.JSON(http.StatusOK, gin.H{
		"extracted": len(items),
		"results":   results,
	})
}

// Query lists candidates with filters and stable pagination
func (h *CandidateHandler) Query(c *gin.Context) {
	q := storage.CandidateQuery{
		Category: c.Query("category"),
		Status:   c.Query("status"),
		Search:   c.Query("search"),
		SortBy:   c.Query("sort_by"),
		Order:    c.Query("order"),
	}
	if v := c.Query("min_confidence"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid min_confidence"})
			return
		}
		q.MinConfidence = &f
	}
	q.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	q.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))

	candidates, total, err := h.candidates.Query(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"candidates": candidates,
		"total":      total,
		"page":       q.Page,
		"limit":      q.Limit,
	})
}

// Stats returns review queue aggregates
func (h *CandidateHandler) Stats(c *gin.Context) {
	stats, err := h.candidates.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Analyze attaches a collaborator risk grade to a candidate. A collaborator
// failure degrades to the neutral grade instead of failing the request.
func (h *CandidateHandler) Analyze(c *gin.Context) {
	id := c.Param("id")

	candidate, err := h.candidates.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	risk := h.extractor.AnalyzeRiskOrNeutral(c.Request.Context(), candidate.Title, candidate.Content)
	if err := h.candidates.AttachRisk(c.Request.Context(), id, risk); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "risk": risk})
}

// AutoPromote sweeps pending candidates at or above the confidence threshold
func (h *CandidateHandler) AutoPromote(c *gin.Context) {
	promoted, err := h.promotion.AutoPromote(c.Request.Context(), middleware.GetUsername(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"promoted": promoted})
}

type BulkApproveRequest struct {
	IDs               []string          `json:"ids" binding:"required"`
	CategoryOverrides map[string]string `json:"category_overrides"`
}

// BulkApprove approves pending candidates with optional category overrides
func (h *CandidateHandler) BulkApprove(c *gin.Context) {
	var req BulkApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	results := h.promotion.BulkApprove(c.Request.Context(), req.IDs, req.CategoryOverrides, middleware.GetUsername(c))
	c.JSON(http.StatusOK, gin.H{"results": results})
}

type RejectRequest struct {
	IDs    []string `json:"ids" binding:"required"`
	Reason string   `json:"reason"`
}

// Reject transitions pending candidates to rejected with a mandatory reason
func (h *CandidateHandler) Reject(c *gin.Context) {
	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	results, err := h.promotion.Reject(c.Request.Context(), req.IDs, req.Reason, middleware.GetUsername(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}
