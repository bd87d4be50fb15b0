package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shopidream/aorit-sub000/middleware"
	"github.com/shopidream/aorit-sub000/model"
	"github.com/shopidream/aorit-sub000/pkg/apperr"
	"github.com/shopidream/aorit-sub000/service"
	"github.com/shopidream/aorit-sub000/storage"
)

type TemplateHandler struct {
	templates *storage.TemplateStore
	audit     *storage.AuditStore
	matcher   *service.Matcher
	extractor *service.ExtractorService
}

func NewTemplateHandler(
	templates *storage.TemplateStore,
	audit *storage.AuditStore,
	matcher *service.Matcher,
	extractor *service.ExtractorService,
) *TemplateHandler {
	return &TemplateHandler{
		templates: templates,
		audit:     audit,
		matcher:   matcher,
		extractor: extractor,
	}
}

// List returns templates, optionally filtered by category
func (h *TemplateHandler) List(c *gin.Context) {
	templates, err := h.templates.List(c.Request.Context(), c.Query("category"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"templates": templates})
}

type TemplateRequest struct {
	Title      string   `json:"title" binding:"required"`
	Content    string   `json:"content" binding:"required"`
	Category   string   `json:"category" binding:"required"`
	Type       string   `json:"type"`
	Industry   string   `json:"industry"`
	Complexity string   `json:"complexity"`
	Variables  []string `json:"variables"`
	Tags       []string `json:"tags"`
}

// Create adds a template directly, bypassing the review queue. Every
// placeholder in the content must be declared in variables.
func (h *TemplateHandler) Create(c *gin.Context) {
	var req TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	now := time.Now()
	tmpl := &model.ClauseTemplate{
		ID:         uuid.New().String(),
		Title:      req.Title,
		Content:    req.Content,
		Category:   req.Category,
		Type:       req.Type,
		Industry:   req.Industry,
		Complexity: req.Complexity,
		Variables:  req.Variables,
		Tags:       req.Tags,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	applyTemplateDefaults(tmpl)

	if missing := tmpl.UndeclaredPlaceholders(); len(missing) > 0 {
		respondError(c, apperr.TemplateValidation(missing))
		return
	}

	if err := h.templates.Create(c.Request.Context(), tmpl); err != nil {
		respondError(c, err)
		return
	}

	if err := h.audit.Append(c.Request.Context(), &model.AuditEntry{
		EntityType: "template",
		EntityID:   tmpl.ID,
		Action:     "create",
		Actor:      middleware.GetUsername(c),
	}); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, tmpl)
}

// Update edits a template. The placeholder invariant is re-checked against
// the edited content and variables.
func (h *TemplateHandler) Update(c *gin.Context) {
	var req TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	tmpl, err := h.templates.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	tmpl.Title = req.Title
	tmpl.Content = req.Content
	tmpl.Category = req.Category
	tmpl.Variables = req.Variables
	tmpl.Tags = req.Tags
	if req.Type != "" {
		tmpl.Type = req.Type
	}
	if req.Industry != "" {
		tmpl.Industry = req.Industry
	}
	if req.Complexity != "" {
		tmpl.Complexity = req.Complexity
	}

	if missing := tmpl.UndeclaredPlaceholders(); len(missing) > 0 {
		respondError(c, apperr.TemplateValidation(missing))
		return
	}

	if err := h.templates.Update(c.Request.Context(), tmpl); err != nil {
		respondError(c, err)
		return
	}

	if err := h.audit.Append(c.Request.Context(), &model.AuditEntry{
		EntityType: "template",
		EntityID:   tmpl.ID,
		Action:     "update",
		Actor:      middleware.GetUsername(c),
	}); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, tmpl)
}

type MatchRequest struct {
	ServiceType string `json:"service_type" binding:"required"`
	Industry    string `json:"industry"`
	Complexity  string `json:"complexity"`
}

// Match ranks templates against quote criteria. Read-only: usage counts are
// untouched until a template is actually composed into a contract.
func (h *TemplateHandler) Match(c *gin.Context) {
	var req MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	pool, err := h.templates.List(c.Request.Context(), "")
	if err != nil {
		respondError(c, err)
		return
	}

	results := h.matcher.Match(model.QuoteCriteria{
		ServiceType: req.ServiceType,
		Industry:    req.Industry,
		Complexity:  req.Complexity,
	}, pool)

	c.JSON(http.StatusOK, gin.H{"results": results})
}

type EnhanceRequest struct {
	Instruction string `json:"instruction"`
}

// Enhance asks the collaborator for an advisory rewrite of a template's
// content. Nothing is persisted; the reviewer decides what to apply.
func (h *TemplateHandler) Enhance(c *gin.Context) {
	var req EnhanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	tmpl, err := h.templates.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.extractor.Enhance(c.Request.Context(), tmpl.Content, req.Instruction)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func applyTemplateDefaults(t *model.ClauseTemplate) {
	if t.Type == "" {
		t.Type = model.TemplateTypeStandard
	}
	if t.Industry == "" {
		t.Industry = model.IndustryGeneral
	}
	if t.Complexity == "" {
		t.Complexity = model.ComplexityStandard
	}
}
