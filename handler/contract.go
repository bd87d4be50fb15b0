package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopidream/aorit-sub000/middleware"
	"github.com/shopidream/aorit-sub000/pkg/logger"
	"github.com/shopidream/aorit-sub000/service"
	"github.com/shopidream/aorit-sub000/storage"
)

type ContractHandler struct {
	composer   *service.Composer
	contracts  *storage.ContractStore
	structures *storage.StructureStore
	archive    *service.ArchiveService // optional
}

func NewContractHandler(
	composer *service.Composer,
	contracts *storage.ContractStore,
	structures *storage.StructureStore,
	archive *service.ArchiveService,
) *ContractHandler {
	return &ContractHandler{
		composer:   composer,
		contracts:  contracts,
		structures: structures,
		archive:    archive,
	}
}

type ComposeContractRequest struct {
	Jurisdiction string                `json:"jurisdiction"`
	Source       string                `json:"source"`
	Title        string                `json:"title"`
	Clauses      []service.ClauseInput `json:"clauses" binding:"required"`
	Client       service.PartyInfo     `json:"client"`
	Provider     service.PartyInfo     `json:"provider"`
	Project      service.ProjectData   `json:"project"`
	// ExtraVariables covers custom placeholders beyond the party and project
	// data; the derived variables win on name collisions.
	ExtraVariables map[string]string `json:"extra_variables"`
}

// Compose generates a contract from clauses plus party and project data
func (h *ContractHandler) Compose(c *gin.Context) {
	var req ComposeContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	jurisdiction := req.Jurisdiction
	if jurisdiction == "" {
		jurisdiction = "KR"
	}

	vars, err := service.ResolveVariables(jurisdiction, req.Project, req.Client, req.Provider)
	if err != nil {
		respondError(c, err)
		return
	}
	for name, value := range req.ExtraVariables {
		if _, ok := vars[name]; !ok {
			vars[name] = value
		}
	}

	contract, err := h.composer.Compose(c.Request.Context(), service.ComposeRequest{
		Jurisdiction: jurisdiction,
		Source:       req.Source,
		Title:        req.Title,
		Clauses:      req.Clauses,
		Variables:    vars,
		Client:       req.Client,
		Provider:     req.Provider,
		Actor:        middleware.GetUsername(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contract)
}

// List returns composed contract headers, newest first
func (h *ContractHandler) List(c *gin.Context) {
	contracts, err := h.contracts.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	summaries := make([]storage.ContractSummary, 0, len(contracts))
	for _, contract := range contracts {
		summaries = append(summaries, storage.ContractSummary{
			ID:           contract.ID,
			Jurisdiction: contract.Jurisdiction,
			Source:       contract.Source,
			Title:        contract.Header.Title,
			SectionCount: contract.SectionCount,
			CreatedAt:    contract.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	c.JSON(http.StatusOK, gin.H{"contracts": summaries})
}

// Get returns one composed contract with its full sections
func (h *ContractHandler) Get(c *gin.Context) {
	contract, err := h.contracts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

// Document returns the contract's plain-text document. Prefers the archived
// copy; the stored row is the document of record and covers the rest.
func (h *ContractHandler) Document(c *gin.Context) {
	contract, err := h.contracts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	var text string
	if h.archive != nil && contract.ArchiveObject != "" {
		text, err = h.archive.Fetch(c.Request.Context(), contract.ArchiveObject)
		if err != nil {
			logger.Warn(c.Request.Context(), "failed to fetch archived document, rendering from store",
				"contract_id", contract.ID, "error", err)
			text = ""
		}
	}
	if text == "" {
		text = service.RenderText(contract)
	}

	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}

// GetStructure returns the active section schema for a jurisdiction
func (h *ContractHandler) GetStructure(c *gin.Context) {
	structure, err := h.structures.ActiveForJurisdiction(c.Request.Context(), c.Param("jurisdiction"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, structure)
}
