package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shopidream/aorit-sub000/model"
	"github.com/shopidream/aorit-sub000/pkg/apperr"
	"github.com/shopidream/aorit-sub000/pkg/logger"
	"github.com/shopidream/aorit-sub000/storage"
)

// ClauseInput is one clause fed to composition: a matched template, an
// approved candidate, or an entry from a user-curated list.
type ClauseInput struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	Category   string `json:"category"`
	TemplateID string `json:"template_id,omitempty"`
}

// ComposeRequest carries everything needed to generate one contract.
type ComposeRequest struct {
	Jurisdiction string            `json:"jurisdiction"`
	Source       string            `json:"source"` // template, upload, ai
	Title        string            `json:"title"`
	Clauses      []ClauseInput     `json:"clauses"`
	Variables    map[string]string `json:"variables"`
	Client       PartyInfo         `json:"client"`
	Provider     PartyInfo         `json:"provider"`
	// Actor is the authenticated reviewer composing the contract, not a
	// contract party.
	Actor string `json:"-"`
}

// Composer assembles clauses into a final numbered contract document.
type Composer struct {
	structures *storage.StructureStore
	contracts  *storage.ContractStore
	templates  *storage.TemplateStore
	audit      *storage.AuditStore
	archive    *ArchiveService // optional
}

func NewComposer(
	structures *storage.StructureStore,
	contracts *storage.ContractStore,
	templates *storage.TemplateStore,
	audit *storage.AuditStore,
	archive *ArchiveService,
) *Composer {
	return &Composer{
		structures: structures,
		contracts:  contracts,
		templates:  templates,
		audit:      audit,
		archive:    archive,
	}
}

// Compose maps clauses into the jurisdiction's section structure, substitutes
// variables, renumbers, validates required slots, and persists the immutable
// document. An unresolved placeholder fails the whole composition: a
// partially substituted legal document is worse than no document.
func (c *Composer) Compose(ctx context.Context, req ComposeRequest) (*model.Contract, error) {
	if len(req.Clauses) == 0 {
		return nil, apperr.Validation("at least one clause is required")
	}
	source := req.Source
	if source == "" {
		source = model.SourceUpload
	}

	structure, err := c.structures.ActiveForJurisdiction(ctx, req.Jurisdiction)
	if err != nil {
		return nil, err
	}

	sections, warnings, err := composeSections(structure, req.Clauses, req.Variables)
	if err != nil {
		return nil, err
	}

	title := req.Title
	if title == "" {
		title = "용역 계약서"
	}

	contract := &model.Contract{
		ID:               uuid.New().String(),
		Jurisdiction:     req.Jurisdiction,
		StructureVersion: structure.Version,
		Source:           source,
		Header: model.ContractHeader{
			Title:        title,
			ClientName:   req.Client.Name,
			ProviderName: req.Provider.Name,
			ContractDate: req.Variables["contract_date"],
		},
		Sections: sections,
		Signature: model.SignatureBlock{
			ClientName:   req.Client.Name,
			ProviderName: req.Provider.Name,
			SignDate:     req.Variables["contract_date"],
		},
		SectionCount: len(sections),
		Warnings:     warnings,
		CreatedAt:    time.Now(),
	}

	if c.archive != nil {
		object, archiveErr := c.archive.Store(ctx, contract)
		if archiveErr != nil {
			// Archiving is best effort; the document of record lives in the database
			logger.Warn(ctx, "failed to archive contract document", "contract_id", contract.ID, "error", archiveErr)
			contract.Warnings = append(contract.Warnings, "문서 보관 실패: "+archiveErr.Error())
		} else {
			contract.ArchiveObject = object
		}
	}

	if err := c.contracts.Create(ctx, contract); err != nil {
		return nil, err
	}

	// Usage counts move only when a template is actually selected into a
	// generated contract, never during matching
	var usedTemplates []string
	for _, clause := range req.Clauses {
		if clause.TemplateID != "" {
			usedTemplates = append(usedTemplates, clause.TemplateID)
		}
	}
	if err := c.templates.IncrementUsage(ctx, usedTemplates); err != nil {
		return nil, err
	}

	if err := c.audit.Append(ctx, &model.AuditEntry{
		EntityType: "contract",
		EntityID:   contract.ID,
		Action:     "compose",
		Actor:      req.Actor,
	}); err != nil {
		return nil, err
	}

	contractsComposedCounter.Inc()
	logger.Info(ctx, "contract composed",
		"contract_id", contract.ID,
		"jurisdiction", req.Jurisdiction,
		"sections", len(sections),
		"warnings", len(contract.Warnings),
	)

	return contract, nil
}

// composeSections is the deterministic core: identical inputs always produce
// identical sections and warnings.
func composeSections(structure *model.ContractStructure, clauses []ClauseInput, vars map[string]string) ([]model.ContractSection, []string, error) {
	bySlot := make(map[string][]ClauseInput)
	catchAll := structure.CatchAllSlot()

	for _, clause := range clauses {
		slotID := ""
		for i := range structure.Slots {
			if structure.Slots[i].Accepts(clause.Category) {
				slotID = structure.Slots[i].ID
				break
			}
		}
		if slotID == "" {
			if catchAll != nil {
				slotID = catchAll.ID
			} else {
				// No catch-all declared; clauses are still never dropped
				slotID = "unassigned"
			}
		}
		bySlot[slotID] = append(bySlot[slotID], clause)
	}

	var sections []model.ContractSection
	var warnings []string

	appendSlot := func(slot model.SectionSlot) error {
		mapped := bySlot[slot.ID]
		if len(mapped) == 0 {
			if slot.Required {
				warnings = append(warnings, "누락된 필수 조항: "+slot.Title)
			}
			return nil
		}
		for _, clause := range mapped {
			content, err := substituteVariables(clause, vars)
			if err != nil {
				return err
			}
			title := clause.Title
			if title == "" {
				title = slot.Title
			}
			sections = append(sections, model.ContractSection{
				SlotID:   slot.ID,
				Title:    title,
				Content:  content,
				ClauseID: clause.ID,
			})
		}
		return nil
	}

	for _, slot := range structure.Slots {
		if err := appendSlot(slot); err != nil {
			return nil, nil, err
		}
	}
	if _, ok := bySlot["unassigned"]; ok {
		if err := appendSlot(model.SectionSlot{ID: "unassigned", Title: FallbackCategory}); err != nil {
			return nil, nil, err
		}
	}

	// Sequential numbering over the final order, independent of any original
	// numbering
	for i := range sections {
		sections[i].Number = "제" + strconv.Itoa(i+1) + "조"
	}

	return sections, warnings, nil
}

// substituteVariables resolves every {{name}} token in the clause content.
// A token missing from the table fails composition, naming the token and
// clause; output never contains a literal placeholder.
func substituteVariables(clause ClauseInput, vars map[string]string) (string, error) {
	for _, name := range model.Placeholders(clause.Content) {
		if _, ok := vars[name]; !ok {
			return "", apperr.UnresolvedVariable(name, clause.ID)
		}
	}
	return model.SubstitutePlaceholders(clause.Content, vars), nil
}

// RenderText flattens a contract into the plain-text document that gets
// archived. Deterministic for a given contract.
func RenderText(contract *model.Contract) string {
	var b strings.Builder

	b.WriteString(contract.Header.Title + "\n\n")
	b.WriteString("발주자: " + contract.Header.ClientName + "\n")
	b.WriteString("수급자: " + contract.Header.ProviderName + "\n")
	if contract.Header.ContractDate != "" {
		b.WriteString("계약일: " + contract.Header.ContractDate + "\n")
	}
	b.WriteString("\n")

	for _, s := range contract.Sections {
		b.WriteString(s.Number + " (" + s.Title + ")\n")
		b.WriteString(s.Content + "\n\n")
	}

	b.WriteString("발주자 " + contract.Signature.ClientName + " (인)\n")
	b.WriteString("수급자 " + contract.Signature.ProviderName + " (인)\n")
	if contract.Signature.SignDate != "" {
		b.WriteString(contract.Signature.SignDate + "\n")
	}

	return b.String()
}
