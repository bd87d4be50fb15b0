package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/shopidream/aorit-sub000/config"
	"github.com/shopidream/aorit-sub000/model"
	"github.com/shopidream/aorit-sub000/pkg/apperr"
	"github.com/shopidream/aorit-sub000/pkg/logger"
)

type ExtractorService struct {
	config     *config.ExtractorConfig
	httpClient *http.Client
}

// ExtractedClause is one clause the collaborator pulled out of a document.
type ExtractedClause struct {
	Title      string  `json:"title"`
	Content    string  `json:"content"`
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
}

// extractRequest represents the request to the clause extraction endpoint
type extractRequest struct {
	Text string `json:"text"`
}

// extractResponse represents the extraction endpoint response
type extractResponse struct {
	Code    int    `json:"code"`
	Message string `json:"msg"`
	Data    struct {
		Clauses []ExtractedClause `json:"clauses"`
	} `json:"data"`
}

// riskRequest represents the request to the risk analysis endpoint
type riskRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// riskResponse represents the risk analysis endpoint response
type riskResponse struct {
	Code    int    `json:"code"`
	Message string `json:"msg"`
	Data    struct {
		RiskLevel       int      `json:"risk_level"`
		Issues          []string `json:"issues"`
		Recommendations []string `json:"recommendations"`
	} `json:"data"`
}

// enhanceRequest represents the request to the clause enhancement endpoint
type enhanceRequest struct {
	Content     string `json:"content"`
	Instruction string `json:"instruction"`
}

// EnhanceResult is the collaborator's advisory rewrite of a clause.
type EnhanceResult struct {
	Enhanced     string   `json:"enhanced"`
	Suggestions  []string `json:"suggestions"`
	Alternatives []string `json:"alternatives"`
}

// enhanceResponse represents the enhancement endpoint response
type enhanceResponse struct {
	Code    int           `json:"code"`
	Message string        `json:"msg"`
	Data    EnhanceResult `json:"data"`
}

func NewExtractorService(cfg *config.ExtractorConfig) *ExtractorService {
	return &ExtractorService{
		config: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.BatchTimeoutSeconds) * time.Second,
		},
	}
}

// ExtractClauses sends one document to the collaborator and returns the
// clauses it found. Transport failures and unparseable responses come back as
// external-collaborator errors, never as silently empty results.
func (s *ExtractorService) ExtractClauses(ctx context.Context, text string) ([]ExtractedClause, error) {
	if text == "" {
		return nil, apperr.Validation("document text is empty")
	}

	var result extractResponse
	if err := s.post(ctx, "/v1/extract", extractRequest{Text: text}, &result); err != nil {
		return nil, err
	}
	if result.Code != 0 {
		return nil, apperr.External("extraction rejected: "+result.Message, nil)
	}

	return result.Data.Clauses, nil
}

// ExtractAll runs extraction over multiple documents in fixed-size batches.
// Calls within a batch run concurrently; the scheduler waits for the whole
// batch, fails the run if any call in it failed, and sleeps the configured
// delay before dispatching the next batch. Results keep input order.
func (s *ExtractorService) ExtractAll(ctx context.Context, docs []string) ([][]ExtractedClause, error) {
	results := make([][]ExtractedClause, len(docs))
	errs := make([]error, len(docs))

	batchSize := s.config.BatchSize
	if batchSize <= 0 {
		batchSize = 3
	}

	for start := 0; start < len(docs); start += batchSize {
		if start > 0 {
			select {
			case <-time.After(time.Duration(s.config.BatchDelaySeconds) * time.Second):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		end := start + batchSize
		if end > len(docs) {
			end = len(docs)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i], errs[i] = s.ExtractClauses(ctx, docs[i])
			}(i)
		}
		wg.Wait()

		// Join-or-fail: a batch either fully succeeds or the run stops here
		for i := start; i < end; i++ {
			if errs[i] != nil {
				return nil, errs[i]
			}
		}

		logger.Debug(ctx, "extraction batch completed", "from", start, "to", end-1)
	}

	return results, nil
}

// AnalyzeRisk asks the collaborator to grade one clause.
func (s *ExtractorService) AnalyzeRisk(ctx context.Context, title, content string) (*model.RiskInfo, error) {
	var result riskResponse
	if err := s.post(ctx, "/v1/risk", riskRequest{Title: title, Content: content}, &result); err != nil {
		return nil, err
	}
	if result.Code != 0 {
		return nil, apperr.External("risk analysis rejected: "+result.Message, nil)
	}

	return &model.RiskInfo{
		RiskLevel:       result.Data.RiskLevel,
		Issues:          result.Data.Issues,
		Recommendations: result.Data.Recommendations,
	}, nil
}

// AnalyzeRiskOrNeutral degrades a failed analysis to the neutral grade so a
// collaborator outage never blocks the review queue.
func (s *ExtractorService) AnalyzeRiskOrNeutral(ctx context.Context, title, content string) *model.RiskInfo {
	risk, err := s.AnalyzeRisk(ctx, title, content)
	if err != nil {
		logger.Warn(ctx, "risk analysis unavailable, using neutral grade", "error", err)
		return model.NeutralRisk()
	}
	return risk
}

// Enhance rewrites clause content per the reviewer's instruction. Advisory
// only: the result never feeds composition without a reviewer applying it.
func (s *ExtractorService) Enhance(ctx context.Context, content, instruction string) (*EnhanceResult, error) {
	if content == "" {
		return nil, apperr.Validation("content is empty")
	}

	var result enhanceResponse
	if err := s.post(ctx, "/v1/enhance", enhanceRequest{Content: content, Instruction: instruction}, &result); err != nil {
		return nil, err
	}
	if result.Code != 0 {
		return nil, apperr.External("enhancement rejected: "+result.Message, nil)
	}
	if result.Data.Enhanced == "" {
		return nil, apperr.External("enhancement returned empty content", nil)
	}

	return &result.Data, nil
}

func (s *ExtractorService) post(ctx context.Context, path string, payload, out any) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.config.APIURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "*/*")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return apperr.External("collaborator call failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperr.External("failed to read collaborator response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return apperr.External(fmt.Sprintf("collaborator returned status %d", resp.StatusCode), nil)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return apperr.External(fmt.Sprintf("failed to parse collaborator response: %s", string(body)), err)
	}

	return nil
}
