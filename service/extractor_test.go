package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/shopidream/aorit-sub000/config"
	"github.com/shopidream/aorit-sub000/pkg/apperr"
)

func newExtractorTest(t *testing.T, handler http.HandlerFunc) *ExtractorService {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewExtractorService(&config.ExtractorConfig{
		APIURL:              server.URL,
		APIKey:              "test-key",
		BatchSize:           3,
		BatchDelaySeconds:   0,
		BatchTimeoutSeconds: 5,
	})
}

func TestExtractClauses(t *testing.T) {
	svc := newExtractorTest(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"code": 0,
			"data": map[string]any{
				"clauses": []map[string]any{
					{"title": "대금 지급", "content": "대금을 지급한다.", "category": "대금 지급 조건", "confidence": 0.92},
				},
			},
		})
	})

	clauses, err := svc.ExtractClauses(context.Background(), "계약서 전문")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(clauses) != 1 {
		t.Fatalf("Expected 1 clause, got %d", len(clauses))
	}
	if clauses[0].Confidence != 0.92 {
		t.Errorf("Expected confidence 0.92, got %f", clauses[0].Confidence)
	}
}

func TestExtractClausesCollaboratorFailure(t *testing.T) {
	svc := newExtractorTest(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := svc.ExtractClauses(context.Background(), "계약서 전문")
	if err == nil {
		t.Fatal("Expected error")
	}
	if !apperr.IsKind(err, apperr.KindExternalCollaborator) {
		t.Errorf("Expected external-collaborator kind, got %v", apperr.KindOf(err))
	}
}

func TestExtractAllRunsInBatches(t *testing.T) {
	var mu sync.Mutex
	inFlight, maxInFlight := 0, 0

	svc := newExtractorTest(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		inFlight++
		if inFlight > maxInFlight {
			maxInFlight = inFlight
		}
		mu.Unlock()

		defer func() {
			mu.Lock()
			inFlight--
			mu.Unlock()
		}()

		json.NewEncoder(w).Encode(map[string]any{
			"code": 0,
			"data": map[string]any{"clauses": []map[string]any{{"title": "t", "content": "c", "confidence": 0.5}}},
		})
	})

	docs := []string{"문서1", "문서2", "문서3", "문서4", "문서5", "문서6", "문서7"}
	results, err := svc.ExtractAll(context.Background(), docs)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(results) != len(docs) {
		t.Fatalf("Expected %d result sets, got %d", len(docs), len(results))
	}
	for i, clauses := range results {
		if len(clauses) != 1 {
			t.Errorf("Document %d: expected 1 clause, got %d", i, len(clauses))
		}
	}

	// Never more concurrent calls than the batch size
	if maxInFlight > 3 {
		t.Errorf("Expected at most 3 concurrent calls, observed %d", maxInFlight)
	}
}

func TestExtractAllFailsWholeBatch(t *testing.T) {
	svc := newExtractorTest(t, func(w http.ResponseWriter, r *http.Request) {
		var req extractRequest
		json.NewDecoder(r.Body).Decode(&req)
		if strings.Contains(req.Text, "실패") {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"code": 0,
			"data": map[string]any{"clauses": []map[string]any{}},
		})
	})

	_, err := svc.ExtractAll(context.Background(), []string{"문서1", "실패 문서", "문서3"})
	if err == nil {
		t.Fatal("Expected batch failure to fail the run")
	}
	if !apperr.IsKind(err, apperr.KindExternalCollaborator) {
		t.Errorf("Expected external-collaborator kind, got %v", apperr.KindOf(err))
	}
}

func TestAnalyzeRiskOrNeutralDegrades(t *testing.T) {
	svc := newExtractorTest(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	risk := svc.AnalyzeRiskOrNeutral(context.Background(), "대금 지급", "대금을 지급한다.")
	if risk == nil {
		t.Fatal("Expected neutral annotation, got nil")
	}
	if risk.RiskLevel != 5 {
		t.Errorf("Expected neutral risk level 5, got %d", risk.RiskLevel)
	}
	if len(risk.Issues) != 0 || len(risk.Recommendations) != 0 {
		t.Errorf("Expected empty lists on neutral annotation, got %+v", risk)
	}
}

func TestEnhance(t *testing.T) {
	svc := newExtractorTest(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"code": 0,
			"data": map[string]any{
				"enhanced":    "개선된 조항 내용.",
				"suggestions": []string{"기한을 명시하세요"},
			},
		})
	})

	result, err := svc.Enhance(context.Background(), "조항 내용.", "더 명확하게")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Enhanced != "개선된 조항 내용." {
		t.Errorf("Unexpected enhanced content: %q", result.Enhanced)
	}
	if len(result.Suggestions) != 1 {
		t.Errorf("Expected 1 suggestion, got %d", len(result.Suggestions))
	}
}
