package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hirehub-backend/internal/llm"
)

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	client, err := NewClient(Config{
		APIKey:  "test-key",
		BaseURL: url,
		Model:   "gpt-4o-mini",
		Timeout: 2 * time.Second,
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func chatReply(content string) string {
	payload := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}},
		},
		"usage": map[string]int{"prompt_tokens": 10, "completion_tokens": 20, "total_tokens": 30},
	}
	raw, _ := json.Marshal(payload)
	return string(raw)
}

const validAnalysisJSON = `{
  "overallScore": 8,
  "summary": "Strong backend profile.",
  "extractedInfo": {
    "name": "Jane Doe",
    "email": "jane@example.com",
    "phone": "+3620000000",
    "skills": ["Go", "PostgreSQL"],
    "education": ["BSc Computer Science"],
    "experience": ["Backend engineer at Acme"],
    "yearsOfExperience": 6
  },
  "criteria": [
    {"criterion": "Go experience", "score": 9, "met": "true", "evidence": "6 years of Go"},
    {"criterion": "Kubernetes", "score": 4, "met": "partially", "evidence": "some exposure"}
  ],
  "redFlags": []
}`

func TestClientAnalyzeParsesResponse(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chatReply(validAnalysisJSON)))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	got, err := client.Analyze(context.Background(), llm.AnalyzeInput{
		CVText:          "Jane Doe, 6 years of Go",
		JobRequirements: "Go, PostgreSQL",
	})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	if gotAuth != "Bearer test-key" {
		t.Fatalf("unexpected auth header: %q", gotAuth)
	}
	if gotBody["model"] != "gpt-4o-mini" {
		t.Fatalf("unexpected model: %v", gotBody["model"])
	}
	if rf, ok := gotBody["response_format"].(map[string]any); !ok || rf["type"] != "json_object" {
		t.Fatalf("expected response_format json_object, got %v", gotBody["response_format"])
	}

	if got.OverallScore != 8 {
		t.Fatalf("unexpected score: %v", got.OverallScore)
	}
	if got.ExtractedInfo.YearsOfExperience != 6 {
		t.Fatalf("unexpected years: %d", got.ExtractedInfo.YearsOfExperience)
	}
	if len(got.Criteria) != 2 || got.Criteria[1].Met != "partially" {
		t.Fatalf("unexpected criteria: %+v", got.Criteria)
	}
	if got.AnalyzedAt.IsZero() {
		t.Fatal("expected analyzedAt stamped by client")
	}
}

func TestClientAnalyzeToleratesBooleanMet(t *testing.T) {
	reply := strings.Replace(validAnalysisJSON, `"met": "true"`, `"met": true`, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(chatReply(reply)))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	got, err := client.Analyze(context.Background(), llm.AnalyzeInput{})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if got.Criteria[0].Met != "true" {
		t.Fatalf("expected boolean met coerced to string, got %q", got.Criteria[0].Met)
	}
}

func TestClientAnalyzeClampsScores(t *testing.T) {
	reply := strings.Replace(validAnalysisJSON, `"overallScore": 8`, `"overallScore": 42`, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(chatReply(reply)))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	got, err := client.Analyze(context.Background(), llm.AnalyzeInput{})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if got.OverallScore != 10 {
		t.Fatalf("expected clamp to 10, got %v", got.OverallScore)
	}
}

func TestClientAnalyzeStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"quota exceeded","type":"insufficient_quota"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	if _, err := client.Analyze(context.Background(), llm.AnalyzeInput{}); err == nil {
		t.Fatal("expected error on non-2xx response")
	}
}

func TestClientAnalyzeMalformedContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(chatReply("I am sorry, I cannot produce JSON today.")))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	if _, err := client.Analyze(context.Background(), llm.AnalyzeInput{}); err == nil {
		t.Fatal("expected error on non-JSON content")
	}
}

func TestClientAnalyzeTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(chatReply(validAnalysisJSON)))
	}))
	defer srv.Close()

	client, err := NewClient(Config{APIKey: "k", BaseURL: srv.URL, Model: "m", Timeout: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := client.Analyze(context.Background(), llm.AnalyzeInput{}); err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient(Config{Model: "m"}); err == nil {
		t.Fatal("expected error without api key")
	}
	if _, err := NewClient(Config{APIKey: "k"}); err == nil {
		t.Fatal("expected error without model")
	}
	client, err := NewClient(Config{APIKey: "k", Model: "m"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if client.cfg.BaseURL != defaultBaseURL {
		t.Fatalf("expected default base url, got %q", client.cfg.BaseURL)
	}
	if client.cfg.Timeout != defaultTimeout {
		t.Fatalf("expected default timeout, got %v", client.cfg.Timeout)
	}
}
