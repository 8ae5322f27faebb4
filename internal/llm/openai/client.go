package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"hirehub-backend/internal/candidates"
	"hirehub-backend/internal/llm"
)

const (
	defaultBaseURL = "https://api.openai.com/v1/chat/completions"
	defaultTimeout = 60 * time.Second
)

// Config carries the endpoint and credentials for the analysis service.
// Callers construct it explicitly; the client reads no ambient state.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Client implements llm.Provider using OpenAI Chat Completions.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient constructs a new OpenAI client from explicit configuration.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("openai: api key is required")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("openai: model is required")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    *float32       `json:"temperature,omitempty"`
	ResponseFormat responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage,omitempty"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Analyze sends one structured request and parses the strict-JSON reply.
// Any transport, status, or shape fault is returned as an error; the
// llm.Analyzer wrapper turns those into the fallback result.
func (c *Client) Analyze(ctx context.Context, input llm.AnalyzeInput) (candidates.Analysis, error) {
	content, err := c.complete(ctx, BuildPrompt(input.CVText, input.JobRequirements))
	if err != nil {
		return candidates.Analysis{}, err
	}

	var wire analysisWire
	if err := json.Unmarshal([]byte(content), &wire); err != nil {
		return candidates.Analysis{}, fmt.Errorf("openai response not in expected shape: %w", err)
	}

	result := wire.toAnalysis()
	// analyzedAt is stamped here, never trusted from the service.
	result.AnalyzedAt = time.Now().UTC()
	return llm.Normalize(result), nil
}

func (c *Client) complete(ctx context.Context, messages []Message) (string, error) {
	temp := float32(0)
	reqMessages := make([]chatMessage, 0, len(messages))
	for _, m := range messages {
		reqMessages = append(reqMessages, chatMessage{Role: m.Role, Content: m.Content})
	}
	reqBody := chatRequest{
		Model:    c.cfg.Model,
		Messages: reqMessages,
		ResponseFormat: responseFormat{
			Type: "json_object",
		},
	}
	reqBody.Temperature = &temp
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return "", fmt.Errorf("openai request timeout: %w", err)
		}
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("openai status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("openai response parse: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("openai error: %s (%s)", parsed.Error.Message, parsed.Error.Type)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("openai response missing choices")
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("openai response empty content")
	}
	logUsage(c.cfg.Model, parsed.Usage)
	return content, nil
}

// analysisWire mirrors the JSON schema the prompt demands from the service.
type analysisWire struct {
	OverallScore  float64 `json:"overallScore"`
	Summary       string  `json:"summary"`
	ExtractedInfo struct {
		Name              string   `json:"name"`
		Email             string   `json:"email"`
		Phone             string   `json:"phone"`
		Skills            []string `json:"skills"`
		Education         []string `json:"education"`
		Experience        []string `json:"experience"`
		YearsOfExperience int      `json:"yearsOfExperience"`
	} `json:"extractedInfo"`
	Criteria []struct {
		Criterion string   `json:"criterion"`
		Score     float64  `json:"score"`
		Met       metValue `json:"met"`
		Evidence  string   `json:"evidence"`
	} `json:"criteria"`
	RedFlags []string `json:"redFlags"`
}

// metValue tolerates models emitting bare booleans instead of the
// "true"/"false"/"partially" strings the prompt asks for.
type metValue string

func (m *metValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*m = metValue(strings.ToLower(strings.TrimSpace(s)))
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		if b {
			*m = candidates.MetTrue
		} else {
			*m = candidates.MetFalse
		}
		return nil
	}
	return fmt.Errorf("met value %s is neither string nor bool", string(data))
}

func (w analysisWire) toAnalysis() candidates.Analysis {
	out := candidates.Analysis{
		OverallScore: w.OverallScore,
		Summary:      w.Summary,
		ExtractedInfo: candidates.ExtractedInfo{
			Name:              w.ExtractedInfo.Name,
			Email:             w.ExtractedInfo.Email,
			Phone:             w.ExtractedInfo.Phone,
			Skills:            w.ExtractedInfo.Skills,
			Education:         w.ExtractedInfo.Education,
			Experience:        w.ExtractedInfo.Experience,
			YearsOfExperience: w.ExtractedInfo.YearsOfExperience,
		},
		RedFlags: w.RedFlags,
	}
	for _, c := range w.Criteria {
		out.Criteria = append(out.Criteria, candidates.CriterionScore{
			Criterion: c.Criterion,
			Score:     c.Score,
			Met:       string(c.Met),
			Evidence:  c.Evidence,
		})
	}
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

var _ llm.Provider = (*Client)(nil)
