package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/avetrov/contentaudit/internal/facts"
)

const (
	anthropicAPIURL  = "https://api.anthropic.com/v1/messages"
	anthropicVersion = "2023-06-01"
)

// AnthropicVerifier verifies claims through Anthropic's Messages API.
type AnthropicVerifier struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	config     Config
}

// Anthropic API structures
type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Messages    []anthropicMessage `json:"messages"`
	System      string             `json:"system,omitempty"`
	Temperature float64            `json:"temperature,omitempty"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	ID      string `json:"id"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Model string `json:"model"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewAnthropicVerifier creates a new Anthropic-backed verifier.
func NewAnthropicVerifier(config Config) (*AnthropicVerifier, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required")
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = anthropicAPIURL
	}

	timeout := time.Duration(config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &AnthropicVerifier{
		apiKey:  config.APIKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		config: config,
	}, nil
}

// Name returns the provider name.
func (v *AnthropicVerifier) Name() string {
	return "anthropic"
}

// IsAvailable reports whether the verifier is configured.
func (v *AnthropicVerifier) IsAvailable(_ context.Context) bool {
	return v.apiKey != ""
}

// Verify assesses one claim through the Messages API.
func (v *AnthropicVerifier) Verify(ctx context.Context, claimText string) (facts.Verification, error) {
	model := v.config.Model
	if model == "" {
		model = "claude-3-5-haiku-latest"
	}

	maxTokens := v.config.MaxTokens
	if maxTokens == 0 {
		maxTokens = 600
	}

	apiReq := anthropicRequest{
		Model:     model,
		MaxTokens: maxTokens,
		System:    verifierSystemPrompt,
		Messages: []anthropicMessage{
			{Role: "user", Content: buildPrompt(claimText)},
		},
		Temperature: 0.1,
	}

	body, err := json.Marshal(apiReq)
	if err != nil {
		return facts.Verification{}, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, v.baseURL, bytes.NewReader(body))
	if err != nil {
		return facts.Verification{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", v.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	httpResp, err := v.httpClient.Do(httpReq)
	if err != nil {
		return facts.Verification{}, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return facts.Verification{}, fmt.Errorf("read response: %w", err)
	}

	var resp anthropicResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return facts.Verification{}, fmt.Errorf("unmarshal response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		if resp.Error != nil {
			return facts.Verification{}, fmt.Errorf("API error (%d): %s", httpResp.StatusCode, resp.Error.Message)
		}
		return facts.Verification{}, fmt.Errorf("API error (%d): %s", httpResp.StatusCode, string(respBody))
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if strings.TrimSpace(text) == "" {
		return facts.Verification{}, fmt.Errorf("empty response from Anthropic")
	}

	return parseVerification(text)
}
