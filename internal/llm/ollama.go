package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avetrov/contentaudit/internal/facts"
)

func newOllamaProxyFunc(httpProxy, httpsProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	return func(req *http.Request) (*url.URL, error) {
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}

// OllamaVerifier verifies claims through a local Ollama instance.
type OllamaVerifier struct {
	baseURL    string
	httpClient *http.Client
	config     Config
}

// Ollama API structures
type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	System  string        `json:"system,omitempty"`
	Options ollamaOptions `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"` // Max tokens
}

type ollamaResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

type ollamaError struct {
	Error string `json:"error"`
}

// NewOllamaVerifier creates a new Ollama-backed verifier.
func NewOllamaVerifier(config Config) (*OllamaVerifier, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	timeout := time.Duration(config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 60 * time.Second // Local models can be slow
	}

	return &OllamaVerifier{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: newOllamaProxyFunc(config.HTTPProxy, config.HTTPSProxy),
			},
		},
		config: config,
	}, nil
}

// Name returns the provider name.
func (v *OllamaVerifier) Name() string {
	return "ollama"
}

// IsAvailable checks if Ollama is running and reachable.
func (v *OllamaVerifier) IsAvailable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"/api/tags", nil)
	if err != nil {
		return false
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	return resp.StatusCode == http.StatusOK
}

// Verify assesses one claim via Ollama's generate endpoint.
func (v *OllamaVerifier) Verify(ctx context.Context, claimText string) (facts.Verification, error) {
	model := v.config.Model
	if model == "" {
		return facts.Verification{}, fmt.Errorf("ollama model must be specified (e.g., llama3.1:8b, mistral)")
	}

	maxTokens := v.config.MaxTokens
	if maxTokens == 0 {
		maxTokens = 600
	}

	apiReq := ollamaRequest{
		Model:  model,
		Prompt: buildPrompt(claimText),
		Stream: false,
		System: verifierSystemPrompt,
		Options: ollamaOptions{
			Temperature: 0.1,
			NumPredict:  maxTokens,
		},
	}

	resp, err := v.makeRequest(ctx, apiReq)
	if err != nil {
		return facts.Verification{}, fmt.Errorf("ollama API error: %w", err)
	}

	return parseVerification(strings.TrimSpace(resp.Response))
}

// makeRequest posts one generate call to the Ollama API.
func (v *OllamaVerifier) makeRequest(ctx context.Context, apiReq ollamaRequest) (*ollamaResponse, error) {
	body, err := json.Marshal(apiReq)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, v.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := v.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		var apiErr ollamaError
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("API error (%d): %s", httpResp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("API error (%d): %s", httpResp.StatusCode, string(respBody))
	}

	var resp ollamaResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	return &resp, nil
}
