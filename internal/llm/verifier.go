// Package llm implements fact-claim verifiers backed by language model
// providers. Every provider answers the same narrow question: given one
// claim, is it verified, disputed, outdated, or unverifiable, and which
// sources say so.
package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/avetrov/contentaudit/internal/facts"
	"github.com/avetrov/contentaudit/internal/model"
)

// Config holds verifier provider configuration.
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider:  "", // Disabled by default
		Model:     "",
		Timeout:   30,
		MaxTokens: 600,
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config.
func ConfigFromModel(mc model.LLMConfig, http model.HTTPConfig) Config {
	return Config{
		Provider:   mc.Provider,
		Model:      mc.Model,
		APIKey:     mc.APIKey,
		BaseURL:    mc.BaseURL,
		Timeout:    mc.Timeout,
		MaxTokens:  mc.MaxTokens,
		HTTPProxy:  http.HTTPProxy,
		HTTPSProxy: http.HTTPSProxy,
		NoProxy:    http.NoProxy,
	}
}

// New creates a claim verifier based on configuration. An empty provider
// returns (nil, nil): verification disabled, the pipeline falls back to
// its noop verifier.
func New(config Config) (facts.Verifier, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIVerifier(config)

	case "anthropic", "claude":
		return NewAnthropicVerifier(config)

	case "ollama":
		return NewOllamaVerifier(config)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown verifier provider: %s (supported: openai, anthropic, ollama)", config.Provider)
	}
}

const verifierSystemPrompt = "You are a fact-checking assistant. You assess whether a single claim " +
	"is supported by reliable public knowledge. You never assert truth beyond what sources support, " +
	"and you respond with strict JSON only."

// buildPrompt constructs the verification prompt for one claim.
func buildPrompt(claimText string) string {
	return fmt.Sprintf(`Assess the following claim and respond with ONLY a JSON object, no prose, no code fences.

Claim: %q

JSON schema:
{
  "status": "verified" | "disputed" | "outdated" | "unable_to_verify",
  "sources": [{"url": "https://...", "title": "..."}],
  "suggestion": "one sentence on how to fix or strengthen the claim, or empty"
}

Rules:
1. "verified" only when you know of concrete supporting sources; list them.
2. "disputed" when credible sources contradict the claim.
3. "outdated" when the claim was once accurate but newer data supersedes it.
4. "unable_to_verify" when you cannot judge; leave sources empty.
5. Never invent URLs. Omit sources you are not confident exist.`, claimText)
}

// verifierReply is the JSON shape every provider must return.
type verifierReply struct {
	Status     string `json:"status"`
	Sources    []struct {
		URL   string `json:"url"`
		Title string `json:"title"`
	} `json:"sources"`
	Suggestion string `json:"suggestion"`
}

var validStatuses = map[model.VerificationStatus]bool{
	model.StatusVerified:       true,
	model.StatusDisputed:       true,
	model.StatusOutdated:       true,
	model.StatusUnableToVerify: true,
}

// parseVerification decodes a provider reply. Models occasionally wrap
// the JSON in code fences despite instructions, so fences are stripped
// before decoding.
func parseVerification(raw string) (facts.Verification, error) {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var reply verifierReply
	if err := json.Unmarshal([]byte(text), &reply); err != nil {
		return facts.Verification{}, fmt.Errorf("parse verifier reply: %w", err)
	}

	status := model.VerificationStatus(strings.ToLower(strings.TrimSpace(reply.Status)))
	if !validStatuses[status] {
		return facts.Verification{}, fmt.Errorf("verifier returned unknown status %q", reply.Status)
	}

	result := facts.Verification{
		Status:     status,
		Suggestion: strings.TrimSpace(reply.Suggestion),
	}
	for _, s := range reply.Sources {
		url := strings.TrimSpace(s.URL)
		if url == "" || !strings.HasPrefix(url, "http") {
			continue
		}
		result.Sources = append(result.Sources, model.VerificationSource{
			URL:   url,
			Title: strings.TrimSpace(s.Title),
		})
	}

	return result, nil
}
