package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/avetrov/contentaudit/internal/facts"
)

// OpenAIVerifier verifies claims through OpenAI's Chat Completions API.
type OpenAIVerifier struct {
	client *openai.Client
	config Config
}

// NewOpenAIVerifier creates a new OpenAI-backed verifier.
func NewOpenAIVerifier(config Config) (*OpenAIVerifier, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAIVerifier{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// Name returns the provider name.
func (v *OpenAIVerifier) Name() string {
	return "openai"
}

// IsAvailable checks if the provider is properly configured and reachable.
func (v *OpenAIVerifier) IsAvailable(ctx context.Context) bool {
	_, err := v.client.ListModels(ctx)
	return err == nil
}

// Verify assesses one claim and maps the model's JSON reply to a
// verification result.
func (v *OpenAIVerifier) Verify(ctx context.Context, claimText string) (facts.Verification, error) {
	model := v.config.Model
	if model == "" {
		model = openai.GPT4oMini
	}

	maxTokens := v.config.MaxTokens
	if maxTokens == 0 {
		maxTokens = 600
	}

	timeout := time.Duration(v.config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: verifierSystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildPrompt(claimText),
			},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.1, // Verification should be as deterministic as the API allows
	}

	resp, err := v.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return facts.Verification{}, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return facts.Verification{}, fmt.Errorf("no response from OpenAI")
	}

	return parseVerification(strings.TrimSpace(resp.Choices[0].Message.Content))
}
