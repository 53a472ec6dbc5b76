package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/avetrov/contentaudit/internal/model"
)

func TestNewOpenAIVerifier_RequiresKey(t *testing.T) {
	if _, err := NewOpenAIVerifier(Config{}); err == nil {
		t.Error("expected an error without an API key")
	}
}

func TestOpenAIVerifier_Verify(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		resp := map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  "gpt-4o-mini",
			"choices": []map[string]any{
				{
					"index": 0,
					"message": map[string]any{
						"role":    "assistant",
						"content": `{"status": "verified", "sources": [{"url": "https://example.com/stats", "title": "Stats"}], "suggestion": ""}`,
					},
					"finish_reason": "stop",
				},
			},
			"usage": map[string]any{"total_tokens": 120},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	v, err := NewOpenAIVerifier(Config{APIKey: "sk-test", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := v.Verify(context.Background(), "mobile traffic is 62% of the web")
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if got.Status != model.StatusVerified {
		t.Errorf("expected verified, got %s", got.Status)
	}
	if len(got.Sources) != 1 || got.Sources[0].URL != "https://example.com/stats" {
		t.Errorf("sources lost: %v", got.Sources)
	}
}

func TestOpenAIVerifier_MalformedReply(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"id":     "chatcmpl-2",
			"object": "chat.completion",
			"model":  "gpt-4o-mini",
			"choices": []map[string]any{
				{
					"index": 0,
					"message": map[string]any{
						"role":    "assistant",
						"content": "I think this claim is probably accurate.",
					},
					"finish_reason": "stop",
				},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	v, _ := NewOpenAIVerifier(Config{APIKey: "sk-test", BaseURL: server.URL})

	_, err := v.Verify(context.Background(), "mobile traffic is 62% of the web")
	if err == nil {
		t.Error("expected a parse error for a prose reply")
	}
}
