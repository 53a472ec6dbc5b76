package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/avetrov/contentaudit/internal/model"
)

func TestOllamaVerifier_RequiresModel(t *testing.T) {
	v, err := NewOllamaVerifier(Config{Provider: "ollama"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = v.Verify(context.Background(), "mobile traffic is 62% of the web")
	if err == nil {
		t.Error("expected an error when no model is configured")
	}
}

func TestOllamaVerifier_Verify(t *testing.T) {
	var gotReq ollamaRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		reply := `{"status": "verified", "sources": [{"url": "https://example.com/data", "title": "Data"}], "suggestion": ""}`
		_ = json.NewEncoder(w).Encode(ollamaResponse{
			Model:    "llama3.1:8b",
			Response: reply,
			Done:     true,
		})
	}))
	defer server.Close()

	v, err := NewOllamaVerifier(Config{
		Provider: "ollama",
		Model:    "llama3.1:8b",
		BaseURL:  server.URL,
	})
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
	if len(got.Sources) != 1 {
		t.Errorf("expected one source, got %v", got.Sources)
	}
	if gotReq.Stream {
		t.Error("verifier must request a non-streaming response")
	}
	if gotReq.Model != "llama3.1:8b" {
		t.Errorf("model not forwarded: %s", gotReq.Model)
	}
}

func TestOllamaVerifier_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(ollamaError{Error: "model not found"})
	}))
	defer server.Close()

	v, _ := NewOllamaVerifier(Config{Provider: "ollama", Model: "missing", BaseURL: server.URL})

	_, err := v.Verify(context.Background(), "some claim with 40% in it")
	if err == nil {
		t.Error("expected an error from the API failure")
	}
}

func TestOllamaVerifier_IsAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tags" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	v, _ := NewOllamaVerifier(Config{Provider: "ollama", BaseURL: server.URL})
	if !v.IsAvailable(context.Background()) {
		t.Error("expected the verifier to be available")
	}

	server.Close()
	if v.IsAvailable(context.Background()) {
		t.Error("expected unavailable after server shutdown")
	}
}
