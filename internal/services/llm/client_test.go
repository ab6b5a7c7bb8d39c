package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func completionServer(t *testing.T, content string, capture *chatCompletionRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test" {
			t.Errorf("unexpected auth header %q", got)
		}
		if capture != nil {
			if err := json.NewDecoder(r.Body).Decode(capture); err != nil {
				t.Errorf("decode request: %v", err)
			}
		}
		payload := map[string]any{
			"choices": []any{
				map[string]any{"message": map[string]any{"content": content}, "finish_reason": "stop"},
			},
		}
		_ = json.NewEncoder(w).Encode(payload)
	}))
}

func TestCompleteSendsPromptAndReturnsContent(t *testing.T) {
	var got chatCompletionRequest
	server := completionServer(t, "Here is your script: {\"title\":\"x\"}", &got)
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "gpt-4o-mini"})
	content, err := client.Complete(context.Background(), Request{
		System:      "system prompt",
		User:        "user prompt",
		Temperature: 0.7,
		MaxTokens:   4000,
	})
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if content != "Here is your script: {\"title\":\"x\"}" {
		t.Fatalf("unexpected content %q", content)
	}
	if got.Model != "gpt-4o-mini" || got.Temperature != 0.7 || got.MaxTokens != 4000 {
		t.Fatalf("unexpected request payload %+v", got)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Content != "user prompt" {
		t.Fatalf("unexpected messages %+v", got.Messages)
	}
	if got.ResponseFormat != nil {
		t.Fatalf("expected no response_format, got %v", got.ResponseFormat)
	}
}

func TestCompleteDoesNotRetry(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"message":"overloaded"}}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL})
	_, err := client.Complete(context.Background(), Request{User: "hi"})
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 status error, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected exactly one request, got %d", calls.Load())
	}
}

func TestCompleteRequiresAPIKey(t *testing.T) {
	client := NewClient(Config{})
	if _, err := client.Complete(context.Background(), Request{User: "hi"}); err == nil {
		t.Fatal("expected error without api key")
	}
}

func TestHealthCheckCodeFence(t *testing.T) {
	var got chatCompletionRequest
	server := completionServer(t, "```json\n{\"ok\":true}\n```", &got)
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo"})
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck returned error: %v", err)
	}
	if got.ResponseFormat["type"] != "json_object" {
		t.Fatalf("expected json mode for health check, got %v", got.ResponseFormat)
	}
}
