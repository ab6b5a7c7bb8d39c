package speech

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSynthesizeSendsPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer key" {
			t.Errorf("missing auth header")
		}
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode: %v", err)
		}
		if payload["model"] != "tts-1" || payload["voice"] != "alloy" || payload["response_format"] != "mp3" {
			t.Errorf("unexpected payload %v", payload)
		}
		if payload["input"] != "Hello there" || payload["speed"] != 1.25 {
			t.Errorf("unexpected payload %v", payload)
		}
		_, _ = w.Write([]byte("ID3audio"))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "key", BaseURL: server.URL})
	audio, err := client.Synthesize(context.Background(), Request{
		Model: "tts-1", Input: "Hello there", Voice: "alloy", Speed: 1.25, Format: "mp3",
	})
	if err != nil {
		t.Fatalf("Synthesize returned error: %v", err)
	}
	if string(audio) != "ID3audio" {
		t.Fatalf("unexpected audio %q", audio)
	}
}

func TestSynthesizeStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, "slow down")
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	_, err := client.Synthesize(context.Background(), Request{Input: "x"})
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429 status error, got %v", err)
	}
}

func TestSynthesizeRejectsEmptyInput(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://127.0.0.1:1"})
	if _, err := client.Synthesize(context.Background(), Request{Input: "  "}); err == nil {
		t.Fatal("expected error for empty input")
	}
}
