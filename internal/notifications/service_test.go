package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"issuereel/internal/config"
	"issuereel/internal/notifications"
)

type captured struct {
	title    string
	tags     string
	priority string
	body     string
}

func newCaptureServer(t *testing.T, status int) (*httptest.Server, *captured) {
	t.Helper()
	got := &captured{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		got.title = r.Header.Get("Title")
		got.tags = r.Header.Get("Tags")
		got.priority = r.Header.Get("Priority")
		got.body = string(data)
		w.WriteHeader(status)
	}))
	t.Cleanup(server.Close)
	return server, got
}

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyRunFailed(context.Background(), "Issue #6", "composing", errors.New("x")); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestNtfyServiceFormatsPayloads(t *testing.T) {
	tests := []struct {
		name           string
		send           func(notifications.Service) error
		expectTitle    string
		expectMessage  string
		expectTags     string
		expectPriority string
	}{
		{
			name: "run started",
			send: func(s notifications.Service) error {
				return s.NotifyRunStarted(context.Background(), "Issue #6", "Demo")
			},
			expectTitle:   "issuereel - Run Started",
			expectMessage: "🎬 Rendering Issue #6: Demo",
			expectTags:    "issuereel,run,started",
		},
		{
			name: "run completed",
			send: func(s notifications.Service) error {
				return s.NotifyRunCompleted(context.Background(), "Issue #6", "https://www.youtube.com/watch?v=abc", 95*time.Second+300*time.Millisecond)
			},
			expectTitle:    "issuereel - Video Ready",
			expectMessage:  "✅ Issue #6 finished in 1m35s\nhttps://www.youtube.com/watch?v=abc",
			expectTags:     "issuereel,run,completed",
			expectPriority: "high",
		},
		{
			name: "run failed",
			send: func(s notifications.Service) error {
				return s.NotifyRunFailed(context.Background(), "Pull Request #7", "composing", errors.New("ffmpeg exited with status 1"))
			},
			expectTitle:    "issuereel - Run Failed",
			expectMessage:  "❌ Pull Request #7 failed during composing: ffmpeg exited with status 1",
			expectTags:     "issuereel,error,alert",
			expectPriority: "high",
		},
		{
			name: "test notification",
			send: func(s notifications.Service) error {
				return s.TestNotification(context.Background())
			},
			expectTitle:    "issuereel - Test",
			expectMessage:  "🧪 Notification system test",
			expectTags:     "issuereel,test",
			expectPriority: "low",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, got := newCaptureServer(t, http.StatusOK)
			cfg := config.Default()
			cfg.Notifications.NtfyTopic = server.URL
			svc := notifications.NewService(&cfg)

			if err := tt.send(svc); err != nil {
				t.Fatalf("send returned error: %v", err)
			}
			if got.title != tt.expectTitle {
				t.Errorf("title = %q, want %q", got.title, tt.expectTitle)
			}
			if got.body != tt.expectMessage {
				t.Errorf("message = %q, want %q", got.body, tt.expectMessage)
			}
			if got.tags != tt.expectTags {
				t.Errorf("tags = %q, want %q", got.tags, tt.expectTags)
			}
			if got.priority != tt.expectPriority {
				t.Errorf("priority = %q, want %q", got.priority, tt.expectPriority)
			}
		})
	}
}

func TestNtfyServiceReportsHTTPErrors(t *testing.T) {
	server, _ := newCaptureServer(t, http.StatusForbidden)
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	if err := notifications.NewService(&cfg).TestNotification(context.Background()); err == nil {
		t.Fatal("expected error for 403 response")
	}
}
