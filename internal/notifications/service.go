package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"issuereel/internal/config"
)

const (
	userAgent       = "issuereel/0.1.0"
	defaultNtfyHost = "https://ntfy.sh/"
)

// Service defines the notification surface used by the pipeline.
type Service interface {
	NotifyRunStarted(ctx context.Context, reference, title string) error
	NotifyRunCompleted(ctx context.Context, reference, location string, duration time.Duration) error
	NotifyRunFailed(ctx context.Context, reference, stage string, err error) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned. A bare
// topic name is published on ntfy.sh.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}
	if !strings.HasPrefix(topic, "http://") && !strings.HasPrefix(topic, "https://") {
		topic = defaultNtfyHost + strings.TrimPrefix(topic, "/")
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifyRunStarted(ctx context.Context, reference, title string) error {
	return n.send(ctx, payload{
		title:   "issuereel - Run Started",
		message: fmt.Sprintf("🎬 Rendering %s: %s", strings.TrimSpace(reference), strings.TrimSpace(title)),
		tags:    []string{"issuereel", "run", "started"},
	})
}

func (n *ntfyService) NotifyRunCompleted(ctx context.Context, reference, location string, duration time.Duration) error {
	duration = max(duration.Round(time.Second), 0)
	message := fmt.Sprintf("✅ %s finished in %s", strings.TrimSpace(reference), duration)
	if location = strings.TrimSpace(location); location != "" {
		message += "\n" + location
	}
	return n.send(ctx, payload{
		title:    "issuereel - Video Ready",
		message:  message,
		tags:     []string{"issuereel", "run", "completed"},
		priority: "high",
	})
}

func (n *ntfyService) NotifyRunFailed(ctx context.Context, reference, stage string, err error) error {
	var builder strings.Builder
	builder.WriteString("❌ ")
	builder.WriteString(strings.TrimSpace(reference))
	if stage = strings.TrimSpace(stage); stage != "" {
		builder.WriteString(" failed during ")
		builder.WriteString(stage)
	} else {
		builder.WriteString(" failed")
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}
	return n.send(ctx, payload{
		title:    "issuereel - Run Failed",
		message:  builder.String(),
		tags:     []string{"issuereel", "error", "alert"},
		priority: "high",
	})
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	return n.send(ctx, payload{
		title:    "issuereel - Test",
		message:  "🧪 Notification system test",
		tags:     []string{"issuereel", "test"},
		priority: "low",
	})
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyRunStarted(context.Context, string, string) error                  { return nil }
func (noopService) NotifyRunCompleted(context.Context, string, string, time.Duration) error { return nil }
func (noopService) NotifyRunFailed(context.Context, string, string, error) error            { return nil }
func (noopService) TestNotification(context.Context) error                                  { return nil }
