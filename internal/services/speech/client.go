package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL     = "https://api.openai.com/v1/audio/speech"
	defaultHTTPTimeout = 60 * time.Second
	maxAudioBytes      = 64 << 20
)

// Config captures the speech service settings.
type Config struct {
	APIKey         string
	BaseURL        string
	TimeoutSeconds int
}

// Request describes one synthesis call.
type Request struct {
	Model  string
	Input  string
	Voice  string
	Speed  float64
	Format string
}

// Client calls an OpenAI-compatible /audio/speech endpoint.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs a speech client.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	client := &Client{cfg: cfg, httpClient: &http.Client{Timeout: timeout}}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// StatusError reports a non-2xx response from the speech service.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	body := strings.Join(strings.Fields(e.Body), " ")
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("speech http %d: %s", e.StatusCode, body)
}

type speechPayload struct {
	Model          string  `json:"model"`
	Input          string  `json:"input"`
	Voice          string  `json:"voice"`
	Speed          float64 `json:"speed,omitempty"`
	ResponseFormat string  `json:"response_format,omitempty"`
}

// Synthesize returns the encoded audio bytes for the request.
func (c *Client) Synthesize(ctx context.Context, req Request) ([]byte, error) {
	if strings.TrimSpace(req.Input) == "" {
		return nil, fmt.Errorf("speech: empty input")
	}
	payload, err := json.Marshal(speechPayload{
		Model:          req.Model,
		Input:          req.Input,
		Voice:          req.Voice,
		Speed:          req.Speed,
		ResponseFormat: req.Format,
	})
	if err != nil {
		return nil, fmt.Errorf("speech encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("speech new request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("speech request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(data)}
	}
	audio, err := io.ReadAll(io.LimitReader(resp.Body, maxAudioBytes))
	if err != nil {
		return nil, fmt.Errorf("speech read audio: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("speech: empty audio response")
	}
	return audio, nil
}
