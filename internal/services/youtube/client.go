package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	defaultUploadURL   = "https://www.googleapis.com/upload/youtube/v3/videos"
	defaultAPIBaseURL  = "https://www.googleapis.com/youtube/v3"
	defaultHTTPTimeout = 10 * time.Minute
)

// Config captures OAuth credentials and endpoints.
type Config struct {
	ClientID       string
	ClientSecret   string
	RefreshToken   string
	TokenURL       string
	UploadURL      string
	APIBaseURL     string
	TimeoutSeconds int
}

// Client drives the token exchange, resumable upload and playlist insert.
type Client struct {
	cfg        Config
	oauth      *oauth2.Config
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

// NewClient constructs a video-hosting client.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	cfg.TokenURL = firstNonEmpty(cfg.TokenURL, google.Endpoint.TokenURL)
	cfg.UploadURL = firstNonEmpty(cfg.UploadURL, defaultUploadURL)
	cfg.APIBaseURL = strings.TrimRight(firstNonEmpty(cfg.APIBaseURL, defaultAPIBaseURL), "/")
	endpoint := google.Endpoint
	endpoint.TokenURL = cfg.TokenURL
	endpoint.AuthStyle = oauth2.AuthStyleInParams
	client := &Client{
		cfg: cfg,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     endpoint,
		},
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// StatusError reports a non-2xx response.
type StatusError struct {
	Operation  string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	body := strings.Join(strings.Fields(e.Body), " ")
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("youtube %s: http %d: %s", e.Operation, e.StatusCode, body)
}

// VideoMetadata is the snippet and status sent with the upload session.
type VideoMetadata struct {
	Title       string
	Description string
	Tags        []string
	CategoryID  string
	Privacy     string
}

// Video is the resource returned once the bytes are transferred.
type Video struct {
	ID      string `json:"id"`
	Snippet struct {
		Title string `json:"title"`
	} `json:"snippet"`
	Status struct {
		UploadStatus  string `json:"uploadStatus"`
		PrivacyStatus string `json:"privacyStatus"`
	} `json:"status"`
}

// RefreshAccessToken exchanges the configured refresh token for an access token.
func (c *Client) RefreshAccessToken(ctx context.Context) (*oauth2.Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	token, err := c.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: c.cfg.RefreshToken}).Token()
	if err != nil {
		return nil, fmt.Errorf("youtube token: %w", err)
	}
	return token, nil
}

// InitUpload opens a resumable upload session and returns its URL from the
// Location header.
func (c *Client) InitUpload(ctx context.Context, token *oauth2.Token, meta VideoMetadata, contentLength int64, contentType string) (string, error) {
	body := map[string]any{
		"snippet": map[string]any{
			"title":       meta.Title,
			"description": meta.Description,
			"tags":        meta.Tags,
			"categoryId":  meta.CategoryID,
		},
		"status": map[string]any{
			"privacyStatus":           meta.Privacy,
			"selfDeclaredMadeForKids": false,
		},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("youtube encode metadata: %w", err)
	}

	endpoint, err := url.Parse(c.cfg.UploadURL)
	if err != nil {
		return "", fmt.Errorf("youtube upload url: %w", err)
	}
	query := endpoint.Query()
	query.Set("uploadType", "resumable")
	query.Set("part", "snippet,status")
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("youtube init request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	req.Header.Set("X-Upload-Content-Length", strconv.FormatInt(contentLength, 10))
	req.Header.Set("X-Upload-Content-Type", contentType)

	resp, err := c.send(token, req, "upload init")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	location := strings.TrimSpace(resp.Header.Get("Location"))
	if location == "" {
		return "", errors.New("youtube upload init: response missing Location header")
	}
	return location, nil
}

// UploadBytes transfers the full payload to the session URL.
func (c *Client) UploadBytes(ctx context.Context, token *oauth2.Token, sessionURL string, content io.Reader, contentLength int64, contentType string) (Video, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, sessionURL, content)
	if err != nil {
		return Video{}, fmt.Errorf("youtube upload request: %w", err)
	}
	req.ContentLength = contentLength
	req.Header.Set("Content-Type", contentType)

	resp, err := c.send(token, req, "upload")
	if err != nil {
		return Video{}, err
	}
	defer resp.Body.Close()

	var video Video
	if err := json.NewDecoder(resp.Body).Decode(&video); err != nil {
		return Video{}, fmt.Errorf("youtube decode video: %w", err)
	}
	if strings.TrimSpace(video.ID) == "" {
		return Video{}, errors.New("youtube upload: response missing video id")
	}
	return video, nil
}

// AddToPlaylist inserts the video into a playlist.
func (c *Client) AddToPlaylist(ctx context.Context, token *oauth2.Token, playlistID, videoID string) error {
	payload, err := json.Marshal(map[string]any{
		"snippet": map[string]any{
			"playlistId": playlistID,
			"resourceId": map[string]string{
				"kind":    "youtube#video",
				"videoId": videoID,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("youtube encode playlist item: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIBaseURL+"/playlistItems?part=snippet", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("youtube playlist request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.send(token, req, "playlist insert")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// authorized returns an HTTP client that signs requests with token.
func (c *Client) authorized(token *oauth2.Token) *http.Client {
	return &http.Client{
		Timeout: c.httpClient.Timeout,
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(token),
			Base:   c.httpClient.Transport,
		},
	}
}

func (c *Client) send(token *oauth2.Token, req *http.Request, operation string) (*http.Response, error) {
	resp, err := c.authorized(token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("youtube %s: %w", operation, err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		defer resp.Body.Close()
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{Operation: operation, StatusCode: resp.StatusCode, Body: string(data)}
	}
	return resp, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
