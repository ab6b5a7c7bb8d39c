package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gogithub "github.com/google/go-github/v72/github"
)

const (
	defaultBaseURL     = "https://api.github.com"
	defaultHTTPTimeout = 30 * time.Second
	maxDiffBytes       = 1 << 20
	pageSize           = 100
)

// Config captures the tracker connection settings.
type Config struct {
	Token          string
	BaseURL        string
	TimeoutSeconds int
}

// Client talks to the GitHub REST v3 API through go-github. Each method makes
// a single request; rate-limit and abuse responses are not retried.
type Client struct {
	cfg        Config
	httpClient *http.Client
	api        *gogithub.Client
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

// NewClient constructs a tracker client. A BaseURL other than the public API
// points the client at an Enterprise host or a test server.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			Token:          strings.TrimSpace(cfg.Token),
			BaseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		httpClient: &http.Client{Timeout: timeout},
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = defaultBaseURL
	}
	for _, opt := range opts {
		opt(client)
	}

	api := gogithub.NewClient(client.httpClient)
	if client.cfg.Token != "" {
		api = api.WithAuthToken(client.cfg.Token)
	}
	if client.cfg.BaseURL != defaultBaseURL {
		if base, err := url.Parse(client.cfg.BaseURL + "/"); err == nil {
			api.BaseURL = base
		}
	}
	client.api = api
	return client
}

// StatusError reports a non-2xx response. It is the only failure signal the
// pipeline consumes from the tracker.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
	Err        error
}

func (e *StatusError) Error() string {
	body := strings.Join(strings.Fields(e.Body), " ")
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("github %s %s: http %d: %s", e.Method, e.Path, e.StatusCode, body)
}

func (e *StatusError) Unwrap() error { return e.Err }

// GetIssue fetches /repos/{owner}/{repo}/issues/{number}.
func (c *Client) GetIssue(ctx context.Context, owner, repo string, number int) (Issue, error) {
	issue, _, err := c.api.Issues.Get(ctx, owner, repo, number)
	if err != nil {
		return Issue{}, translate(http.MethodGet, repoPath(owner, repo, "issues", number), err)
	}
	converted := Issue{
		Number:        issue.GetNumber(),
		Title:         issue.GetTitle(),
		Body:          issue.GetBody(),
		HTMLURL:       issue.GetHTMLURL(),
		RepositoryURL: issue.GetRepositoryURL(),
		User:          User{Login: issue.GetUser().GetLogin()},
		Labels:        convertLabels(issue.Labels),
		CreatedAt:     issue.GetCreatedAt().Time,
	}
	if issue.PullRequestLinks != nil {
		converted.PullRequest = &PullRequestLink{URL: issue.PullRequestLinks.GetURL()}
	}
	return converted, nil
}

// GetPullRequest fetches /repos/{owner}/{repo}/pulls/{number}.
func (c *Client) GetPullRequest(ctx context.Context, owner, repo string, number int) (PullRequest, error) {
	pr, _, err := c.api.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		return PullRequest{}, translate(http.MethodGet, repoPath(owner, repo, "pulls", number), err)
	}
	converted := PullRequest{
		Number:       pr.GetNumber(),
		Title:        pr.GetTitle(),
		Body:         pr.GetBody(),
		HTMLURL:      pr.GetHTMLURL(),
		User:         User{Login: pr.GetUser().GetLogin()},
		Labels:       convertLabels(pr.Labels),
		CreatedAt:    pr.GetCreatedAt().Time,
		Additions:    pr.GetAdditions(),
		Deletions:    pr.GetDeletions(),
		ChangedFiles: pr.GetChangedFiles(),
	}
	converted.Base.Repo = Repository{
		ID:       pr.GetBase().GetRepo().GetID(),
		FullName: pr.GetBase().GetRepo().GetFullName(),
	}
	return converted, nil
}

// ListIssueComments fetches the first page (up to 100) of comments in creation order.
func (c *Client) ListIssueComments(ctx context.Context, owner, repo string, number int) ([]Comment, error) {
	raw, _, err := c.api.Issues.ListComments(ctx, owner, repo, number, &gogithub.IssueListCommentsOptions{
		ListOptions: gogithub.ListOptions{PerPage: pageSize},
	})
	if err != nil {
		return nil, translate(http.MethodGet, repoPath(owner, repo, "issues", number)+"/comments", err)
	}
	comments := make([]Comment, 0, len(raw))
	for _, comment := range raw {
		comments = append(comments, convertComment(comment))
	}
	return comments, nil
}

// ListPullCommits fetches the first page (up to 100) of commits on a pull request.
func (c *Client) ListPullCommits(ctx context.Context, owner, repo string, number int) ([]Commit, error) {
	raw, _, err := c.api.PullRequests.ListCommits(ctx, owner, repo, number, &gogithub.ListOptions{PerPage: pageSize})
	if err != nil {
		return nil, translate(http.MethodGet, repoPath(owner, repo, "pulls", number)+"/commits", err)
	}
	commits := make([]Commit, 0, len(raw))
	for _, entry := range raw {
		var commit Commit
		commit.SHA = entry.GetSHA()
		commit.Commit.Message = entry.GetCommit().GetMessage()
		commit.Commit.Author.Name = entry.GetCommit().GetAuthor().GetName()
		commits = append(commits, commit)
	}
	return commits, nil
}

// GetPullDiff fetches the unified diff of a pull request, capped at 1 MiB.
func (c *Client) GetPullDiff(ctx context.Context, owner, repo string, number int) (string, error) {
	diff, _, err := c.api.PullRequests.GetRaw(ctx, owner, repo, number, gogithub.RawOptions{Type: gogithub.Diff})
	if err != nil {
		return "", translate(http.MethodGet, repoPath(owner, repo, "pulls", number), err)
	}
	if len(diff) > maxDiffBytes {
		diff = diff[:maxDiffBytes]
	}
	return diff, nil
}

// CreateIssueComment posts a comment on an issue or pull request.
func (c *Client) CreateIssueComment(ctx context.Context, owner, repo string, number int, body string) (Comment, error) {
	created, _, err := c.api.Issues.CreateComment(ctx, owner, repo, number, &gogithub.IssueComment{Body: gogithub.Ptr(body)})
	if err != nil {
		return Comment{}, translate(http.MethodPost, repoPath(owner, repo, "issues", number)+"/comments", err)
	}
	return convertComment(created), nil
}

// RemainingRequests reports the core rate-limit budget. It doubles as a token
// check because /rate_limit rejects bad credentials. A response without a core
// section yields -1.
func (c *Client) RemainingRequests(ctx context.Context) (int, error) {
	limits, _, err := c.api.RateLimit.Get(ctx)
	if err != nil {
		return 0, translate(http.MethodGet, "/rate_limit", err)
	}
	core := limits.GetCore()
	if core == nil {
		return -1, nil
	}
	return core.Remaining, nil
}

// translate folds go-github failures into StatusError when a response exists.
func translate(method, path string, err error) error {
	var apiErr *gogithub.ErrorResponse
	if errors.As(err, &apiErr) && apiErr.Response != nil {
		return &StatusError{Method: method, Path: path, StatusCode: apiErr.Response.StatusCode, Body: apiErr.Message, Err: err}
	}
	var rateErr *gogithub.RateLimitError
	if errors.As(err, &rateErr) && rateErr.Response != nil {
		return &StatusError{Method: method, Path: path, StatusCode: rateErr.Response.StatusCode, Body: rateErr.Message, Err: err}
	}
	var abuseErr *gogithub.AbuseRateLimitError
	if errors.As(err, &abuseErr) && abuseErr.Response != nil {
		return &StatusError{Method: method, Path: path, StatusCode: abuseErr.Response.StatusCode, Body: abuseErr.Message, Err: err}
	}
	return fmt.Errorf("github %s %s: %w", method, path, err)
}

func convertLabels(labels []*gogithub.Label) []Label {
	converted := make([]Label, 0, len(labels))
	for _, label := range labels {
		converted = append(converted, Label{Name: label.GetName()})
	}
	return converted
}

func convertComment(comment *gogithub.IssueComment) Comment {
	return Comment{
		ID:        comment.GetID(),
		User:      User{Login: comment.GetUser().GetLogin()},
		Body:      comment.GetBody(),
		HTMLURL:   comment.GetHTMLURL(),
		CreatedAt: comment.GetCreatedAt().Time,
	}
}

func repoPath(owner, repo, kind string, number int) string {
	return fmt.Sprintf("/repos/%s/%s/%s/%d", url.PathEscape(owner), url.PathEscape(repo), kind, number)
}
