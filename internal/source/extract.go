package source

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"issuereel/internal/logging"
	"issuereel/internal/services"
	"issuereel/internal/services/github"
)

// Tracker is the subset of the tracker client used for extraction.
type Tracker interface {
	GetIssue(ctx context.Context, owner, repo string, number int) (github.Issue, error)
	GetPullRequest(ctx context.Context, owner, repo string, number int) (github.PullRequest, error)
	ListIssueComments(ctx context.Context, owner, repo string, number int) ([]github.Comment, error)
	ListPullCommits(ctx context.Context, owner, repo string, number int) ([]github.Commit, error)
	GetPullDiff(ctx context.Context, owner, repo string, number int) (string, error)
}

// Extractor builds records from live tracker fetches.
type Extractor struct {
	tracker Tracker
	logger  *slog.Logger
}

// NewExtractor constructs an extractor.
func NewExtractor(tracker Tracker, logger *slog.Logger) *Extractor {
	return &Extractor{tracker: tracker, logger: logging.NewComponentLogger(logger, "source")}
}

// Extract fetches record number from owner/repo. With an empty hint the change
// request path is tried first and the issue path is the fallback. With a hint
// only that path runs. Primary fetch failures are fatal; comments, commits and
// the diff degrade to empty.
func (e *Extractor) Extract(ctx context.Context, owner, repo string, number int, hint Kind) (Record, error) {
	if number <= 0 {
		return Record{}, services.Wrap(services.ErrValidation, "extracting", "validate", fmt.Sprintf("record number must be positive, got %d", number), nil)
	}
	if strings.TrimSpace(owner) == "" || strings.TrimSpace(repo) == "" {
		return Record{}, services.Wrap(services.ErrValidation, "extracting", "validate", "owner and repo are required", nil)
	}
	logger := logging.WithContext(ctx, e.logger)

	switch hint {
	case KindIssue:
		return e.extractIssue(ctx, logger, owner, repo, number)
	case KindChangeRequest:
		return e.extractChange(ctx, logger, owner, repo, number)
	case "":
		record, err := e.extractChange(ctx, logger, owner, repo, number)
		if err == nil {
			return record, nil
		}
		logger.Debug("change request fetch failed; trying issue",
			logging.Int("number", number),
			logging.Error(err),
		)
		return e.extractIssue(ctx, logger, owner, repo, number)
	default:
		return Record{}, services.Wrap(services.ErrValidation, "extracting", "validate", fmt.Sprintf("unknown record kind %q", hint), nil)
	}
}

func (e *Extractor) extractIssue(ctx context.Context, logger *slog.Logger, owner, repo string, number int) (Record, error) {
	issue, err := e.tracker.GetIssue(ctx, owner, repo, number)
	if err != nil {
		return Record{}, services.Wrap(services.ErrRemoteFetch, "extracting", "get issue", fmt.Sprintf("%s/%s#%d", owner, repo, number), err)
	}
	record := Record{
		Kind: KindIssue,
		Common: Common{
			Number:    issue.Number,
			Title:     issue.Title,
			Body:      issue.Body,
			Author:    issue.User.Login,
			CreatedAt: issue.CreatedAt,
			Labels:    labelNames(issue.Labels),
			Provenance: Provenance{
				RepositoryID: owner + "/" + repo,
				SourceURL:    issue.HTMLURL,
			},
		},
	}
	record.Comments = e.comments(ctx, logger, owner, repo, number)
	logger.Info("issue extracted",
		logging.Int("number", record.Number),
		logging.String("title", record.Title),
		logging.Int("comments", len(record.Comments)),
	)
	return record, nil
}

func (e *Extractor) extractChange(ctx context.Context, logger *slog.Logger, owner, repo string, number int) (Record, error) {
	pr, err := e.tracker.GetPullRequest(ctx, owner, repo, number)
	if err != nil {
		return Record{}, services.Wrap(services.ErrRemoteFetch, "extracting", "get pull request", fmt.Sprintf("%s/%s#%d", owner, repo, number), err)
	}
	repositoryID := pr.Base.Repo.FullName
	if repositoryID == "" {
		repositoryID = owner + "/" + repo
	}
	record := Record{
		Kind: KindChangeRequest,
		Common: Common{
			Number:    pr.Number,
			Title:     pr.Title,
			Body:      pr.Body,
			Author:    pr.User.Login,
			CreatedAt: pr.CreatedAt,
			Labels:    labelNames(pr.Labels),
			Provenance: Provenance{
				RepositoryID: repositoryID,
				SourceURL:    pr.HTMLURL,
			},
		},
		Change: &ChangeDetails{
			Additions:    pr.Additions,
			Deletions:    pr.Deletions,
			ChangedFiles: pr.ChangedFiles,
		},
	}
	record.Comments = e.comments(ctx, logger, owner, repo, number)

	commits, err := e.tracker.ListPullCommits(ctx, owner, repo, number)
	if err != nil {
		logging.WarnWithContext(logger, "commit fetch failed", "source_commits_unavailable",
			logging.Int("number", number),
			logging.Error(err),
			logging.String(logging.FieldImpact, "script omits commit messages"),
		)
	}
	for _, commit := range commits {
		record.Change.Commits = append(record.Change.Commits, Commit{
			ID:         commit.SHA,
			Message:    commit.Commit.Message,
			AuthorName: commit.Commit.Author.Name,
		})
	}

	diff, err := e.tracker.GetPullDiff(ctx, owner, repo, number)
	if err != nil {
		logging.WarnWithContext(logger, "diff fetch failed", "source_diff_unavailable",
			logging.Int("number", number),
			logging.Error(err),
			logging.String(logging.FieldImpact, "record saved without diff"),
		)
	}
	record.Change.Diff = diff

	logger.Info("pull request extracted",
		logging.Int("number", record.Number),
		logging.String("title", record.Title),
		logging.Int("comments", len(record.Comments)),
		logging.Int("commits", len(record.Change.Commits)),
		logging.Int("changed_files", record.Change.ChangedFiles),
	)
	return record, nil
}

func (e *Extractor) comments(ctx context.Context, logger *slog.Logger, owner, repo string, number int) []Comment {
	raw, err := e.tracker.ListIssueComments(ctx, owner, repo, number)
	if err != nil {
		logging.WarnWithContext(logger, "comment fetch failed", "source_comments_unavailable",
			logging.Int("number", number),
			logging.Error(err),
			logging.String(logging.FieldImpact, "script omits discussion"),
		)
		return []Comment{}
	}
	comments := make([]Comment, 0, len(raw))
	for _, c := range raw {
		comments = append(comments, Comment{Author: c.User.Login, Body: c.Body, CreatedAt: c.CreatedAt})
	}
	return comments
}

func labelNames(labels []github.Label) []string {
	names := make([]string, 0, len(labels))
	for _, label := range labels {
		if name := strings.TrimSpace(label.Name); name != "" {
			names = append(names, name)
		}
	}
	return names
}
