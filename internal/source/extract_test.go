package source

import (
	"context"
	"errors"
	"testing"
	"time"

	"issuereel/internal/services"
	"issuereel/internal/services/github"
)

type fakeTracker struct {
	issue       *github.Issue
	pull        *github.PullRequest
	comments    []github.Comment
	commentsErr error
	commits     []github.Commit
	commitsErr  error
	diff        string
	diffErr     error
	calls       []string
}

var errNotFound = &github.StatusError{Method: "GET", Path: "/x", StatusCode: 404}

func (f *fakeTracker) GetIssue(_ context.Context, _, _ string, _ int) (github.Issue, error) {
	f.calls = append(f.calls, "issue")
	if f.issue == nil {
		return github.Issue{}, errNotFound
	}
	return *f.issue, nil
}

func (f *fakeTracker) GetPullRequest(_ context.Context, _, _ string, _ int) (github.PullRequest, error) {
	f.calls = append(f.calls, "pull")
	if f.pull == nil {
		return github.PullRequest{}, errNotFound
	}
	return *f.pull, nil
}

func (f *fakeTracker) ListIssueComments(context.Context, string, string, int) ([]github.Comment, error) {
	return f.comments, f.commentsErr
}

func (f *fakeTracker) ListPullCommits(context.Context, string, string, int) ([]github.Commit, error) {
	return f.commits, f.commitsErr
}

func (f *fakeTracker) GetPullDiff(context.Context, string, string, int) (string, error) {
	return f.diff, f.diffErr
}

func TestExtractWithoutHintFallsBackToIssue(t *testing.T) {
	tracker := &fakeTracker{
		issue: &github.Issue{Number: 6, Title: "Demo", Body: "Body", User: github.User{Login: "ana"}},
		comments: []github.Comment{
			{User: github.User{Login: "bo"}, Body: "first", CreatedAt: time.Unix(1, 0)},
		},
	}
	record, err := NewExtractor(tracker, nil).Extract(context.Background(), "octo", "widgets", 6, "")
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if record.Kind != KindIssue || record.Change != nil {
		t.Fatalf("expected issue record, got %+v", record)
	}
	if len(tracker.calls) != 2 || tracker.calls[0] != "pull" || tracker.calls[1] != "issue" {
		t.Fatalf("unexpected call order %v", tracker.calls)
	}
	if len(record.Comments) != 1 || record.Comments[0].Author != "bo" {
		t.Fatalf("unexpected comments %+v", record.Comments)
	}
	if err := record.Validate(); err != nil {
		t.Fatalf("record invalid: %v", err)
	}
}

func TestExtractHintSkipsFallback(t *testing.T) {
	tracker := &fakeTracker{issue: &github.Issue{Number: 6, Title: "Demo"}}
	_, err := NewExtractor(tracker, nil).Extract(context.Background(), "octo", "widgets", 6, KindChangeRequest)
	if !errors.Is(err, services.ErrRemoteFetch) {
		t.Fatalf("expected remote fetch error, got %v", err)
	}
	if len(tracker.calls) != 1 || tracker.calls[0] != "pull" {
		t.Fatalf("unexpected calls %v", tracker.calls)
	}
}

func TestExtractChangeRequestDegradesSubFetches(t *testing.T) {
	pull := &github.PullRequest{Number: 7, Title: "Add cache", Additions: 10, Deletions: 2, ChangedFiles: 3}
	pull.Base.Repo.FullName = "octo/widgets"
	tracker := &fakeTracker{
		pull:        pull,
		commentsErr: errNotFound,
		commitsErr:  errNotFound,
		diffErr:     errNotFound,
	}
	record, err := NewExtractor(tracker, nil).Extract(context.Background(), "octo", "widgets", 7, "")
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if record.Kind != KindChangeRequest || record.Change == nil {
		t.Fatalf("expected change request, got %+v", record)
	}
	if record.Change.Additions != 10 || record.Change.ChangedFiles != 3 {
		t.Fatalf("unexpected change details %+v", record.Change)
	}
	if record.Comments == nil || len(record.Comments) != 0 {
		t.Fatalf("expected empty comments, got %#v", record.Comments)
	}
	if len(record.Change.Commits) != 0 || record.Change.Diff != "" {
		t.Fatalf("expected degraded commits and diff, got %+v", record.Change)
	}
	if record.Provenance.RepositoryID != "octo/widgets" {
		t.Fatalf("unexpected provenance %+v", record.Provenance)
	}
}

func TestExtractBothPathsFail(t *testing.T) {
	_, err := NewExtractor(&fakeTracker{}, nil).Extract(context.Background(), "octo", "widgets", 6, "")
	if !errors.Is(err, services.ErrRemoteFetch) {
		t.Fatalf("expected remote fetch error, got %v", err)
	}
}

func TestExtractRejectsNonPositiveNumber(t *testing.T) {
	_, err := NewExtractor(&fakeTracker{}, nil).Extract(context.Background(), "octo", "widgets", 0, "")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestKindLabels(t *testing.T) {
	if KindChangeRequest.Title() != "Pull Request" {
		t.Fatalf("unexpected title %q", KindChangeRequest.Title())
	}
	record := Record{Kind: KindIssue, Common: Common{Number: 6}}
	if record.Reference() != "Issue #6" {
		t.Fatalf("unexpected reference %q", record.Reference())
	}
	if kind, err := ParseKind("pr"); err != nil || kind != KindChangeRequest {
		t.Fatalf("ParseKind(pr) = %q, %v", kind, err)
	}
}
