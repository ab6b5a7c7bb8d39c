package source

import (
	"fmt"
	"strings"
	"time"

	"issuereel/internal/textutil"
)

// Kind discriminates the record variants.
type Kind string

const (
	KindIssue         Kind = "issue"
	KindChangeRequest Kind = "change-request"
)

// ParseKind accepts the canonical names plus the "pr" and "pull" shorthands.
func ParseKind(value string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "":
		return "", nil
	case "issue":
		return KindIssue, nil
	case "change-request", "pr", "pull", "pull-request":
		return KindChangeRequest, nil
	default:
		return "", fmt.Errorf("unknown record kind %q", value)
	}
}

// Label is the lowercase human name used in narration.
func (k Kind) Label() string {
	switch k {
	case KindChangeRequest:
		return "pull request"
	case KindIssue:
		return "issue"
	default:
		return string(k)
	}
}

// Title is Label in title case, used on slides and in descriptions.
func (k Kind) Title() string {
	return textutil.TitleCase(k.Label())
}

// Comment is one discussion entry, kept in creation order.
type Comment struct {
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

// Commit is one change-request commit.
type Commit struct {
	ID         string `json:"id"`
	Message    string `json:"message"`
	AuthorName string `json:"authorName"`
}

// Provenance records where the record came from.
type Provenance struct {
	RepositoryID string `json:"repositoryId"`
	SourceURL    string `json:"sourceUrl"`
}

// Common holds the fields shared by every variant.
type Common struct {
	Number     int        `json:"number"`
	Title      string     `json:"title"`
	Body       string     `json:"body"`
	Author     string     `json:"author"`
	CreatedAt  time.Time  `json:"createdAt"`
	Labels     []string   `json:"labels"`
	Comments   []Comment  `json:"comments"`
	Provenance Provenance `json:"provenance"`
}

// ChangeDetails is present only on change requests.
type ChangeDetails struct {
	Additions    int      `json:"additions"`
	Deletions    int      `json:"deletions"`
	ChangedFiles int      `json:"changedFiles"`
	Commits      []Commit `json:"commits"`
	Diff         string   `json:"diff,omitempty"`
}

// Record is the normalized source. Change is non-nil exactly when Kind is
// KindChangeRequest; callers switch on Kind.
type Record struct {
	Kind Kind `json:"kind"`
	Common
	Change *ChangeDetails `json:"change,omitempty"`
}

// Validate checks the tagged-union invariant and the record number.
func (r Record) Validate() error {
	if r.Number <= 0 {
		return fmt.Errorf("record number must be positive, got %d", r.Number)
	}
	switch r.Kind {
	case KindIssue:
		if r.Change != nil {
			return fmt.Errorf("issue #%d carries change details", r.Number)
		}
	case KindChangeRequest:
		if r.Change == nil {
			return fmt.Errorf("change request #%d is missing change details", r.Number)
		}
	default:
		return fmt.Errorf("unknown record kind %q", r.Kind)
	}
	return nil
}

// Reference renders "<Kind title> #N", for example "Pull Request #7".
func (r Record) Reference() string {
	return fmt.Sprintf("%s #%d", r.Kind.Title(), r.Number)
}
