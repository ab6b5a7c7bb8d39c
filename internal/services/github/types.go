package github

import "time"

// User is the subset of an account the pipeline reads.
type User struct {
	Login string `json:"login"`
}

// Label is an issue label.
type Label struct {
	Name string `json:"name"`
}

// Repository identifies a repository.
type Repository struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
}

// Issue is the issues endpoint payload. PullRequest is non-nil when the
// number refers to a pull request.
type Issue struct {
	Number        int       `json:"number"`
	Title         string    `json:"title"`
	Body          string    `json:"body"`
	HTMLURL       string    `json:"html_url"`
	RepositoryURL string    `json:"repository_url"`
	User          User      `json:"user"`
	Labels        []Label   `json:"labels"`
	CreatedAt     time.Time `json:"created_at"`
	PullRequest   *PullRequestLink `json:"pull_request,omitempty"`
}

// PullRequestLink marks an issue that is really a pull request.
type PullRequestLink struct {
	URL string `json:"url"`
}

// PullRequest is the pulls endpoint payload.
type PullRequest struct {
	Number       int       `json:"number"`
	Title        string    `json:"title"`
	Body         string    `json:"body"`
	HTMLURL      string    `json:"html_url"`
	User         User      `json:"user"`
	Labels       []Label   `json:"labels"`
	CreatedAt    time.Time `json:"created_at"`
	Additions    int       `json:"additions"`
	Deletions    int       `json:"deletions"`
	ChangedFiles int       `json:"changed_files"`
	Base         struct {
		Repo Repository `json:"repo"`
	} `json:"base"`
}

// Comment is an issue comment.
type Comment struct {
	ID        int64     `json:"id"`
	User      User      `json:"user"`
	Body      string    `json:"body"`
	HTMLURL   string    `json:"html_url"`
	CreatedAt time.Time `json:"created_at"`
}

// Commit is an entry from the pull request commits endpoint.
type Commit struct {
	SHA    string `json:"sha"`
	Commit struct {
		Message string `json:"message"`
		Author  struct {
			Name string `json:"name"`
		} `json:"author"`
	} `json:"commit"`
}
