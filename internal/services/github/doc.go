// Package github adapts go-github to the small set of calls the pipeline
// makes: issues, pull requests, comments, commits, the unified diff, and
// comment creation. Every response failure surfaces as *StatusError.
package github
