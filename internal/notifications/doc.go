// Package notifications pushes run milestones to ntfy.
//
// NewService returns a no-op implementation when no topic is configured, so
// the pipeline can notify unconditionally.
package notifications
