// Package workdir manages the per-run working directory: its layout, JSON
// snapshots, an advisory flock that keeps a second run out, and removal of
// intermediate media once a run succeeds.
package workdir
