// Package preflight provides readiness checks for the directories, services
// and binaries issuereel depends on.
//
// The deps command prints every check; generate --check-deps runs the binary
// checks before any stage starts. Service checks are skipped when their
// credentials are not configured.
package preflight
