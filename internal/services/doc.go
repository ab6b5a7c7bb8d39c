// Package services defines shared utilities consumed by the pipeline stages and
// their external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, stage names, and correlation
//     identifiers for logging.
//   - The error taxonomy (ErrRemoteFetch, ErrComposition, ...) plus the Wrap
//     helper that tags failures with a marker and stage context, and KindOf
//     which turns a marker back into a stable name for logs and run history.
//
// Sub-packages hold the HTTP clients for the issue tracker, completion,
// speech, and video-hosting services.
package services
