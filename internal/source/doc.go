// Package source turns tracker payloads into Record, the immutable input of a
// pipeline run.
//
// Record is a tagged union on Kind: issues carry only Common fields, change
// requests additionally carry *ChangeDetails. Extractor performs the primary
// fetch (fatal on failure) and the best-effort sub-fetches for comments,
// commits and the diff, which log a warning and continue with empty values.
package source
