// Package pipeline runs one record through extraction, scripting, narration,
// slide rendering, composition and publishing.
//
// The Orchestrator owns the state machine. Each stage runs once, in order,
// inside a locked working directory; the first fatal error stops the run,
// marks it failed with the stage name and keeps the directory for
// inspection. Publishing is skipped when no upload credentials are
// configured, and a failed link comment never fails a run. Build wires the
// production clients from configuration.
package pipeline
