// Package command wraps subprocess execution behind a single synchronous call:
// spawn, wait, and capture stdout, stderr, and the exit code. The encoder,
// the probe, and the optional slide rasterizer all run through Runner so tests
// can substitute stub binaries or fakes.
package command
