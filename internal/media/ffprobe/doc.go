// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Inspect runs ffprobe through a command.Runner and returns a Result whose
// helpers expose the measured duration, resolution, frame rate, and bitrate
// of an encoded file. The composer uses it to log what was actually written.
package ffprobe
