// Package speech wraps an OpenAI-compatible text-to-speech endpoint. A call
// returns the encoded audio bytes exactly as the service produced them.
package speech
