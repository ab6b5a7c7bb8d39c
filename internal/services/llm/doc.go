// Package llm provides a chat completion client for OpenAI-compatible APIs.
//
// The script generator sends one system+user request per run through
// Client.Complete and receives the raw reply text. Replies are free-form, so
// ExtractJSONObject locates the first balanced JSON object while skipping
// braces that appear inside string literals; DecodeLLMJSON builds on it.
//
// The client never retries. A failed request is returned to the caller as is.
// Client.HealthCheck is used by preflight to verify the key and model.
package llm
