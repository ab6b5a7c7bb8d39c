package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ExtractJSONObject returns the first balanced {...} block in content.
// Braces inside JSON strings (including escaped quotes) are ignored, so
// surrounding prose and code fences are tolerated.
func ExtractJSONObject(content string) (string, bool) {
	start := strings.IndexByte(content, '{')
	for start >= 0 {
		if end, ok := matchBrace(content, start); ok {
			return content[start : end+1], true
		}
		next := strings.IndexByte(content[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return "", false
}

func matchBrace(content string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(content); i++ {
		ch := content[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// DecodeLLMJSON decodes the first JSON object found in an LLM reply.
func DecodeLLMJSON(content string, target any) error {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return errors.New("empty payload")
	}
	if err := json.Unmarshal([]byte(trimmed), target); err == nil {
		return nil
	}
	block, ok := ExtractJSONObject(trimmed)
	if !ok {
		return fmt.Errorf("no JSON object found (payload snippet: %s)", summarizePayloadSnippet(trimmed))
	}
	if err := json.Unmarshal([]byte(block), target); err != nil {
		return fmt.Errorf("%w (payload snippet: %s)", err, summarizePayloadSnippet(block))
	}
	return nil
}

func summarizePayloadSnippet(content string) string {
	clean := strings.Join(strings.Fields(content), " ")
	if clean == "" {
		return "<empty>"
	}
	const limit = 160
	runes := []rune(clean)
	if len(runes) > limit {
		clean = string(runes[:limit]) + "..."
	}
	return clean
}
