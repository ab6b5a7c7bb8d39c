package textutil

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// Truncate returns at most limit runes of value. A non-positive limit returns
// the input unchanged.
func Truncate(value string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(value) <= limit {
		return value
	}
	runes := []rune(value)
	return string(runes[:limit])
}

// TruncateWithEllipsis shortens value to limit runes, replacing the last rune
// with "…" when truncation happens.
func TruncateWithEllipsis(value string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(value) <= limit {
		return value
	}
	if limit == 1 {
		return "…"
	}
	return strings.TrimRightFunc(Truncate(value, limit-1), func(r rune) bool { return r == ' ' }) + "…"
}

// WordCount counts whitespace-separated words.
func WordCount(value string) int {
	return len(strings.Fields(value))
}

// NonBlankLines returns up to limit trimmed lines that contain text.
func NonBlankLines(value string, limit int) []string {
	var lines []string
	for line := range strings.Lines(value) {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		lines = append(lines, trimmed)
		if limit > 0 && len(lines) == limit {
			break
		}
	}
	return lines
}

// TitleCase capitalizes each word using English casing rules, so
// "change request" becomes "Change Request".
func TitleCase(value string) string {
	return titleCaser.String(strings.TrimSpace(value))
}
