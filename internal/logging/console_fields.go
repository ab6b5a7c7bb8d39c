package logging

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

type infoField struct {
	label string
	value string
}

// highlightKeys are printed first, in this order, when present.
var highlightKeys = []string{
	FieldEventType,
	"status",
	"error",
	FieldErrorKind,
	FieldErrorHint,
	FieldImpact,
	"source_kind",
	"source_number",
	"title",
	"sections",
	"segments",
	"slides",
	"duration_seconds",
	"estimated_seconds",
	"video_path",
	"video_url",
	"stage_duration",
}

func selectFields(attrs []kv, debug bool) ([]infoField, int) {
	used := make([]bool, len(attrs))
	result := make([]infoField, 0, len(attrs))
	hidden := 0

	take := func(idx int) {
		used[idx] = true
		attr := attrs[idx]
		if skipKey(attr.key) {
			return
		}
		if !debug && isDebugOnlyKey(attr.key) {
			hidden++
			return
		}
		value := formatValueForKey(attr.key, attr.value)
		if !debug && len(value) > 160 && attr.key != "error" {
			hidden++
			return
		}
		result = append(result, infoField{label: displayLabel(attr.key), value: value})
	}

	for _, key := range highlightKeys {
		for idx, attr := range attrs {
			if !used[idx] && attr.key == key {
				take(idx)
				break
			}
		}
	}
	for idx := range attrs {
		if !used[idx] {
			take(idx)
		}
	}
	return result, hidden
}

func formatValueForKey(key string, v slog.Value) string {
	v = v.Resolve()
	switch {
	case strings.HasSuffix(key, "_bytes") && v.Kind() == slog.KindInt64:
		return formatBytes(v.Int64())
	case v.Kind() == slog.KindDuration:
		return v.Duration().Round(time.Millisecond).String()
	case strings.HasSuffix(key, "_seconds") && v.Kind() == slog.KindInt64:
		return formatSeconds(v.Int64())
	case v.Kind() == slog.KindBool:
		if v.Bool() {
			return "yes"
		}
		return "no"
	}
	value := formatValue(v)
	if key == "error" && len(value) > 240 {
		value = value[:240] + "…"
	}
	return value
}

func skipKey(key string) bool {
	switch key {
	case "", FieldComponent, FieldRunID, FieldStage, FieldStep:
		return true
	}
	return false
}

func isDebugOnlyKey(key string) bool {
	switch key {
	case "command", "args", "request_url", "stderr":
		return true
	}
	return strings.HasSuffix(key, "_dir") || strings.HasPrefix(key, "ffprobe.")
}

func displayLabel(key string) string {
	switch key {
	case FieldEventType:
		return "Event"
	case FieldErrorHint:
		return "Hint"
	case FieldErrorKind:
		return "Error Kind"
	case "source_kind":
		return "Kind"
	case "source_number":
		return "Number"
	case "duration_seconds", "estimated_seconds":
		return "Duration"
	case "video_path":
		return "Video"
	case "video_url":
		return "URL"
	case "stage_duration":
		return "Elapsed"
	}
	parts := strings.FieldsFunc(key, func(r rune) bool { return r == '_' || r == '-' || r == '.' })
	for i, part := range parts {
		parts[i] = strings.ToUpper(part[:1]) + strings.ToLower(part[1:])
	}
	return strings.Join(parts, " ")
}

func formatSeconds(total int64) string {
	if total < 60 {
		return fmt.Sprintf("%ds", total)
	}
	return fmt.Sprintf("%dm%02ds", total/60, total%60)
}

func formatBytes(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(size)/float64(div), "KMGTPE"[exp])
}
