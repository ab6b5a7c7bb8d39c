package services

import (
	"errors"
	"fmt"
	"strings"
)

// Error markers classify pipeline failures. Stage code wraps every fatal
// failure with exactly one marker through Wrap.
var (
	ErrRemoteFetch       = errors.New("remote fetch error")
	ErrScriptGeneration  = errors.New("script generation error")
	ErrAudioSynthesis    = errors.New("audio synthesis error")
	ErrSlideRender       = errors.New("slide render error")
	ErrComposition       = errors.New("composition error")
	ErrAuth              = errors.New("auth error")
	ErrUpload            = errors.New("upload error")
	ErrLinkPost          = errors.New("link post error")
	ErrDependencyMissing = errors.New("dependency missing")
	ErrConfiguration     = errors.New("configuration error")
	ErrValidation        = errors.New("validation error")
)

var markerKinds = []struct {
	marker error
	kind   string
}{
	{ErrRemoteFetch, "remote_fetch"},
	{ErrScriptGeneration, "script_generation"},
	{ErrAudioSynthesis, "audio_synthesis"},
	{ErrSlideRender, "slide_render"},
	{ErrComposition, "composition"},
	{ErrAuth, "auth"},
	{ErrUpload, "upload"},
	{ErrLinkPost, "link_post"},
	{ErrDependencyMissing, "dependency_missing"},
	{ErrConfiguration, "configuration"},
	{ErrValidation, "validation"},
}

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrValidation
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// KindOf returns a stable snake_case name for the marker carried by err, or
// "unknown" when err carries none.
func KindOf(err error) string {
	if err == nil {
		return ""
	}
	for _, entry := range markerKinds {
		if errors.Is(err, entry.marker) {
			return entry.kind
		}
	}
	return "unknown"
}

// IsFatal reports whether err should abort a run. Link posting is the only
// failure the pipeline absorbs.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, ErrLinkPost)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
