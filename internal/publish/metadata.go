package publish

import (
	"fmt"
	"strings"

	"issuereel/internal/script"
	"issuereel/internal/source"
	"issuereel/internal/textutil"
)

const (
	maxTitleChars       = 100
	maxDescriptionChars = 5000
	maxDerivedTags      = 30
	maxTags             = 500
)

// vocabulary is matched case-insensitively as substrings, in this order.
var vocabulary = []string{
	"api", "docker", "kubernetes", "graphql", "grpc", "websocket",
	"javascript", "typescript", "python", "golang", "rust", "java", "kotlin", "swift",
	"react", "vue", "angular", "svelte", "node", "deno",
	"database", "postgres", "mysql", "sqlite", "redis", "mongodb", "kafka",
	"security", "authentication", "oauth", "encryption",
	"performance", "cache", "memory leak", "concurrency",
	"testing", "refactor", "documentation", "migration",
	"devops", "terraform", "github actions", "pipeline", "serverless",
	"aws", "azure", "linux", "frontend", "backend", "microservice",
	"machine learning", "llm", "open source",
}

// Metadata is what the hosting platform receives with an upload.
type Metadata struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	CategoryID  string   `json:"categoryId"`
	Privacy     string   `json:"privacy"`
	PlaylistID  string   `json:"playlistId,omitempty"`
}

// Defaults are operator-level upload settings.
type Defaults struct {
	Tags       []string
	CategoryID string
	Privacy    string
	PlaylistID string
}

// BuildMetadata derives upload metadata from the script and its record.
func BuildMetadata(vs script.VideoScript, record source.Record, defaults Defaults) Metadata {
	title := strings.TrimSpace(vs.Title)
	if title == "" {
		title = record.Title
	}
	var description strings.Builder
	if desc := strings.TrimSpace(vs.Description); desc != "" {
		description.WriteString(desc)
		description.WriteString("\n\n")
	}
	description.WriteString(Timeline(vs))
	description.WriteString("\n")
	description.WriteString(footer(record))

	corpus := []string{vs.Title, vs.Description}
	for _, section := range vs.Sections {
		corpus = append(corpus, section.Narration)
	}
	tags := mergeTags(ExtractTags(strings.Join(corpus, "\n")), defaults.Tags)

	return Metadata{
		Title:       textutil.Truncate(stripAngles(title), maxTitleChars),
		Description: textutil.Truncate(stripAngles(description.String()), maxDescriptionChars),
		Tags:        tags,
		CategoryID:  defaults.CategoryID,
		Privacy:     defaults.Privacy,
		PlaylistID:  defaults.PlaylistID,
	}
}

// Timeline lists each section heading behind its cumulative M:SS start time.
func Timeline(vs script.VideoScript) string {
	var b strings.Builder
	elapsed := 0
	for index, section := range vs.Sections {
		heading := strings.TrimSpace(section.Heading)
		if heading == "" {
			heading = fmt.Sprintf("Part %d", index+1)
		}
		fmt.Fprintf(&b, "%s %s\n", FormatTimestamp(elapsed), heading)
		elapsed += section.Duration
	}
	return b.String()
}

// FormatTimestamp renders seconds as M:SS.
func FormatTimestamp(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// ExtractTags matches the vocabulary against text, returning at most 30
// unique tags.
func ExtractTags(text string) []string {
	lower := strings.ToLower(text)
	tags := make([]string, 0, maxDerivedTags)
	for _, keyword := range vocabulary {
		if len(tags) == maxDerivedTags {
			break
		}
		if strings.Contains(lower, keyword) {
			tags = append(tags, keyword)
		}
	}
	return tags
}

func mergeTags(derived, defaults []string) []string {
	seen := make(map[string]struct{}, len(derived)+len(defaults))
	merged := make([]string, 0, len(derived)+len(defaults))
	for _, group := range [][]string{derived, defaults} {
		for _, tag := range group {
			tag = strings.TrimSpace(tag)
			key := strings.ToLower(tag)
			if tag == "" {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			if len(merged) == maxTags {
				return merged
			}
			seen[key] = struct{}{}
			merged = append(merged, tag)
		}
	}
	return merged
}

func footer(record source.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Source: %s", record.Reference())
	if record.Provenance.RepositoryID != "" {
		fmt.Fprintf(&b, " in %s", record.Provenance.RepositoryID)
	}
	if record.Provenance.SourceURL != "" {
		fmt.Fprintf(&b, "\n%s", record.Provenance.SourceURL)
	}
	b.WriteString("\n\nNarrated and rendered automatically by issuereel.")
	return b.String()
}

func stripAngles(value string) string {
	return strings.NewReplacer("<", "", ">", "").Replace(value)
}
