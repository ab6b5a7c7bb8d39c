package script

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strings"
	"time"

	"issuereel/internal/logging"
	"issuereel/internal/services"
	"issuereel/internal/services/llm"
	"issuereel/internal/source"
	"issuereel/internal/textutil"
)

const (
	defaultMaxBodyChars = 3000
	promptComments      = 3
	promptCommentChars  = 300
	promptCommits       = 3

	fallbackIntroSeconds   = 15
	fallbackMainSeconds    = 120
	fallbackSummarySeconds = 30
	fallbackBodyChars      = 500
	fallbackBullets        = 5
)

const systemPrompt = `You write narration scripts for short technical explainer videos about GitHub issues and pull requests.
Respond with a single JSON object and nothing else:
{"title": string, "description": string, "sections": [{"type": "intro"|"main"|"code"|"summary"|"outro", "heading": string, "narration": string, "visualNotes": string, "duration": integer seconds, "codeSnippet": string, "bulletPoints": [string]}]}
Open with an intro and close with a summary or outro. Narration is spoken aloud, so avoid markdown.`

// Completer is the completion client used by the generator.
type Completer interface {
	Complete(ctx context.Context, req llm.Request) (string, error)
}

// Options tunes one generation call.
type Options struct {
	MaxBodyChars int
	Temperature  float64
	MaxTokens    int
}

// Generator produces scripts from records.
type Generator struct {
	completer Completer
	logger    *slog.Logger
	now       func() time.Time
}

// NewGenerator constructs a generator.
func NewGenerator(completer Completer, logger *slog.Logger) *Generator {
	return &Generator{
		completer: completer,
		logger:    logging.NewComponentLogger(logger, "script"),
		now:       time.Now,
	}
}

// Generate makes one completion call for record. A failed call is fatal; an
// unparseable reply falls back to a deterministic three-section script.
func (g *Generator) Generate(ctx context.Context, record source.Record, opts Options) (VideoScript, error) {
	logger := logging.WithContext(ctx, g.logger)
	prompt := BuildPrompt(record, opts.MaxBodyChars)

	reply, err := g.completer.Complete(ctx, llm.Request{
		System:      systemPrompt,
		User:        prompt,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
		JSONMode:    true,
	})
	if err != nil {
		return VideoScript{}, services.Wrap(services.ErrScriptGeneration, "script_generating", "complete", record.Reference(), err)
	}

	outcome := parseReply(reply)
	var s VideoScript
	if outcome.ok {
		s = outcome.script
		logger.Info("script parsed from completion",
			logging.Int("sections", len(s.Sections)),
			logging.Int("duration_seconds", s.EstimatedDurationSeconds),
		)
	} else {
		logging.WarnWithContext(logger, "completion reply unusable; using fallback script", "script_fallback",
			logging.String("reason", outcome.reason),
			logging.String(logging.FieldImpact, "video uses a generic three-section script"),
			logging.String(logging.FieldErrorHint, "edit script.json and rerun with --script"),
		)
		s = Fallback(record)
	}
	if strings.TrimSpace(s.Title) == "" {
		s.Title = record.Title
	}
	if strings.TrimSpace(s.Description) == "" {
		s.Description = defaultDescription(record)
	}
	s.Metadata = Metadata{
		SourceKind:   record.Kind,
		SourceNumber: record.Number,
		GeneratedAt:  g.now().UTC(),
	}
	s.Recompute()
	return s, nil
}

type parseOutcome struct {
	script VideoScript
	ok     bool
	reason string
}

type rawSection struct {
	Type         string   `json:"type"`
	Heading      string   `json:"heading"`
	Narration    string   `json:"narration"`
	VisualNotes  string   `json:"visualNotes"`
	Duration     float64  `json:"duration"`
	CodeSnippet  string   `json:"codeSnippet"`
	BulletPoints []string `json:"bulletPoints"`
}

type rawScript struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Sections    []rawSection `json:"sections"`
}

func parseReply(reply string) parseOutcome {
	var raw rawScript
	if err := llm.DecodeLLMJSON(reply, &raw); err != nil {
		return parseOutcome{reason: err.Error()}
	}
	if len(raw.Sections) == 0 {
		return parseOutcome{reason: "reply has no sections"}
	}
	s := VideoScript{
		Title:       strings.TrimSpace(raw.Title),
		Description: strings.TrimSpace(raw.Description),
		Sections:    make([]Section, 0, len(raw.Sections)),
	}
	for _, section := range raw.Sections {
		s.Sections = append(s.Sections, Section{
			Type:         SectionType(section.Type),
			Heading:      section.Heading,
			Narration:    section.Narration,
			VisualNotes:  strings.TrimSpace(section.VisualNotes),
			Duration:     int(math.Floor(section.Duration)),
			CodeSnippet:  strings.TrimRight(section.CodeSnippet, " \n\t"),
			BulletPoints: section.BulletPoints,
		})
	}
	s.normalize()
	return parseOutcome{script: s, ok: true}
}

// Fallback builds the deterministic intro/main/summary script used when the
// completion reply cannot be parsed. Its total is always 165 seconds.
func Fallback(record source.Record) VideoScript {
	label := record.Kind.Label()
	body := strings.TrimSpace(record.Body)
	mainNarration := textutil.Truncate(body, fallbackBodyChars)
	if mainNarration == "" {
		mainNarration = fmt.Sprintf("This %s has no description yet.", label)
	}
	s := VideoScript{
		Title:       record.Title,
		Description: defaultDescription(record),
		Sections: []Section{
			{
				Type:      SectionIntro,
				Heading:   record.Title,
				Narration: fmt.Sprintf("Let's look at %s #%d: %s", label, record.Number, record.Title),
				Duration:  fallbackIntroSeconds,
			},
			{
				Type:         SectionMain,
				Heading:      "Overview",
				Narration:    mainNarration,
				Duration:     fallbackMainSeconds,
				BulletPoints: textutil.NonBlankLines(body, fallbackBullets),
			},
			{
				Type:      SectionSummary,
				Heading:   "Summary",
				Narration: fmt.Sprintf("That wraps up %s #%d. Thanks for watching.", label, record.Number),
				Duration:  fallbackSummarySeconds,
			},
		},
		Metadata: Metadata{SourceKind: record.Kind, SourceNumber: record.Number},
	}
	s.Recompute()
	return s
}

func defaultDescription(record source.Record) string {
	return fmt.Sprintf("A walkthrough of %s #%d: %s", record.Kind.Label(), record.Number, record.Title)
}

// BuildPrompt renders the user prompt for record.
func BuildPrompt(record source.Record, maxBodyChars int) string {
	if maxBodyChars <= 0 {
		maxBodyChars = defaultMaxBodyChars
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", record.Reference())
	fmt.Fprintf(&b, "Title: %s\n", record.Title)
	if record.Author != "" {
		fmt.Fprintf(&b, "Author: %s\n", record.Author)
	}
	if len(record.Labels) > 0 {
		fmt.Fprintf(&b, "Labels: %s\n", strings.Join(record.Labels, ", "))
	}
	fmt.Fprintf(&b, "\nDescription:\n%s\n", textutil.Truncate(strings.TrimSpace(record.Body), maxBodyChars))

	if comments := RelevantComments(record.Comments, promptComments); len(comments) > 0 {
		b.WriteString("\nDiscussion highlights:\n")
		for _, c := range comments {
			fmt.Fprintf(&b, "- %s: %s\n", c.Author, textutil.Truncate(strings.TrimSpace(c.Body), promptCommentChars))
		}
	}

	switch record.Kind {
	case source.KindChangeRequest:
		change := record.Change
		fmt.Fprintf(&b, "\nChange stats: +%d -%d across %d files\n", change.Additions, change.Deletions, change.ChangedFiles)
		if len(change.Commits) > 0 {
			b.WriteString("Commits:\n")
			for _, commit := range change.Commits[:min(promptCommits, len(change.Commits))] {
				subject, _, _ := strings.Cut(strings.TrimSpace(commit.Message), "\n")
				fmt.Fprintf(&b, "- %s\n", subject)
			}
		}
	}
	return b.String()
}

// RelevantComments ranks comments by body length, longest first, keeping
// chronological order between equal lengths, and returns at most limit.
func RelevantComments(comments []source.Comment, limit int) []source.Comment {
	ranked := slices.Clone(comments)
	slices.SortStableFunc(ranked, func(a, b source.Comment) int {
		la, lb := len(strings.TrimSpace(a.Body)), len(strings.TrimSpace(b.Body))
		if la != lb {
			return lb - la
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	if limit >= 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
