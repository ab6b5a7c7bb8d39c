package script

import (
	"strings"
	"time"

	"issuereel/internal/source"
)

// SectionType names a section layout.
type SectionType string

const (
	SectionIntro   SectionType = "intro"
	SectionMain    SectionType = "main"
	SectionCode    SectionType = "code"
	SectionSummary SectionType = "summary"
	SectionOutro   SectionType = "outro"
)

// ParseSectionType maps unknown or empty values to SectionMain.
func ParseSectionType(value string) SectionType {
	switch SectionType(strings.ToLower(strings.TrimSpace(value))) {
	case SectionIntro:
		return SectionIntro
	case SectionCode:
		return SectionCode
	case SectionSummary:
		return SectionSummary
	case SectionOutro:
		return SectionOutro
	default:
		return SectionMain
	}
}

// Section is one narrated slide.
type Section struct {
	Type         SectionType `json:"type" yaml:"type"`
	Heading      string      `json:"heading" yaml:"heading"`
	Narration    string      `json:"narration" yaml:"narration"`
	VisualNotes  string      `json:"visualNotes,omitempty" yaml:"visualNotes,omitempty"`
	Duration     int         `json:"duration" yaml:"duration"`
	CodeSnippet  string      `json:"codeSnippet,omitempty" yaml:"codeSnippet,omitempty"`
	BulletPoints []string    `json:"bulletPoints,omitempty" yaml:"bulletPoints,omitempty"`
}

// Metadata ties a script back to its record.
type Metadata struct {
	SourceKind   source.Kind `json:"sourceKind" yaml:"sourceKind"`
	SourceNumber int         `json:"sourceNumber" yaml:"sourceNumber"`
	GeneratedAt  time.Time   `json:"generatedAt" yaml:"generatedAt"`
}

// VideoScript is the narrated outline of a video. EstimatedDurationSeconds
// always equals the sum of section durations; Recompute maintains it.
type VideoScript struct {
	Title                    string    `json:"title" yaml:"title"`
	Description              string    `json:"description" yaml:"description"`
	Sections                 []Section `json:"sections" yaml:"sections"`
	EstimatedDurationSeconds int       `json:"estimatedDurationSeconds" yaml:"estimatedDurationSeconds"`
	Metadata                 Metadata  `json:"metadata" yaml:"metadata"`
}

// Recompute sets EstimatedDurationSeconds from the section durations.
func (s *VideoScript) Recompute() {
	total := 0
	for _, section := range s.Sections {
		total += section.Duration
	}
	s.EstimatedDurationSeconds = total
}

// normalize coerces section types, clamps negative durations and recomputes
// the total.
func (s *VideoScript) normalize() {
	for i := range s.Sections {
		s.Sections[i].Type = ParseSectionType(string(s.Sections[i].Type))
		s.Sections[i].Heading = strings.TrimSpace(s.Sections[i].Heading)
		s.Sections[i].Narration = strings.TrimSpace(s.Sections[i].Narration)
		if s.Sections[i].Duration < 0 {
			s.Sections[i].Duration = 0
		}
	}
	s.Recompute()
}

func (s VideoScript) clone() VideoScript {
	out := s
	out.Sections = make([]Section, len(s.Sections))
	for i, section := range s.Sections {
		section.BulletPoints = append([]string(nil), section.BulletPoints...)
		out.Sections[i] = section
	}
	return out
}
