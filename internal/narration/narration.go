package narration

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"issuereel/internal/logging"
	"issuereel/internal/script"
	"issuereel/internal/services"
	"issuereel/internal/services/speech"
	"issuereel/internal/textutil"
)

// wordsPerSecond is the speaking rate at speed 1.0.
const wordsPerSecond = 2.5

// Synthesizer is the speech client used for narration.
type Synthesizer interface {
	Synthesize(ctx context.Context, req speech.Request) ([]byte, error)
}

// Options selects the voice and encoding.
type Options struct {
	Voice  string
	Model  string
	Speed  float64
	Format string
}

// Segment is one narrated section. DurationSeconds is the word-count estimate,
// not a measurement of the audio file.
type Segment struct {
	SectionIndex    int    `json:"sectionIndex"`
	FilePath        string `json:"filePath"`
	DurationSeconds int    `json:"durationSeconds"`
	SourceText      string `json:"sourceText"`
}

// Result is the output of one synthesis pass.
type Result struct {
	Segments             []Segment `json:"segments"`
	TotalDurationSeconds int       `json:"totalDurationSeconds"`
}

// Service synthesizes narration for scripts.
type Service struct {
	client Synthesizer
	logger *slog.Logger
}

// NewService constructs a narration service.
func NewService(client Synthesizer, logger *slog.Logger) *Service {
	return &Service{client: client, logger: logging.NewComponentLogger(logger, "narration")}
}

// Synthesize makes one speech call per section with narration, in order,
// writing section-NN.<format> into outputDir. Blank narration produces no file
// and no segment. Any failed call aborts the batch.
func (s *Service) Synthesize(ctx context.Context, vs script.VideoScript, outputDir string, opts Options) (Result, error) {
	logger := logging.WithContext(ctx, s.logger)
	format := strings.TrimSpace(opts.Format)
	if format == "" {
		format = "mp3"
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return Result{}, services.Wrap(services.ErrAudioSynthesis, "audio_synthesizing", "create dir", outputDir, err)
	}

	result := Result{Segments: make([]Segment, 0, len(vs.Sections))}
	for index, section := range vs.Sections {
		text := strings.TrimSpace(section.Narration)
		if text == "" {
			logger.Debug("section has no narration; skipping", logging.Int("section", index))
			continue
		}
		audio, err := s.client.Synthesize(ctx, speech.Request{
			Model:  opts.Model,
			Input:  text,
			Voice:  opts.Voice,
			Speed:  opts.Speed,
			Format: format,
		})
		if err != nil {
			return Result{}, services.Wrap(services.ErrAudioSynthesis, "audio_synthesizing", "synthesize", fmt.Sprintf("section %d", index), err)
		}
		path := filepath.Join(outputDir, FileName(index, format))
		if err := os.WriteFile(path, audio, 0o644); err != nil {
			return Result{}, services.Wrap(services.ErrAudioSynthesis, "audio_synthesizing", "write audio", path, err)
		}
		segment := Segment{
			SectionIndex:    index,
			FilePath:        path,
			DurationSeconds: EstimateDuration(text, opts.Speed),
			SourceText:      text,
		}
		result.Segments = append(result.Segments, segment)
		result.TotalDurationSeconds += segment.DurationSeconds
		logger.Debug("section narrated",
			logging.Int("section", index),
			logging.Int("audio_bytes", len(audio)),
			logging.Int("duration_seconds", segment.DurationSeconds),
		)
	}
	logger.Info("narration synthesized",
		logging.Int("segments", len(result.Segments)),
		logging.Int("sections", len(vs.Sections)),
		logging.Int("duration_seconds", result.TotalDurationSeconds),
	)
	return result, nil
}

// EstimateDuration returns ceil(words / (2.5 * speed)). Non-positive speed is
// treated as 1.
func EstimateDuration(text string, speed float64) int {
	if speed <= 0 {
		speed = 1
	}
	words := textutil.WordCount(text)
	return int(math.Ceil(float64(words) / (wordsPerSecond * speed)))
}

// FileName is the audio file name for a section index.
func FileName(index int, format string) string {
	return fmt.Sprintf("section-%02d.%s", index, format)
}
