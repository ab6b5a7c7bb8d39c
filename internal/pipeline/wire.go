package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"issuereel/internal/archive"
	"issuereel/internal/compose"
	"issuereel/internal/config"
	"issuereel/internal/media/command"
	"issuereel/internal/metrics"
	"issuereel/internal/narration"
	"issuereel/internal/notifications"
	"issuereel/internal/publish"
	"issuereel/internal/runstore"
	"issuereel/internal/script"
	"issuereel/internal/services/github"
	"issuereel/internal/services/llm"
	"issuereel/internal/services/speech"
	"issuereel/internal/services/youtube"
	"issuereel/internal/slides"
	"issuereel/internal/source"
)

// Build wires the production clients described by cfg. The returned close
// function releases the history database.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Orchestrator, func() error, error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("pipeline build: config required")
	}
	runner := command.NewExecRunner(logger)

	tracker := github.NewClient(github.Config{
		Token:          cfg.GitHub.Token,
		BaseURL:        cfg.GitHub.BaseURL,
		TimeoutSeconds: cfg.GitHub.TimeoutSeconds,
	})
	llmCfg := cfg.GetLLM()
	completer := llm.NewClient(llm.Config{
		APIKey:         llmCfg.APIKey,
		BaseURL:        llmCfg.BaseURL,
		Model:          llmCfg.Model,
		TimeoutSeconds: llmCfg.TimeoutSeconds,
	})
	voice := speech.NewClient(speech.Config{
		APIKey:         cfg.Speech.APIKey,
		BaseURL:        cfg.Speech.BaseURL,
		TimeoutSeconds: cfg.Speech.TimeoutSeconds,
	})

	var rasterizer slides.Rasterizer
	if bin := strings.TrimSpace(cfg.Video.SlideRenderer); bin != "" {
		rasterizer = slides.CommandRasterizer{Binary: bin, Runner: runner}
	}

	deps := Dependencies{
		Extractor: source.NewExtractor(tracker, logger),
		Generator: script.NewGenerator(completer, logger),
		Narrator:  narration.NewService(voice, logger),
		Renderer:  slides.NewRenderer(rasterizer, logger),
		Composer:  compose.NewComposer(runner, logger),
		Metrics:   metrics.NewRecorder(),
		Notifier:  notifications.NewService(cfg),
		Logger:    logger,
	}

	if cfg.UploadConfigured() {
		uploader := youtube.NewClient(youtube.Config{
			ClientID:       cfg.YouTube.ClientID,
			ClientSecret:   cfg.YouTube.ClientSecret,
			RefreshToken:   cfg.YouTube.RefreshToken,
			TokenURL:       cfg.YouTube.TokenURL,
			UploadURL:      cfg.YouTube.UploadURL,
			APIBaseURL:     cfg.YouTube.APIBaseURL,
			TimeoutSeconds: cfg.YouTube.TimeoutSeconds,
		})
		deps.Publisher = publish.NewPublisher(uploader, tracker, logger)
	}

	if cfg.Archive.Enabled {
		archiver, err := archive.New(cfg.Archive, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("pipeline build: %w", err)
		}
		deps.Archiver = archiver
	}

	history, err := runstore.Open(ctx, filepath.Join(cfg.Paths.WorkRoot, runstore.DatabaseFile))
	if err != nil {
		return nil, nil, fmt.Errorf("pipeline build: %w", err)
	}
	deps.History = history

	return New(cfg, deps), history.Close, nil
}
