package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"issuereel/internal/compose"
	"issuereel/internal/config"
	"issuereel/internal/logging"
	"issuereel/internal/metrics"
	"issuereel/internal/narration"
	"issuereel/internal/notifications"
	"issuereel/internal/publish"
	"issuereel/internal/runstore"
	"issuereel/internal/script"
	"issuereel/internal/services"
	"issuereel/internal/slides"
	"issuereel/internal/source"
	"issuereel/internal/workdir"
)

// Dependencies are the stage implementations and optional side channels. A
// nil Publisher skips upload; nil History, Metrics and Archiver are ignored.
type Dependencies struct {
	Extractor Extractor
	Generator ScriptGenerator
	Narrator  Narrator
	Renderer  SlideRenderer
	Composer  VideoComposer
	Publisher Publisher
	History   History
	Metrics   *metrics.Recorder
	Archiver  Archiver
	Notifier  notifications.Service
	Logger    *slog.Logger
	Now       func() time.Time
}

// Orchestrator runs the stages in order against one working directory.
type Orchestrator struct {
	cfg  *config.Config
	deps Dependencies
}

// New constructs an orchestrator.
func New(cfg *config.Config, deps Dependencies) *Orchestrator {
	if deps.Logger == nil {
		deps.Logger = logging.NewNop()
	}
	if deps.Notifier == nil {
		deps.Notifier = notifications.NewService(&config.Config{})
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Orchestrator{cfg: cfg, deps: deps}
}

// run carries stage outputs from one stage to the next.
type run struct {
	req    Request
	dir    *workdir.Dir
	record source.Record
	script script.VideoScript
	audio  narration.Result
	slides slides.Result
	video  compose.Artifact
	result *Result
}

type stage struct {
	state  State
	status string
	exec   func(ctx context.Context, r *run) error
	skip   func() (bool, string)
}

const totalSteps = 6

func (o *Orchestrator) stages() []stage {
	return []stage{
		{state: StateExtracting, status: "fetching source record", exec: o.extract},
		{state: StateScriptGenerating, status: "writing narration script", exec: o.generateScript},
		{state: StateAudioSynthesizing, status: "synthesizing narration", exec: o.synthesize},
		{state: StateSlideRendering, status: "rendering slides", exec: o.renderSlides},
		{state: StateComposing, status: "encoding video", exec: o.compose},
		{state: StatePublishing, status: "uploading video", exec: o.publish, skip: o.skipPublishing},
	}
}

// Run executes one pipeline run. The returned Result is populated on failure
// too; the error is the failing stage's error.
func (o *Orchestrator) Run(ctx context.Context, req Request) (Result, error) {
	started := o.deps.Now().UTC()
	result := Result{
		State:        StateCreated,
		SourceKind:   req.Kind,
		SourceNumber: req.Number,
		Repository:   req.Owner + "/" + req.Repo,
		StartedAt:    started,
	}

	dir, err := o.openWorkdir(req, started)
	if err != nil {
		result.State = StateFailed
		result.FailedStage = StateCreated
		result.Error = err.Error()
		result.ErrorKind = services.KindOf(err)
		result.FinishedAt = o.deps.Now().UTC()
		return result, err
	}
	defer dir.Release()

	result.RunID = dir.RunID
	result.WorkDir = dir.Path
	ctx = services.WithRunID(ctx, dir.RunID)
	logger := logging.WithContext(ctx, logging.NewComponentLogger(o.deps.Logger, "pipeline"))
	logger.Info("run created",
		logging.String(logging.FieldEventType, "run_created"),
		logging.String("repository", result.Repository),
		logging.Int("number", req.Number),
		logging.String("work_dir", dir.Path),
	)
	o.recordHistory(ctx, logger, result)

	r := &run{req: req, dir: dir, result: &result}
	for index, st := range o.stages() {
		step := fmt.Sprintf("%d/%d", index+1, totalSteps)
		stageCtx := services.WithStage(ctx, string(st.state))
		stageLogger := logger.With(
			logging.String(logging.FieldStage, string(st.state)),
			logging.String(logging.FieldStep, step),
		)
		if st.skip != nil {
			if skip, reason := st.skip(); skip {
				stageLogger.Info("stage skipped",
					logging.String(logging.FieldEventType, "stage_skipped"),
					logging.String("reason", reason),
				)
				continue
			}
		}

		result.State = st.state
		stageLogger.Info(st.status, logging.String(logging.FieldEventType, "stage_start"))
		stageStart := time.Now()
		err := st.exec(stageCtx, r)
		elapsed := time.Since(stageStart)
		if o.deps.Metrics != nil {
			o.deps.Metrics.ObserveStage(string(st.state), elapsed)
		}
		if err != nil {
			return o.fail(ctx, stageLogger, r, st.state, err)
		}
		stageLogger.Info("stage completed",
			logging.String(logging.FieldEventType, "stage_complete"),
			logging.Duration("elapsed", elapsed.Round(time.Millisecond)),
		)
	}

	return o.finish(ctx, logger, r), nil
}

func (o *Orchestrator) openWorkdir(req Request, now time.Time) (*workdir.Dir, error) {
	if strings.TrimSpace(req.WorkDir) != "" {
		dir, err := workdir.Open(req.WorkDir)
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "created", "open workdir", req.WorkDir, err)
		}
		return dir, nil
	}
	dir, err := workdir.Create(o.cfg.Paths.WorkRoot, now)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "created", "create workdir", o.cfg.Paths.WorkRoot, err)
	}
	return dir, nil
}

func (o *Orchestrator) extract(ctx context.Context, r *run) error {
	record, err := o.deps.Extractor.Extract(ctx, r.req.Owner, r.req.Repo, r.req.Number, r.req.Kind)
	if err != nil {
		return err
	}
	r.record = record
	r.result.SourceKind = record.Kind
	r.result.Title = record.Title
	if err := o.deps.Notifier.NotifyRunStarted(ctx, record.Reference(), record.Title); err != nil {
		logging.WithContext(ctx, o.deps.Logger).Debug("start notification not sent", logging.Error(err))
	}
	return r.dir.WriteJSON(workdir.SourceFile, record)
}

func (o *Orchestrator) generateScript(ctx context.Context, r *run) error {
	var vs script.VideoScript
	if path := strings.TrimSpace(r.req.ScriptPath); path != "" {
		loaded, err := script.LoadFile(path)
		if err != nil {
			return services.Wrap(services.ErrValidation, string(StateScriptGenerating), "load script", path, err)
		}
		if loaded.Metadata.SourceKind == "" {
			loaded.Metadata = script.Metadata{SourceKind: r.record.Kind, SourceNumber: r.record.Number, GeneratedAt: o.deps.Now().UTC()}
		}
		vs = loaded
	} else {
		generated, err := o.deps.Generator.Generate(ctx, r.record, script.Options{
			MaxBodyChars: o.cfg.LLM.MaxBodyChars,
			Temperature:  o.cfg.LLM.Temperature,
			MaxTokens:    o.cfg.LLM.MaxTokens,
		})
		if err != nil {
			return err
		}
		vs = generated
	}

	before := vs.EstimatedDurationSeconds
	vs = script.ValidateAndAdjust(vs, o.cfg.Video.MaxDurationSeconds)
	if vs.EstimatedDurationSeconds != before {
		logging.WithContext(ctx, o.deps.Logger).Info("script durations scaled to ceiling",
			logging.Int("before_seconds", before),
			logging.Int("after_seconds", vs.EstimatedDurationSeconds),
			logging.Int("max_seconds", o.cfg.Video.MaxDurationSeconds),
		)
	}
	r.script = vs
	r.result.Title = vs.Title
	return r.dir.WriteJSON(workdir.ScriptFile, vs)
}

func (o *Orchestrator) synthesize(ctx context.Context, r *run) error {
	audio, err := o.deps.Narrator.Synthesize(ctx, r.script, r.dir.AudioPath(), narration.Options{
		Voice:  o.cfg.Speech.Voice,
		Model:  o.cfg.Speech.Model,
		Speed:  o.cfg.Speech.Speed,
		Format: o.cfg.Speech.Format,
	})
	if err != nil {
		return err
	}
	r.audio = audio
	r.result.AudioSegments = len(audio.Segments)
	return nil
}

func (o *Orchestrator) renderSlides(ctx context.Context, r *run) error {
	rendered, err := o.deps.Renderer.Render(ctx, r.script, r.dir.SlidesPath(), slides.Options{
		Width:      o.cfg.Video.Width,
		Height:     o.cfg.Video.Height,
		Background: o.cfg.Video.BackgroundColor,
		Text:       o.cfg.Video.TextColor,
		Accent:     o.cfg.Video.AccentColor,
	})
	if err != nil {
		return err
	}
	r.slides = rendered
	r.result.Slides = len(rendered.Slides)
	return nil
}

func (o *Orchestrator) compose(ctx context.Context, r *run) error {
	video, err := o.deps.Composer.Compose(ctx, r.script, r.audio.Segments, r.slides.Slides, r.dir.VideoPath(), compose.Options{
		Width:         o.cfg.Video.Width,
		Height:        o.cfg.Video.Height,
		FPS:           o.cfg.Video.FPS,
		Bitrate:       o.cfg.Video.Bitrate,
		AudioBitrate:  o.cfg.Video.AudioBitrate,
		FFmpegBinary:  o.cfg.FFmpegBinary(),
		FFprobeBinary: o.cfg.FFprobeBinary(),
	})
	if err != nil {
		return err
	}
	r.video = video
	r.result.VideoPath = video.Path
	r.result.DurationSeconds = video.DurationSeconds
	return nil
}

func (o *Orchestrator) skipPublishing() (bool, string) {
	if o.deps.Publisher == nil || !o.cfg.UploadConfigured() {
		return true, "upload credentials not configured"
	}
	return false, ""
}

func (o *Orchestrator) publish(ctx context.Context, r *run) error {
	meta := publish.BuildMetadata(r.script, r.record, publish.Defaults{
		Tags:       o.cfg.YouTube.DefaultTags,
		CategoryID: o.cfg.YouTube.CategoryID,
		Privacy:    o.cfg.YouTube.Privacy,
		PlaylistID: o.cfg.YouTube.PlaylistID,
	})
	upload, err := o.deps.Publisher.Publish(ctx, r.video.Path, meta)
	if err != nil {
		return err
	}
	r.result.Upload = &upload

	if err := o.deps.Publisher.PostLink(ctx, r.req.Owner, r.req.Repo, r.record.Number, upload.URL); err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, o.deps.Logger), "link comment not posted", "link_post_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorKind, services.KindOf(err)),
			logging.String(logging.FieldImpact, "video is published but the record has no link"),
			logging.String(logging.FieldErrorHint, "check the GitHub token has write access to issues"),
		)
		return nil
	}
	r.result.LinkPosted = true
	return nil
}

func (o *Orchestrator) fail(ctx context.Context, logger *slog.Logger, r *run, failed State, err error) (Result, error) {
	result := r.result
	result.State = StateFailed
	result.FailedStage = failed
	result.Error = err.Error()
	result.ErrorKind = services.KindOf(err)
	result.FinishedAt = o.deps.Now().UTC()

	logging.ErrorWithContext(logger, "stage failed", "stage_failure",
		logging.String(logging.FieldErrorKind, result.ErrorKind),
		logging.String(logging.FieldErrorHint, "working directory kept for inspection: "+r.dir.Path),
		logging.Error(err),
	)
	if writeErr := r.dir.WriteJSON(workdir.ResultFile, result); writeErr != nil {
		logger.Warn("result snapshot not written", logging.Error(writeErr))
	}
	o.recordHistory(ctx, logger, *result)
	if o.deps.Metrics != nil {
		o.deps.Metrics.StageFailed(string(failed), result.ErrorKind)
		o.deps.Metrics.RunFinished(string(StateFailed), 0, result.FinishedAt)
		o.writeMetrics(logger)
	}
	if notifyErr := o.deps.Notifier.NotifyRunFailed(ctx, reference(r), string(failed), err); notifyErr != nil {
		logger.Debug("failure notification not sent", logging.Error(notifyErr))
	}
	return *result, err
}

func (o *Orchestrator) finish(ctx context.Context, logger *slog.Logger, r *run) Result {
	result := r.result
	result.State = StateDone
	result.UploadSkipped = result.Upload == nil
	result.FinishedAt = o.deps.Now().UTC()

	if o.deps.Archiver != nil {
		keys, err := o.deps.Archiver.ArchiveRun(ctx, result.RunID, []string{
			r.dir.VideoPath(),
			r.dir.File(workdir.SourceFile),
			r.dir.File(workdir.ScriptFile),
		})
		if err != nil {
			logging.WarnWithContext(logger, "archive upload failed", "archive_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "run artifacts remain only in the working directory"),
			)
		}
		result.ArchivedObjects = keys
	}

	if !r.req.KeepTemp {
		if err := r.dir.Cleanup(); err != nil {
			logger.Warn("intermediate cleanup failed", logging.Error(err))
		}
	}
	if err := r.dir.WriteJSON(workdir.ResultFile, result); err != nil {
		logger.Warn("result snapshot not written", logging.Error(err))
	}
	o.recordHistory(ctx, logger, *result)
	if o.deps.Metrics != nil {
		o.deps.Metrics.RunFinished(string(StateDone), result.DurationSeconds, result.FinishedAt)
		o.writeMetrics(logger)
	}

	location := result.VideoPath
	if result.Upload != nil {
		location = result.Upload.URL
	}
	if err := o.deps.Notifier.NotifyRunCompleted(ctx, reference(r), location, result.FinishedAt.Sub(result.StartedAt)); err != nil {
		logger.Debug("completion notification not sent", logging.Error(err))
	}
	logger.Info("run complete",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.String("video_path", result.VideoPath),
		logging.Int("duration_seconds", result.DurationSeconds),
		logging.Bool("upload_skipped", result.UploadSkipped),
	)
	return *result
}

func (o *Orchestrator) recordHistory(ctx context.Context, logger *slog.Logger, result Result) {
	if o.deps.History == nil {
		return
	}
	err := o.deps.History.Record(ctx, runstore.Run{
		ID:              result.RunID,
		SourceKind:      string(result.SourceKind),
		SourceNumber:    result.SourceNumber,
		Repository:      result.Repository,
		State:           string(result.State),
		FailedStage:     string(result.FailedStage),
		ErrorKind:       result.ErrorKind,
		ErrorMessage:    result.Error,
		WorkDir:         result.WorkDir,
		VideoPath:       result.VideoPath,
		VideoURL:        uploadURL(result),
		DurationSeconds: result.DurationSeconds,
		UploadSkipped:   result.UploadSkipped,
		StartedAt:       result.StartedAt,
		FinishedAt:      result.FinishedAt,
	})
	if err != nil {
		logging.WarnWithContext(logger, "run history not recorded", "history_write_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "run missing from issuereel runs"),
		)
	}
}

func (o *Orchestrator) writeMetrics(logger *slog.Logger) {
	if err := o.deps.Metrics.WriteTextfile(o.cfg.Metrics.TextfilePath); err != nil {
		logger.Warn("metrics textfile not written", logging.Error(err))
	}
}

func uploadURL(result Result) string {
	if result.Upload == nil {
		return ""
	}
	return result.Upload.URL
}

func reference(r *run) string {
	if r.record.Kind != "" {
		return r.record.Reference()
	}
	return fmt.Sprintf("%s#%d", r.req.Owner+"/"+r.req.Repo, r.req.Number)
}
