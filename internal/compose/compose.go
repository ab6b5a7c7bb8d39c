package compose

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"issuereel/internal/logging"
	"issuereel/internal/media/command"
	"issuereel/internal/media/ffprobe"
	"issuereel/internal/narration"
	"issuereel/internal/script"
	"issuereel/internal/services"
	"issuereel/internal/slides"
)

// Options are the encoder parameters.
type Options struct {
	Width         int
	Height        int
	FPS           int
	Bitrate       string
	AudioBitrate  string
	FFmpegBinary  string
	FFprobeBinary string
}

// Artifact describes the encoded video.
type Artifact struct {
	Path            string `json:"path"`
	DurationSeconds int    `json:"durationSeconds"`
	Resolution      string `json:"resolution"`
	SizeBytes       int64  `json:"sizeBytes"`
	Segments        int    `json:"segments"`
}

// Composer drives ffmpeg through a command runner.
type Composer struct {
	runner command.Runner
	logger *slog.Logger
}

// NewComposer constructs a composer. A nil runner uses os/exec.
func NewComposer(runner command.Runner, logger *slog.Logger) *Composer {
	logger = logging.NewComponentLogger(logger, "compose")
	if runner == nil {
		runner = command.NewExecRunner(logger)
	}
	return &Composer{runner: runner, logger: logger}
}

// Compose encodes one clip per audio segment, pairing each segment with the
// slide rendered for the same section index, and concatenates them. The video
// duration is the sum of segment estimates.
func (c *Composer) Compose(ctx context.Context, vs script.VideoScript, segments []narration.Segment, slideList []slides.Slide, outputPath string, opts Options) (Artifact, error) {
	logger := logging.WithContext(ctx, c.logger)
	clips, err := PairClips(segments, slideList)
	if err != nil {
		return Artifact{}, err
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return Artifact{}, services.Wrap(services.ErrComposition, "composing", "create dir", filepath.Dir(outputPath), err)
	}

	args := BuildArgs(clips, outputPath, opts)
	binary := strings.TrimSpace(opts.FFmpegBinary)
	if binary == "" {
		binary = "ffmpeg"
	}
	logger.Info("encoding video",
		logging.String("title", vs.Title),
		logging.Int("clips", len(clips)),
		logging.String("resolution", fmt.Sprintf("%dx%d", opts.Width, opts.Height)),
		logging.String("args", strings.Join(args, " ")),
	)
	result, err := c.runner.Run(ctx, binary, args...)
	if err != nil {
		return Artifact{}, services.Wrap(services.ErrComposition, "composing", "ffmpeg", outputPath, err)
	}

	info, err := os.Stat(outputPath)
	if err != nil {
		return Artifact{}, services.Wrap(services.ErrComposition, "composing", "stat output", outputPath, err)
	}
	artifact := Artifact{
		Path:       outputPath,
		Resolution: fmt.Sprintf("%dx%d", opts.Width, opts.Height),
		SizeBytes:  info.Size(),
		Segments:   len(clips),
	}
	for _, clip := range clips {
		artifact.DurationSeconds += clip.Segment.DurationSeconds
	}
	logger.Info("video encoded",
		logging.String("output_path", outputPath),
		logging.Int64("output_bytes", artifact.SizeBytes),
		logging.Int("duration_seconds", artifact.DurationSeconds),
		logging.Duration("elapsed", result.Elapsed),
	)
	c.logProbe(ctx, logger, outputPath, opts, artifact)
	return artifact, nil
}

// logProbe records what ffprobe measured. A failing probe only warns.
func (c *Composer) logProbe(ctx context.Context, logger *slog.Logger, path string, opts Options, artifact Artifact) {
	probe, err := ffprobe.Inspect(ctx, c.runner, opts.FFprobeBinary, path)
	if err != nil {
		logging.WarnWithContext(logger, "probe of encoded video failed", "compose_probe_failed",
			logging.String("output_path", path),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "run ffprobe on the output manually"),
			logging.String(logging.FieldImpact, "video kept without measured duration"),
		)
		return
	}
	logger.Info("encoded video probed",
		logging.Float64("ffprobe.duration_seconds", probe.DurationSeconds()),
		logging.String("ffprobe.resolution", probe.Resolution()),
		logging.Float64("ffprobe.frame_rate", probe.FrameRate()),
		logging.Int("ffprobe.audio_streams", probe.AudioStreamCount()),
		logging.Int("estimated_seconds", artifact.DurationSeconds),
	)
}

// Clip pairs one audio segment with its slide.
type Clip struct {
	Segment narration.Segment
	Slide   slides.Slide
}

// PairClips walks the segments in order and looks up each slide by section
// index, so sections skipped during narration do not shift the pairing.
func PairClips(segments []narration.Segment, slideList []slides.Slide) ([]Clip, error) {
	if len(segments) == 0 {
		return nil, services.Wrap(services.ErrComposition, "composing", "pair", "no audio segments to compose", nil)
	}
	bySection := make(map[int]slides.Slide, len(slideList))
	for _, slide := range slideList {
		bySection[slide.SectionIndex] = slide
	}
	clips := make([]Clip, 0, len(segments))
	for _, segment := range segments {
		slide, ok := bySection[segment.SectionIndex]
		if !ok {
			return nil, services.Wrap(services.ErrComposition, "composing", "pair", fmt.Sprintf("no slide for section %d", segment.SectionIndex), nil)
		}
		clips = append(clips, Clip{Segment: segment, Slide: slide})
	}
	return clips, nil
}

// BuildArgs renders the ffmpeg argument list. Slide inputs come first, then
// audio inputs in the same order.
func BuildArgs(clips []Clip, outputPath string, opts Options) []string {
	fps := strconv.Itoa(opts.FPS)
	args := []string{"-y", "-hide_banner", "-loglevel", "error"}
	for _, clip := range clips {
		args = append(args,
			"-loop", "1",
			"-framerate", fps,
			"-t", strconv.Itoa(clip.Segment.DurationSeconds),
			"-i", clip.Slide.ImagePath,
		)
	}
	for _, clip := range clips {
		args = append(args, "-i", clip.Segment.FilePath)
	}
	args = append(args,
		"-filter_complex", FilterGraph(clips, opts),
		"-map", "[v]",
		"-map", "[a]",
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-b:v", opts.Bitrate,
		"-r", fps,
		"-c:a", "aac",
		"-b:a", opts.AudioBitrate,
		"-shortest",
		"-movflags", "+faststart",
		outputPath,
	)
	return args
}

// FilterGraph scales and pads every slide to the frame, trims it to its
// segment duration and concatenates video and audio separately.
func FilterGraph(clips []Clip, opts Options) string {
	n := len(clips)
	w, h := opts.Width, opts.Height
	var b strings.Builder
	for i, clip := range clips {
		fmt.Fprintf(&b, "[%d:v]scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2,setsar=1,fps=%d,trim=end_frame=%d[v%d];",
			i, w, h, w, h, opts.FPS, clip.Segment.DurationSeconds*opts.FPS, i)
	}
	for i := range clips {
		fmt.Fprintf(&b, "[v%d]", i)
	}
	fmt.Fprintf(&b, "concat=n=%d:v=1:a=0[v];", n)
	for i := range clips {
		fmt.Fprintf(&b, "[%d:a]", n+i)
	}
	fmt.Fprintf(&b, "concat=n=%d:v=0:a=1[a]", n)
	return b.String()
}
