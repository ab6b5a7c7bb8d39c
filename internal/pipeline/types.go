package pipeline

import (
	"context"
	"time"

	"issuereel/internal/compose"
	"issuereel/internal/narration"
	"issuereel/internal/publish"
	"issuereel/internal/runstore"
	"issuereel/internal/script"
	"issuereel/internal/slides"
	"issuereel/internal/source"
)

// State is a position in the run state machine.
type State string

const (
	StateCreated           State = "created"
	StateExtracting        State = "extracting"
	StateScriptGenerating  State = "script_generating"
	StateAudioSynthesizing State = "audio_synthesizing"
	StateSlideRendering    State = "slide_rendering"
	StateComposing         State = "composing"
	StatePublishing        State = "publishing"
	StateDone              State = "done"
	StateFailed            State = "failed"
)

// Request selects the record and run options.
type Request struct {
	Owner      string
	Repo       string
	Number     int
	Kind       source.Kind
	WorkDir    string
	KeepTemp   bool
	ScriptPath string
}

// Result is the outcome of one run. It is also written to result.json.
type Result struct {
	RunID           string                `json:"runId"`
	State           State                 `json:"state"`
	FailedStage     State                 `json:"failedStage,omitempty"`
	Error           string                `json:"error,omitempty"`
	ErrorKind       string                `json:"errorKind,omitempty"`
	WorkDir         string                `json:"workDir"`
	SourceKind      source.Kind           `json:"sourceKind,omitempty"`
	SourceNumber    int                   `json:"sourceNumber"`
	Repository      string                `json:"repository"`
	Title           string                `json:"title,omitempty"`
	VideoPath       string                `json:"videoPath,omitempty"`
	DurationSeconds int                   `json:"durationSeconds"`
	AudioSegments   int                   `json:"audioSegments"`
	Slides          int                   `json:"slides"`
	Upload          *publish.UploadResult `json:"upload,omitempty"`
	UploadSkipped   bool                  `json:"uploadSkipped"`
	LinkPosted      bool                  `json:"linkPosted"`
	ArchivedObjects []string              `json:"archivedObjects,omitempty"`
	StartedAt       time.Time             `json:"startedAt"`
	FinishedAt      time.Time             `json:"finishedAt"`
}

// Extractor fetches the source record.
type Extractor interface {
	Extract(ctx context.Context, owner, repo string, number int, hint source.Kind) (source.Record, error)
}

// ScriptGenerator writes the script for a record.
type ScriptGenerator interface {
	Generate(ctx context.Context, record source.Record, opts script.Options) (script.VideoScript, error)
}

// Narrator synthesizes section audio.
type Narrator interface {
	Synthesize(ctx context.Context, vs script.VideoScript, outputDir string, opts narration.Options) (narration.Result, error)
}

// SlideRenderer renders one slide per section.
type SlideRenderer interface {
	Render(ctx context.Context, vs script.VideoScript, outputDir string, opts slides.Options) (slides.Result, error)
}

// VideoComposer encodes the final video.
type VideoComposer interface {
	Compose(ctx context.Context, vs script.VideoScript, segments []narration.Segment, slideList []slides.Slide, outputPath string, opts compose.Options) (compose.Artifact, error)
}

// Publisher uploads the video and links it back to the record.
type Publisher interface {
	Publish(ctx context.Context, videoPath string, meta publish.Metadata) (publish.UploadResult, error)
	PostLink(ctx context.Context, owner, repo string, number int, url string) error
}

// History persists run rows.
type History interface {
	Record(ctx context.Context, run runstore.Run) error
}

// Archiver copies finished artifacts off the machine.
type Archiver interface {
	ArchiveRun(ctx context.Context, runID string, files []string) ([]string, error)
}
