package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "issuereel"

// Recorder collects run and stage metrics on a private registry so they can
// be exported to a node_exporter textfile when the run ends.
type Recorder struct {
	registry      *prometheus.Registry
	runs          *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	stageFailures *prometheus.CounterVec
	videoSeconds  prometheus.Gauge
	lastRun       prometheus.Gauge
}

// NewRecorder registers the issuereel collectors.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Pipeline runs by terminal state",
		}, []string{"state"}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Wall time spent in each pipeline stage",
			Buckets:   []float64{0.5, 1, 5, 15, 30, 60, 120, 300, 600, 1800},
		}, []string{"stage"}),
		stageFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_failures_total",
			Help:      "Stage failures by stage and error kind",
		}, []string{"stage", "kind"}),
		videoSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "video_duration_seconds",
			Help:      "Estimated duration of the last composed video",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished",
		}),
	}
	r.registry.MustRegister(r.runs, r.stageDuration, r.stageFailures, r.videoSeconds, r.lastRun)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// ObserveStage records how long a stage took.
func (r *Recorder) ObserveStage(stage string, elapsed time.Duration) {
	r.stageDuration.WithLabelValues(stage).Observe(elapsed.Seconds())
}

// StageFailed counts a failed stage.
func (r *Recorder) StageFailed(stage, kind string) {
	r.stageFailures.WithLabelValues(stage, kind).Inc()
}

// RunFinished records the terminal state and, for completed runs, the video
// duration.
func (r *Recorder) RunFinished(state string, videoSeconds int, finishedAt time.Time) {
	r.runs.WithLabelValues(state).Inc()
	if videoSeconds > 0 {
		r.videoSeconds.Set(float64(videoSeconds))
	}
	r.lastRun.Set(float64(finishedAt.Unix()))
}

// WriteTextfile writes the registry in text exposition format. An empty path
// is a no-op.
func (r *Recorder) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create metrics dir: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
