package workdir

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

const (
	AudioDir  = "audio"
	SlidesDir = "slides"
	OutputDir = "output"

	SourceFile = "source.json"
	ScriptFile = "script.json"
	ResultFile = "result.json"
	VideoFile  = "video.mp4"

	lockFile = ".lock"
)

// ErrLocked reports a directory already owned by another run.
var ErrLocked = errors.New("working directory is locked by another run")

// Dir is an exclusively owned run directory.
type Dir struct {
	Path  string
	RunID string
	lock  *flock.Flock
}

// NewRunID returns run-YYYYMMDD-HHMMSS-<8 hex chars>.
func NewRunID(now time.Time) string {
	short := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("run-%s-%s", now.Format("20060102-150405"), short)
}

// Create makes a fresh run directory under root.
func Create(root string, now time.Time) (*Dir, error) {
	runID := NewRunID(now)
	return open(filepath.Join(root, runID), runID)
}

// Open claims an operator-chosen directory, creating it when missing. The run
// ID is the directory's base name.
func Open(path string) (*Dir, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve workdir: %w", err)
	}
	return open(abs, filepath.Base(abs))
}

func open(path, runID string) (*Dir, error) {
	for _, sub := range []string{AudioDir, SlidesDir, OutputDir} {
		if err := os.MkdirAll(filepath.Join(path, sub), 0o755); err != nil {
			return nil, fmt.Errorf("create workdir: %w", err)
		}
	}
	lock := flock.New(filepath.Join(path, lockFile))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock workdir: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, path)
	}
	return &Dir{Path: path, RunID: runID, lock: lock}, nil
}

// Release drops the ownership lock. The lock file itself stays.
func (d *Dir) Release() error {
	if d == nil || d.lock == nil {
		return nil
	}
	return d.lock.Unlock()
}

// AudioPath is the directory for narration files.
func (d *Dir) AudioPath() string { return filepath.Join(d.Path, AudioDir) }

// SlidesPath is the directory for slide markup and images.
func (d *Dir) SlidesPath() string { return filepath.Join(d.Path, SlidesDir) }

// VideoPath is the final encoded video.
func (d *Dir) VideoPath() string { return filepath.Join(d.Path, OutputDir, VideoFile) }

// File returns the path of a snapshot in the directory root.
func (d *Dir) File(name string) string { return filepath.Join(d.Path, name) }

// WriteJSON writes an indented snapshot atomically.
func (d *Dir) WriteJSON(name string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	target := d.File(name)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		return fmt.Errorf("commit %s: %w", name, err)
	}
	return nil
}

// ReadJSON decodes a snapshot.
func (d *Dir) ReadJSON(name string, target any) error {
	data, err := os.ReadFile(d.File(name))
	if err != nil {
		return err
	}
	return json.Unmarshal(data, target)
}

// Cleanup removes the intermediate audio and slide directories. The output
// directory and snapshots are kept.
func (d *Dir) Cleanup() error {
	var errs []error
	for _, sub := range []string{d.AudioPath(), d.SlidesPath()} {
		if err := os.RemoveAll(sub); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
