package runstore

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is bumped whenever schema.sql changes incompatibly.
const schemaVersion = 1

// DatabaseFile is the history database name inside the work root.
const DatabaseFile = "history.db"

// ErrSchemaMismatch indicates a database written by a different schema version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// ErrNotFound is returned by Get for unknown run IDs.
var ErrNotFound = errors.New("run not found")

// Run is one row of run history.
type Run struct {
	ID              string
	SourceKind      string
	SourceNumber    int
	Repository      string
	State           string
	FailedStage     string
	ErrorKind       string
	ErrorMessage    string
	WorkDir         string
	VideoPath       string
	VideoURL        string
	DurationSeconds int
	UploadSkipped   bool
	StartedAt       time.Time
	FinishedAt      time.Time
}

// Store persists run history in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates or connects to the history database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, err)
		}
	}
	store := &Store{db: db, path: path}
	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	var exists int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&exists); err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}
	if exists == 1 {
		var version int
		if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
			return fmt.Errorf("read schema version: %w", err)
		}
		if version != schemaVersion {
			return fmt.Errorf("%w: database has version %d, expected %d (delete %s)", ErrSchemaMismatch, version, schemaVersion, s.path)
		}
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	return tx.Commit()
}

// Record inserts or replaces a run row.
func (s *Store) Record(ctx context.Context, run Run) error {
	if run.ID == "" {
		return errors.New("record run: empty id")
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO runs (
		id, source_kind, source_number, repository, state, failed_stage, error_kind, error_message,
		work_dir, video_path, video_url, duration_seconds, upload_skipped, started_at, finished_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		state = excluded.state,
		failed_stage = excluded.failed_stage,
		error_kind = excluded.error_kind,
		error_message = excluded.error_message,
		video_path = excluded.video_path,
		video_url = excluded.video_url,
		duration_seconds = excluded.duration_seconds,
		upload_skipped = excluded.upload_skipped,
		finished_at = excluded.finished_at`,
		run.ID, run.SourceKind, run.SourceNumber, run.Repository, run.State, run.FailedStage,
		run.ErrorKind, run.ErrorMessage, run.WorkDir, run.VideoPath, run.VideoURL,
		run.DurationSeconds, boolToInt(run.UploadSkipped), formatTime(run.StartedAt), formatTime(run.FinishedAt),
	)
	if err != nil {
		return fmt.Errorf("record run %s: %w", run.ID, err)
	}
	return nil
}

const selectColumns = `id, source_kind, source_number, repository, state, failed_stage, error_kind, error_message,
	work_dir, video_path, video_url, duration_seconds, upload_skipped, started_at, finished_at`

// List returns the most recent runs first. A non-positive limit returns all.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := "SELECT " + selectColumns + " FROM runs ORDER BY started_at DESC, id DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Get returns one run by ID.
func (s *Store) Get(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+selectColumns+" FROM runs WHERE id = ?", id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return run, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var (
		run               Run
		uploadSkipped     int
		started, finished string
	)
	if err := row.Scan(
		&run.ID, &run.SourceKind, &run.SourceNumber, &run.Repository, &run.State, &run.FailedStage,
		&run.ErrorKind, &run.ErrorMessage, &run.WorkDir, &run.VideoPath, &run.VideoURL,
		&run.DurationSeconds, &uploadSkipped, &started, &finished,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.UploadSkipped = uploadSkipped != 0
	run.StartedAt = parseTime(started)
	run.FinishedAt = parseTime(finished)
	return run, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
