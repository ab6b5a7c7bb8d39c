package runstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), DatabaseFile))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndList(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Record(ctx, Run{
		ID: "run-a", SourceKind: "issue", SourceNumber: 6, Repository: "octo/widgets",
		State: "failed", FailedStage: "composing", ErrorKind: "composition", WorkDir: "/tmp/a",
		StartedAt: base,
	}))
	require.NoError(t, store.Record(ctx, Run{
		ID: "run-b", SourceKind: "change-request", SourceNumber: 7, Repository: "octo/widgets",
		State: "done", WorkDir: "/tmp/b", VideoPath: "/tmp/b/output/video.mp4",
		DurationSeconds: 165, UploadSkipped: true, StartedAt: base.Add(time.Hour), FinishedAt: base.Add(2 * time.Hour),
	}))

	runs, err := store.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	require.Equal(t, "run-b", runs[0].ID)
	require.True(t, runs[0].UploadSkipped)
	require.Equal(t, 165, runs[0].DurationSeconds)
	require.True(t, runs[0].FinishedAt.Equal(base.Add(2*time.Hour)))
	require.Equal(t, "composing", runs[1].FailedStage)
	require.True(t, runs[1].FinishedAt.IsZero())

	limited, err := store.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
}

func TestRecordUpdatesExistingRun(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	run := Run{ID: "run-a", SourceKind: "issue", SourceNumber: 6, Repository: "o/r", State: "extracting", WorkDir: "/w", StartedAt: time.Now()}
	require.NoError(t, store.Record(ctx, run))

	run.State = "done"
	run.VideoURL = "https://www.youtube.com/watch?v=abc"
	require.NoError(t, store.Record(ctx, run))

	got, err := store.Get(ctx, "run-a")
	require.NoError(t, err)
	require.Equal(t, "done", got.State)
	require.Equal(t, "https://www.youtube.com/watch?v=abc", got.VideoURL)
}

func TestGetUnknownRun(t *testing.T) {
	_, err := openTestStore(t).Get(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestReopenKeepsSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), DatabaseFile)
	store, err := Open(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := Open(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, reopened.Close())
}
