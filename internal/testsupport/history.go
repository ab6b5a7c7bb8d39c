package testsupport

import (
	"context"
	"path/filepath"
	"testing"

	"issuereel/internal/config"
	"issuereel/internal/runstore"
)

// MustOpenHistory opens the run history under the config's work root and
// registers cleanup.
func MustOpenHistory(t testing.TB, cfg *config.Config) *runstore.Store {
	t.Helper()

	store, err := runstore.Open(context.Background(), filepath.Join(cfg.Paths.WorkRoot, runstore.DatabaseFile))
	if err != nil {
		t.Fatalf("runstore.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
