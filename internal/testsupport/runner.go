package testsupport

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"issuereel/internal/media/command"
)

// FakeRunner records invocations. Commands whose name contains "ffprobe"
// return ProbeJSON on stdout; every other command writes a small file at its
// last argument, which is where ffmpeg and the rasterizer put their output.
type FakeRunner struct {
	mu        sync.Mutex
	Calls     [][]string
	ProbeJSON string
	// Fail names a command that exits non-zero.
	Fail string
}

// Run implements command.Runner.
func (r *FakeRunner) Run(_ context.Context, name string, args ...string) (command.Result, error) {
	r.mu.Lock()
	r.Calls = append(r.Calls, append([]string{name}, args...))
	r.mu.Unlock()

	if r.Fail != "" && name == r.Fail {
		res := command.Result{ExitCode: 1, Stderr: []byte("simulated failure")}
		return res, &command.ExitError{Name: name, Result: res}
	}
	if strings.Contains(name, "ffprobe") {
		return command.Result{Stdout: []byte(r.ProbeJSON)}, nil
	}
	if len(args) == 0 {
		return command.Result{}, nil
	}
	out := args[len(args)-1]
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return command.Result{}, err
	}
	return command.Result{}, os.WriteFile(out, []byte("stub output"), 0o644)
}

// Invocations returns how many times name was run.
func (r *FakeRunner) Invocations(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, call := range r.Calls {
		if call[0] == name {
			count++
		}
	}
	return count
}
