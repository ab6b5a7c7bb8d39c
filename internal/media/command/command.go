package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
	"unicode/utf8"

	"issuereel/internal/logging"
)

// Result captures everything a finished subprocess produced.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Elapsed  time.Duration
}

// Output returns trimmed stderr, falling back to stdout, for error messages.
func (r Result) Output() string {
	if out := strings.TrimSpace(string(r.Stderr)); out != "" {
		return out
	}
	return strings.TrimSpace(string(r.Stdout))
}

// Runner spawns a process, waits for it, and captures its output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Result, error)
}

// ExitError reports a process that started but exited non-zero.
type ExitError struct {
	Name   string
	Result Result
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s exited with status %d", e.Name, e.Result.ExitCode)
	if out := e.Result.Output(); out != "" {
		msg += ": " + tail(out, 2000)
	}
	return msg
}

// ExecRunner runs commands through os/exec.
type ExecRunner struct {
	Logger *slog.Logger
}

// NewExecRunner returns a runner that logs each invocation at debug level.
func NewExecRunner(logger *slog.Logger) *ExecRunner {
	return &ExecRunner{Logger: logging.NewComponentLogger(logger, "command")}
}

// Run executes name with args. A non-zero exit yields *ExitError with the
// captured output; a process that cannot start yields the exec error.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	logger := r.logger()
	logger.Debug("running command",
		logging.String("command", name+" "+strings.Join(args, " ")),
	)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	result := Result{
		Stdout:  stdout.Bytes(),
		Stderr:  stderr.Bytes(),
		Elapsed: time.Since(start),
	}
	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return result, &ExitError{Name: name, Result: result}
		}
		return result, fmt.Errorf("start %s: %w", name, err)
	}
	logger.Debug("command finished",
		logging.String("command", name),
		logging.Duration("elapsed", result.Elapsed),
	)
	return result, nil
}

func (r *ExecRunner) logger() *slog.Logger {
	if r == nil || r.Logger == nil {
		return logging.NewNop()
	}
	return r.Logger
}

// tail keeps roughly the last n bytes of s; encoder diagnostics live at the
// end. The cut moves forward to a rune boundary.
func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	start := len(s) - n
	for start < len(s) && !utf8.RuneStart(s[start]) {
		start++
	}
	return "…" + s[start:]
}
