package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"issuereel/internal/config"
	"issuereel/internal/deps"
	"issuereel/internal/media/command"
	"issuereel/internal/services/github"
	"issuereel/internal/services/llm"
)

// CheckLLM verifies that the completion API is reachable and the key is valid.
// It uses a 30-second timeout and a single attempt.
func CheckLLM(ctx context.Context, name string, cfg config.LLMConfig) Result {
	if cfg.APIKey == "" {
		return Result{Name: name, Detail: "API key missing"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client := llm.NewClient(llm.Config{
		APIKey:         cfg.APIKey,
		BaseURL:        cfg.BaseURL,
		Model:          cfg.Model,
		TimeoutSeconds: cfg.TimeoutSeconds,
	})
	if err := client.HealthCheck(checkCtx); err != nil {
		return Result{Name: name, Detail: summarizeError(err)}
	}
	return Result{Name: name, Passed: true, Detail: "API reachable"}
}

// CheckGitHub verifies tracker connectivity and that the token is accepted.
func CheckGitHub(ctx context.Context, baseURL, token string) Result {
	const name = "GitHub"

	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return Result{Name: name, Detail: "missing base url"}
	}
	if strings.TrimSpace(token) == "" {
		return Result{Name: name, Detail: "missing token"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client := github.NewClient(github.Config{Token: token, BaseURL: base, TimeoutSeconds: 10})
	remaining, err := client.RemainingRequests(checkCtx)
	var statusErr *github.StatusError
	switch {
	case errors.As(err, &statusErr) && (statusErr.StatusCode == http.StatusUnauthorized || statusErr.StatusCode == http.StatusForbidden):
		return Result{Name: name, Detail: "auth failed (invalid token)"}
	case errors.As(err, &statusErr):
		return Result{Name: name, Detail: fmt.Sprintf("auth check failed (%d)", statusErr.StatusCode)}
	case err != nil:
		return Result{Name: name, Detail: fmt.Sprintf("auth check failed (%s)", summarizeError(err))}
	case remaining < 0:
		return Result{Name: name, Passed: true, Detail: "Reachable"}
	default:
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("Reachable (%d requests remaining)", remaining)}
	}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckUpload reports whether publishing is configured. It never fails: an
// unconfigured upload means videos stay local.
func CheckUpload(cfg *config.Config) Result {
	const name = "YouTube upload"
	if cfg.UploadConfigured() {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("Configured (%s)", cfg.YouTube.Privacy)}
	}
	return Result{Name: name, Passed: true, Detail: "Not configured (videos stay local)"}
}

// CheckSystemDeps evaluates the external binaries the pipeline invokes. Both
// the deps command and generate --check-deps use it.
func CheckSystemDeps(ctx context.Context, cfg *config.Config, runner command.Runner) []deps.Status {
	return deps.CheckBinaries(ctx, runner, deps.Requirements(cfg))
}

func summarizeError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "health check timed out (API unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "health check timed out (API unreachable)"
	}
	return err.Error()
}
