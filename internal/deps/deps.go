package deps

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"issuereel/internal/config"
	"issuereel/internal/media/command"
	"issuereel/internal/services"
)

// Requirement defines an external binary issuereel relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	// VersionArg, when set, is passed to the binary to prove it can run.
	VersionArg string
	Optional   bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements lists the binaries the configured pipeline needs. The encoder
// and its probe are required; an HTML rasterizer is optional and only listed
// when configured.
func Requirements(cfg *config.Config) []Requirement {
	reqs := []Requirement{
		{Name: "FFmpeg", Command: cfg.FFmpegBinary(), Description: "Encodes slides and narration into the final video", VersionArg: "-version"},
		{Name: "FFprobe", Command: cfg.FFprobeBinary(), Description: "Inspects the encoded video", VersionArg: "-version"},
	}
	if renderer := strings.TrimSpace(cfg.Video.SlideRenderer); renderer != "" {
		reqs = append(reqs, Requirement{Name: "Slide renderer", Command: renderer, Description: "Rasterizes slide markup to PNG", Optional: true})
	}
	return reqs
}

// CheckBinaries evaluates the provided requirements and reports availability.
// A nil runner only resolves binaries on PATH; otherwise each binary with a
// VersionArg is invoked once.
func CheckBinaries(ctx context.Context, runner command.Runner, requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		if runner != nil && req.VersionArg != "" {
			if _, err := runner.Run(ctx, cmd, req.VersionArg); err != nil {
				status.Detail = fmt.Sprintf("binary %q is not invocable: %v", cmd, err)
				results = append(results, status)
				continue
			}
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// MissingRequired returns a DependencyMissing error naming every unavailable
// required binary, or nil.
func MissingRequired(statuses []Status) error {
	var missing []string
	for _, status := range statuses {
		if status.Optional || status.Available {
			continue
		}
		missing = append(missing, fmt.Sprintf("%s (%s)", status.Name, status.Detail))
	}
	if len(missing) == 0 {
		return nil
	}
	return services.Wrap(services.ErrDependencyMissing, "deps", "check", strings.Join(missing, "; "), nil)
}
