package preflight

import (
	"context"

	"issuereel/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every applicable readiness check. Service checks run only
// when their credentials are configured.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Work root", cfg.Paths.WorkRoot),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	}
	if cfg.GitHub.Token != "" {
		results = append(results, CheckGitHub(ctx, cfg.GitHub.BaseURL, cfg.GitHub.Token))
	}
	if llmCfg := cfg.GetLLM(); llmCfg.APIKey != "" {
		results = append(results, CheckLLM(ctx, "Script LLM", llmCfg))
	}
	results = append(results, CheckUpload(cfg))
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
