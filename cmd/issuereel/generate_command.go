package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"issuereel/internal/config"
	"issuereel/internal/deps"
	"issuereel/internal/media/command"
	"issuereel/internal/pipeline"
	"issuereel/internal/source"
	"issuereel/internal/textutil"
)

type generateOptions struct {
	issue      int
	pr         int
	owner      string
	repo       string
	workDir    string
	scriptPath string
	keepTemp   bool
	checkDeps  bool
	jsonOut    bool
}

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Produce a video for one issue or pull request",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			req, err := opts.request(cfg)
			if err != nil {
				return err
			}
			if err := cfg.RequireCredentials(req.ScriptPath == ""); err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			if opts.checkDeps {
				statuses := deps.CheckBinaries(cmd.Context(), command.NewExecRunner(logger), deps.Requirements(cfg))
				if err := deps.MissingRequired(statuses); err != nil {
					return err
				}
			}

			orchestrator, closeHistory, err := pipeline.Build(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer closeHistory()

			result, runErr := orchestrator.Run(cmd.Context(), req)
			if opts.jsonOut {
				if err := writeJSON(cmd, result); err != nil {
					return err
				}
				return runErr
			}
			printRunSummary(cmd, result)
			return runErr
		},
	}

	cmd.Flags().IntVar(&opts.issue, "issue", 0, "Issue number to narrate")
	cmd.Flags().IntVar(&opts.pr, "pr", 0, "Pull request number to narrate")
	cmd.Flags().StringVar(&opts.owner, "owner", "", "Repository owner (defaults to github.owner)")
	cmd.Flags().StringVar(&opts.repo, "repo", "", "Repository name (defaults to github.repo)")
	cmd.Flags().StringVar(&opts.workDir, "workdir", "", "Reuse an existing working directory instead of creating one")
	cmd.Flags().StringVar(&opts.scriptPath, "script", "", "Use an edited script file (.json, .yaml) instead of generating one")
	cmd.Flags().BoolVar(&opts.keepTemp, "keep-temp", false, "Keep narration audio and slides after a successful run")
	cmd.Flags().BoolVar(&opts.checkDeps, "check-deps", false, "Verify ffmpeg and ffprobe before starting")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "Print the run result as JSON")
	return cmd
}

func (o generateOptions) request(cfg *config.Config) (pipeline.Request, error) {
	if (o.issue > 0) == (o.pr > 0) {
		return pipeline.Request{}, errors.New("exactly one of --issue or --pr is required")
	}
	req := pipeline.Request{
		Owner:      firstNonEmpty(o.owner, cfg.GitHub.Owner),
		Repo:       firstNonEmpty(o.repo, cfg.GitHub.Repo),
		WorkDir:    strings.TrimSpace(o.workDir),
		KeepTemp:   o.keepTemp,
		ScriptPath: strings.TrimSpace(o.scriptPath),
	}
	if o.issue > 0 {
		req.Number, req.Kind = o.issue, source.KindIssue
	} else {
		req.Number, req.Kind = o.pr, source.KindChangeRequest
	}
	if req.Owner == "" || req.Repo == "" {
		return pipeline.Request{}, errors.New("repository required: pass --owner and --repo, set github.owner/github.repo, or export GITHUB_REPOSITORY")
	}
	return req, nil
}

func printRunSummary(cmd *cobra.Command, result pipeline.Result) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	printLines(out, renderSectionHeader("Run "+result.RunID, colorize)...)

	if result.State == pipeline.StateFailed {
		printLines(out,
			renderStatusLine("Failed stage", statusError, string(result.FailedStage), colorize),
			renderStatusLine("Error", statusError, textutil.TruncateWithEllipsis(result.Error, 240), colorize),
			renderStatusLine("Work dir", statusInfo, result.WorkDir+" (kept)", colorize),
		)
		return
	}

	printLines(out,
		renderStatusLine("Title", statusInfo, result.Title, colorize),
		renderStatusLine("Video", statusOK, result.VideoPath, colorize),
		renderStatusLine("Duration", statusInfo, formatSeconds(result.DurationSeconds), colorize),
		renderStatusLine("Sections", statusInfo, fmt.Sprintf("%d audio, %d slides", result.AudioSegments, result.Slides), colorize),
	)
	switch {
	case result.UploadSkipped:
		printLines(out, renderStatusLine("Upload", statusWarn, "skipped (no upload credentials)", colorize))
	case result.Upload != nil:
		printLines(out, renderStatusLine("Upload", statusOK, result.Upload.URL, colorize))
		kind := statusOK
		if !result.LinkPosted {
			kind = statusWarn
		}
		printLines(out, renderStatusLine("Link comment", kind, yesNo(result.LinkPosted), colorize))
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
