package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"issuereel/internal/runstore"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent pipeline runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := runstore.Open(cmd.Context(), filepath.Join(cfg.Paths.WorkRoot, runstore.DatabaseFile))
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, runs)
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					run.ID,
					fmt.Sprintf("%s#%d", run.Repository, run.SourceNumber),
					run.SourceKind,
					runState(run),
					formatSeconds(run.DurationSeconds),
					runLocation(run),
					run.StartedAt.Local().Format("2006-01-02 15:04"),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Run", "Source", "Kind", "State", "Length", "Video", "Started"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print runs as JSON")
	return cmd
}

func runState(run runstore.Run) string {
	if run.State == "failed" && run.FailedStage != "" {
		return fmt.Sprintf("failed at %s (%s)", run.FailedStage, run.ErrorKind)
	}
	return run.State
}

func runLocation(run runstore.Run) string {
	if run.VideoURL != "" {
		return run.VideoURL
	}
	return run.VideoPath
}
