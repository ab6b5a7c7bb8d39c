package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"issuereel/internal/deps"
	"issuereel/internal/media/command"
	"issuereel/internal/preflight"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	var skipServices bool

	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Check external tools and service readiness",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			statuses := preflight.CheckSystemDeps(cmd.Context(), cfg, command.NewExecRunner(logger))
			rows := make([][]string, 0, len(statuses))
			for _, status := range statuses {
				state := "ok"
				if !status.Available {
					state = "missing"
					if status.Optional {
						state = "missing (optional)"
					}
				}
				rows = append(rows, []string{status.Name, status.Command, state, status.Detail})
			}
			fmt.Fprintln(out, renderTable([]string{"Dependency", "Command", "Status", "Detail"}, rows, nil))

			if !skipServices {
				printLines(out, renderSectionHeader("Services", colorize)...)
				for _, result := range preflight.RunAll(cmd.Context(), cfg) {
					kind := statusOK
					if !result.Passed {
						kind = statusError
					}
					printLines(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
				}
			}
			return deps.MissingRequired(statuses)
		},
	}

	cmd.Flags().BoolVar(&skipServices, "offline", false, "Only check local binaries and directories")
	return cmd
}
