package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"misettings/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the MotionInput install layout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withoutSession(cmd, func(env commandEnv) error {
				results := preflight.RunAll(cmd.Context(), env.cfg, env.store, ctx.controller(env.logger))

				rows := make([][]string, 0, len(results))
				for _, r := range results {
					rows = append(rows, []string{r.Name, r.Severity(), r.Detail})
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, renderTable([]string{"Check", "Status", "Detail"}, rows, 1, shouldColorize(out)))

				if n := preflight.Failures(results); n > 0 {
					return fmt.Errorf("doctor found %d problem(s)", n)
				}
				fmt.Fprintln(out, "All checks passed")
				return nil
			})
		},
	}
}
