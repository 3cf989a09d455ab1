package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"misettings/internal/restart"
)

func newProcessCommands(ctx *commandContext) []*cobra.Command {
	return []*cobra.Command{
		{
			Use:   "apply",
			Short: "Restart MotionInput with the staged settings",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return ctx.withSession(cmd, func(env commandEnv) error {
					return runApply(cmd, ctx, env)
				})
			},
		},
		{
			Use:   "stop",
			Short: "Terminate the MotionInput processes",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return ctx.withSession(cmd, func(env commandEnv) error {
					rep, err := ctx.restarter(env.cfg, env.logger).Stop(cmd.Context())
					printReport(cmd, rep)
					if err != nil {
						return fmt.Errorf("stop: %w", err)
					}
					return nil
				})
			},
		},
		{
			Use:   "start",
			Short: "Launch any MotionInput process that is not running",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return ctx.withSession(cmd, func(env commandEnv) error {
					rep, err := ctx.restarter(env.cfg, env.logger).StartMissing(cmd.Context())
					printReport(cmd, rep)
					if err != nil {
						return fmt.Errorf("start: %w", err)
					}
					return nil
				})
			},
		},
	}
}

// runApply runs the full restart. Termination failures are printed as
// warnings; copy or launch failures fail the command.
func runApply(cmd *cobra.Command, ctx *commandContext, env commandEnv) error {
	rep, err := ctx.restarter(env.cfg, env.logger).Apply(cmd.Context())
	printReport(cmd, rep)
	if err == nil {
		return nil
	}
	if restart.Fatal(err) {
		return fmt.Errorf("restart incomplete: %w", err)
	}
	for _, step := range rep.Failed() {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", step.Err)
	}
	return nil
}

func printReport(cmd *cobra.Command, rep restart.Report) {
	if len(rep.Steps) == 0 {
		return
	}
	out := cmd.OutOrStdout()
	rows := make([][]string, 0, len(rep.Steps))
	for _, step := range rep.Steps {
		rows = append(rows, []string{string(step.Action), step.Target, string(step.Status), stepDetail(step)})
	}
	fmt.Fprintln(out, renderTable([]string{"Step", "Target", "Result", "Detail"}, rows, 2, shouldColorize(out)))
}

func stepDetail(step restart.Step) string {
	if step.Err != nil {
		var rerr *restart.Error
		if errors.As(step.Err, &rerr) && rerr.Err != nil {
			return rerr.Err.Error()
		}
		return step.Err.Error()
	}
	switch step.Action {
	case restart.ActionTerminate:
		return "killed " + strconv.Itoa(step.Count)
	case restart.ActionSettle:
		return step.Duration.String()
	case restart.ActionLaunch:
		if step.Status == restart.StatusSkipped {
			return "already running"
		}
		return "pid " + strconv.Itoa(step.PID)
	default:
		return ""
	}
}
