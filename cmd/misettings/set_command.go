package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"misettings/internal/logging"
	"misettings/internal/settings"
)

const restartNotice = "Any changes made have now been saved. MotionInput will now be restarted to apply the new settings."

func newSetCommand(ctx *commandContext) *cobra.Command {
	var (
		modeFlag    string
		maxHands    int
		camera      int
		sensitivity int
		noRestart   bool
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change settings and restart MotionInput to apply them",
		Long: "Load the pending settings (staged if any, else live), apply the given\n" +
			"flags, and save. Repeated saves build on each other until applied. Out-of-range\n" +
			"values are clamped. Unless --no-restart is given, MotionInput is then\n" +
			"stopped, the staged config is promoted, and both processes relaunch.",
		Example: "  misettings set --mode left --sensitivity 40\n" +
			"  misettings set --camera 2 --max-hands 1 --no-restart",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var mode settings.Mode
			if cmd.Flags().Changed("mode") {
				parsed, err := settings.ParseMode(modeFlag)
				if err != nil {
					return err
				}
				mode = parsed
			}

			return ctx.withSession(cmd, func(env commandEnv) error {
				current, err := env.store.Pending()
				if err != nil {
					return fmt.Errorf("load settings: %w", err)
				}

				next := current
				if mode != "" {
					next.Mode = mode
				}
				if cmd.Flags().Changed("max-hands") {
					next.MaxNumHands = maxHands
				}
				if cmd.Flags().Changed("camera") {
					next.CameraIndex = camera - 1
				}
				if cmd.Flags().Changed("sensitivity") {
					next.SetSensitivityPercent(sensitivity)
				}

				saved, err := env.store.Save(next)
				if err != nil {
					return fmt.Errorf("save settings: %w", err)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Saved settings: %s\n", saved.Describe())
				if noRestart {
					env.logger.Info("restart skipped by request",
						logging.String(logging.FieldEventType, "restart_skipped"),
					)
					fmt.Fprintln(out, "Restart skipped; run `misettings apply` to apply the staged settings.")
					return nil
				}

				fmt.Fprintln(out, restartNotice)
				return runApply(cmd, ctx, env)
			})
		},
	}

	cmd.Flags().StringVar(&modeFlag, "mode", "", "Swipe hand: left or right")
	cmd.Flags().IntVar(&maxHands, "max-hands", settings.DefaultMaxNumHands, "Maximum number of tracked hands (1-10)")
	cmd.Flags().IntVar(&camera, "camera", 1, "Camera number as listed in MotionInput (1-9)")
	cmd.Flags().IntVar(&sensitivity, "sensitivity", 50, "Swipe sensitivity in percent (0-100)")
	cmd.Flags().BoolVar(&noRestart, "no-restart", false, "Save without restarting MotionInput")
	return cmd
}
