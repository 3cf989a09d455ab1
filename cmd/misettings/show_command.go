package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"misettings/internal/settings"
)

// settingsView is the show --json payload. Camera is 1-based and sensitivity
// is given both as the stored fraction and as the displayed percent.
type settingsView struct {
	Source             string  `json:"source"`
	Mode               string  `json:"mode"`
	ModeID             string  `json:"mode_id"`
	MaxNumHands        int     `json:"max_num_hands"`
	Camera             int     `json:"camera"`
	CameraIndex        int     `json:"camera_index"`
	SwipeSensitivity   float64 `json:"swipe_sensitivity"`
	SensitivityPercent int     `json:"swipe_sensitivity_percent"`
	SpeechEnabled      bool    `json:"speech_enabled"`
	ShowFPS            bool    `json:"show_fps"`
}

func newSettingsView(source string, s settings.Settings) settingsView {
	return settingsView{
		Source:             source,
		Mode:               s.Mode.Hand(),
		ModeID:             string(s.Mode),
		MaxNumHands:        s.MaxNumHands,
		Camera:             s.CameraIndex + 1,
		CameraIndex:        s.CameraIndex,
		SwipeSensitivity:   s.SwipeSensitivity,
		SensitivityPercent: s.SensitivityPercent(),
		SpeechEnabled:      s.SpeechEnabled,
		ShowFPS:            s.ShowFPS,
	}
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	var staged bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the current MotionInput settings",
		Long: "Show the settings MotionInput is running with. With --staged, show the\n" +
			"saved settings the next restart will apply instead.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withoutSession(cmd, func(env commandEnv) error {
				source := "live"
				load := env.store.Load
				if staged {
					source = "staged"
					load = env.store.Staged
				}
				current, err := load()
				if err != nil {
					return fmt.Errorf("load %s settings: %w", source, err)
				}

				if asJSON {
					return writeJSON(cmd, newSettingsView(source, current))
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderSettings(current))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&staged, "staged", false, "Show the staged settings instead of the live ones")
	return cmd
}

func renderSettings(s settings.Settings) string {
	rows := [][]string{
		{"Hand mode", s.Mode.Label()},
		{"Max hands", strconv.Itoa(s.MaxNumHands)},
		{"Camera", fmt.Sprintf("Camera %d", s.CameraIndex+1)},
		{"Swipe sensitivity", fmt.Sprintf("%d%%", s.SensitivityPercent())},
		{"Speech", yesNo(s.SpeechEnabled)},
		{"Show FPS", yesNo(s.ShowFPS)},
	}
	return renderTable([]string{"Setting", "Value"}, rows, -1, false)
}
