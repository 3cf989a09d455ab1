package settings

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Mode selects which hand drives the kiosk swipe gesture.
type Mode string

const (
	ModeLeftSwipe  Mode = "kiosk_swipe_left_hand"
	ModeRightSwipe Mode = "kiosk_swipe_right_hand"
)

const (
	MinMaxNumHands     = 1
	MaxMaxNumHands     = 10
	DefaultMaxNumHands = 2

	// The dialog offers "Camera 1" through "Camera 9".
	MinCameraIndex = 0
	MaxCameraIndex = 8

	MinSensitivityPercent = 0
	MaxSensitivityPercent = 100
)

// ParseMode accepts a stored mode identifier or the short forms "left" and
// "right", case-insensitively.
func ParseMode(value string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "left", string(ModeLeftSwipe):
		return ModeLeftSwipe, nil
	case "right", string(ModeRightSwipe):
		return ModeRightSwipe, nil
	default:
		return "", fmt.Errorf("%w: unknown mode %q (want left or right)", ErrInvalid, value)
	}
}

// Valid reports whether m is one of the two swipe modes.
func (m Mode) Valid() bool {
	return m == ModeLeftSwipe || m == ModeRightSwipe
}

// Hand returns "left" or "right", or "" for an invalid mode.
func (m Mode) Hand() string {
	switch m {
	case ModeLeftSwipe:
		return "left"
	case ModeRightSwipe:
		return "right"
	default:
		return ""
	}
}

// Label is the human-readable name shown by the CLI.
func (m Mode) Label() string {
	hand := m.Hand()
	if hand == "" {
		return "Unknown"
	}
	return cases.Title(language.English).String(hand + " hand")
}

func (m Mode) String() string { return string(m) }

// Settings is the in-memory view of the values the settings tool edits.
// SpeechEnabled and ShowFPS are read for display only and are never written.
type Settings struct {
	Mode             Mode    `json:"current_mode"`
	MaxNumHands      int     `json:"max_num_hands"`
	SpeechEnabled    bool    `json:"speech_enabled"`
	CameraIndex      int     `json:"camera_index"`
	SwipeSensitivity float64 `json:"swipe_sensitivity"`
	ShowFPS          bool    `json:"show_fps"`
}

// SensitivityPercent returns the sensitivity as the whole percentage the
// slider shows.
func (s Settings) SensitivityPercent() int {
	return FractionToPercent(s.SwipeSensitivity)
}

// SetSensitivityPercent stores a slider percentage as a fraction.
func (s *Settings) SetSensitivityPercent(percent int) {
	s.SwipeSensitivity = PercentToFraction(percent)
}

// Normalized returns a copy with every writable field forced into its domain.
// Sensitivity is snapped to whole-percent granularity so repeated save/load
// cycles cannot drift.
func (s Settings) Normalized() (Settings, error) {
	if !s.Mode.Valid() {
		return Settings{}, &ConfigError{Kind: ErrInvalid, Key: "current_mode", Err: fmt.Errorf("mode %q", s.Mode)}
	}
	s.MaxNumHands = clampInt(s.MaxNumHands, MinMaxNumHands, MaxMaxNumHands)
	s.CameraIndex = clampInt(s.CameraIndex, MinCameraIndex, MaxCameraIndex)
	s.SwipeSensitivity = PercentToFraction(FractionToPercent(s.SwipeSensitivity))
	return s, nil
}

// PercentToFraction clamps percent to [0,100] and converts it to [0,1].
func PercentToFraction(percent int) float64 {
	return float64(clampInt(percent, MinSensitivityPercent, MaxSensitivityPercent)) / 100
}

// FractionToPercent clamps fraction to [0,1] and rounds it to a whole percent.
func FractionToPercent(fraction float64) int {
	if math.IsNaN(fraction) {
		return MinSensitivityPercent
	}
	fraction = math.Max(0, math.Min(1, fraction))
	return int(math.Round(fraction * 100))
}

func clampInt(value, lo, hi int) int {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}
