package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"misettings/internal/logging"
)

const (
	keyCurrentMode      = "current_mode"
	keyCameraNr         = "general.camera.camera_nr"
	keyShowFPS          = "general.view.show_fps"
	keyZeroMQClient     = "general.zeromq_client_enabled"
	keyMaxNumHands      = "modules.hand.max_num_hands"
	keySpeechEnabled    = "modules.speech.enabled"
	keySwipeSensitivity = "events.kiosk_swipe.swipe_sensitivity"
)

// ForcedZeroMQClient is written to general.zeromq_client_enabled on every
// save. The relaunched MotionInput client only talks to the server over the
// ZeroMQ bridge, so a save must never leave it disabled.
const ForcedZeroMQClient = true

// Paths locates the documents a Store reads and writes.
type Paths struct {
	// Config is the live config.json the running MotionInput reads.
	Config string
	// Modes is mode_controller.json.
	Modes string
	// Staging is configMFC.json. Save writes config fields here; the restart
	// sequence copies it over Config once MotionInput is down.
	Staging string
}

// Store reads and writes the settings documents. It keeps no state between
// calls; the caller owns the Settings value.
type Store struct {
	paths  Paths
	logger *slog.Logger
}

// NewStore constructs a Store for the given document paths.
func NewStore(paths Paths, logger *slog.Logger) *Store {
	return &Store{
		paths:  paths,
		logger: logging.NewComponentLogger(logger, "settings"),
	}
}

// Paths returns the document locations the store was built with.
func (s *Store) Paths() Paths {
	return s.paths
}

// Load reads current settings from mode_controller.json and the live
// config.json. On error the zero Settings is returned.
func (s *Store) Load() (Settings, error) {
	return s.loadFrom(s.paths.Config)
}

// Staged reads settings using the staging document in place of config.json,
// showing what the next restart will apply.
func (s *Store) Staged() (Settings, error) {
	return s.loadFrom(s.paths.Staging)
}

// Pending returns the settings the next restart will apply: the staged
// values when a staging document exists, otherwise the live ones. Edits
// build on Pending so earlier unapplied saves are kept.
func (s *Store) Pending() (Settings, error) {
	base, err := s.mergeBase()
	if err != nil {
		return Settings{}, err
	}
	return s.loadFrom(base)
}

// mergeBase picks the document Save merges into. The staging document wins
// once it exists; promotion on restart makes it identical to the live one.
func (s *Store) mergeBase() (string, error) {
	_, err := os.Stat(s.paths.Staging)
	switch {
	case err == nil:
		return s.paths.Staging, nil
	case errors.Is(err, fs.ErrNotExist):
		return s.paths.Config, nil
	default:
		return "", &ConfigError{Kind: ErrNotFound, Path: s.paths.Staging, Err: fmt.Errorf("stat: %w", err)}
	}
}

func (s *Store) loadFrom(configPath string) (Settings, error) {
	modes, err := readDocument(s.paths.Modes)
	if err != nil {
		return Settings{}, err
	}
	cfg, err := readDocument(configPath)
	if err != nil {
		return Settings{}, err
	}

	rawMode, err := modes.stringAt(s.paths.Modes, keyCurrentMode)
	if err != nil {
		return Settings{}, err
	}
	mode, err := ParseMode(rawMode)
	if err != nil {
		return Settings{}, malformed(s.paths.Modes, keyCurrentMode, err)
	}

	var out Settings
	out.Mode = mode
	if out.ShowFPS, err = cfg.boolAt(configPath, keyShowFPS); err != nil {
		return Settings{}, err
	}
	if out.SpeechEnabled, err = cfg.boolAt(configPath, keySpeechEnabled); err != nil {
		return Settings{}, err
	}
	if out.CameraIndex, err = cfg.requireInt(configPath, keyCameraNr); err != nil {
		return Settings{}, err
	}
	if out.SwipeSensitivity, err = cfg.floatAt(configPath, keySwipeSensitivity); err != nil {
		return Settings{}, err
	}

	hands, present, err := cfg.intAt(configPath, keyMaxNumHands)
	if err != nil {
		return Settings{}, err
	}
	if !present {
		s.logger.Debug("max_num_hands absent; using default",
			logging.String("path", configPath),
			logging.Int("default", DefaultMaxNumHands),
		)
		hands = DefaultMaxNumHands
	}
	out.MaxNumHands = clampInt(hands, MinMaxNumHands, MaxMaxNumHands)

	return out, nil
}

// Save normalizes value and merges it into mode_controller.json and the
// staging document. The merge base is the existing staging document, or the
// live config.json when nothing is staged; config.json itself is never
// written. It returns the normalized settings that were persisted.
func (s *Store) Save(value Settings) (Settings, error) {
	normalized, err := value.Normalized()
	if err != nil {
		return Settings{}, err
	}

	modes, err := readDocument(s.paths.Modes)
	if err != nil {
		return Settings{}, err
	}
	basePath, err := s.mergeBase()
	if err != nil {
		return Settings{}, err
	}
	cfg, err := readDocument(basePath)
	if err != nil {
		return Settings{}, err
	}

	if err := modes.set(keyCurrentMode, string(normalized.Mode)); err != nil {
		return Settings{}, malformed(s.paths.Modes, keyCurrentMode, err)
	}

	updates := []struct {
		key   string
		value any
	}{
		{keyCameraNr, normalized.CameraIndex},
		{keyMaxNumHands, normalized.MaxNumHands},
		{keySwipeSensitivity, normalized.SwipeSensitivity},
		{keyZeroMQClient, ForcedZeroMQClient},
	}
	for _, u := range updates {
		if err := cfg.set(u.key, u.value); err != nil {
			return Settings{}, malformed(basePath, u.key, err)
		}
	}

	// Staging first: a failed write must not leave the live mode changed.
	if err := writeDocument(s.paths.Staging, cfg); err != nil {
		return Settings{}, err
	}
	if err := writeDocument(s.paths.Modes, modes); err != nil {
		return Settings{}, err
	}

	s.logger.Debug("forced zeromq client flag on save",
		logging.String("key", keyZeroMQClient),
		logging.Bool("value", ForcedZeroMQClient),
	)
	s.logger.Info("settings saved",
		logging.String("mode", normalized.Mode.Hand()),
		logging.Int("max_num_hands", normalized.MaxNumHands),
		logging.Int("camera_nr", normalized.CameraIndex),
		logging.Float64("swipe_sensitivity", normalized.SwipeSensitivity),
		logging.String("merge_base", basePath),
		logging.String("staging", s.paths.Staging),
	)
	return normalized, nil
}

// Describe renders a one-line summary used in CLI confirmations.
func (s Settings) Describe() string {
	parts := []string{
		fmt.Sprintf("mode=%s", s.Mode.Hand()),
		fmt.Sprintf("max_hands=%d", s.MaxNumHands),
		fmt.Sprintf("camera=%d", s.CameraIndex+1),
		fmt.Sprintf("sensitivity=%d%%", s.SensitivityPercent()),
	}
	return strings.Join(parts, " ")
}
