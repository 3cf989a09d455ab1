package settings_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"misettings/internal/logging"
	"misettings/internal/settings"
	"misettings/internal/testsupport"
)

const sampleConfig = `{
    "general": {
        "camera": {"camera_nr": 0, "camera_width": 640},
        "view": {"show_fps": true, "window_title": "MotionInput"},
        "zeromq_client_enabled": false
    },
    "modules": {
        "hand": {"max_num_hands": 4, "min_detection_confidence": 0.55},
        "speech": {"enabled": false, "phrases": ["click", "stop"]}
    },
    "events": {
        "kiosk_swipe": {"swipe_sensitivity": 0.85}
    }
}
`

const sampleModes = `{
    "current_mode": "kiosk_swipe_right_hand",
    "modes": {"kiosk_swipe_right_hand": ["hand", "kiosk_swipe"]}
}
`

type fixture struct {
	dir   string
	paths settings.Paths
	store *settings.Store
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	paths := settings.Paths{
		Config:  filepath.Join(dir, "config.json"),
		Modes:   filepath.Join(dir, "mode_controller.json"),
		Staging: filepath.Join(dir, "configMFC.json"),
	}
	testsupport.WriteFile(t, paths.Config, sampleConfig)
	testsupport.WriteFile(t, paths.Modes, sampleModes)
	return fixture{dir: dir, paths: paths, store: settings.NewStore(paths, logging.NewNop())}
}

func TestLoadReadsAllFields(t *testing.T) {
	fx := newFixture(t)
	got, err := fx.store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := settings.Settings{
		Mode:             settings.ModeRightSwipe,
		MaxNumHands:      4,
		SpeechEnabled:    false,
		CameraIndex:      0,
		SwipeSensitivity: 0.85,
		ShowFPS:          true,
	}
	if got != want {
		t.Fatalf("Load = %+v, want %+v", got, want)
	}
	if got.SensitivityPercent() != 85 {
		t.Fatalf("expected 85%%, got %d", got.SensitivityPercent())
	}
}

func TestLoadDefaultsMaxNumHandsWhenAbsent(t *testing.T) {
	fx := newFixture(t)
	testsupport.WriteFile(t, fx.paths.Config, `{
		"general": {"camera": {"camera_nr": 1}, "view": {"show_fps": false}},
		"modules": {"speech": {"enabled": true}},
		"events": {"kiosk_swipe": {"swipe_sensitivity": 0.5}}
	}`)
	got, err := fx.store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.MaxNumHands != settings.DefaultMaxNumHands {
		t.Fatalf("expected default hands %d, got %d", settings.DefaultMaxNumHands, got.MaxNumHands)
	}
	if !got.SpeechEnabled || got.CameraIndex != 1 {
		t.Fatalf("unexpected settings: %+v", got)
	}
}

func TestLoadMissingConfigIsNotFound(t *testing.T) {
	fx := newFixture(t)
	if err := os.Remove(fx.paths.Config); err != nil {
		t.Fatal(err)
	}
	got, err := fx.store.Load()
	if !errors.Is(err, settings.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if got != (settings.Settings{}) {
		t.Fatalf("expected zero settings on error, got %+v", got)
	}
	var cfgErr *settings.ConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Path != fx.paths.Config {
		t.Fatalf("expected ConfigError for %s, got %#v", fx.paths.Config, err)
	}
}

func TestLoadMissingModesIsNotFound(t *testing.T) {
	fx := newFixture(t)
	if err := os.Remove(fx.paths.Modes); err != nil {
		t.Fatal(err)
	}
	if _, err := fx.store.Load(); !errors.Is(err, settings.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadMalformed(t *testing.T) {
	cases := []struct {
		name   string
		config string
		modes  string
		key    string
	}{
		{name: "bad json", config: `{"general": `, modes: sampleModes},
		{name: "missing camera", config: `{"general": {"view": {"show_fps": true}}, "modules": {"speech": {"enabled": true}}, "events": {"kiosk_swipe": {"swipe_sensitivity": 0.5}}}`, modes: sampleModes, key: "general.camera.camera_nr"},
		{name: "sensitivity wrong type", config: `{"general": {"camera": {"camera_nr": 0}, "view": {"show_fps": true}}, "modules": {"speech": {"enabled": true}}, "events": {"kiosk_swipe": {"swipe_sensitivity": "high"}}}`, modes: sampleModes, key: "events.kiosk_swipe.swipe_sensitivity"},
		{name: "fractional camera", config: `{"general": {"camera": {"camera_nr": 1.5}, "view": {"show_fps": true}}, "modules": {"speech": {"enabled": true}}, "events": {"kiosk_swipe": {"swipe_sensitivity": 0.5}}}`, modes: sampleModes, key: "general.camera.camera_nr"},
		{name: "unknown mode", config: sampleConfig, modes: `{"current_mode": "both_hands"}`, key: "current_mode"},
		{name: "missing mode", config: sampleConfig, modes: `{}`, key: "current_mode"},
		{name: "trailing data", config: sampleConfig + `{}`, modes: sampleModes},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fx := newFixture(t)
			testsupport.WriteFile(t, fx.paths.Config, tc.config)
			testsupport.WriteFile(t, fx.paths.Modes, tc.modes)
			_, err := fx.store.Load()
			if !errors.Is(err, settings.ErrMalformed) {
				t.Fatalf("expected ErrMalformed, got %v", err)
			}
			var cfgErr *settings.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected *ConfigError, got %T", err)
			}
			if cfgErr.Key != tc.key {
				t.Fatalf("key = %q, want %q", cfgErr.Key, tc.key)
			}
		})
	}
}

func TestSaveSensitivityRoundTripsEveryPercent(t *testing.T) {
	fx := newFixture(t)
	base, err := fx.store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for p := 0; p <= 100; p++ {
		value := base
		value.SetSensitivityPercent(p)
		if _, err := fx.store.Save(value); err != nil {
			t.Fatalf("Save(%d): %v", p, err)
		}
		staged, err := fx.store.Staged()
		if err != nil {
			t.Fatalf("Staged(%d): %v", p, err)
		}
		if want := float64(p) / 100; staged.SwipeSensitivity != want {
			t.Fatalf("percent %d: staged %v, want %v", p, staged.SwipeSensitivity, want)
		}
		if staged.SensitivityPercent() != p {
			t.Fatalf("percent %d: read back %d", p, staged.SensitivityPercent())
		}
	}
}

func TestSaveClampsMaxNumHands(t *testing.T) {
	cases := []struct {
		in   int
		want float64
	}{
		{in: 0, want: 1},
		{in: -3, want: 1},
		{in: 15, want: 10},
		{in: 7, want: 7},
	}
	for _, tc := range cases {
		fx := newFixture(t)
		value, err := fx.store.Load()
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		value.MaxNumHands = tc.in
		if _, err := fx.store.Save(value); err != nil {
			t.Fatalf("Save: %v", err)
		}
		got := testsupport.Dig(t, testsupport.ReadJSON(t, fx.paths.Staging), "modules", "hand", "max_num_hands")
		if got != tc.want {
			t.Fatalf("max_num_hands %d persisted as %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestSaveClampsCameraIndex(t *testing.T) {
	fx := newFixture(t)
	value, err := fx.store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	value.CameraIndex = -1
	saved, err := fx.store.Save(value)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.CameraIndex != 0 {
		t.Fatalf("expected camera clamped to 0, got %d", saved.CameraIndex)
	}
	value.CameraIndex = 42
	if _, err := fx.store.Save(value); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if got := testsupport.Dig(t, testsupport.ReadJSON(t, fx.paths.Staging), "general", "camera", "camera_nr"); got != float64(settings.MaxCameraIndex) {
		t.Fatalf("camera_nr persisted as %v", got)
	}
}

func TestSavePersistsSelectedCamera(t *testing.T) {
	fx := newFixture(t)
	value, err := fx.store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	value.CameraIndex = 2 // "Camera 3"
	if _, err := fx.store.Save(value); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if got := testsupport.Dig(t, testsupport.ReadJSON(t, fx.paths.Staging), "general", "camera", "camera_nr"); got != float64(2) {
		t.Fatalf("camera_nr = %v, want 2", got)
	}
}

func TestSaveModeToggleLeavesShowFPS(t *testing.T) {
	fx := newFixture(t)
	value, err := fx.store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	value.Mode = settings.ModeLeftSwipe
	value.ShowFPS = false // read-only; must not be written
	if _, err := fx.store.Save(value); err != nil {
		t.Fatalf("Save: %v", err)
	}
	modes := testsupport.ReadJSON(t, fx.paths.Modes)
	if got := testsupport.Dig(t, modes, "current_mode"); got != "kiosk_swipe_left_hand" {
		t.Fatalf("current_mode = %v", got)
	}
	if got := testsupport.Dig(t, testsupport.ReadJSON(t, fx.paths.Staging), "general", "view", "show_fps"); got != true {
		t.Fatalf("show_fps changed to %v", got)
	}
	reloaded, err := fx.store.Staged()
	if err != nil {
		t.Fatalf("Staged: %v", err)
	}
	if reloaded.Mode != settings.ModeLeftSwipe || !reloaded.ShowFPS {
		t.Fatalf("unexpected reload: %+v", reloaded)
	}
}

func TestSavePreservesUnrelatedKeys(t *testing.T) {
	fx := newFixture(t)
	value, err := fx.store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := fx.store.Save(value); err != nil {
		t.Fatalf("Save: %v", err)
	}

	modes := testsupport.ReadJSON(t, fx.paths.Modes)
	if got := testsupport.Dig(t, modes, "current_mode"); got != string(settings.ModeRightSwipe) {
		t.Fatalf("current_mode = %v", got)
	}
	list, ok := testsupport.Dig(t, modes, "modes", "kiosk_swipe_right_hand").([]any)
	if !ok || len(list) != 2 || list[1] != "kiosk_swipe" {
		t.Fatalf("modes table not preserved: %v", testsupport.Dig(t, modes, "modes"))
	}

	staged := testsupport.ReadJSON(t, fx.paths.Staging)
	if got := testsupport.Dig(t, staged, "modules", "hand", "min_detection_confidence"); got != 0.55 {
		t.Fatalf("min_detection_confidence = %v", got)
	}
	if got := testsupport.Dig(t, staged, "general", "view", "window_title"); got != "MotionInput" {
		t.Fatalf("window_title = %v", got)
	}
	if got := testsupport.Dig(t, staged, "modules", "speech", "enabled"); got != false {
		t.Fatalf("speech.enabled = %v", got)
	}
}

func TestSaveForcesZeroMQClient(t *testing.T) {
	fx := newFixture(t)
	value, err := fx.store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := fx.store.Save(value); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if got := testsupport.Dig(t, testsupport.ReadJSON(t, fx.paths.Staging), "general", "zeromq_client_enabled"); got != true {
		t.Fatalf("zeromq_client_enabled = %v", got)
	}
	// The live config is only the merge base.
	if got := testsupport.Dig(t, testsupport.ReadJSON(t, fx.paths.Config), "general", "zeromq_client_enabled"); got != false {
		t.Fatalf("live config modified: zeromq_client_enabled = %v", got)
	}
}

func TestSaveIsIdempotent(t *testing.T) {
	fx := newFixture(t)
	value, err := fx.store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	value.Mode = settings.ModeLeftSwipe
	value.SetSensitivityPercent(37)

	if _, err := fx.store.Save(value); err != nil {
		t.Fatalf("first Save: %v", err)
	}
	firstModes := mustRead(t, fx.paths.Modes)
	firstStaging := mustRead(t, fx.paths.Staging)

	if _, err := fx.store.Save(value); err != nil {
		t.Fatalf("second Save: %v", err)
	}
	if !bytes.Equal(firstModes, mustRead(t, fx.paths.Modes)) {
		t.Fatal("mode_controller.json changed between identical saves")
	}
	if !bytes.Equal(firstStaging, mustRead(t, fx.paths.Staging)) {
		t.Fatal("configMFC.json changed between identical saves")
	}
	if !bytes.HasSuffix(firstStaging, []byte("}\n")) || !bytes.Contains(firstStaging, []byte("\n    \"")) {
		t.Fatalf("expected 4-space indented output, got:\n%s", firstStaging)
	}
}

func TestSaveRejectsInvalidMode(t *testing.T) {
	fx := newFixture(t)
	value, err := fx.store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	before := mustRead(t, fx.paths.Modes)
	value.Mode = ""
	if _, err := fx.store.Save(value); !errors.Is(err, settings.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if !bytes.Equal(before, mustRead(t, fx.paths.Modes)) {
		t.Fatal("mode file written despite invalid mode")
	}
	if _, err := os.Stat(fx.paths.Staging); !os.IsNotExist(err) {
		t.Fatalf("staging file should not exist, stat err = %v", err)
	}
}

func TestSaveWriteFailure(t *testing.T) {
	fx := newFixture(t)
	value, err := fx.store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	before := mustRead(t, fx.paths.Modes)
	paths := fx.paths
	paths.Staging = filepath.Join(fx.dir, "missing-dir", "configMFC.json")
	store := settings.NewStore(paths, logging.NewNop())
	value.Mode = settings.ModeLeftSwipe
	if _, err := store.Save(value); !errors.Is(err, settings.ErrWriteFailed) {
		t.Fatalf("expected ErrWriteFailed, got %v", err)
	}
	if !bytes.Equal(before, mustRead(t, fx.paths.Modes)) {
		t.Fatal("mode_controller.json changed although the staging write failed")
	}
}

func TestPendingFallsBackToLive(t *testing.T) {
	fx := newFixture(t)
	got, err := fx.store.Pending()
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}
	live, err := fx.store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != live {
		t.Fatalf("Pending = %+v, want live %+v", got, live)
	}
}

func TestSaveBuildsOnStagedDocument(t *testing.T) {
	fx := newFixture(t)
	first, err := fx.store.Pending()
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}
	first.SetSensitivityPercent(40)
	if _, err := fx.store.Save(first); err != nil {
		t.Fatalf("first Save: %v", err)
	}

	second, err := fx.store.Pending()
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}
	if second.SensitivityPercent() != 40 {
		t.Fatalf("pending sensitivity = %d, want 40", second.SensitivityPercent())
	}
	second.CameraIndex = 2
	if _, err := fx.store.Save(second); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	staged := testsupport.ReadJSON(t, fx.paths.Staging)
	if got := testsupport.Dig(t, staged, "events", "kiosk_swipe", "swipe_sensitivity"); got != 0.4 {
		t.Fatalf("first staged edit lost: sensitivity = %v", got)
	}
	if got := testsupport.Dig(t, staged, "general", "camera", "camera_nr"); got != float64(2) {
		t.Fatalf("camera_nr = %v, want 2", got)
	}
	live := testsupport.ReadJSON(t, fx.paths.Config)
	if got := testsupport.Dig(t, live, "events", "kiosk_swipe", "swipe_sensitivity"); got != 0.85 {
		t.Fatalf("live config modified: sensitivity = %v", got)
	}
}

func TestSaveRejectsNonObjectIntermediate(t *testing.T) {
	fx := newFixture(t)
	testsupport.WriteFile(t, fx.paths.Config, `{
		"general": {"camera": 3, "view": {"show_fps": true}},
		"modules": {"hand": {"max_num_hands": 2}, "speech": {"enabled": true}},
		"events": {"kiosk_swipe": {"swipe_sensitivity": 0.5}}
	}`)
	value := settings.Settings{Mode: settings.ModeRightSwipe, MaxNumHands: 2, SwipeSensitivity: 0.5}
	if _, err := fx.store.Save(value); !errors.Is(err, settings.ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func mustRead(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return data
}
