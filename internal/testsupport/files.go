package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// SampleConfigJSON is a trimmed MotionInput config.json. Keys the settings
// tool never touches are included so tests can check they survive a save.
const SampleConfigJSON = `{
    "general": {
        "camera": {"camera_nr": 1, "camera_width": 640},
        "view": {"show_fps": false},
        "zeromq_client_enabled": true
    },
    "modules": {
        "hand": {"max_num_hands": 2},
        "speech": {"enabled": true}
    },
    "events": {
        "kiosk_swipe": {"swipe_sensitivity": 0.5}
    }
}
`

// SampleModesJSON is a mode_controller.json selecting the right-hand swipe mode.
const SampleModesJSON = `{
    "current_mode": "kiosk_swipe_right_hand"
}
`

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// ReadJSON decodes the JSON object at path.
func ReadJSON(t testing.TB, path string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return out
}

// Dig walks nested objects in doc and fails the test if a key is missing.
func Dig(t testing.TB, doc map[string]any, keys ...string) any {
	t.Helper()
	var node any = doc
	for _, key := range keys {
		obj, ok := node.(map[string]any)
		if !ok {
			t.Fatalf("%s: parent is %T, not an object", key, node)
		}
		node, ok = obj[key]
		if !ok {
			t.Fatalf("missing key %s", key)
		}
	}
	return node
}
