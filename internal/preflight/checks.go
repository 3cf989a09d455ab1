package preflight

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"misettings/internal/procctl"
	"misettings/internal/settings"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := checkReadWrite(path); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckJSONFile verifies that path holds a single JSON object. A missing
// optional file passes with a note.
func CheckJSONFile(name, path string, optional bool) Result {
	res := Result{Name: name, Optional: optional}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if optional {
				res.Passed = true
				res.Detail = fmt.Sprintf("%s (absent; created on next save)", path)
				return res
			}
			res.Detail = fmt.Sprintf("%s (error: does not exist)", path)
			return res
		}
		res.Detail = fmt.Sprintf("%s (error: %v)", path, err)
		return res
	}
	var obj map[string]json.RawMessage
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&obj); err != nil || obj == nil {
		res.Detail = fmt.Sprintf("%s (error: not a JSON object)", path)
		return res
	}
	res.Passed = true
	res.Detail = fmt.Sprintf("%s (%d top-level keys)", path, len(obj))
	return res
}

// CheckExecutable verifies that path names an executable file.
func CheckExecutable(name, path string) Result {
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{Name: name, Detail: "path not configured"}
	}
	if _, err := exec.LookPath(path); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not found or not executable)", path)}
	}
	return Result{Name: name, Passed: true, Detail: path}
}

// CheckSettings loads the live settings the way show does.
func CheckSettings(store *settings.Store) Result {
	const name = "Settings"
	current, err := store.Load()
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	return Result{Name: name, Passed: true, Detail: current.Describe()}
}

// CheckProcess reports whether a MotionInput process is running. It is
// informational: a stopped process is not a failure.
func CheckProcess(ctx context.Context, ctrl procctl.Controller, processName string) Result {
	name := "Process " + processName
	running, err := ctrl.Running(ctx, processName)
	if err != nil {
		return Result{Name: name, Optional: true, Detail: fmt.Sprintf("probe failed: %v", err)}
	}
	if running {
		return Result{Name: name, Optional: true, Passed: true, Detail: "running"}
	}
	return Result{Name: name, Optional: true, Passed: true, Detail: "not running"}
}
