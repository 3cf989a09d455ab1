package preflight_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"misettings/internal/config"
	"misettings/internal/logging"
	"misettings/internal/preflight"
	"misettings/internal/procctl"
	"misettings/internal/settings"
	"misettings/internal/testsupport"
)

func TestCheckDirectoryAccess(t *testing.T) {
	dir := t.TempDir()
	if res := preflight.CheckDirectoryAccess("data", dir); !res.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", res.Detail)
	}

	missing := filepath.Join(dir, "absent")
	res := preflight.CheckDirectoryAccess("data", missing)
	if res.Passed || !strings.Contains(res.Detail, "does not exist") {
		t.Fatalf("unexpected result for missing dir: %+v", res)
	}

	file := filepath.Join(dir, "file")
	testsupport.WriteFile(t, file, "x")
	res = preflight.CheckDirectoryAccess("data", file)
	if res.Passed || !strings.Contains(res.Detail, "not a directory") {
		t.Fatalf("unexpected result for file: %+v", res)
	}
}

func TestCheckJSONFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.json")
	bad := filepath.Join(dir, "bad.json")
	array := filepath.Join(dir, "array.json")
	testsupport.WriteFile(t, good, `{"a": 1, "b": {}}`)
	testsupport.WriteFile(t, bad, `{"a":`)
	testsupport.WriteFile(t, array, `[1, 2]`)

	if res := preflight.CheckJSONFile("good", good, false); !res.Passed || !strings.Contains(res.Detail, "2 top-level keys") {
		t.Fatalf("good: %+v", res)
	}
	for _, path := range []string{bad, array} {
		if res := preflight.CheckJSONFile("x", path, false); res.Passed || res.Severity() != "fail" {
			t.Fatalf("%s: expected failure, got %+v", path, res)
		}
	}
	missing := filepath.Join(dir, "missing.json")
	if res := preflight.CheckJSONFile("required", missing, false); res.Passed {
		t.Fatalf("missing required file passed: %+v", res)
	}
	if res := preflight.CheckJSONFile("optional", missing, true); !res.Passed || !strings.Contains(res.Detail, "absent") {
		t.Fatalf("missing optional file: %+v", res)
	}
}

func TestCheckExecutable(t *testing.T) {
	if res := preflight.CheckExecutable("x", ""); res.Passed {
		t.Fatal("empty path should fail")
	}
	if res := preflight.CheckExecutable("x", filepath.Join(t.TempDir(), "nope.exe")); res.Passed {
		t.Fatal("missing executable should fail")
	}
}

func TestRunAllReportsMissingExecutables(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.NewStore(t, cfg)

	results := preflight.RunAll(context.Background(), cfg, store, nil)
	if got := preflight.Failures(results); got != len(cfg.Processes) {
		t.Fatalf("failures = %d, want %d: %+v", got, len(cfg.Processes), results)
	}
	for _, r := range results {
		if strings.HasPrefix(r.Name, "Executable") {
			if r.Passed {
				t.Fatalf("executable check passed without stub: %+v", r)
			}
			continue
		}
		if !r.Passed {
			t.Fatalf("unexpected failure: %+v", r)
		}
	}
}

func TestRunAllHealthyInstall(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithExecutables())
	store := testsupport.NewStore(t, cfg)
	fake := procctl.NewFake(cfg.Processes[0].Name)

	results := preflight.RunAll(context.Background(), cfg, store, fake)
	if got := preflight.Failures(results); got != 0 {
		t.Fatalf("failures = %d: %+v", got, results)
	}

	details := map[string]string{}
	for _, r := range results {
		details[r.Name] = r.Detail
	}
	if details["Process "+cfg.Processes[0].Name] != "running" {
		t.Fatalf("server status = %q", details["Process "+cfg.Processes[0].Name])
	}
	if details["Process "+cfg.Processes[1].Name] != "not running" {
		t.Fatalf("client status = %q", details["Process "+cfg.Processes[1].Name])
	}
	if want := "mode=right max_hands=2 camera=2 sensitivity=50%"; details["Settings"] != want {
		t.Fatalf("settings detail = %q, want %q", details["Settings"], want)
	}
}

func TestRunAllMissingModeFile(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithExecutables(),
		testsupport.WithoutFile((*config.Config).ModePath))
	results := preflight.RunAll(context.Background(), cfg, testsupport.NewStore(t, cfg), nil)
	// The mode file check and the settings load both fail.
	if got := preflight.Failures(results); got != 2 {
		t.Fatalf("failures = %d: %+v", got, results)
	}
}

func TestRunAllChecksStoreDocuments(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithExecutables())
	other := filepath.Join(t.TempDir(), "config.json")
	store := settings.NewStore(settings.Paths{
		Config:  other,
		Modes:   cfg.ModePath(),
		Staging: cfg.StagingPath(),
	}, logging.NewNop())

	results := preflight.RunAll(context.Background(), cfg, store, nil)
	for _, r := range results {
		if r.Name != "Live config" {
			continue
		}
		if r.Passed || !strings.HasPrefix(r.Detail, other) {
			t.Fatalf("expected failure for store path %s, got %+v", other, r)
		}
		return
	}
	t.Fatal("live config check missing")
}

func TestCheckProcessProbeFailureIsWarning(t *testing.T) {
	fake := procctl.NewFake()
	fake.RunningErr = errors.New("denied")
	res := preflight.CheckProcess(context.Background(), fake, "x.exe")
	if res.Severity() != "warn" {
		t.Fatalf("severity = %q", res.Severity())
	}
}
