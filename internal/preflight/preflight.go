package preflight

import (
	"context"

	"misettings/internal/config"
	"misettings/internal/procctl"
	"misettings/internal/settings"
)

// Result reports the outcome of a single preflight check. A failed optional
// check is a warning rather than a failure.
type Result struct {
	Name     string
	Passed   bool
	Optional bool
	Detail   string
}

// Severity classifies a result for display.
func (r Result) Severity() string {
	switch {
	case r.Passed:
		return "ok"
	case r.Optional:
		return "warn"
	default:
		return "fail"
	}
}

// RunAll executes every install-layout check for cfg. ctrl may be nil to skip
// the process probes.
func RunAll(ctx context.Context, cfg *config.Config, store *settings.Store, ctrl procctl.Controller) []Result {
	if cfg == nil {
		return nil
	}

	paths := settings.Paths{Config: cfg.ConfigPath(), Modes: cfg.ModePath(), Staging: cfg.StagingPath()}
	if store != nil {
		paths = store.Paths()
	}
	results := []Result{
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
		CheckJSONFile("Live config", paths.Config, false),
		CheckJSONFile("Mode file", paths.Modes, false),
		CheckJSONFile("Staging config", paths.Staging, true),
	}
	if store != nil {
		results = append(results, CheckSettings(store))
	}
	for _, p := range cfg.Processes {
		results = append(results, CheckExecutable("Executable "+p.Name, p.Path))
	}
	if ctrl != nil {
		for _, p := range cfg.Processes {
			results = append(results, CheckProcess(ctx, ctrl, p.Name))
		}
	}
	return results
}

// Failures counts results that are neither passed nor optional.
func Failures(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Severity() == "fail" {
			n++
		}
	}
	return n
}
