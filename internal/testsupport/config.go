package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"misettings/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config rooted in a fresh temp install directory. The
// data directory exists and holds the sample settings documents; executables
// are absent unless WithExecutables is given.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.InstallDir = base
	cfgVal.Paths.DataDir = filepath.Join(base, "MotionInput", "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Restart.SettleDelayMS = 0
	for i := range cfgVal.Processes {
		cfgVal.Processes[i].Path = filepath.Join(base, filepath.FromSlash(cfgVal.Processes[i].Path))
	}

	if err := os.MkdirAll(cfgVal.Paths.DataDir, 0o755); err != nil {
		t.Fatalf("mkdir data dir: %v", err)
	}
	WriteFile(t, cfgVal.ConfigPath(), SampleConfigJSON)
	WriteFile(t, cfgVal.ModePath(), SampleModesJSON)

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithoutFile removes one of the settings documents after seeding.
func WithoutFile(pathOf func(*config.Config) string) ConfigOption {
	return func(b *configBuilder) {
		if err := os.Remove(pathOf(b.cfg)); err != nil && !os.IsNotExist(err) {
			b.t.Fatalf("remove fixture file: %v", err)
		}
	}
}

// WithExecutables creates an executable stub at every process path.
func WithExecutables() ConfigOption {
	return func(b *configBuilder) {
		for _, p := range b.cfg.Processes {
			WriteFile(b.t, p.Path, "#!/bin/sh\nexit 0\n")
			if err := os.Chmod(p.Path, 0o755); err != nil {
				b.t.Fatalf("chmod %s: %v", p.Path, err)
			}
		}
	}
}
