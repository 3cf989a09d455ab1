package testsupport

import (
	"testing"

	"misettings/internal/config"
	"misettings/internal/logging"
	"misettings/internal/settings"
)

// NewStore builds a settings.Store over cfg's documents with a no-op logger.
func NewStore(t testing.TB, cfg *config.Config) *settings.Store {
	t.Helper()
	return settings.NewStore(settings.Paths{
		Config:  cfg.ConfigPath(),
		Modes:   cfg.ModePath(),
		Staging: cfg.StagingPath(),
	}, logging.NewNop())
}
