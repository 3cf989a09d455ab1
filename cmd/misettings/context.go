package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"misettings/internal/config"
	"misettings/internal/logging"
	"misettings/internal/procctl"
	"misettings/internal/restart"
	"misettings/internal/session"
	"misettings/internal/settings"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string
	ctrl         procctl.Controller

	configOnce sync.Once
	config     *config.Config
	configErr  error

	pruneOnce sync.Once
}

func newCommandContext(configFlag, logLevelFlag *string, ctrl procctl.Controller) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
		ctrl:         ctrl,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// newLogger builds the command logger tagged with sessionID. Log output goes
// to the command's stderr and the log file; old log files are pruned on the
// first call.
func (c *commandContext) newLogger(cmd *cobra.Command, sessionID string) (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	opts := logging.OptionsFromConfig(cfg, sessionID)
	opts.Stderr = cmd.ErrOrStderr()
	if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
		opts.Level = *c.logLevelFlag
	}
	logger, err := logging.New(opts)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	c.pruneOnce.Do(func() {
		logging.CleanupOldLogs(logger, cfg.Logging.RetentionDays, logging.ConfigRetentionTarget(cfg.Paths.LogDir))
	})
	return logging.NewComponentLogger(logger, "cli"), nil
}

func (c *commandContext) store(cfg *config.Config, logger *slog.Logger) *settings.Store {
	return settings.NewStore(settings.Paths{
		Config:  cfg.ConfigPath(),
		Modes:   cfg.ModePath(),
		Staging: cfg.StagingPath(),
	}, logger)
}

func (c *commandContext) controller(logger *slog.Logger) procctl.Controller {
	if c.ctrl != nil {
		return c.ctrl
	}
	return procctl.NewSystem(logger)
}

func (c *commandContext) restarter(cfg *config.Config, logger *slog.Logger) *restart.Restarter {
	return restart.NewRestarter(c.controller(logger), restart.PlanFromConfig(cfg), logger)
}

// commandEnv bundles what a command body needs.
type commandEnv struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *settings.Store
}

// withSession holds the settings lock for the duration of fn.
func (c *commandContext) withSession(cmd *cobra.Command, fn func(env commandEnv) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	sess, err := session.Acquire(cfg.LockPath())
	if err != nil {
		return err
	}
	logger, err := c.newLogger(cmd, sess.ID)
	if err != nil {
		_ = sess.Release()
		return err
	}
	defer func() {
		if err := sess.Release(); err != nil {
			logging.WarnWithContext(logger, "session lock release failed", "session_release_failed",
				logging.String("lock", sess.LockPath()),
				logging.Error(err),
				logging.String(logging.FieldImpact, "the next run may report a busy session until the lock file is removed"),
			)
		}
	}()
	return fn(commandEnv{cfg: cfg, logger: logger, store: c.store(cfg, logger)})
}

// withoutSession serves read-only commands.
func (c *commandContext) withoutSession(cmd *cobra.Command, fn func(env commandEnv) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := c.newLogger(cmd, session.NewID())
	if err != nil {
		return err
	}
	return fn(commandEnv{cfg: cfg, logger: logger, store: c.store(cfg, logger)})
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
