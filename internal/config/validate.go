package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateRestart(); err != nil {
		return err
	}
	if err := c.validateProcesses(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	files := []struct {
		key  string
		name string
	}{
		{"paths.config_file", c.Paths.ConfigFile},
		{"paths.mode_file", c.Paths.ModeFile},
		{"paths.staging_file", c.Paths.StagingFile},
	}
	seen := make(map[string]string, len(files))
	for _, f := range files {
		if filepath.Base(f.name) != f.name {
			return fmt.Errorf("%s must be a file name inside paths.data_dir, got %q", f.key, f.name)
		}
		folded := strings.ToLower(f.name)
		if other, ok := seen[folded]; ok {
			return fmt.Errorf("%s and %s must name different files", other, f.key)
		}
		seen[folded] = f.key
	}
	return nil
}

func (c *Config) validateRestart() error {
	if c.Restart.SettleDelayMS < 0 {
		return errors.New("restart.settle_delay_ms must not be negative")
	}
	return nil
}

func (c *Config) validateProcesses() error {
	if len(c.Processes) == 0 {
		return errors.New("at least one [[processes]] entry is required")
	}
	seen := make(map[string]struct{}, len(c.Processes))
	for i, proc := range c.Processes {
		if proc.Name == "" {
			return fmt.Errorf("processes[%d].name must be set", i)
		}
		if proc.Path == "" {
			return fmt.Errorf("processes[%d].path must be set", i)
		}
		key := strings.ToLower(proc.Name)
		if _, ok := seen[key]; ok {
			return fmt.Errorf("processes[%d].name %q is duplicated", i, proc.Name)
		}
		seen[key] = struct{}{}
		switch proc.Role {
		case "", RoleServer, RoleClient:
		default:
			return fmt.Errorf("processes[%d].role must be %q or %q, got %q", i, RoleServer, RoleClient, proc.Role)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	if c.Logging.RetentionDays < 0 {
		return errors.New("logging.retention_days must not be negative (0 disables pruning)")
	}
	return nil
}
