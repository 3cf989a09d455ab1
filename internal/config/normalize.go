package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeProcesses(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.InstallDir) == "" {
		c.Paths.InstallDir = defaultInstallDir
	}
	if c.Paths.InstallDir, err = expandPath(strings.TrimSpace(c.Paths.InstallDir)); err != nil {
		return fmt.Errorf("paths.install_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = resolveUnder(c.Paths.InstallDir, c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	c.Paths.ConfigFile = defaultIfBlank(c.Paths.ConfigFile, defaultConfigFile)
	c.Paths.ModeFile = defaultIfBlank(c.Paths.ModeFile, defaultModeFile)
	c.Paths.StagingFile = defaultIfBlank(c.Paths.StagingFile, defaultStagingFile)
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeProcesses() error {
	if len(c.Processes) == 0 {
		c.Processes = defaultProcesses()
	}
	for i := range c.Processes {
		proc := &c.Processes[i]
		proc.Name = strings.TrimSpace(proc.Name)
		proc.Role = strings.ToLower(strings.TrimSpace(proc.Role))
		path, err := resolveUnder(c.Paths.InstallDir, proc.Path)
		if err != nil {
			return fmt.Errorf("processes[%d].path: %w", i, err)
		}
		proc.Path = path
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(defaultIfBlank(c.Logging.Format, defaultLogFormat))
	c.Logging.Level = strings.ToLower(defaultIfBlank(c.Logging.Level, defaultLogLevel))
}

func defaultIfBlank(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	return value
}
