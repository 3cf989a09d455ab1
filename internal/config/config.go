package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths locates the MotionInput install and the settings documents.
type Paths struct {
	InstallDir  string `toml:"install_dir"`
	DataDir     string `toml:"data_dir"`
	ConfigFile  string `toml:"config_file"`
	ModeFile    string `toml:"mode_file"`
	StagingFile string `toml:"staging_file"`
	LogDir      string `toml:"log_dir"`
}

// Restart tunes the stop/promote/relaunch sequence.
type Restart struct {
	// SettleDelayMS is how long to wait after terminating the processes
	// before the staged config replaces the live one.
	SettleDelayMS int `toml:"settle_delay_ms"`
}

// Process describes one external executable the restart sequence manages.
// Processes are launched in list order and terminated in reverse.
type Process struct {
	Name    string   `toml:"name"`
	Path    string   `toml:"path"`
	Args    []string `toml:"args"`
	Role    string   `toml:"role"`
	Visible bool     `toml:"visible"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for misettings.
type Config struct {
	Paths     Paths     `toml:"paths"`
	Restart   Restart   `toml:"restart"`
	Processes []Process `toml:"processes"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned
// config has every path expanded to an absolute form. A missing file is not an
// error: defaults are used and exists reports false.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		// A [[processes]] table in the file replaces the defaults wholesale.
		cfg.Processes = nil
		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(defaultProjectConfig)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// ConfigPath is the live config.json.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.Paths.DataDir, c.Paths.ConfigFile)
}

// ModePath is mode_controller.json.
func (c *Config) ModePath() string {
	return filepath.Join(c.Paths.DataDir, c.Paths.ModeFile)
}

// StagingPath is configMFC.json.
func (c *Config) StagingPath() string {
	return filepath.Join(c.Paths.DataDir, c.Paths.StagingFile)
}

// LockPath is the session lock file guarding concurrent settings writers.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.DataDir, "misettings.lock")
}

// SettleDelay returns the post-termination wait as a duration.
func (c *Config) SettleDelay() time.Duration {
	return time.Duration(c.Restart.SettleDelayMS) * time.Millisecond
}

// EnsureDirectories creates the log directory. The data directory belongs to
// the MotionInput install and is never created here.
func (c *Config) EnsureDirectories() error {
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return nil
	}
	if err := os.MkdirAll(c.Paths.LogDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Paths.LogDir, err)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// resolveUnder expands value and anchors it at root when it is relative.
func resolveUnder(root, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	if !strings.HasPrefix(value, "~") && !filepath.IsAbs(value) {
		value = filepath.Join(root, filepath.FromSlash(value))
	}
	return expandPath(value)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
