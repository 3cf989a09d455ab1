package settings

import (
	"errors"
	"strings"
)

var (
	ErrNotFound    = errors.New("settings file not found")
	ErrMalformed   = errors.New("settings file malformed")
	ErrWriteFailed = errors.New("settings write failed")
	ErrInvalid     = errors.New("invalid settings value")
)

// ConfigError reports a failure reading or writing one of the settings
// documents. Kind is one of the exported sentinels above.
type ConfigError struct {
	Kind error
	Path string
	Key  string
	Err  error
}

func (e *ConfigError) Error() string {
	parts := make([]string, 0, 4)
	if e.Kind != nil {
		parts = append(parts, e.Kind.Error())
	}
	if e.Path != "" {
		parts = append(parts, e.Path)
	}
	if e.Key != "" {
		parts = append(parts, e.Key)
	}
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	if len(parts) == 0 {
		return "settings error"
	}
	return strings.Join(parts, ": ")
}

func (e *ConfigError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func notFound(path string, err error) error {
	return &ConfigError{Kind: ErrNotFound, Path: path, Err: err}
}

func malformed(path, key string, err error) error {
	return &ConfigError{Kind: ErrMalformed, Path: path, Key: key, Err: err}
}

func writeFailed(path string, err error) error {
	return &ConfigError{Kind: ErrWriteFailed, Path: path, Err: err}
}
