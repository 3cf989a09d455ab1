// Package settings owns the MotionInput settings read-modify-write contract.
//
// A Store loads the six user-facing values from mode_controller.json and
// config.json, clamps and quantizes them on save, and merges them back into
// mode_controller.json and the configMFC.json staging document. Keys the store
// does not manage round-trip untouched. The staging document only becomes the
// live config.json when the restart package promotes it.
//
// Errors are *ConfigError values tagged with ErrNotFound, ErrMalformed,
// ErrWriteFailed, or ErrInvalid so callers can branch with errors.Is.
package settings
