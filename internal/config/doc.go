// Package config loads, normalizes, and validates misettings configuration.
//
// It supplies defaults matching the stock MotionInput install layout, expands
// user paths (including tilde shortcuts), reads TOML files, and resolves the
// data directory and process executables against the install root. The Config
// type centralizes where the settings documents live, which processes the
// restart sequence manages, and how long it waits between stopping them and
// promoting the staged configuration.
//
// Always obtain settings through this package so downstream code receives
// absolute paths and clear validation errors.
package config
