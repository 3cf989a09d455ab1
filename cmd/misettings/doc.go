// Package main hosts the misettings CLI.
//
// The cobra command tree is the presentation layer over internal/settings and
// internal/restart: it turns flags into a Settings value, saves it, and
// bounces MotionInput so the new values take effect. It also resolves the
// tool configuration, takes the session lock for commands that write, and
// sets up logging.
package main
