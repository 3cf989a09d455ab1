// Package preflight checks that a MotionInput install is in a state misettings
// can work with: the data directory is accessible, the settings documents
// parse, the executables exist, and (informationally) whether the processes
// are running.
//
// The doctor command renders RunAll's results; individual checks are exported
// for reuse.
package preflight
