// Package procctl abstracts the external MotionInput processes behind a
// Controller so the restart sequence can terminate, launch, and probe them
// without touching the OS in tests.
//
// System is the real implementation: it walks the process table with
// gopsutil, kills matching images together with their children (the
// TASKKILL /T /F behaviour), and launches executables detached and, on
// Windows, without a console window.
package procctl
