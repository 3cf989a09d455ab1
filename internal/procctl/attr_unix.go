//go:build unix

package procctl

import "syscall"

// There is no window to hide; a new session keeps the child alive after the
// settings tool exits.
func detachedAttr(bool) *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setsid: true}
}
