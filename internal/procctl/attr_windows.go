//go:build windows

package procctl

import (
	"syscall"

	"golang.org/x/sys/windows"
)

func detachedAttr(hidden bool) *syscall.SysProcAttr {
	attr := &syscall.SysProcAttr{CreationFlags: windows.CREATE_NEW_PROCESS_GROUP}
	if hidden {
		attr.HideWindow = true
		attr.CreationFlags |= windows.CREATE_NO_WINDOW
	}
	return attr
}
