//go:build !unix && !windows

package procctl

import "syscall"

func detachedAttr(bool) *syscall.SysProcAttr {
	return nil
}
