//go:build !windows

package fs

import (
	"syscall"

	"golang.org/x/sys/unix"
)

var errNotDir error = syscall.ENOTDIR

// IsAccessibleDir reports whether path is a directory the current process can
// list and enter.
func IsAccessibleDir(path string) bool {
	if !DirectoryExists(path) {
		return false
	}
	return unix.Access(path, unix.R_OK|unix.X_OK) == nil
}
