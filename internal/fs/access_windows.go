//go:build windows

package fs

import (
	"os"
	"syscall"
)

var errNotDir error = syscall.ERROR_PATH_NOT_FOUND

// IsAccessibleDir reports whether path is a directory the current process can list.
func IsAccessibleDir(path string) bool {
	f, err := os.Open(path) // nolint:gosec // Probing a worktree checkout
	if err != nil {
		return false
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	return err == nil && info.IsDir()
}
