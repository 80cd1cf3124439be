// Package testutil holds helpers shared by package tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sqve/gitscope/internal/fs"
)

// TempDir returns a temp directory with symlinks resolved. Paths read back
// from gitdir and commondir files are compared against it, and on macOS
// t.TempDir lives under the /var -> /private/var symlink.
func TempDir(t *testing.T) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err, "resolve temp dir")
	return resolved
}

// WriteFile writes content to path, creating parent directories with git's
// directory mode.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), fs.DirGit), "create parent of %s", path)
	require.NoError(t, os.WriteFile(path, []byte(content), fs.FileGit), "write %s", path)
}
