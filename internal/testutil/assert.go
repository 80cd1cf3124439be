package testutil

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sqve/gitscope/internal/errors"
)

// AssertErrorCode fails unless err carries the coded error code.
func AssertErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, code, errors.GetErrorCode(err), "error: %v", err)
}

// AssertPathExists fails if path doesn't exist. Works for files and directories.
func AssertPathExists(t *testing.T, path string) {
	t.Helper()
	_, err := os.Stat(path)
	require.NoError(t, err, "expected path %s to exist", path)
}

// AssertFileContent fails if file content doesn't match expected.
func AssertFileContent(t *testing.T, path, expected string) {
	t.Helper()
	content, err := os.ReadFile(path) // nolint:gosec // Test helper with controlled input
	require.NoError(t, err)
	require.Equal(t, expected, string(content), "file %s", path)
}
