package fs

import (
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// Git-compatible permissions (required for git metadata)
	DirGit  = 0o755 // rwxr-xr-x - git-compatible directory
	FileGit = 0o644 // rw-r--r-- - git-compatible file

	// MaxMarkerSize caps how much of a marker file is read. Markers hold a
	// single path or object id, never more.
	MaxMarkerSize = 64 * 1024
)

// DirectoryExists checks if a directory exists
func DirectoryExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// FileExists checks if path exists and is a regular file
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// PathExists checks if any path exists (file or directory)
func PathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsNotExist reports whether err means the path is missing. A path whose
// parent is a regular file counts as missing too.
func IsNotExist(err error) bool {
	return errors.Is(err, iofs.ErrNotExist) || errors.Is(err, errNotDir)
}

// ReadMarker reads a small single-value file such as gitdir or commondir and
// returns its content without the trailing line ending. A missing file is
// reported through ok, not as an error.
func ReadMarker(path string) (value string, ok bool, err error) {
	f, err := os.Open(path) // nolint:gosec // Reading git metadata marker
	if err != nil {
		if IsNotExist(err) {
			return "", false, nil
		}
		return "", false, err
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, MaxMarkerSize+1))
	if err != nil {
		return "", false, err
	}
	if len(data) > MaxMarkerSize {
		return "", false, fmt.Errorf("marker %s exceeds %d bytes", path, MaxMarkerSize)
	}

	return strings.TrimRight(string(data), "\r\n"), true, nil
}

// WriteFileAtomic writes data to a file atomically by writing to a temp file then renaming
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmpPath := fmt.Sprintf("%s.tmp.%d.%d", path, os.Getpid(), time.Now().UnixNano())
	if err := os.WriteFile(tmpPath, data, perm); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

// ResolvePath makes path absolute relative to base unless it already is.
func ResolvePath(base, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(base, path)
}
