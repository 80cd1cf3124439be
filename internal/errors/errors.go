package errors

import (
	"errors"
	"fmt"
)

// Error codes for programmatic handling
const (
	// System errors
	ErrCodeFileSystem = "FILE_SYSTEM"

	// Repository errors
	ErrCodeRepoNotFound    = "REPO_NOT_FOUND"
	ErrCodeRepoOpen        = "REPO_OPEN"
	ErrCodeRepoUnsupported = "REPO_UNSUPPORTED"

	// Worktree errors
	ErrCodeWorktreeUnavailable = "WORKTREE_UNAVAILABLE"

	// Index errors
	ErrCodeIndexNotFound    = "INDEX_NOT_FOUND"
	ErrCodeIndexCorrupt     = "INDEX_CORRUPT"
	ErrCodeIndexUnsupported = "INDEX_UNSUPPORTED"

	// Configuration errors
	ErrCodeConfigInvalid = "CONFIG_INVALID"
)

// Error represents a standardized error with code and context.
//
// Error provides structured error handling for gitscope operations with:
//   - Code: standardized error code for programmatic handling
//   - Message: human-readable error description
//   - Cause: underlying error that caused this error (optional)
//   - Context: additional contextual information as key-value pairs
//   - Operation: the operation that failed (optional)
//
// Example usage:
//
//	err := ErrIndexNotFound("/repo/.git/index", cause)
//	if IsCode(err, ErrCodeIndexNotFound) {
//	  // Treat as an empty staging area
//	}
type Error struct {
	Code      string         // Standardized error code (see ErrCode* constants)
	Message   string         // Human-readable error message
	Cause     error          // Underlying error that caused this error
	Context   map[string]any // Additional contextual information
	Operation string         // The operation that failed
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target error code
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WithContext adds context information to the error
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// New creates a new standardized error
func New(code, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
		Context: make(map[string]any),
	}
}

// Newf creates a new standardized error with formatted message
func Newf(code string, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
		Context: make(map[string]any),
	}
}

// Error factory functions for common error types

// System errors
func ErrFileSystem(operation, path string, cause error) *Error {
	return Newf(ErrCodeFileSystem, cause, "%s %s", operation, path).
		WithContext("operation", operation).
		WithContext("path", path)
}

// Repository errors
func ErrRepoNotFound(path, reason string) *Error {
	return Newf(ErrCodeRepoNotFound, nil, "not a git repository: %s (%s)", path, reason).
		WithContext("path", path).
		WithContext("reason", reason)
}

func ErrRepoOpen(path string, cause error) *Error {
	return Newf(ErrCodeRepoOpen, cause, "failed to open repository at %s", path).
		WithContext("path", path)
}

func ErrRepoUnsupported(path, reason string) *Error {
	return Newf(ErrCodeRepoUnsupported, nil, "unsupported repository at %s: %s", path, reason).
		WithContext("path", path).
		WithContext("reason", reason)
}

// Worktree errors
func ErrWorktreeUnavailable(gitDir, reason string, cause error) *Error {
	return Newf(ErrCodeWorktreeUnavailable, cause, "worktree %s unavailable: %s", gitDir, reason).
		WithContext("git_dir", gitDir).
		WithContext("reason", reason)
}

// Index errors
func ErrIndexNotFound(path string, cause error) *Error {
	return Newf(ErrCodeIndexNotFound, cause, "no index at %s", path).
		WithContext("path", path)
}

func ErrIndexCorrupt(path string, cause error) *Error {
	return Newf(ErrCodeIndexCorrupt, cause, "corrupt index at %s", path).
		WithContext("path", path)
}

func ErrIndexUnsupported(path, reason string, cause error) *Error {
	return Newf(ErrCodeIndexUnsupported, cause, "unsupported index at %s: %s", path, reason).
		WithContext("path", path).
		WithContext("reason", reason)
}

// Configuration errors
func ErrConfigInvalid(key, value string, cause error) *Error {
	return Newf(ErrCodeConfigInvalid, cause, "invalid value %q for %s", value, key).
		WithContext("key", key).
		WithContext("value", value)
}

// IsCode reports whether err, or any error it wraps, is an *Error with code.
func IsCode(err error, code string) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetErrorCode returns the code of the first *Error in err's chain.
func GetErrorCode(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
