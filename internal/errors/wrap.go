package errors

import (
	"errors"
	"fmt"
)

// Report whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// Find the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// WithOperation records operation on the first *Error in err's chain, or wraps
// err in a FILE_SYSTEM error when there is none.
func WithOperation(err error, operation string) error {
	if err == nil {
		return nil
	}

	var e *Error
	if As(err, &e) {
		e.Operation = operation
		return err
	}

	wrapped := New(ErrCodeFileSystem, fmt.Sprintf("operation %s failed", operation), err).
		WithContext("operation", operation)
	wrapped.Operation = operation
	return wrapped
}
