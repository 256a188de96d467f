package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Validation errors
	ErrModuleInvalid ErrorCode = "MODULE_INVALID"
	ErrTargetInvalid ErrorCode = "TARGET_INVALID"

	// Path mapping errors
	ErrPathMapping ErrorCode = "PATH_MAPPING"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// Filesystem errors
	ErrFileAccess    ErrorCode = "FILE_ACCESS"
	ErrFileCopy      ErrorCode = "FILE_COPY"
	ErrFileDelete    ErrorCode = "FILE_DELETE"
	ErrSymlinkCreate ErrorCode = "SYMLINK_CREATE"
	ErrSymlinkRead   ErrorCode = "SYMLINK_READ"
)

// StorError represents a structured error with code and details
type StorError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *StorError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *StorError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *StorError) Is(target error) bool {
	var targetErr *StorError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// WithDetail attaches a key/value pair to the error and returns it
func (e *StorError) WithDetail(key string, value interface{}) *StorError {
	e.Details[key] = value
	return e
}

// New creates a new StorError with the given code and message
func New(code ErrorCode, message string) *StorError {
	return &StorError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new StorError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *StorError {
	return &StorError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a StorError
func Wrap(err error, code ErrorCode, message string) *StorError {
	if err == nil {
		return nil
	}
	return &StorError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *StorError {
	if err == nil {
		return nil
	}
	return &StorError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// IsCode reports whether err carries the given code anywhere in its chain
func IsCode(err error, code ErrorCode) bool {
	var storErr *StorError
	for errors.As(err, &storErr) {
		if storErr.Code == code {
			return true
		}
		err = storErr.Wrapped
		if err == nil {
			break
		}
	}
	return false
}
