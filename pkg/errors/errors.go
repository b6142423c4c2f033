// Package errors provides structured errors with stable codes for dotfold.
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
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"
	ErrPatchParse  ErrorCode = "PATCH_PARSE"

	// Cache errors
	ErrCacheLoad    ErrorCode = "CACHE_LOAD"
	ErrCacheSave    ErrorCode = "CACHE_SAVE"
	ErrCacheMissing ErrorCode = "CACHE_MISSING"

	// Action errors
	ErrActionConflict ErrorCode = "ACTION_CONFLICT"
	ErrActionExecute  ErrorCode = "ACTION_EXECUTE"
	ErrRender         ErrorCode = "RENDER"
	ErrHookRun        ErrorCode = "HOOK_RUN"

	// FileSystem errors
	ErrFileNotFound  ErrorCode = "FILE_NOT_FOUND"
	ErrFileRead      ErrorCode = "FILE_READ"
	ErrFileWrite     ErrorCode = "FILE_WRITE"
	ErrFileDelete    ErrorCode = "FILE_DELETE"
	ErrFileCopy      ErrorCode = "FILE_COPY"
	ErrSymlinkCreate ErrorCode = "SYMLINK_CREATE"
	ErrDirCreate     ErrorCode = "DIR_CREATE"
	ErrOwnership     ErrorCode = "OWNERSHIP"
)

// DotfoldError represents a structured error with code and details
type DotfoldError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *DotfoldError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *DotfoldError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *DotfoldError) Is(target error) bool {
	var targetErr *DotfoldError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// WithDetail attaches a named detail to the error and returns it
func (e *DotfoldError) WithDetail(key string, value interface{}) *DotfoldError {
	e.Details[key] = value
	return e
}

// New creates a new DotfoldError with the given code and message
func New(code ErrorCode, message string) *DotfoldError {
	return &DotfoldError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new DotfoldError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *DotfoldError {
	return &DotfoldError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a DotfoldError
func Wrap(err error, code ErrorCode, message string) *DotfoldError {
	if err == nil {
		return nil
	}
	return &DotfoldError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *DotfoldError {
	if err == nil {
		return nil
	}
	return &DotfoldError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// IsCode reports whether err carries the given error code
func IsCode(err error, code ErrorCode) bool {
	var dfErr *DotfoldError
	if errors.As(err, &dfErr) {
		return dfErr.Code == code
	}
	return false
}
