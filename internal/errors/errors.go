package errors

import "fmt"

// ErrorCode represents a strlens error code.
type ErrorCode string

const (
	ErrInvalidRequest   ErrorCode = "INVALID_REQUEST"   // 400
	ErrInvalidPredicate ErrorCode = "INVALID_PREDICATE" // 400
	ErrNotFound         ErrorCode = "NOT_FOUND"         // 404
	ErrFileNotFound     ErrorCode = "FILE_NOT_FOUND"    // 404 (import source files)
	ErrValueTooLarge    ErrorCode = "VALUE_TOO_LARGE"   // 413
	ErrInternal         ErrorCode = "INTERNAL"          // 500
)

// StrlensError represents a structured error with code, status, and details.
type StrlensError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *StrlensError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *StrlensError {
	return &StrlensError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewInvalidPredicate creates a 400 error for a malformed predicate value.
// Raised at predicate construction time, before any filtering runs.
func NewInvalidPredicate(field, msg string) *StrlensError {
	return &StrlensError{
		Code:    ErrInvalidPredicate,
		Status:  400,
		Message: fmt.Sprintf("invalid predicate %s: %s", field, msg),
		Details: map[string]any{"field": field},
	}
}

// NewNotFound creates a 404 error for when a stored string cannot be found.
func NewNotFound(identifier string) *StrlensError {
	return &StrlensError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("string not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewFileNotFound creates a 404 error for a missing import file.
func NewFileNotFound(path string) *StrlensError {
	return &StrlensError{
		Code:    ErrFileNotFound,
		Status:  404,
		Message: fmt.Sprintf("file not found: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewValueTooLarge creates a 413 error when an input string exceeds the size limit.
func NewValueTooLarge(max, actual int) *StrlensError {
	return &StrlensError{
		Code:    ErrValueTooLarge,
		Status:  413,
		Message: fmt.Sprintf("value exceeds maximum size: %d chars (max %d)", actual, max),
		Details: map[string]any{"max_chars": max, "actual_chars": actual},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *StrlensError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &StrlensError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a StrlensError with the given code.
func Is(err error, code ErrorCode) bool {
	if sErr, ok := err.(*StrlensError); ok {
		return sErr.Code == code
	}
	return false
}
