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

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// Source resolution errors
	ErrInvalidSource ErrorCode = "INVALID_SOURCE"

	// Version errors
	ErrInvalidVersion        ErrorCode = "INVALID_VERSION"
	ErrConstraintUnsatisfied ErrorCode = "CONSTRAINT_UNSATISFIED"

	// Manifest errors
	ErrInvalidManifest   ErrorCode = "INVALID_MANIFEST"
	ErrManifestNotFound  ErrorCode = "MANIFEST_NOT_FOUND"
	ErrManifestAmbiguous ErrorCode = "MANIFEST_AMBIGUOUS"

	// External tool errors
	ErrExternalTool ErrorCode = "EXTERNAL_TOOL"

	// Filesystem errors
	ErrIO ErrorCode = "IO_FAILURE"
)

// TypmError represents a structured error with code and details
type TypmError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *TypmError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *TypmError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *TypmError) Is(target error) bool {
	var targetErr *TypmError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new TypmError with the given code and message
func New(code ErrorCode, message string) *TypmError {
	return &TypmError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new TypmError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *TypmError {
	return &TypmError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a TypmError
func Wrap(err error, code ErrorCode, message string) *TypmError {
	if err == nil {
		return nil
	}
	return &TypmError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *TypmError {
	if err == nil {
		return nil
	}
	return &TypmError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *TypmError) WithDetail(key string, value interface{}) *TypmError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *TypmError) WithDetails(details map[string]interface{}) *TypmError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var typmErr *TypmError
	if errors.As(err, &typmErr) {
		return typmErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a TypmError
func GetErrorCode(err error) ErrorCode {
	var typmErr *TypmError
	if errors.As(err, &typmErr) {
		return typmErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a TypmError
func GetErrorDetails(err error) map[string]interface{} {
	var typmErr *TypmError
	if errors.As(err, &typmErr) {
		return typmErr.Details
	}
	return nil
}
