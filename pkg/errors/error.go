// Package errors provides structured error handling with typed error codes.
//
// Error codes are organized into categories:
//   - General errors (1-99): Unknown and general errors
//   - Validation errors (100-199): Invalid parameters, ranges, types and configuration
//   - Data errors (200-299): Missing data, query failures, unavailable sources
//   - Indicator errors (300-399): Indicator lookup and signal calculation errors
//   - Strategy errors (400-499): Malformed strategy combinations
//   - Simulation errors (500-599): Failures isolated to a single combination
//   - Resource errors (600-699): Host resources cannot satisfy the run
//   - Run errors (700-799): Run level cancellation and initialization failures
//   - Callback errors (800-899): Callback execution failures
//
// The backtest pipeline distinguishes three failure classes:
//
//	// ConfigurationError: fatal for one strategy, detected before simulation
//	errors.IsConfigurationError(err)
//
//	// ResourceError: fatal for the run, detected before any kernel work
//	errors.IsResourceError(err)
//
//	// CombinationError: recorded on one combination, siblings keep running
//	errors.IsCombinationError(err)
//
// Usage:
//
//	err := errors.Newf(errors.ErrCodeMissingParameter, "parameter %s not found", name)
//	err := errors.Wrap(errors.ErrCodeQueryFailed, "failed to execute query", originalErr)
//	if errors.HasCode(err, errors.ErrCodeDataNotFound) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Error represents a structured error with an error code and message.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// New creates a new Error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   nil,
	}
}

// Newf creates a new Error with the given code and formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   nil,
	}
}

// Wrap wraps an existing error with a new Error containing the given code and message.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an existing error with a new Error containing the given code and formatted message.
func Wrapf(code ErrorCode, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
	}

	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether any error in err's chain matches target.
// This is a convenience wrapper around the standard errors.Is function.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
// This is a convenience wrapper around the standard errors.As function.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// GetCode extracts the ErrorCode from an error if it's an *Error type.
// Returns ErrCodeUnknown if the error is not an *Error type.
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	var r *ResourceError
	if errors.As(err, &r) {
		return ErrCodeInsufficientResources
	}

	return ErrCodeUnknown
}

// HasCode checks if an error has a specific ErrorCode.
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

func inRange(err error, low, high ErrorCode) bool {
	if err == nil {
		return false
	}

	code := GetCode(err)

	return code >= low && code <= high
}

// IsConfigurationError reports whether err is a validation or strategy error.
func IsConfigurationError(err error) bool {
	return inRange(err, 100, 199) || inRange(err, 400, 499)
}

// IsCombinationError reports whether err belongs to the simulation category.
func IsCombinationError(err error) bool {
	return inRange(err, 500, 599)
}

// IsResourceError reports whether err is a ResourceError or carries a resource code.
func IsResourceError(err error) bool {
	var r *ResourceError
	if errors.As(err, &r) {
		return true
	}

	return inRange(err, 600, 699)
}

// ResourceError represents a host that cannot satisfy the memory safety bound
// of a run, even with a single worker.
type ResourceError struct {
	Required  uint64 // Bytes needed by one worker
	Available uint64 // Bytes the safety fraction allows
	Message   string // Human-readable message
}

// NewResourceError creates a new ResourceError.
func NewResourceError(required, available uint64, message string) *ResourceError {
	return &ResourceError{
		Required:  required,
		Available: available,
		Message:   message,
	}
}

// NewResourceErrorf creates a new ResourceError with a formatted message.
func NewResourceErrorf(required, available uint64, format string, args ...any) *ResourceError {
	return &ResourceError{
		Required:  required,
		Available: available,
		Message:   fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface.
func (e *ResourceError) Error() string {
	return fmt.Sprintf("[%d] %s", ErrCodeInsufficientResources, e.Message)
}
