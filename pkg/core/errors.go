package core

import (
	"fmt"
)

// ErrorCategory classifies errors for propagation decisions: transient
// step-level issues are recovered locally, structural issues surface
// immediately.
type ErrorCategory int

const (
	ErrCategoryNone       ErrorCategory = iota // No error
	ErrCategoryDetection                       // Screen could not be identified
	ErrCategoryNavigation                      // No route, verification mismatch
	ErrCategoryExecution                       // Action execution failed on the device
	ErrCategoryDriver                          // Driver connection itself is suspect
	ErrCategoryConfig                          // Invalid signatures, graphs, or settings
)

// String returns the string representation of ErrorCategory.
func (c ErrorCategory) String() string {
	switch c {
	case ErrCategoryNone:
		return "none"
	case ErrCategoryDetection:
		return "detection"
	case ErrCategoryNavigation:
		return "navigation"
	case ErrCategoryExecution:
		return "execution"
	case ErrCategoryDriver:
		return "driver"
	case ErrCategoryConfig:
		return "config"
	default:
		return "unknown"
	}
}

// ExecutionError represents a structured error with category and details.
type ExecutionError struct {
	Category ErrorCategory
	Code     string                 // Machine-readable code: no_path, driver_unavailable, etc.
	Message  string                 // Human-readable message
	Details  map[string]interface{} // Additional context
	Cause    error                  // Underlying error
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// Is matches two ExecutionErrors by code, so errors.Is works on copies
// produced by WithCause/WithMessage/WithDetails.
func (e *ExecutionError) Is(target error) bool {
	t, ok := target.(*ExecutionError)
	return ok && t.Code == e.Code
}

// WithCause returns a copy of the error with the given cause.
func (e *ExecutionError) WithCause(cause error) *ExecutionError {
	return &ExecutionError{
		Category: e.Category,
		Code:     e.Code,
		Message:  e.Message,
		Details:  e.Details,
		Cause:    cause,
	}
}

// WithMessage returns a copy of the error with a custom message.
func (e *ExecutionError) WithMessage(msg string) *ExecutionError {
	return &ExecutionError{
		Category: e.Category,
		Code:     e.Code,
		Message:  msg,
		Details:  e.Details,
		Cause:    e.Cause,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *ExecutionError) WithDetails(details map[string]interface{}) *ExecutionError {
	merged := make(map[string]interface{})
	for k, v := range e.Details {
		merged[k] = v
	}
	for k, v := range details {
		merged[k] = v
	}
	return &ExecutionError{
		Category: e.Category,
		Code:     e.Code,
		Message:  e.Message,
		Details:  merged,
		Cause:    e.Cause,
	}
}

// Predefined errors for the detection/navigation taxonomy.
var (
	// ErrUnknownScreen is attached to results when confidence stays below
	// the floor. Detection itself never fails on it; callers decide.
	ErrUnknownScreen = &ExecutionError{
		Category: ErrCategoryDetection,
		Code:     "unknown_screen",
		Message:  "screen could not be identified",
	}
	ErrNoSignatures = &ExecutionError{
		Category: ErrCategoryConfig,
		Code:     "no_signatures",
		Message:  "no signatures registered for app",
	}

	ErrNoPath = &ExecutionError{
		Category: ErrCategoryNavigation,
		Code:     "no_path",
		Message:  "no route between screens",
	}
	ErrVerificationMismatch = &ExecutionError{
		Category: ErrCategoryNavigation,
		Code:     "verification_mismatch",
		Message:  "expected screen was not reached",
	}
	ErrCanceled = &ExecutionError{
		Category: ErrCategoryNavigation,
		Code:     "canceled",
		Message:  "navigation canceled",
	}

	ErrActionFailed = &ExecutionError{
		Category: ErrCategoryExecution,
		Code:     "action_failed",
		Message:  "device action failed",
	}

	ErrDriverUnavailable = &ExecutionError{
		Category: ErrCategoryDriver,
		Code:     "driver_unavailable",
		Message:  "device driver is unavailable",
	}

	ErrInvalidConfig = &ExecutionError{
		Category: ErrCategoryConfig,
		Code:     "invalid_config",
		Message:  "invalid configuration",
	}
	ErrUnknownDevice = &ExecutionError{
		Category: ErrCategoryConfig,
		Code:     "unknown_device",
		Message:  "device is not registered",
	}
)

// NewExecutionError creates a new ExecutionError with the given parameters.
func NewExecutionError(category ErrorCategory, code, message string) *ExecutionError {
	return &ExecutionError{
		Category: category,
		Code:     code,
		Message:  message,
	}
}
