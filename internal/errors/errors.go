package errors

import (
	"fmt"
)

// CheckError is the structured error type for venvdoctor.
// It provides context for error handling, logging, and user presentation.
type CheckError struct {
	// Code is the unique error code (e.g., "ERR_201_VERSION_MISMATCH").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, Environment, Dependency).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Suggestion is an actionable remediation hint for the user.
	Suggestion string
}

// Error implements the error interface.
func (e *CheckError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *CheckError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
// This enables errors.Is() to work with CheckError.
func (e *CheckError) Is(target error) bool {
	if t, ok := target.(*CheckError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *CheckError) WithDetail(key, value string) *CheckError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion adds an actionable remediation hint for the user.
// Returns the error for method chaining.
func (e *CheckError) WithSuggestion(suggestion string) *CheckError {
	e.Suggestion = suggestion
	return e
}

// New creates a new CheckError with the given code and message.
// Category and severity are derived from the code.
func New(code string, message string, cause error) *CheckError {
	return &CheckError{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Severity: severityFromCode(code),
		Cause:    cause,
	}
}

// Wrap creates a CheckError from an existing error.
// The error's message becomes the CheckError message.
func Wrap(code string, err error) *CheckError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// ConfigurationError creates a configuration-validity error, used when an
// internal selector (such as the required interpreter kind) carries an
// unrecognized value.
func ConfigurationError(message string, cause error) *CheckError {
	return New(ErrCodeUnrecognizedInterpreter, message, cause)
}

// VersionMismatchError creates an environment-mismatch error for an
// interpreter whose major version differs from the required one.
func VersionMismatchError(message string) *CheckError {
	return New(ErrCodeVersionMismatch, message, nil)
}

// NotIsolatedError creates an environment-mismatch error for an
// interpreter whose install prefix equals its base prefix.
func NotIsolatedError(message string) *CheckError {
	return New(ErrCodeNotIsolated, message, nil)
}

// DependencyError creates a missing-dependency error for an importable
// library that is absent from the active environment.
func DependencyError(message string, cause error) *CheckError {
	return New(ErrCodeModuleMissing, message, cause)
}

// InternalError creates an internal error.
func InternalError(message string, cause error) *CheckError {
	return New(ErrCodeInternal, message, cause)
}

// IsFatal checks if an error has fatal severity.
// Fatal errors abort the remaining checks.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	if ce, ok := err.(*CheckError); ok {
		return ce.Severity == SeverityFatal
	}
	return false
}

// GetCode extracts the error code from a CheckError.
// Returns empty string if not a CheckError.
func GetCode(err error) string {
	if ce, ok := err.(*CheckError); ok {
		return ce.Code
	}
	return ""
}

// GetCategory extracts the category from a CheckError.
// Returns empty string if not a CheckError.
func GetCategory(err error) Category {
	if ce, ok := err.(*CheckError); ok {
		return ce.Category
	}
	return ""
}
