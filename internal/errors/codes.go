// Package errors provides structured error handling for venvdoctor.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: Environment mismatch errors
//   - 3XX: Dependency errors
//   - 5XX: Internal errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryEnvironment indicates the process is running somewhere other
	// than the intended managed environment (wrong version, no isolation).
	CategoryEnvironment Category = "ENVIRONMENT"
	// CategoryDependency indicates a required interpreter or importable
	// library is absent from the active environment.
	CategoryDependency Category = "DEPENDENCY"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates unrecoverable error, must abort.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates operation failed.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
)

// Error codes organized by category. Every check failure is fatal:
// the chain stops at the first unmet condition and the process exits
// non-zero. There are no retryable codes.
const (
	// Config errors (100-199)
	ErrCodeUnrecognizedInterpreter = "ERR_101_UNRECOGNIZED_INTERPRETER"
	ErrCodeConfigInvalid           = "ERR_102_CONFIG_INVALID"

	// Environment mismatch errors (200-299)
	ErrCodeVersionMismatch = "ERR_201_VERSION_MISMATCH"
	ErrCodeNotIsolated     = "ERR_202_NOT_ISOLATED"

	// Dependency errors (300-399)
	ErrCodeInterpreterNotFound = "ERR_301_INTERPRETER_NOT_FOUND"
	ErrCodeModuleMissing       = "ERR_302_MODULE_MISSING"

	// Internal errors (500-599)
	ErrCodeInternal = "ERR_501_INTERNAL"
	ErrCodeProbe    = "ERR_502_PROBE_FAILED"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}

	// Extract numeric portion (e.g., "101" from "ERR_101_UNRECOGNIZED_INTERPRETER")
	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryEnvironment
	case '3':
		return CategoryDependency
	default:
		return CategoryInternal
	}
}

// severityFromCode determines severity based on error code.
// Every check failure aborts the run, so all codes map to fatal.
func severityFromCode(code string) Severity {
	switch categoryFromCode(code) {
	case CategoryConfig, CategoryEnvironment, CategoryDependency:
		return SeverityFatal
	default:
		return SeverityError
	}
}
