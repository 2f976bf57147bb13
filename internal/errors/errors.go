// Package errors provides the error taxonomy and exit codes for projgen.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Exit codes returned by the projgen binary.
const (
	// ExitSuccess indicates the project was generated.
	ExitSuccess = 0

	// ExitGeneralError is used for every failure: validation, parameter
	// parsing, rendering and pruning all exit with 1.
	ExitGeneralError = 1
)

// Sentinel errors for known conditions.
var (
	// ErrValidation indicates a pre-generation parameter check failed.
	ErrValidation = errors.New("validation error")

	// ErrParameter indicates the --extra-context literal could not be parsed
	// into a mapping of literals.
	ErrParameter = errors.New("parameter error")

	// ErrRender indicates the template could not be rendered (missing
	// placeholder, output collision, unreadable template).
	ErrRender = errors.New("render error")

	// ErrConsistency indicates a pruning step targeted a path that is neither
	// a file nor a directory. It always points at an inconsistent tree.
	ErrConsistency = errors.New("consistency error")

	// ErrAdvisory indicates the version check failed. It never affects the
	// exit status.
	ErrAdvisory = errors.New("advisory error")
)

// DetailError captures structured error information for terminal output.
type DetailError struct {
	// Type is the error category (required).
	Type string

	// Message is the specific description (required).
	Message string

	// Location is the file or directory involved (optional).
	Location string

	// Hint provides actionable guidance (optional).
	Hint string

	// Cause is the underlying error (optional).
	Cause error
}

// Error implements the error interface.
func (e *DetailError) Error() string {
	var b strings.Builder

	b.WriteString("Error: ")
	b.WriteString(e.Type)
	b.WriteString("\n")

	if e.Location != "" {
		b.WriteString("  Location: ")
		b.WriteString(e.Location)
		b.WriteString("\n")
	}

	b.WriteString("\n  ")
	b.WriteString(e.Message)
	b.WriteString("\n")

	if e.Hint != "" {
		b.WriteString("\nHint: ")
		b.WriteString(e.Hint)
		b.WriteString("\n")
	}

	return b.String()
}

// Unwrap returns the underlying error.
func (e *DetailError) Unwrap() error {
	return e.Cause
}

// NewParameterError creates a parameter error with details.
func NewParameterError(message, hint string) error {
	return &DetailError{
		Type:    "invalid parameter",
		Message: message,
		Hint:    hint,
		Cause:   ErrParameter,
	}
}

// NewRenderError creates a render error with details.
func NewRenderError(message, location, hint string) error {
	return &DetailError{
		Type:     "render failed",
		Message:  message,
		Location: location,
		Hint:     hint,
		Cause:    ErrRender,
	}
}

// ExitError wraps an error with an exit code.
type ExitError struct {
	// Code is the process exit code.
	Code int

	// Err is the underlying error.
	Err error

	// Printed is set once the command layer has already reported the error.
	Printed bool
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the wrapped error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCodeFromError determines the exit code for an error.
func ExitCodeFromError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	return ExitGeneralError
}

// Wrap wraps an error with a sentinel error type.
func Wrap(sentinel error, message string) error {
	return fmt.Errorf("%s: %w", message, sentinel)
}

// Wrapf wraps cause with a sentinel so that both match errors.Is.
func Wrapf(sentinel, cause error, format string, args ...any) error {
	return fmt.Errorf("%s: %w: %w", fmt.Sprintf(format, args...), sentinel, cause)
}
