// Package errors provides sentinel and structured errors for apigen.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for known conditions.
var (
	// ErrInvalidName indicates a project name that is not identifier-like.
	ErrInvalidName = errors.New("invalid project name")

	// ErrDestinationExists indicates the project directory is already present.
	ErrDestinationExists = errors.New("destination exists")

	// ErrCopy indicates a template file could not be materialized.
	ErrCopy = errors.New("copy failure")

	// ErrSubprocess indicates an external command exited unsuccessfully.
	ErrSubprocess = errors.New("subprocess failure")

	// ErrValidation indicates a config file or template manifest failed schema validation.
	ErrValidation = errors.New("validation error")

	// ErrNotFound indicates a template, config file, or path was not found.
	ErrNotFound = errors.New("not found")
)

// Exit codes. Every failure maps to ExitGeneralError.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitGeneralError indicates the command failed.
	ExitGeneralError = 1
)

// DetailError captures structured error information for the terminal.
type DetailError struct {
	// Type is the error category (required).
	Type string

	// Message is the specific description (required).
	Message string

	// Location is the file or directory involved (optional).
	Location string

	// Context contains additional key-value context (optional).
	Context map[string]string

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
	for k, v := range e.Context {
		b.WriteString("  ")
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(v)
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

// NewInvalidNameError reports a rejected project name.
func NewInvalidNameError(name string) error {
	return &DetailError{
		Type:    "invalid name",
		Message: fmt.Sprintf("project name %q is invalid: it must start with a letter and contain only letters, numbers, underscores, or hyphens", name),
		Hint:    "Use a name such as my_service or my-service.",
		Cause:   ErrInvalidName,
	}
}

// NewDestinationExistsError reports a project directory that is already present.
func NewDestinationExistsError(path string) error {
	return &DetailError{
		Type:     "destination exists",
		Message:  fmt.Sprintf("directory '%s' already exists", path),
		Location: path,
		Hint:     "Choose a different name or --path, or remove the existing directory.",
		Cause:    ErrDestinationExists,
	}
}

// NewValidationError creates a validation error with details.
func NewValidationError(message, location, hint string) error {
	return &DetailError{
		Type:     "validation failed",
		Message:  message,
		Location: location,
		Hint:     hint,
		Cause:    ErrValidation,
	}
}

// NewNotFoundError creates a not found error with details.
func NewNotFoundError(message, location, hint string) error {
	return &DetailError{
		Type:     "not found",
		Message:  message,
		Location: location,
		Hint:     hint,
		Cause:    ErrNotFound,
	}
}

// CopyError records the template file that failed to materialize.
type CopyError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *CopyError) Error() string {
	return fmt.Sprintf("copying %s: %v", e.Path, e.Err)
}

// Unwrap exposes both the copy sentinel and the underlying cause.
func (e *CopyError) Unwrap() []error {
	return []error{ErrCopy, e.Err}
}

// SubprocessError records a failed external command and its captured output.
type SubprocessError struct {
	Command []string
	Output  string
	Err     error
}

// Error implements the error interface.
func (e *SubprocessError) Error() string {
	return fmt.Sprintf("running %q: %v", strings.Join(e.Command, " "), e.Err)
}

// Unwrap exposes both the subprocess sentinel and the underlying cause.
func (e *SubprocessError) Unwrap() []error {
	return []error{ErrSubprocess, e.Err}
}

// ExitError carries the process exit code up to main.
type ExitError struct {
	Code int
	Err  error

	// Printed is set when the command layer already reported the error.
	Printed bool
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the wrapped error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError wraps err with the given exit code.
func NewExitError(err error, code int) *ExitError {
	return &ExitError{Err: err, Code: code}
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

// Wrap wraps a sentinel error with a message.
func Wrap(sentinel error, message string) error {
	return fmt.Errorf("%s: %w", message, sentinel)
}
