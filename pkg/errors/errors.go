package errors

import (
	"fmt"
)

// InvocationError reports caller misuse of an executor instance, such as
// submitting a stream while a prior run is still active. It is raised
// synchronously to the caller rather than folded into an event.
type InvocationError struct {
	Message string
}

// NewInvocationError constructs an InvocationError.
func NewInvocationError(message string) error {
	return &InvocationError{Message: message}
}

func (e *InvocationError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("invocation error: %s", e.Message)
}

// ValidationError captures configuration or option validation issues.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ParseError represents a failure to read or decode an input file, with
// optional line metadata when the decoder reported one.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// SourceError reports a failure to load program source from a file, stream,
// or repository.
type SourceError struct {
	Location string
	Err      error
}

// NewSourceError constructs a SourceError for the given source location.
func NewSourceError(location string, err error) error {
	return &SourceError{Location: location, Err: err}
}

func (e *SourceError) Error() string {
	if e == nil {
		return ""
	}
	if e.Location != "" {
		return fmt.Sprintf("source error: %s: %v", e.Location, e.Err)
	}
	return fmt.Sprintf("source error: %v", e.Err)
}

// Unwrap exposes the root error.
func (e *SourceError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
