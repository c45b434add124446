// Package oaserrors provides structured error types shared across apivet.
//
// These errors describe failures to get a document in front of the
// validator at all (unreadable files, malformed YAML, oversized inputs,
// bad options). Problems found inside a well-formed document are not
// errors; they are reported as diagnostics by the validator.
//
// All types support errors.Is against the package sentinels and errors.As
// for field access:
//
//	tree, err := loader.Load("api.yaml")
//	if err != nil {
//	    var pe *oaserrors.ParseError
//	    if errors.As(err, &pe) && pe.Line > 0 {
//	        fmt.Printf("%s:%d: %s\n", pe.Path, pe.Line, pe.Message)
//	    }
//	}
package oaserrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrParse indicates the input could not be parsed as YAML or JSON.
	ErrParse = errors.New("parse error")

	// ErrResourceLimit indicates an input exceeded a configured limit.
	ErrResourceLimit = errors.New("resource limit exceeded")

	// ErrConfig indicates invalid options or input configuration.
	ErrConfig = errors.New("configuration error")
)

// ParseError represents a failure to parse a document source.
type ParseError struct {
	// Path is the file path or source identifier.
	Path string
	// Line is the line number where the error occurred (0 if unknown).
	Line int
	// Column is the column number where the error occurred (0 if unknown).
	Column int
	// Message describes the failure.
	Message string
	// Cause is the underlying error, if any.
	Cause error
}

func (e *ParseError) Error() string {
	msg := "parse error"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" at line %d", e.Line)
		if e.Column > 0 {
			msg += fmt.Sprintf(", column %d", e.Column)
		}
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ParseError) Unwrap() error { return e.Cause }

// Is reports whether target matches this error type.
func (e *ParseError) Is(target error) bool { return target == ErrParse }

// ResourceLimitError represents an input that exceeded a configured limit,
// such as the maximum document size or nesting depth.
type ResourceLimitError struct {
	// ResourceType identifies the limit, e.g. "file_size" or "nesting_depth".
	ResourceType string
	// Limit is the configured maximum.
	Limit int64
	// Actual is the observed value (0 if unknown).
	Actual int64
	// Message provides additional context.
	Message string
}

func (e *ResourceLimitError) Error() string {
	msg := "resource limit exceeded"
	if e.ResourceType != "" {
		msg += ": " + e.ResourceType
	}
	if e.Limit > 0 {
		msg += fmt.Sprintf(" (limit: %d", e.Limit)
		if e.Actual > 0 {
			msg += fmt.Sprintf(", actual: %d", e.Actual)
		}
		msg += ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *ResourceLimitError) Is(target error) bool { return target == ErrResourceLimit }

// ConfigError represents invalid options passed to a loader or validator.
type ConfigError struct {
	// Option names the offending option or input, if known.
	Option string
	// Message describes the problem.
	Message string
}

func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += ": " + e.Option
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool { return target == ErrConfig }
