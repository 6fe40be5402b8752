// Package errors provides centralized error definitions for the application.
// Errors are organized by domain to avoid duplication and provide consistent naming.
//
// Naming conventions:
//   - Exported errors (Err*): Use for errors that callers need to check with errors.Is
//   - All sentinel errors should be defined as variables, not inline errors.New calls
//   - Use fmt.Errorf with %w to wrap sentinel errors with context
//   - Use RecordError when the failure can be pinned to a single record of a file
package errors

import (
	"errors"
	"fmt"
)

// Input and parsing errors.
var (
	// ErrParse indicates a document is not well-formed XML or JSON.
	ErrParse = errors.New("parse error")

	// ErrMissingField indicates a record lacks a required element or key.
	ErrMissingField = errors.New("missing required field")

	// ErrIO indicates a file could not be opened, read or written.
	ErrIO = errors.New("io error")
)

// Validation errors.
var (
	// ErrInvalidInput indicates invalid input was provided.
	ErrInvalidInput = errors.New("invalid input")

	// ErrBelowThreshold indicates an evaluation score fell below its configured gate.
	ErrBelowThreshold = errors.New("score below threshold")
)

// RecordError pins a failure to a record of an input file.
type RecordError struct {
	// Path is the offending file. Empty when reading from an anonymous stream.
	Path string

	// Index is the zero-based position of the record in its file.
	Index int

	// Field names the missing or invalid field, if any.
	Field string

	// Err is the underlying sentinel or cause.
	Err error
}

func (e *RecordError) Error() string {
	prefix := fmt.Sprintf("record %d", e.Index)
	if e.Path != "" {
		prefix = e.Path + ": " + prefix
	}

	if e.Field != "" {
		return fmt.Sprintf("%s: %v %q", prefix, e.Err, e.Field)
	}

	return fmt.Sprintf("%s: %v", prefix, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// NewMissingField builds a RecordError wrapping ErrMissingField.
func NewMissingField(path string, index int, field string) error {
	return &RecordError{Path: path, Index: index, Field: field, Err: ErrMissingField}
}

// Is is a convenience wrapper around errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As is a convenience wrapper around errors.As.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
