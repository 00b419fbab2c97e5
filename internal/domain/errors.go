// Package domain defines domain-specific errors.
// These errors represent business logic failures and are independent of infrastructure.
package domain

import (
	"errors"
	"fmt"
)

// Common errors that services and adapters can return.
var (
	// ErrPlayerNotReady is returned when the external player cannot accept commands yet.
	ErrPlayerNotReady = errors.New("player not ready")

	// ErrNoClient is returned by the remote bridge when no browser is connected.
	ErrNoClient = errors.New("no player client connected")

	// ErrInvalidPosition is returned when seeking to an invalid position.
	ErrInvalidPosition = errors.New("invalid playback position")

	// ErrSourceUnavailable is returned when an annotation source cannot be fetched.
	ErrSourceUnavailable = errors.New("annotation source unavailable")

	// ErrSchemaViolation is returned when a data file does not match its schema.
	ErrSchemaViolation = errors.New("data file violates schema")

	// ErrSampleNotFound is returned when no sample file exists for a pattern.
	ErrSampleNotFound = errors.New("sample not found")

	// ErrClosed is returned when an operation is attempted on a closed component.
	ErrClosed = errors.New("component closed")
)

// SourceError represents a failure to fetch or decode one annotation source.
type SourceError struct {
	Source string // Source name (e.g., "mix_annotations.json")
	Op     string // Operation that failed (e.g., "fetch", "validate", "decode")
	Err    error  // Underlying error
}

// Error implements the error interface.
func (e *SourceError) Error() string {
	return fmt.Sprintf("annotation source %s: %s failed: %v", e.Source, e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *SourceError) Unwrap() error {
	return e.Err
}

// NewSourceError creates a new SourceError.
func NewSourceError(source, op string, err error) *SourceError {
	return &SourceError{
		Source: source,
		Op:     op,
		Err:    err,
	}
}

// PlayerError represents an error reported by the external player.
type PlayerError struct {
	Op  string // Operation that failed (e.g., "seek", "play", "pause")
	Err error  // Underlying error
}

// Error implements the error interface.
func (e *PlayerError) Error() string {
	return fmt.Sprintf("player %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *PlayerError) Unwrap() error {
	return e.Err
}

// NewPlayerError creates a new PlayerError.
func NewPlayerError(op string, err error) *PlayerError {
	return &PlayerError{
		Op:  op,
		Err: err,
	}
}

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string // Field that failed validation
	Value   any    // Value that failed validation
	Message string // Error message
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %s: %s (value: %v)", e.Field, e.Message, e.Value)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}
