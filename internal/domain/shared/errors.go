// Package shared contains common domain types and errors used across all
// domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// ErrNotFound marks store-level absence. Queries never return it; they
	// report absence as a zero value.
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidInput is returned for malformed arguments (e.g. empty IDs).
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidConfiguration is returned when configuration is rejected at
	// construction time.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrPersistence wraps every snapshot load/save failure.
	ErrPersistence = errors.New("persistence failure")

	// ErrTimeout is returned when an operation exceeded its deadline.
	ErrTimeout = errors.New("operation timeout")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "ledger", "reminder", "cycle"
	Op      string // Operation that failed, e.g., "RecordSubmission"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Persistence errors
var (
	// ErrSnapshotNotFound is returned by stores that have never been written.
	ErrSnapshotNotFound = NewDomainError("persistence", "Load", ErrNotFound, "snapshot not found")

	// ErrMalformedSnapshot is returned when a stored document cannot be decoded.
	ErrMalformedSnapshot = NewDomainError("persistence", "Decode", ErrPersistence, "malformed snapshot")
)

// Validation errors
var (
	ErrEmptyParticipantID = NewDomainError("participant", "Validate", ErrInvalidInput, "participant id cannot be empty")
	ErrHourOutOfRange     = NewDomainError("config", "Validate", ErrInvalidConfiguration, "hour must be 0-23")
)

// IsPersistence checks if the error is a persistence failure.
func IsPersistence(err error) bool {
	return errors.Is(err, ErrPersistence)
}

// IsValidation checks if the error is an input validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsInvalidConfiguration checks if the error is a configuration error.
func IsInvalidConfiguration(err error) bool {
	return errors.Is(err, ErrInvalidConfiguration)
}

// ValidateHour returns ErrHourOutOfRange wrapped with the offending value.
func ValidateHour(field string, hour int) error {
	if hour < 0 || hour > 23 {
		return fmt.Errorf("%s=%d: %w", field, hour, ErrHourOutOfRange)
	}
	return nil
}
