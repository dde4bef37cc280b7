// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")
	ErrInvalidEntity = errors.New("invalid entity")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidID       = errors.New("invalid ID")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrNegativeValue   = errors.New("value cannot be negative")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrInvalidFormat   = errors.New("invalid format")

	// State errors
	ErrInvalidState    = errors.New("invalid state")
	ErrStateTransition = errors.New("invalid state transition")

	// Internal consistency errors. These indicate an engine bug, never bad input.
	ErrInvariantViolation = errors.New("internal invariant violation")

	// Infrastructure errors
	ErrStorage            = errors.New("storage error")
	ErrServiceUnavailable = errors.New("service unavailable")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "habit", "goal", "progression"
	Op      string // Operation that failed, e.g., "Create", "Complete"
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

// Habit domain errors
var (
	ErrHabitNotFound    = NewDomainError("habit", "Find", ErrNotFound, "habit not found")
	ErrEmptyHabitName   = NewDomainError("habit", "Validate", ErrEmptyValue, "habit name cannot be empty")
	ErrInvalidFrequency = NewDomainError("habit", "Validate", ErrInvalidInput, "invalid habit frequency")
)

// Goal domain errors
var (
	ErrGoalNotFound       = NewDomainError("goal", "Find", ErrNotFound, "goal not found")
	ErrMilestoneNotFound  = NewDomainError("goal", "FindMilestone", ErrNotFound, "milestone not found")
	ErrEmptyGoalTitle     = NewDomainError("goal", "Validate", ErrEmptyValue, "goal title cannot be empty")
	ErrInvalidTargetValue = NewDomainError("goal", "Validate", ErrValueOutOfRange, "target value must be positive")
	ErrInvalidPriority    = NewDomainError("goal", "Validate", ErrValueOutOfRange, "priority must be between 1 and 5")
	ErrInvalidCategory    = NewDomainError("goal", "Validate", ErrInvalidInput, "invalid goal category")
	ErrGoalNotActive      = NewDomainError("goal", "UpdateProgress", ErrInvalidState, "goal is not active")
)

// Journal domain errors
var (
	ErrEntryNotFound = NewDomainError("journal", "Find", ErrNotFound, "journal entry not found")
	ErrEmptyEntry    = NewDomainError("journal", "Validate", ErrEmptyValue, "journal entry needs content or a gratitude note")
)

// Profile domain errors
var (
	ErrProfileNotFound      = NewDomainError("profile", "Find", ErrNotFound, "profile not found")
	ErrProfileAlreadyExists = NewDomainError("profile", "Create", ErrAlreadyExists, "profile already exists")
	ErrInvalidNeurotype     = NewDomainError("profile", "Validate", ErrInvalidInput, "unknown neurotype")
	ErrWrongPassphrase      = NewDomainError("profile", "Unlock", ErrInvalidInput, "wrong passphrase")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if the error is an "already exists" error.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrNegativeValue) ||
		errors.Is(err, ErrValueOutOfRange) ||
		errors.Is(err, ErrInvalidFormat)
}

// IsInvariantViolation checks if the error reports an internal-consistency
// fault. Such errors are engine bugs and must not be treated as recoverable.
func IsInvariantViolation(err error) bool {
	return errors.Is(err, ErrInvariantViolation)
}
