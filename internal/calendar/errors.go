// Package calendar defines the core domain types for dayplan: events,
// goals and the tasks grouped under them.
package calendar

import "errors"

// Error kinds. Every specific error below matches exactly one of these via errors.Is.
var (
	ErrValidation    = errors.New("validation failed")
	ErrNotFound      = errors.New("not found")
	ErrGoalReference = errors.New("goal not found")
	ErrOverlap       = errors.New("event overlaps with an existing event")
	ErrTransient     = errors.New("temporary failure")
)

// Validation errors.
var (
	ErrEmptyTitle      = newKindError("title cannot be empty", ErrValidation)
	ErrInvalidCategory = newKindError("category must be one of exercise, eating, work, relax, family, social", ErrValidation)
	ErrMissingDate     = newKindError("date is required", ErrValidation)
	ErrMissingStart    = newKindError("start time is required", ErrValidation)
	ErrMissingEnd      = newKindError("end time is required", ErrValidation)
	ErrEndBeforeStart  = newKindError("end time must be after start time", ErrValidation)
	ErrEmptyName       = newKindError("name cannot be empty", ErrValidation)
	ErrMissingColor    = newKindError("color is required", ErrValidation)
	ErrMissingGoal     = newKindError("goal id is required", ErrValidation)
	ErrMalformedID     = newKindError("malformed id", ErrValidation)
)

// Lookup errors.
var (
	ErrEventNotFound = newKindError("event not found", ErrNotFound)
	ErrGoalNotFound  = newKindError("goal not found", ErrNotFound)
	ErrTaskNotFound  = newKindError("task not found", ErrNotFound)
)

// kindError is a sentinel that also matches its kind.
type kindError struct {
	msg  string
	kind error
}

func newKindError(msg string, kind error) error {
	return &kindError{msg: msg, kind: kind}
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Is(target error) bool { return target == e.kind }

// Validation wraps a free-form validation message so it matches ErrValidation.
func Validation(msg string) error {
	return newKindError(msg, ErrValidation)
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsNotFound reports whether err means a referenced entity is absent.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
