package itinerary

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for store operations. Every typed error below unwraps to one of these.
var (
	// ErrValidation indicates rejected input, e.g. a blank activity title.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound indicates an operation referencing an unknown day.
	ErrNotFound = errors.New("day not found")
	// ErrInvariantViolation indicates a replacement that is not a permutation of the current day.
	ErrInvariantViolation = errors.New("invariant violation")
)

// ValidationError describes a rejected field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NotFoundError reports the unknown day identifier.
type NotFoundError struct {
	DayID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("day %q not found", e.DayID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// InvariantViolation reports how a proposed ordering differs from the stored one.
type InvariantViolation struct {
	DayID      string
	Missing    []string
	Unexpected []string
}

func (e *InvariantViolation) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "ordering for day %q is not a permutation of its activities", e.DayID)
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, "; missing [%s]", strings.Join(e.Missing, ", "))
	}
	if len(e.Unexpected) > 0 {
		fmt.Fprintf(&b, "; unexpected [%s]", strings.Join(e.Unexpected, ", "))
	}
	return b.String()
}

func (e *InvariantViolation) Unwrap() error {
	return ErrInvariantViolation
}
