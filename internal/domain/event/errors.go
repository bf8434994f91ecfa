package event

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFormat indicates a date or time that fails the canonical parse.
	ErrInvalidFormat = errors.New("invalid date or time format")
	// ErrDuplicateKey indicates an event with the same name already exists on that date.
	ErrDuplicateKey = errors.New("event with this name already exists on that date")
	// ErrConflict indicates the event's window overlaps an existing one.
	ErrConflict = errors.New("event overlaps an existing event")
	// ErrNotFound indicates the identifier resolves to no event.
	ErrNotFound = errors.New("event not found")
	// ErrInvalidInput indicates a required field is missing.
	ErrInvalidInput = errors.New("invalid event input")
)

// ConflictError reports an overlap together with alternative start times
// on the candidate's date.
type ConflictError struct {
	With        Event
	Suggestions []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %q at %s %s", ErrConflict, e.With.Name, e.With.Date, e.With.Time)
}

// Is lets errors.Is(err, ErrConflict) match.
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}
