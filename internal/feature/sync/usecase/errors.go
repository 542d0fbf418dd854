package usecase

import "errors"

var (
	// ErrInvalidCursor is returned when the client submits a negative cursor.
	ErrInvalidCursor = errors.New("cursor must not be negative")

	// ErrInvalidEntry is returned when a time entry payload fails validation.
	ErrInvalidEntry = errors.New("invalid time entry")

	// ErrInvalidTask is returned when a task payload fails validation.
	ErrInvalidTask = errors.New("invalid task")
)
