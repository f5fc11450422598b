package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrInvalid is returned when the form is still invalid after the
	// configured number of rounds, or when the invalid fields have no widget
	// to prompt through.
	ErrInvalid = errors.New("tui: form is invalid")
	// ErrNoChoice is returned when a select prompt answers outside its options.
	ErrNoChoice = errors.New("tui: answer is not one of the options")
)
