package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoOptions is returned when a selection prompt has nothing to offer.
	ErrNoOptions = errors.New("tui: no options to select from")
)
