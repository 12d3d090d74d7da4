package tui

import "errors"

var (
	// ErrAborted signals the user left the wizard (Ctrl+C or Quit). The draft
	// stays saved.
	ErrAborted = errors.New("tui: aborted")
	// ErrNoEngine is returned when Run is called without an engine.
	ErrNoEngine = errors.New("tui: engine is required")
)
