package engine

import "errors"

var (
	// ErrAlreadyInitialized indicates a second Initialize before Shutdown.
	ErrAlreadyInitialized = errors.New("engine: already initialized")

	// ErrNotRunning indicates Shutdown on an engine that is already down.
	ErrNotRunning = errors.New("engine: not running")
)
