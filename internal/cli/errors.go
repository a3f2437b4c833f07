package cli

import "errors"

var (
	// ErrInput indicates an unreadable or malformed input document.
	ErrInput = errors.New("invalid input document")
	// ErrFormat indicates an unsupported output format.
	ErrFormat = errors.New("unsupported output format")
)
