package options

import "errors"

// Sentinel kinds for option lookups.
var (
	ErrMissingOption = errors.New("missing option")
	ErrTypeMismatch  = errors.New("option type mismatch")
)
