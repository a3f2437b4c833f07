package matrix

import "errors"

// Sentinel kinds for matrix construction errors.
var (
	ErrShape  = errors.New("invalid matrix shape")
	ErrRagged = errors.New("ragged rows")
)
