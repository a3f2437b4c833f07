package scoring

import "errors"

// Sentinel kinds for scoring errors.
var (
	// ErrConfiguration reports a missing or mistyped input option.
	ErrConfiguration = errors.New("scoring configuration error")
	// ErrValidation reports input the transform cannot score.
	ErrValidation = errors.New("scoring validation error")

	ErrUnknownScorer   = errors.New("unknown scorer")
	ErrDuplicateScorer = errors.New("scorer already registered")
	ErrInvalidScorer   = errors.New("invalid scorer registration")
)
