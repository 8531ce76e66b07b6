package domain

import "errors"

// Common domain errors.
var (
	ErrInvalidDuration = errors.New("invalid duration: must be at least 1 minute")
	ErrInvalidEmotion  = errors.New("invalid emotion")
	ErrUnknownFeeling  = errors.New("unknown feeling")
)
