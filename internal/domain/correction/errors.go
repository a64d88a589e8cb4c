package correction

import "errors"

var (
	// ErrSessionNotFound indicates the session doesn't exist.
	ErrSessionNotFound = errors.New("session not found")
	// ErrInvalidInput indicates malformed correction input.
	ErrInvalidInput = errors.New("invalid correction input")
)
