package session

import "errors"

var (
	// ErrSessionActive indicates the worker already holds an active session.
	ErrSessionActive = errors.New("session already active")
	// ErrSessionNotFound indicates the session doesn't exist.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionNotActive indicates an operation that requires an active session.
	ErrSessionNotActive = errors.New("session not active")
	// ErrInvalidInput indicates invalid session input.
	ErrInvalidInput = errors.New("invalid session input")
)
