package session

import "errors"

var (
	// ErrSessionNotFound is returned when a session does not exist or was invalidated
	ErrSessionNotFound = errors.New("session not found")
)
