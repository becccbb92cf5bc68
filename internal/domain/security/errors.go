package security

import "errors"

var (
	// ErrBanNotFound is returned when no ban exists for a subject
	ErrBanNotFound = errors.New("ban not found")

	// ErrBanNotActive is returned when removing a lockout that is not in force
	ErrBanNotActive = errors.New("ban is not active")

	// ErrCacheUnavailable signals the fast backend failed; the caller falls
	// back to the relational store instead of failing the request
	ErrCacheUnavailable = errors.New("lockout cache unavailable")
)
