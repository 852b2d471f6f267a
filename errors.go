// File: errors.go
package main

import "errors"

var (
	// ErrCapabilityUnavailable means the media source could not produce a frame.
	ErrCapabilityUnavailable = errors.New("capability unavailable")
	// ErrConfiguration means no valid challenge can be generated with the current settings.
	ErrConfiguration = errors.New("configuration error")
	// ErrInvariant is a programming error, e.g. validating without an active target.
	ErrInvariant = errors.New("invariant violation")

	ErrInvalidTransition = errors.New("invalid step transition")
	ErrInvalidSector     = errors.New("invalid sector id")
	ErrFrameTooLarge     = errors.New("frame too large")
	ErrSessionNotFound   = errors.New("session not found")
	ErrSessionClosed     = errors.New("session closed")
)
