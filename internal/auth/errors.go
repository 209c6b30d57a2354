// ABOUTME: Sentinel error taxonomy for the auth package
// ABOUTME: Callers branch with errors.Is; the HTTP adapter maps classes to status codes

package auth

import (
	"errors"
	"fmt"
)

// The three rejection classes a gate check can produce.
var (
	// ErrUnauthorized covers every credential rejection.
	ErrUnauthorized = errors.New("auth: unauthorized")

	// ErrStorageUnavailable means the key store could not be consulted.
	// It is a server fault, not a caller fault.
	ErrStorageUnavailable = errors.New("auth: key store unavailable")

	// ErrMalformedRequest means the request shape made header extraction
	// impossible (no header map at all).
	ErrMalformedRequest = errors.New("auth: malformed request")
)

// The two Unauthorized causes, distinguished so the HTTP adapter can answer
// with a specific message. Both satisfy errors.Is(err, ErrUnauthorized).
var (
	ErrMissingKey = fmt.Errorf("%w: missing API key", ErrUnauthorized)
	ErrInvalidKey = fmt.Errorf("%w: invalid API key", ErrUnauthorized)
)
