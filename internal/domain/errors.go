package domain

import "errors"

// Sentinel errors used across all layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")

	// ErrInvalidToken means the verification service rejected the bearer token
	// or answered without a usable identity.
	ErrInvalidToken = errors.New("invalid token")

	// ErrVerifierUnavailable means the verification service could not be reached,
	// timed out, or failed on its side. It is never reported as ErrInvalidToken.
	ErrVerifierUnavailable = errors.New("verification service unavailable")

	// ErrNoStats means the identity is valid but has no survey records.
	ErrNoStats = errors.New("no stats available")
)
