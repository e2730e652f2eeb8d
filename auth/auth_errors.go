package auth

import "errors"

var (
	// ErrInvalidCredentials covers both "no such account" and "wrong
	// password" so responses cannot be used for account enumeration.
	// OAuth-only accounts attempting a password login get the same error.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrDuplicateEmail is returned when registering an email that already
	// has an account.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrInvalidRefreshToken covers a missing, malformed, expired or
	// wrong-kind token presented in the refresh slot.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)
