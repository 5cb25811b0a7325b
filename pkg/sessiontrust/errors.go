package sessiontrust

import "errors"

var (
	// ErrTrustKeyNotConfigured is returned when the whole key fallback chain
	// is empty. Fatal at startup: without a key, trusted updates cannot be
	// distinguished from forged ones.
	ErrTrustKeyNotConfigured = errors.New("session update trust key not configured")
)
