package sealing

import "errors"

var (
	// Key configuration errors, fatal at construction time
	ErrKeyNotConfigured    = errors.New("sealing key material not configured")
	ErrKeyMaterialTooShort = errors.New("sealing key material too short: need at least 32 bytes")
	ErrKeyDerivationFailed = errors.New("sealing key derivation failed")

	// Seal/unseal errors
	ErrSealFailed = errors.New("failed to seal secret")

	// ErrInvalidCredential covers every unseal failure: wrong version,
	// malformed segments, truncated payload, or failed authentication. The
	// caller must treat the stored secret as unusable and require re-enrollment.
	ErrInvalidCredential = errors.New("invalid sealed credential")
)
