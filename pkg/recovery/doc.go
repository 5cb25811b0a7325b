// Package recovery generates and verifies single-use backup codes for
// two-factor authentication.
//
// Codes are 10 characters drawn from an alphabet without visually ambiguous
// characters, displayed as two dash-separated groups of five. Only keyed
// HMAC-SHA-256 hashes are ever persisted; Consume removes exactly one
// matching hash per call using constant-time comparison across the whole
// stored list.
//
// The hash key must be distinct from the key sealing TOTP secrets so the two
// credential stores do not fall together.
package recovery
