// Package twofactor orchestrates TOTP-based two-factor authentication:
// enrollment, activation, login-time challenges, recovery codes, and
// disablement, driven against an injected user-record store.
//
// # State machine
//
// Per user: NOT_ENROLLED -> ENROLLED_UNVERIFIED (Enroll) -> ACTIVE
// (VerifyEnrollment), back to NOT_ENROLLED via Disable, with
// RegenerateRecoveryCodes as a self-loop on ACTIVE. Separating enrollment
// from activation lets a user scan the QR code and prove possession of the
// secret before it becomes binding, so a mistyped or unsynced authenticator
// cannot lock them out.
//
// # Replay handling
//
// Each accepted code advances a per-user last-used-step watermark. A code
// matching at or before the watermark fails with ErrReplayDetected and is
// never treated as a recovery-code attempt: a captured-and-replayed primary
// code must not silently consume a backup credential.
//
// # Collaborators
//
// The user store, rate limiter, and HTTP session are external. The service
// assumes rate limiting was applied by the caller before Challenge or
// VerifyEnrollment, and performs each operation as one read plus at most one
// write against the latest stored state.
package twofactor
