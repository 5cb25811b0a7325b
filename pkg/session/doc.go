// Package session provides HTTP session persistence with a guarded
// two-factor verification flag.
//
// Sessions carry ordinary request-scoped data plus a "second-factor
// verified" marker. That marker never changes through session data writes;
// it flips only when Manager.ApplyTwoFactorUpdate receives an update tagged
// by the sessiontrust keychain. Updates without a valid tag are silently
// ignored, so application code handling client input cannot be tricked into
// promoting a session.
//
// The MemoryStore backing is suitable for single-process deployments and
// tests; the Store interface allows a shared backing for replicated setups.
package session
