// Package sessiontrust lets server-side code authorize updates to a
// session's two-factor state across a boundary that also carries untrusted
// input.
//
// After a successful TOTP verification the HTTP handler must ask the session
// layer to mark the session as second-factor verified. Because the session
// update path is reachable from code handling arbitrary client input, a raw
// "set verified" payload could be forged. A Keychain tags genuine updates
// with a server-only key; the session layer rechecks the tag and silently
// drops anything that does not carry it.
//
// This is a capability check, not encryption or signing: the tag never
// leaves the process, so equality against the resolved key is sufficient.
package sessiontrust
