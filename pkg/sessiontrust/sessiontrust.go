package sessiontrust

import (
	"crypto/subtle"
)

// Update is a request to change the two-factor state of the current session.
// It travels from the two-factor HTTP handlers to the session layer through
// application code that also handles untrusted input, so every field except
// the tag is advisory until IsTrusted has accepted the payload.
type Update struct {
	// TwoFactorVerified marks the session as second-factor verified.
	TwoFactorVerified bool
	// TwoFactorVerifiedAt is the verification moment in Unix milliseconds,
	// zero when clearing the flag.
	TwoFactorVerifiedAt int64
	// AuthenticatedAt optionally refreshes the session's authentication time.
	AuthenticatedAt int64
	// TOTPEnabled mirrors the account's enrollment state into the session.
	TOTPEnabled bool

	// tag carries the server-side trust key. Unexported so it can only be
	// set through Build.
	tag []byte
}

// Keychain builds and checks trusted session updates using a server-side key
// resolved once at construction.
type Keychain struct {
	key []byte
}

// NewKeychain returns a Keychain using the given key material, typically
// resolved through the TWO_FACTOR_SESSION_UPDATE_KEY fallback chain. It fails
// if no key material is configured: proceeding without one would make every
// update forgeable.
func NewKeychain(key []byte) (*Keychain, error) {
	if len(key) == 0 {
		return nil, ErrTrustKeyNotConfigured
	}
	return &Keychain{key: key}, nil
}

// Build tags the update with the trust key so the session layer can
// distinguish it from a payload assembled out of untrusted input.
func (k *Keychain) Build(update Update) Update {
	update.tag = k.key
	return update
}

// IsTrusted reports whether the update carries a tag matching the trust key.
// It never fails: an absent or mismatched tag simply yields false, and the
// caller must ignore the update. The comparison gates only a session write,
// but constant time costs nothing here.
func (k *Keychain) IsTrusted(update Update) bool {
	if len(update.tag) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare(update.tag, k.key) == 1
}
