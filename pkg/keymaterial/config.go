package keymaterial

// Config declares the environment variables feeding the three logical keys
// used across the two-factor stack. Each logical key falls back through a
// chain of progressively more general secrets, so a deployment that only sets
// AUTH_SECRET still has working session-trust tagging.
type Config struct {
	// SealingKey protects TOTP secrets at rest. Base64-encoded 32+ bytes
	// recommended.
	SealingKey string `env:"TOTP_ENCRYPTION_KEY"`

	// RecoveryHashKey keys recovery-code hashes.
	RecoveryHashKey string `env:"RECOVERY_CODE_HASH_KEY"`

	// SessionUpdateKey tags trusted session updates.
	SessionUpdateKey string `env:"TWO_FACTOR_SESSION_UPDATE_KEY"`

	// AuthSecret is the application-wide authentication secret.
	AuthSecret string `env:"AUTH_SECRET"`

	// SessionSecret signs session tokens; last specific fallback before the
	// sealing key.
	SessionSecret string `env:"SESSION_SECRET"`
}

// SealingKeyMaterial resolves the key material protecting secrets at rest.
// The sealing key has no fallback: silently encrypting with a shared secret
// would make key rotation of that secret destroy every stored TOTP secret.
func (c Config) SealingKeyMaterial() ([]byte, error) {
	return Resolve(c.SealingKey)
}

// RecoveryHashKeyMaterial resolves the key for recovery-code hashing,
// falling back to the sealing key material. The hasher feeds it through its
// own HMAC construction, so the sealing and hashing key domains stay
// separate even when the raw material is shared.
func (c Config) RecoveryHashKeyMaterial() ([]byte, error) {
	return Resolve(c.RecoveryHashKey, c.SealingKey)
}

// SessionUpdateKeyMaterial resolves the session-trust key, falling back
// through the general auth secrets down to the sealing key.
func (c Config) SessionUpdateKeyMaterial() ([]byte, error) {
	return Resolve(c.SessionUpdateKey, c.AuthSecret, c.SessionSecret, c.SealingKey)
}
