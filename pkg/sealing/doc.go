// Package sealing provides authenticated symmetric encryption for at-rest
// secrets such as TOTP keys and stored credentials.
//
// A Sealer derives a single AES-256 key from operator-supplied key material
// using HKDF-SHA-256 with a per-context info string, then produces
// self-contained envelopes of the form "v1.<nonce>.<tag>.<ciphertext>" where
// each segment is base64url-encoded. Every Seal call uses a fresh random
// nonce; Unseal rejects any tampered, truncated, or mis-versioned envelope
// with the single sentinel ErrInvalidCredential so callers cannot distinguish
// forgery from corruption.
//
// Sealing is idempotent: a value already in envelope form passes through
// Seal unchanged. This matters because secrets reloaded from the database
// can re-enter the write path.
//
// # Usage
//
//	material, err := keymaterial.Resolve(os.Getenv("TOTP_ENCRYPTION_KEY"))
//	if err != nil {
//	    log.Fatal(err) // deployment misconfiguration
//	}
//
//	sealer, err := sealing.New(material, "totp-secret")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	envelope, err := sealer.Seal(secret)
//	plain, err := sealer.Unseal(envelope)
//
// Use errors.Is(err, sealing.ErrInvalidCredential) to detect unusable stored
// secrets and force re-enrollment.
package sealing
