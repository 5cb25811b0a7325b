// Package totp implements the RFC 6238 time-based one-time password
// primitive: secret key generation, authenticator provisioning URIs, and
// step-based code generation and verification with replay detection.
//
// Codes are 6 digits over 30-second steps computed with HMAC-SHA1 per
// RFC 4226. Verification accepts the current step plus one adjacent step in
// either direction to tolerate clock skew, and tracks the matched step index
// so a caller persisting it can reject any code at or before the last
// accepted step as a replay.
//
// # Usage
//
//	secret, _ := totp.GenerateSecretKey()
//	uri, _ := totp.GetTOTPURI(totp.TOTPParams{
//	    Secret:      secret,
//	    AccountName: "user@example.com",
//	    Issuer:      "SecYourFlow",
//	})
//	// render uri as a QR code for the authenticator app
//
//	v, err := totp.VerifyToken(secret, submitted, lastUsedStep, time.Now().UnixMilli())
//	switch {
//	case err != nil:            // malformed secret
//	case v.Status == totp.StatusValid:  // persist v.MatchedStep as the new watermark
//	case v.Status == totp.StatusReplay: // code already consumed
//	default:                            // wrong code
//	}
//
// The package holds no state; replay tracking lives with the caller's user
// record.
package totp
