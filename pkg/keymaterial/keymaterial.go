package keymaterial

import (
	"encoding/base64"
	"strings"
)

// Resolve walks the ordered candidate values and returns the decoded bytes of
// the first non-empty one. Candidates are typically sourced from a chain of
// environment variables, most specific first.
//
// A candidate that round-trips cleanly through base64 is treated as a
// base64-encoded key; anything else is used as raw UTF-8 bytes. Operators can
// therefore supply either form without extra configuration.
func Resolve(candidates ...string) ([]byte, error) {
	for _, candidate := range candidates {
		trimmed := strings.TrimSpace(candidate)
		if trimmed == "" {
			continue
		}
		return Decode(trimmed), nil
	}
	return nil, ErrKeyMaterialMissing
}

// Decode interprets a single key-material value: base64 when it round-trips,
// raw UTF-8 bytes otherwise.
func Decode(raw string) []byte {
	trimmed := strings.TrimSpace(raw)

	decoded, err := base64.StdEncoding.DecodeString(padBase64(trimmed))
	if err == nil && len(decoded) > 0 {
		roundTrip := strings.TrimRight(base64.StdEncoding.EncodeToString(decoded), "=")
		if roundTrip == strings.TrimRight(trimmed, "=") {
			return decoded
		}
	}

	return []byte(trimmed)
}

// padBase64 restores stripped padding so the standard decoder accepts values
// saved without trailing '=' characters.
func padBase64(s string) string {
	if m := len(s) % 4; m != 0 {
		return s + strings.Repeat("=", 4-m)
	}
	return s
}
