package keymaterial

import "errors"

var (
	// ErrKeyMaterialMissing is returned when every candidate in the fallback
	// chain is empty. This indicates a deployment misconfiguration and must
	// abort startup rather than let the process run without a key.
	ErrKeyMaterialMissing = errors.New("no key material configured")
)
