// Package keymaterial resolves operator-supplied secret key material from
// ordered fallback chains of environment variables.
//
// Several components (secret sealing, recovery-code hashing, session-trust
// tagging) each need a server-side key. Rather than scatter env lookups, the
// chains are declared once in Config and resolved through Resolve, which
// accepts either base64-encoded or raw string values and fails loudly when a
// chain is entirely unset.
package keymaterial
