package recovery

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"regexp"
	"strings"
)

const (
	// DefaultBatchSize is the number of codes issued per generation.
	DefaultBatchSize = 10

	// codeAlphabet excludes visually ambiguous characters (0/O, 1/I/L) so
	// codes survive being read off paper.
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	codeLength = 10
	groupSize  = 5
)

var hashHexRegex = regexp.MustCompile(`^[a-f0-9]{64}$`)

// Hasher computes keyed one-way hashes of recovery codes. The key must be a
// server-side secret distinct from the secret-sealing key, so a database leak
// alone is not enough to forge codes.
type Hasher struct {
	key []byte
}

// NewHasher returns a Hasher using the given key material.
func NewHasher(key []byte) (*Hasher, error) {
	if len(key) == 0 {
		return nil, ErrHashKeyNotConfigured
	}
	return &Hasher{key: key}, nil
}

// Generate creates count single-use recovery codes. Each code is 10
// characters from the restricted alphabet, displayed as two dash-separated
// groups of five. Codes exist in plaintext only between generation and
// display; callers persist hashes.
func Generate(count int) ([]string, error) {
	if count < 1 {
		return nil, ErrInvalidCodeCount
	}

	codes := make([]string, count)
	for i := 0; i < count; i++ {
		raw := make([]byte, codeLength)
		if _, err := rand.Read(raw); err != nil {
			return nil, errors.Join(ErrFailedToGenerateCode, err)
		}

		var b strings.Builder
		b.Grow(codeLength + 1)
		for j, v := range raw {
			if j == groupSize {
				b.WriteByte('-')
			}
			b.WriteByte(codeAlphabet[int(v)%len(codeAlphabet)])
		}
		codes[i] = b.String()
	}
	return codes, nil
}

// Hash returns the hex-encoded HMAC-SHA-256 of the normalized code.
// Deterministic for a given code and key.
func (h *Hasher) Hash(code string) string {
	mac := hmac.New(sha256.New, h.key)
	mac.Write([]byte(Normalize(code)))
	return hex.EncodeToString(mac.Sum(nil))
}

// HashAll hashes a batch of codes in order.
func (h *Hasher) HashAll(codes []string) []string {
	hashes := make([]string, len(codes))
	for i, code := range codes {
		hashes[i] = h.Hash(code)
	}
	return hashes
}

// Consume checks the submitted code against the stored hashes and, on a
// match, returns the list with exactly that one entry removed. Every stored
// hash is compared in constant time with no early exit, so timing does not
// reveal which position matched.
func (h *Hasher) Consume(code string, hashes []string) (remaining []string, matched bool) {
	candidate := h.Hash(code)

	matchedIndex := -1
	for i, stored := range hashes {
		if constantTimeHexEquals(stored, candidate) && matchedIndex == -1 {
			matchedIndex = i
		}
	}

	if matchedIndex == -1 {
		return hashes, false
	}

	remaining = make([]string, 0, len(hashes)-1)
	remaining = append(remaining, hashes[:matchedIndex]...)
	remaining = append(remaining, hashes[matchedIndex+1:]...)
	return remaining, true
}

// Normalize uppercases a submitted code and strips everything outside the
// hash input alphabet, so "abcde-23456" and "ABCDE 23456" hash identically.
func Normalize(code string) string {
	var b strings.Builder
	b.Grow(len(code))
	for _, r := range strings.ToUpper(strings.TrimSpace(code)) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CoerceHashes filters an untyped stored value down to well-formed lowercase
// SHA-256 hex strings. Storage layers that keep the hash list in a loosely
// typed column (jsonb) route reads through this.
func CoerceHashes(value any) []string {
	items, ok := value.([]any)
	if !ok {
		if typed, ok := value.([]string); ok {
			return filterHashes(typed)
		}
		return nil
	}

	strs := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			strs = append(strs, s)
		}
	}
	return filterHashes(strs)
}

func filterHashes(values []string) []string {
	hashes := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if hashHexRegex.MatchString(v) {
			hashes = append(hashes, v)
		}
	}
	return hashes
}

func constantTimeHexEquals(a, b string) bool {
	left, errA := hex.DecodeString(a)
	right, errB := hex.DecodeString(b)
	if errA != nil || errB != nil || len(left) == 0 || len(left) != len(right) {
		return false
	}
	return subtle.ConstantTimeCompare(left, right) == 1
}
