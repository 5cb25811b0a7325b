package sealing

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"
)

const (
	// KeySize is the derived key size for AES-256 (256 bits / 8 = 32 bytes).
	KeySize = 32

	// MinKeyMaterialSize is the minimum accepted operator key material length.
	MinKeyMaterialSize = 32

	envelopeVersion = "v1"
	envelopeSep     = "."
	nonceSize       = 12 // Standard GCM nonce size
	tagSize         = 16 // GCM authentication tag size

	// derivationInfo provides domain separation between contexts sharing the
	// same operator key material.
	derivationInfo = "authkit-sealing-v1"
)

// Sealer performs authenticated encryption of at-rest secrets. The master key
// is derived once from operator key material and reused for every operation.
type Sealer struct {
	aead cipher.AEAD
}

// New derives the sealing key from operator key material via HKDF-SHA-256 and
// returns a ready-to-use Sealer. The context string separates key domains, so
// the same material can safely back multiple sealers (e.g. "totp-secret" vs
// "credentials") without their ciphertexts being interchangeable.
func New(material []byte, context string) (*Sealer, error) {
	if len(material) == 0 {
		return nil, ErrKeyNotConfigured
	}
	if len(material) < MinKeyMaterialSize {
		return nil, ErrKeyMaterialTooShort
	}

	key := make([]byte, KeySize)
	reader := hkdf.New(sha256.New, material, []byte(context), []byte(derivationInfo))
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, errors.Join(ErrKeyDerivationFailed, err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Join(ErrKeyDerivationFailed, err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.Join(ErrKeyDerivationFailed, err)
	}

	return &Sealer{aead: aead}, nil
}

// Seal encrypts plaintext into a self-contained envelope of the form
// "v1.<nonce>.<tag>.<ciphertext>" with base64url segments. A fresh random
// nonce is generated per call.
//
// Input already in envelope form is returned unchanged: secrets reloaded from
// storage may re-enter the seal path, and double encryption would make them
// unrecoverable.
func (s *Sealer) Seal(plaintext string) (string, error) {
	if IsEnvelope(plaintext) {
		return plaintext, nil
	}

	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", errors.Join(ErrSealFailed, err)
	}

	sealed := s.aead.Seal(nil, nonce, []byte(plaintext), nil)
	ciphertext, tag := sealed[:len(sealed)-tagSize], sealed[len(sealed)-tagSize:]

	enc := base64.RawURLEncoding
	return strings.Join([]string{
		envelopeVersion,
		enc.EncodeToString(nonce),
		enc.EncodeToString(tag),
		enc.EncodeToString(ciphertext),
	}, envelopeSep), nil
}

// Unseal decrypts an envelope produced by Seal. A wrong version tag, a
// malformed or short segment, or a failed authentication check all collapse
// into ErrInvalidCredential; partially decrypted data is never returned.
func (s *Sealer) Unseal(envelope string) (string, error) {
	nonce, tag, ciphertext, err := parseEnvelope(envelope)
	if err != nil {
		return "", err
	}

	plaintext, err := s.aead.Open(nil, nonce, append(ciphertext, tag...), nil)
	if err != nil {
		return "", ErrInvalidCredential
	}

	return string(plaintext), nil
}

// IsEnvelope reports whether the value is structurally a sealed envelope.
// It validates shape only, not authenticity.
func IsEnvelope(value string) bool {
	_, _, _, err := parseEnvelope(value)
	return err == nil
}

func parseEnvelope(envelope string) (nonce, tag, ciphertext []byte, err error) {
	parts := strings.Split(envelope, envelopeSep)
	if len(parts) != 4 || parts[0] != envelopeVersion {
		return nil, nil, nil, ErrInvalidCredential
	}

	enc := base64.RawURLEncoding
	nonce, err = enc.DecodeString(parts[1])
	if err != nil || len(nonce) != nonceSize {
		return nil, nil, nil, ErrInvalidCredential
	}
	tag, err = enc.DecodeString(parts[2])
	if err != nil || len(tag) != tagSize {
		return nil, nil, nil, ErrInvalidCredential
	}
	ciphertext, err = enc.DecodeString(parts[3])
	if err != nil || len(ciphertext) == 0 {
		return nil, nil, nil, ErrInvalidCredential
	}

	return nonce, tag, ciphertext, nil
}
