package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/secyourflow/authkit/pkg/sessiontrust"
)

// DefaultTTL is the session lifetime used when none is configured.
const DefaultTTL = 24 * time.Hour

// Manager handles session lifecycle and is the only path through which a
// session's two-factor state changes.
type Manager struct {
	store    Store
	keychain *sessiontrust.Keychain
	ttl      time.Duration
}

// Option configures a Manager.
type Option func(*Manager)

// WithTTL sets the lifetime for newly created sessions.
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// NewManager creates a session manager. The keychain authorizes two-factor
// updates; both it and the store are required.
func NewManager(store Store, keychain *sessiontrust.Keychain, opts ...Option) (*Manager, error) {
	if store == nil {
		return nil, ErrNoStore
	}
	if keychain == nil {
		return nil, ErrNoKeychain
	}

	m := &Manager{
		store:    store,
		keychain: keychain,
		ttl:      DefaultTTL,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Create starts a new authenticated session for the user.
func (m *Manager) Create(ctx context.Context, userID string) (*Session, error) {
	token, err := generateToken()
	if err != nil {
		return nil, err
	}

	session := New(token, userID, m.ttl)
	if err := m.store.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Get retrieves a live session by token.
func (m *Manager) Get(ctx context.Context, token string) (*Session, error) {
	return m.store.Get(ctx, token)
}

// Destroy removes a session.
func (m *Manager) Destroy(ctx context.Context, token string) error {
	return m.store.Delete(ctx, token)
}

// ApplyTwoFactorUpdate applies a two-factor session update if and only if it
// carries a valid trust tag. Untrusted updates are dropped without error:
// the update path is reachable from code handling client input, and a forged
// payload must be indistinguishable from a no-op.
func (m *Manager) ApplyTwoFactorUpdate(ctx context.Context, token string, update sessiontrust.Update) (*Session, error) {
	session, err := m.store.Get(ctx, token)
	if err != nil {
		return nil, err
	}

	if !m.keychain.IsTrusted(update) {
		return session, nil
	}

	session.twoFactorVerified = update.TwoFactorVerified
	if update.TwoFactorVerifiedAt > 0 {
		session.twoFactorVerifiedAt = time.UnixMilli(update.TwoFactorVerifiedAt)
	} else {
		session.twoFactorVerifiedAt = time.Time{}
	}
	if update.AuthenticatedAt > 0 {
		session.AuthenticatedAt = time.UnixMilli(update.AuthenticatedAt)
	}
	session.totpEnabled = update.TOTPEnabled

	if err := m.store.Update(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func generateToken() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", errors.Join(ErrTokenGeneration, err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
