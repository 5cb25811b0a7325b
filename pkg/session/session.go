package session

import (
	"time"

	"github.com/google/uuid"
)

// Session represents an authenticated HTTP session. Two-factor state is
// stored alongside ordinary session data but can only be changed through a
// trusted update accepted by the Manager.
type Session struct {
	ID              uuid.UUID      `json:"id"`
	Token           string         `json:"token"`
	UserID          string         `json:"user_id,omitempty"`
	Data            map[string]any `json:"data,omitempty"`
	AuthenticatedAt time.Time      `json:"authenticated_at"`
	ExpiresAt       time.Time      `json:"expires_at"`
	CreatedAt       time.Time      `json:"created_at"`

	// twoFactorVerified is unexported: it flips only through
	// Manager.ApplyTwoFactorUpdate, never from request-derived data.
	twoFactorVerified   bool
	twoFactorVerifiedAt time.Time
	totpEnabled         bool
}

// New creates a session for the given user with the given lifetime.
func New(token, userID string, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:              uuid.New(),
		Token:           token,
		UserID:          userID,
		Data:            make(map[string]any),
		AuthenticatedAt: now,
		ExpiresAt:       now.Add(ttl),
		CreatedAt:       now,
	}
}

// IsAuthenticated returns true if the session belongs to a user.
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.UserID != ""
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return s != nil && time.Now().After(s.ExpiresAt)
}

// TwoFactorVerified reports whether this session passed a second-factor
// check after authentication.
func (s *Session) TwoFactorVerified() bool {
	return s != nil && s.twoFactorVerified
}

// TwoFactorVerifiedAt returns when the second factor was verified, zero if
// it was not.
func (s *Session) TwoFactorVerifiedAt() time.Time {
	if s == nil {
		return time.Time{}
	}
	return s.twoFactorVerifiedAt
}

// TOTPEnabled mirrors the account's enrollment state as of the last trusted
// update.
func (s *Session) TOTPEnabled() bool {
	return s != nil && s.totpEnabled
}

// Get retrieves a value from session data.
func (s *Session) Get(key string) (any, bool) {
	if s == nil || s.Data == nil {
		return nil, false
	}
	val, ok := s.Data[key]
	return val, ok
}

// Set stores a value in session data.
func (s *Session) Set(key string, value any) {
	if s == nil {
		return
	}
	if s.Data == nil {
		s.Data = make(map[string]any)
	}
	s.Data[key] = value
}

// Delete removes a value from session data.
func (s *Session) Delete(key string) {
	if s == nil || s.Data == nil {
		return
	}
	delete(s.Data, key)
}
