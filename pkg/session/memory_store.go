package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore implements Store using in-memory storage.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session)}
}

func (ms *MemoryStore) Create(ctx context.Context, session *Session) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	copied := *session
	ms.sessions[session.Token] = &copied
	return nil
}

func (ms *MemoryStore) Get(ctx context.Context, token string) (*Session, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	session, ok := ms.sessions[token]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if session.IsExpired() {
		return nil, ErrSessionExpired
	}

	copied := *session
	return &copied, nil
}

func (ms *MemoryStore) Update(ctx context.Context, session *Session) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if _, ok := ms.sessions[session.Token]; !ok {
		return ErrSessionNotFound
	}

	copied := *session
	ms.sessions[session.Token] = &copied
	return nil
}

func (ms *MemoryStore) Delete(ctx context.Context, token string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.sessions, token)
	return nil
}

func (ms *MemoryStore) DeleteExpired(ctx context.Context) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := time.Now()
	for token, session := range ms.sessions {
		if now.After(session.ExpiresAt) {
			delete(ms.sessions, token)
		}
	}
	return nil
}
