package twofactor

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory UserStore for tests and single-process
// development setups. Each GetByID/UpdateByID runs under one mutex, so an
// update is immediately visible to the next read.
type MemoryStore struct {
	mu    sync.Mutex
	users map[string]*User
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]*User)}
}

// Put inserts or replaces a user record.
func (ms *MemoryStore) Put(user User) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.users[user.ID] = &user
}

func (ms *MemoryStore) GetByID(ctx context.Context, userID string) (*User, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	user, ok := ms.users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}

	copied := *user
	return &copied, nil
}

func (ms *MemoryStore) UpdateByID(ctx context.Context, userID string, update Update) (*User, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	user, ok := ms.users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}

	user.apply(update)

	copied := *user
	return &copied, nil
}
