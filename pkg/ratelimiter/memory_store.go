package ratelimiter

import (
	"context"
	"sync"
	"time"
)

// window tracks the attempt count for one key.
type window struct {
	attempts int
	resetAt  time.Time
}

// MemoryStore implements Store using in-memory storage. Suitable for a
// single process; multi-instance deployments should use RedisStore so every
// instance sees the same counts.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]*window

	cleanupInterval time.Duration
	stopCleanup     chan struct{}
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithCleanupInterval sets the cleanup interval for removing expired windows.
// Set to 0 to disable automatic cleanup.
func WithCleanupInterval(interval time.Duration) MemoryStoreOption {
	return func(ms *MemoryStore) {
		ms.cleanupInterval = interval
	}
}

// NewMemoryStore creates a new in-memory store with optional cleanup.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	ms := &MemoryStore{
		windows:         make(map[string]*window),
		cleanupInterval: 5 * time.Minute,
		stopCleanup:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(ms)
	}

	if ms.cleanupInterval > 0 {
		go ms.cleanup()
	}

	return ms
}

// ConsumeAttempt records one attempt within the key's current window,
// starting a fresh window when none exists or the previous one has expired.
func (ms *MemoryStore) ConsumeAttempt(ctx context.Context, key string, config Config) (remaining int, resetAt time.Time, err error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := time.Now()
	w, exists := ms.windows[key]

	if !exists || !w.resetAt.After(now) {
		w = &window{
			attempts: 0,
			resetAt:  now.Add(config.Window),
		}
		ms.windows[key] = w
	}

	// A denied attempt must not decrement further, or the reported remaining
	// count would drift ever more negative under a burst.
	if w.attempts >= config.Limit {
		return -1, w.resetAt, nil
	}

	w.attempts++
	return config.Limit - w.attempts, w.resetAt, nil
}

func (ms *MemoryStore) Reset(ctx context.Context, key string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.windows, key)
	return nil
}

// cleanup runs periodically to remove expired windows.
func (ms *MemoryStore) cleanup() {
	ticker := time.NewTicker(ms.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ms.removeExpired()
		case <-ms.stopCleanup:
			return
		}
	}
}

// removeExpired drops windows past their reset time to prevent memory leaks.
func (ms *MemoryStore) removeExpired() {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := time.Now()
	for key, w := range ms.windows {
		if !w.resetAt.After(now) {
			delete(ms.windows, key)
		}
	}
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (ms *MemoryStore) Close() {
	select {
	case <-ms.stopCleanup:
		// Already closed
	default:
		close(ms.stopCleanup)
	}
}
