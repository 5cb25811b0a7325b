package ratelimiter

import (
	"context"
	"fmt"
)

// Limiter defines the interface for attempt-counting rate limiters.
type Limiter interface {
	Consume(ctx context.Context, key string) (*Result, error)
	Reset(ctx context.Context, key string) error
}

// Window implements fixed-window attempt counting: each key gets Limit
// attempts per Window, after which further attempts are denied until the
// window resets. Suited to guarding credential checks, where the interesting
// quantity is attempts per identity rather than request throughput.
type Window struct {
	store  Store
	config Config
}

// NewWindow creates a fixed-window limiter on the given store.
func NewWindow(store Store, config Config) (*Window, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}

	return &Window{
		store:  store,
		config: config,
	}, nil
}

// Consume records one attempt for the key and reports whether it was within
// the limit. A denied attempt does not extend the window.
func (w *Window) Consume(ctx context.Context, key string) (*Result, error) {
	if key == "" {
		return nil, fmt.Errorf("%w: empty key", ErrInvalidKey)
	}

	remaining, resetAt, err := w.store.ConsumeAttempt(ctx, key, w.config)
	if err != nil {
		return nil, err
	}

	return &Result{
		Limit:     w.config.Limit,
		Remaining: remaining,
		ResetAt:   resetAt,
	}, nil
}

// Reset clears the attempt count for the key, typically after a successful
// verification so earlier failures stop counting against the user.
func (w *Window) Reset(ctx context.Context, key string) error {
	return w.store.Reset(ctx, key)
}

func (c Config) validate() error {
	if c.Limit <= 0 {
		return fmt.Errorf("%w: limit must be positive, got %d", ErrInvalidConfig, c.Limit)
	}
	if c.Window <= 0 {
		return fmt.Errorf("%w: window must be positive, got %v", ErrInvalidConfig, c.Window)
	}
	return nil
}
