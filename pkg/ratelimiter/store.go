package ratelimiter

import (
	"context"
	"time"
)

// Store defines the interface for rate limit storage backends.
type Store interface {
	// ConsumeAttempt records one attempt for the key within the configured
	// window. Returns the remaining attempts and the window reset time.
	// If remaining is negative, the attempt should be denied.
	ConsumeAttempt(ctx context.Context, key string, config Config) (remaining int, resetAt time.Time, err error)

	// Reset clears the attempt count for the given key.
	Reset(ctx context.Context, key string) error
}
