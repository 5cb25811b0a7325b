// Package ratelimiter provides fixed-window attempt limiting with pluggable
// storage backends and HTTP middleware.
//
// Each key (typically an operation plus a user or client identity, e.g.
// "totp-challenge:user-123") gets a fixed number of attempts per window.
// Attempts beyond the limit are denied until the window resets; denied
// attempts do not extend the window. This shape suits credential guarding,
// where the quantity to bound is verification attempts per identity rather
// than request throughput.
//
// # Basic Usage
//
//	limiter, err := ratelimiter.NewWindow(ratelimiter.NewMemoryStore(), ratelimiter.Config{
//		Limit:  5,
//		Window: 15 * time.Minute,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := limiter.Consume(ctx, "totp-challenge:"+userID)
//	if err != nil {
//		return err
//	}
//	if !result.Allowed() {
//		// deny, retry after result.RetryAfter()
//	}
//
// # Backends
//
// MemoryStore keeps counts in a per-process map and is right for tests and
// single-instance deployments. RedisStore shares counts across instances via
// an atomic INCR/PEXPIRE script and is the production choice when the
// application runs replicated.
package ratelimiter
