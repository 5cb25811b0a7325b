package ratelimiter

import "time"

// Result contains the outcome of one attempt.
type Result struct {
	Limit     int       // Maximum attempts per window
	Remaining int       // Attempts left in the current window
	ResetAt   time.Time // Time when the window resets
}

// Allowed returns whether the attempt was within the limit.
func (r *Result) Allowed() bool {
	return r.Remaining >= 0
}

// RetryAfter returns how long to wait before the next attempt.
// Returns 0 if the attempt was allowed.
func (r *Result) RetryAfter() time.Duration {
	if r.Allowed() {
		return 0
	}
	return time.Until(r.ResetAt)
}

// Config defines the fixed-window configuration.
type Config struct {
	Limit  int           // Maximum attempts the window allows
	Window time.Duration // Window length; the count resets when it elapses
}
