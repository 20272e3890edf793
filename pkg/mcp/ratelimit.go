package mcp

import (
	"sync"
	"time"
)

// Rate limiter defaults.
const (
	RateLimitWindow = time.Minute
	RateLimitMax    = 100
)

// RateLimitStatus is the outcome of one rate limit check.
type RateLimitStatus struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// RateLimiter is a sliding-window per-key limiter. Like the Cache it is a
// standalone utility, not installed in the dispatch path.
type RateLimiter struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	window   time.Duration
	max      int
}

// NewRateLimiter creates a limiter allowing max requests per key per window.
func NewRateLimiter(window time.Duration, max int) (limiter *RateLimiter) {
	if window <= 0 {
		window = RateLimitWindow
	}
	if max <= 0 {
		max = RateLimitMax
	}

	limiter = &RateLimiter{
		requests: map[string][]time.Time{},
		window:   window,
		max:      max,
	}
	return limiter
}

// Check records one request for key and reports whether it is allowed.
// Timestamps older than the window are discarded; a denied request is not
// recorded.
func (l *RateLimiter) Check(key string) (status RateLimitStatus) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-l.window)

	var valid []time.Time
	for _, ts := range l.requests[key] {
		if ts.After(cutoff) {
			valid = append(valid, ts)
		}
	}

	if len(valid) >= l.max {
		l.requests[key] = valid
		status = RateLimitStatus{
			Allowed:   false,
			Remaining: 0,
			ResetAt:   valid[0].Add(l.window),
		}
		return status
	}

	valid = append(valid, now)
	l.requests[key] = valid

	status = RateLimitStatus{
		Allowed:   true,
		Remaining: l.max - len(valid),
		ResetAt:   now.Add(l.window),
	}
	return status
}

// Clear resets the window for one key.
func (l *RateLimiter) Clear(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.requests, key)
}

// ClearAll resets every key.
func (l *RateLimiter) ClearAll() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.requests = map[string][]time.Time{}
}
