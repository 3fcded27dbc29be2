package http

import (
	"sync"
	"time"
)

// ClientRateLimiter is a sliding-window limiter keyed by the anonymous
// client token. A client can shed its token for a fresh budget, so the
// limit only slows down casual abuse.
type ClientRateLimiter struct {
	mu        sync.Mutex
	history   map[string][]time.Time
	limit     int
	interval  time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func NewClientRateLimiter(limit int, interval time.Duration) *ClientRateLimiter {
	return &ClientRateLimiter{
		history:  make(map[string][]time.Time),
		limit:    limit,
		interval: interval,
		now:      time.Now,
	}
}

// Allow records an attempt for client and reports whether it fits the window.
// A non-positive limit disables limiting.
func (rl *ClientRateLimiter) Allow(client string) bool {
	if rl.limit <= 0 {
		return true
	}
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	windowStart := now.Add(-rl.interval)
	if now.Sub(rl.lastSweep) >= rl.interval {
		rl.sweep(windowStart)
		rl.lastSweep = now
	}

	fresh := freshAttempts(rl.history[client], windowStart)
	if len(fresh) >= rl.limit {
		rl.history[client] = fresh
		return false
	}

	rl.history[client] = append(fresh, now)
	return true
}

// sweep forgets clients with no attempt left in the window.
func (rl *ClientRateLimiter) sweep(windowStart time.Time) {
	for client, attempts := range rl.history {
		if len(freshAttempts(attempts, windowStart)) == 0 {
			delete(rl.history, client)
		}
	}
}

func freshAttempts(attempts []time.Time, windowStart time.Time) []time.Time {
	fresh := make([]time.Time, 0, len(attempts)+1)
	for _, t := range attempts {
		if t.After(windowStart) {
			fresh = append(fresh, t)
		}
	}
	return fresh
}
