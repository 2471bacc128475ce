package http

import (
	"sync"
	"time"
)

// RateLimiter is a sliding-window limit per client key.
type RateLimiter struct {
	mu        sync.Mutex
	history   map[string][]time.Time
	limit     int
	interval  time.Duration
	now       func() time.Time
	lastSweep time.Time
}

func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		history:  make(map[string][]time.Time),
		limit:    limit,
		interval: interval,
		now:      time.Now,
	}
}

// Allow records an attempt for key unless the window is already full.
// A limit of zero or less allows everything.
func (rl *RateLimiter) Allow(key string) bool {
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

	fresh := freshAttempts(rl.history[key], windowStart)
	if len(fresh) >= rl.limit {
		rl.history[key] = fresh
		return false
	}
	rl.history[key] = append(fresh, now)
	return true
}

// sweep drops keys with no attempt inside the window.
func (rl *RateLimiter) sweep(windowStart time.Time) {
	for key, attempts := range rl.history {
		if len(freshAttempts(attempts, windowStart)) == 0 {
			delete(rl.history, key)
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

func (rl *RateLimiter) keys() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.history)
}
